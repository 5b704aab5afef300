package provider

import "errors"

var (
	// ErrTransport indicates the call was cancelled, timed out, or throttled
	// out before the model answered.
	ErrTransport = errors.New("provider transport failure")
	// ErrStatus indicates the agent reported a failed exchange with the model.
	ErrStatus = errors.New("provider call failed")
	// ErrEmptyResponse indicates the model answered with no usable content,
	// either blank or undecodable. It is a soft failure.
	ErrEmptyResponse = errors.New("provider returned no content")
)
