package extraction

import "errors"

var (
	// ErrNotFound indicates the source blob does not exist.
	ErrNotFound = errors.New("source file not found")
	// ErrExtractFailed indicates the source could not be converted to text.
	ErrExtractFailed = errors.New("text extraction failed")
	// ErrUnsupported indicates the source content type has no extractor.
	ErrUnsupported = errors.New("unsupported content type")
)
