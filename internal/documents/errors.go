package documents

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicate    = errors.New("document already exists")
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
	ErrInvalidFile  = errors.New("invalid file")
	ErrInvalid      = errors.New("invalid document")
)

var statuses = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrDuplicate, http.StatusConflict},
	{ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{ErrInvalidFile, http.StatusBadRequest},
	{ErrInvalid, http.StatusBadRequest},
}

// MapHTTPStatus returns the status for the first sentinel err wraps, or 500.
func MapHTTPStatus(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
