package trainings

import (
	"errors"
	"net/http"
)

// Domain errors for training operations.
var (
	ErrNotFound     = errors.New("training not found")
	ErrDuplicate    = errors.New("training already exists")
	ErrInvalid      = errors.New("invalid training")
	ErrSlugConflict = errors.New("unable to assign a unique slug")
)

// MapHTTPStatus maps training domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrSlugConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
