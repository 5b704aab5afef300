package pipeline

import (
	"errors"
	"net/http"
)

var (
	// ErrInProgress indicates another run for the same document has not finished.
	ErrInProgress = errors.New("generation already in progress for document")
	// ErrDocumentNotFound indicates the requested source document does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInsufficientText indicates the extracted text is below the usable minimum.
	ErrInsufficientText = errors.New("insufficient text extracted")
	// ErrNoSource indicates a training module cannot be regenerated because
	// it is not linked to a source document.
	ErrNoSource = errors.New("training has no source document")
	// ErrInvalidID indicates a malformed document identifier in a request.
	ErrInvalidID = errors.New("invalid document id")
)

// MapHTTPStatus maps pipeline errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrDocumentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInProgress):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
