// Package documents implements the source document domain for Steward.
// It provides types, data access, and HTTP handlers for manual upload,
// metadata management, and blob storage integration.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifier"
)

// Document represents an uploaded manual with its metadata, blob storage
// reference, and the state of any generated training.
type Document struct {
	ID                uuid.UUID           `json:"id"`
	Title             string              `json:"title"`
	Category          classifier.Category `json:"category"`
	GroupID           *uuid.UUID          `json:"group_id"`
	Filename          string              `json:"filename"`
	ContentType       string              `json:"content_type"`
	SizeBytes         int64               `json:"size_bytes"`
	PageCount         *int                `json:"page_count"`
	StorageKey        string              `json:"storage_key"`
	RequiredByDefault bool                `json:"required_by_default"`
	UploadedAt        time.Time           `json:"uploaded_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
	TrainingID        *uuid.UUID          `json:"training_id"`
	AnalysisStatus    *string             `json:"analysis_status"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is extracted by the handler via
// pdfcpu for PDF uploads; nil values are stored as NULL.
type CreateCommand struct {
	Data              []byte              `validate:"required"`
	Filename          string              `validate:"required"`
	ContentType       string              `validate:"required"`
	Title             string              `validate:"required,max=300"`
	Category          classifier.Category `validate:"required,oneof=resource ministry_manual leadership_training"`
	GroupID           *uuid.UUID
	RequiredByDefault bool
	PageCount         *int
}

// UpdateCommand carries editable document metadata.
type UpdateCommand struct {
	Title             string              `json:"title" validate:"required,max=300"`
	Category          classifier.Category `json:"category" validate:"required,oneof=resource ministry_manual leadership_training"`
	GroupID           *uuid.UUID          `json:"group_id"`
	RequiredByDefault bool                `json:"required_by_default"`
}
