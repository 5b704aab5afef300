// Package analyses tracks the extraction and generation state of each
// source document. Every document has at most one analysis record, which is
// reopened in the processing state by every run and always resolves to
// completed or failed.
package analyses

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status is the state of an analysis record.
type Status string

// Analysis states.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var statuses = []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed}

// ParseStatus validates s as a known analysis status.
func ParseStatus(s string) (Status, error) {
	v := Status(s)
	if !slices.Contains(statuses, v) {
		return "", ErrInvalidStatus
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Artifacts counts the generated items per artifact type.
type Artifacts struct {
	Lessons         int `json:"lessons"`
	KnowledgeChecks int `json:"knowledge_checks"`
	Assessments     int `json:"assessments"`
}

// Analysis is the per-document tracking record.
type Analysis struct {
	ID            uuid.UUID  `json:"id"`
	DocumentID    uuid.UUID  `json:"document_id"`
	Status        Status     `json:"status"`
	ExtractedText *string    `json:"extracted_text,omitempty"`
	Summary       *string    `json:"summary"`
	KeyTopics     []string   `json:"key_topics"`
	Artifacts     Artifacts  `json:"artifacts"`
	Error         *string    `json:"error"`
	GeneratedAt   *time.Time `json:"generated_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CompleteCommand carries the content persisted when a run succeeds.
type CompleteCommand struct {
	ExtractedText string
	Summary       string
	KeyTopics     []string
	Artifacts     Artifacts
}
