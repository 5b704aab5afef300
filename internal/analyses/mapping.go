package analyses

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "analyses", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("status", "Status").
	Project("extracted_text", "ExtractedText").
	Project("summary", "Summary").
	Project("key_topics", "KeyTopics").
	Project("artifacts", "Artifacts").
	Project("error", "Error").
	Project("generated_at", "GeneratedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for analysis queries.
type Filters struct {
	Status     *Status    `json:"status,omitempty"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentID", f.DocumentID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown statuses and malformed ids are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		if status, err := ParseStatus(s); err == nil {
			f.Status = &status
		}
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	return f
}

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a         Analysis
		topics    []byte
		artifacts []byte
	)

	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.Status,
		&a.ExtractedText,
		&a.Summary,
		&topics,
		&artifacts,
		&a.Error,
		&a.GeneratedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return a, err
	}

	a.KeyTopics = []string{}
	if err := repository.UnmarshalJSON(topics, &a.KeyTopics, "key_topics"); err != nil {
		return a, err
	}
	if err := repository.UnmarshalJSON(artifacts, &a.Artifacts, "artifacts"); err != nil {
		return a, err
	}
	return a, nil
}
