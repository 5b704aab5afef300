package documents

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("title", "Title").
	Project("category", "Category").
	Project("group_id", "GroupID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("required_by_default", "RequiredByDefault").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	LeftJoin("public", "trainings", "t", "t.document_id = d.id").
	ProjectFrom("t", "id", "TrainingID").
	LeftJoin("public", "analyses", "a", "a.document_id = d.id").
	ProjectFrom("a", "status", "AnalysisStatus")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Category, GroupID, ContentType, Required, and
// AnalysisStatus use exact matching. Title uses case-insensitive contains matching.
type Filters struct {
	Title          *string              `json:"title,omitempty"`
	Category       *classifier.Category `json:"category,omitempty"`
	GroupID        *uuid.UUID           `json:"group_id,omitempty"`
	ContentType    *string              `json:"content_type,omitempty"`
	Required       *bool                `json:"required_by_default,omitempty"`
	AnalysisStatus *string              `json:"analysis_status,omitempty"`
	// Untrained selects documents with (false) or without (true) a published training.
	Untrained *bool `json:"untrained,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Title", f.Title).
		WhereEquals("Category", f.Category).
		WhereEquals("GroupID", f.GroupID).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("RequiredByDefault", f.Required).
		WhereEquals("AnalysisStatus", f.AnalysisStatus).
		WhereNull("TrainingID", f.Untrained)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if c := values.Get("category"); c != "" {
		category := classifier.Category(c)
		f.Category = &category
	}

	if g := values.Get("group_id"); g != "" {
		if id, err := uuid.Parse(g); err == nil {
			f.GroupID = &id
		}
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if rq := values.Get("required_by_default"); rq != "" {
		if v, err := strconv.ParseBool(rq); err == nil {
			f.Required = &v
		}
	}

	if s := values.Get("analysis_status"); s != "" {
		f.AnalysisStatus = &s
	}

	if u := values.Get("untrained"); u != "" {
		if v, err := strconv.ParseBool(u); err == nil {
			f.Untrained = &v
		}
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Title,
		&d.Category,
		&d.GroupID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.StorageKey,
		&d.RequiredByDefault,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.TrainingID,
		&d.AnalysisStatus,
	)
	return d, err
}
