package trainings

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "trainings", "t").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("title", "Title").
	Project("slug", "Slug").
	Project("audience", "Audience").
	Project("group_id", "GroupID").
	Project("required", "Required").
	Project("published", "Published").
	Project("lessons", "Lessons").
	Project("knowledge_checks", "KnowledgeChecks").
	Project("assessments", "Assessments").
	ProjectExpr("jsonb_array_length(t.lessons)", "LessonCount").
	Project("estimated_minutes", "EstimatedMinutes").
	Project("passing_score", "PassingScore").
	Project("reward_weight", "RewardWeight").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "Title",
	Descending: false,
}

// Filters contains optional filtering criteria for training queries.
// MaxLessons matches modules with fewer lessons than the given value.
type Filters struct {
	Title      *string              `json:"title,omitempty"`
	Audience   *classifier.Audience `json:"audience,omitempty"`
	GroupID    *uuid.UUID           `json:"group_id,omitempty"`
	Required   *bool                `json:"required,omitempty"`
	Published  *bool                `json:"published,omitempty"`
	MaxLessons *int                 `json:"max_lessons,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Title", f.Title).
		WhereEquals("Audience", f.Audience).
		WhereEquals("GroupID", f.GroupID).
		WhereEquals("Required", f.Required).
		WhereEquals("Published", f.Published).
		WhereCompare("LessonCount", "<", f.MaxLessons)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if t := values.Get("title"); t != "" {
		f.Title = &t
	}

	if a := values.Get("audience"); a != "" {
		audience := classifier.Audience(a)
		f.Audience = &audience
	}

	if g := values.Get("group_id"); g != "" {
		if id, err := uuid.Parse(g); err == nil {
			f.GroupID = &id
		}
	}

	if rq := values.Get("required"); rq != "" {
		if v, err := strconv.ParseBool(rq); err == nil {
			f.Required = &v
		}
	}

	if p := values.Get("published"); p != "" {
		if v, err := strconv.ParseBool(p); err == nil {
			f.Published = &v
		}
	}

	if m := values.Get("max_lessons"); m != "" {
		if v, err := strconv.Atoi(m); err == nil {
			f.MaxLessons = &v
		}
	}

	return f
}

func scanTraining(s repository.Scanner) (Training, error) {
	var (
		t          Training
		lessons    []byte
		checks     []byte
		assessment []byte
	)

	err := s.Scan(
		&t.ID,
		&t.DocumentID,
		&t.Title,
		&t.Slug,
		&t.Audience,
		&t.GroupID,
		&t.Required,
		&t.Published,
		&lessons,
		&checks,
		&assessment,
		&t.LessonCount,
		&t.EstimatedMinutes,
		&t.PassingScore,
		&t.RewardWeight,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	t.Lessons = []Lesson{}
	t.KnowledgeChecks = []Question{}
	t.Assessments = []Question{}

	if err := repository.UnmarshalJSON(lessons, &t.Lessons, "lessons"); err != nil {
		return t, err
	}
	if err := repository.UnmarshalJSON(checks, &t.KnowledgeChecks, "knowledge_checks"); err != nil {
		return t, err
	}
	if err := repository.UnmarshalJSON(assessment, &t.Assessments, "assessments"); err != nil {
		return t, err
	}
	return t, nil
}
