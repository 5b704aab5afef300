// Package trainings publishes and serves training modules. Each source
// document owns at most one module; publishing is an upsert keyed by the
// document and slugs are assigned once, on first creation.
package trainings

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifier"
)

const (
	baseMinutes      = 10
	minutesPerLesson = 15
)

// EstimatedMinutes is the completion estimate for a module with n lessons.
func EstimatedMinutes(n int) int {
	return baseMinutes + minutesPerLesson*n
}

// Training is a published training module.
type Training struct {
	ID               uuid.UUID           `json:"id"`
	DocumentID       *uuid.UUID          `json:"document_id"`
	Title            string              `json:"title"`
	Slug             string              `json:"slug"`
	Audience         classifier.Audience `json:"audience"`
	GroupID          *uuid.UUID          `json:"group_id"`
	Required         bool                `json:"required"`
	Published        bool                `json:"published"`
	Lessons          []Lesson            `json:"lessons"`
	KnowledgeChecks  []Question          `json:"knowledge_checks"`
	Assessments      []Question          `json:"assessments"`
	LessonCount      int                 `json:"lesson_count"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	PassingScore     int                 `json:"passing_score"`
	RewardWeight     int                 `json:"reward_weight"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// PublishCommand carries the generated content and classification for one document.
type PublishCommand struct {
	DocumentID      uuid.UUID           `json:"document_id" validate:"required"`
	Title           string              `json:"title" validate:"required,max=500"`
	Audience        classifier.Audience `json:"audience" validate:"required,oneof=all leader ministry"`
	GroupID         *uuid.UUID          `json:"group_id"`
	Required        bool                `json:"required"`
	Lessons         []Lesson            `json:"lessons"`
	KnowledgeChecks []Question          `json:"knowledge_checks"`
	Assessments     []Question          `json:"assessments"`
	PassingScore    int                 `json:"passing_score" validate:"min=0,max=100"`
	RewardWeight    int                 `json:"reward_weight" validate:"min=0"`
}

// PublishResult reports the stored module and whether this call created it.
type PublishResult struct {
	Training *Training `json:"training"`
	Created  bool      `json:"created"`
}
