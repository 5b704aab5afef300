// Package notifications fans new training announcements out to the active
// members of the owning group.
package notifications

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes informational notices from actionable assignments.
type Kind string

const (
	KindTrainingGenerated Kind = "training_generated"
	KindTrainingAssigned  Kind = "training_assigned"
)

// Notification is a per-user message about a training module.
type Notification struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TrainingID uuid.UUID  `json:"training_id"`
	Kind       Kind       `json:"kind"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at"`
	Read       bool       `json:"read"`
}

// Member is an active group membership row.
type Member struct {
	UserID uuid.UUID
	Leader bool
}

// Announcement describes a newly created training owned by a group.
type Announcement struct {
	TrainingID uuid.UUID
	GroupID    uuid.UUID
	Title      string
}

// Compose builds one notification per member. Leaders receive an
// informational notice; everyone else receives an assignment.
func Compose(a Announcement, members []Member) []Notification {
	out := make([]Notification, 0, len(members))
	for _, m := range members {
		n := Notification{
			UserID:     m.UserID,
			TrainingID: a.TrainingID,
		}
		if m.Leader {
			n.Kind = KindTrainingGenerated
			n.Message = fmt.Sprintf("New training generated: %s", a.Title)
		} else {
			n.Kind = KindTrainingAssigned
			n.Message = fmt.Sprintf("New required training assigned: %s", a.Title)
		}
		out = append(out, n)
	}
	return out
}
