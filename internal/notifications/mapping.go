package notifications

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "notifications", "n").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("training_id", "TrainingID").
	Project("kind", "Kind").
	Project("message", "Message").
	Project("created_at", "CreatedAt").
	Project("read_at", "ReadAt").
	ProjectExpr("(n.read_at IS NOT NULL)", "Read")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for notification queries.
type Filters struct {
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	TrainingID *uuid.UUID `json:"training_id,omitempty"`
	Kind       *Kind      `json:"kind,omitempty"`
	Read       *bool      `json:"read,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereEquals("TrainingID", f.TrainingID).
		WhereEquals("Kind", f.Kind).
		WhereEquals("Read", f.Read)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if u := values.Get("user_id"); u != "" {
		if id, err := uuid.Parse(u); err == nil {
			f.UserID = &id
		}
	}

	if t := values.Get("training_id"); t != "" {
		if id, err := uuid.Parse(t); err == nil {
			f.TrainingID = &id
		}
	}

	if k := values.Get("kind"); k != "" {
		kind := Kind(k)
		f.Kind = &kind
	}

	if r := values.Get("read"); r != "" {
		if v, err := strconv.ParseBool(r); err == nil {
			f.Read = &v
		}
	}

	return f
}

func scanNotification(s repository.Scanner) (Notification, error) {
	var n Notification
	err := s.Scan(
		&n.ID,
		&n.UserID,
		&n.TrainingID,
		&n.Kind,
		&n.Message,
		&n.CreatedAt,
		&n.ReadAt,
		&n.Read,
	)
	return n, err
}
