package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for notification operations.
type System interface {
	Handler() *Handler

	// FanOut inserts one notification per active member of a.GroupID and
	// returns the number created.
	FanOut(ctx context.Context, a Announcement) (int, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Notification], error)

	MarkRead(ctx context.Context, id uuid.UUID) (*Notification, error)
}
