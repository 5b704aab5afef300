package trainings

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for training module operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Training], error)

	// ListPublished returns every published module, oldest first.
	ListPublished(ctx context.Context) ([]Training, error)

	Find(ctx context.Context, id uuid.UUID) (*Training, error)
	FindBySlug(ctx context.Context, slug string) (*Training, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Training, error)

	// Publish creates or updates the module owned by cmd.DocumentID.
	// The slug of an existing module is never changed.
	Publish(ctx context.Context, cmd PublishCommand) (*PublishResult, error)

	// ReplaceLessons overwrites the lesson list and recomputes the estimate.
	ReplaceLessons(ctx context.Context, id uuid.UUID, lessons []Lesson) (*Training, error)
}
