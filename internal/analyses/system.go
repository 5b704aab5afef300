package analyses

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System defines the public contract for analysis record operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Analysis], error)

	Find(ctx context.Context, id uuid.UUID) (*Analysis, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Analysis, error)

	// OpenForProcessing inserts or reopens the record for documentID in the
	// processing state, clearing any prior error.
	OpenForProcessing(ctx context.Context, documentID uuid.UUID) (*Analysis, error)
	// MarkCompleted stores the generated content and closes a processing record.
	MarkCompleted(ctx context.Context, id uuid.UUID, cmd CompleteCommand) (*Analysis, error)
	// MarkFailed stores reason and closes a processing record, leaving prior content untouched.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*Analysis, error)
}
