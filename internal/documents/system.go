package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System stores source manuals: the blob itself, its metadata row, and the
// extracted page count used to size training generation.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	// All returns every document, oldest first.
	All(ctx context.Context) ([]Document, error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)

	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
