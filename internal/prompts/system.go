package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// System is the prompt override store plus resolution of the effective
// instructions for each stage.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error)
	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd Command) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd Command) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// Instructions returns the active override for stage, falling back to the
	// built-in default.
	Instructions(ctx context.Context, stage Stage) (string, error)
	// Spec returns the fixed output specification for stage.
	Spec(ctx context.Context, stage Stage) (string, error)
	// Preview returns the system prompt the generator would send for stage,
	// without the per-run lesson or question count demand.
	Preview(ctx context.Context, stage Stage) (string, error)
}
