// Package prompts owns the instructions sent to the provider for each
// generation stage. Built-in defaults can be replaced by a named override
// stored in the database; at most one override per stage is active.
package prompts

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is a stored instruction override.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Command is the writable part of a Prompt, used for both create and update.
type Command struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Stage        Stage   `json:"stage" validate:"required"`
	Instructions string  `json:"instructions" validate:"required"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
}
