package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/steward/internal/prompts"
)

// ComposePrompt builds a system prompt by combining the tunable instructions
// and the immutable output specification for a generation stage.
// A non-empty demand is appended as a final constraint block.
func ComposePrompt(
	ctx context.Context,
	ps Prompts,
	stage prompts.Stage,
	demand string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	return prompts.Compose(instructions, spec, demand), nil
}

func composeInput(title, excerpt string) string {
	var sb strings.Builder
	sb.WriteString("Document title: ")
	sb.WriteString(title)
	sb.WriteString("\n\nSource excerpt:\n\n")
	sb.WriteString(excerpt)
	return sb.String()
}

// lessonDemand phrases the minimum lesson count for an enforcement level.
// 0 requests, 1 mandates, 2 and above escalate to a critical demand.
func lessonDemand(minLessons, level int) string {
	switch {
	case level <= 0:
		return fmt.Sprintf("Produce at least %d lessons.", minLessons)
	case level == 1:
		return fmt.Sprintf(
			"You MUST produce at least %d lessons. Responses with fewer than %d lessons are rejected.",
			minLessons, minLessons,
		)
	default:
		return fmt.Sprintf(
			"CRITICAL: previous attempts returned fewer than the required %d lessons. "+
				"Return no fewer than %d lessons. If the material seems thin, split broad topics "+
				"into narrower lessons and cover each procedure, responsibility, and boundary on its own.",
			minLessons, minLessons,
		)
	}
}

func questionDemand(count int) string {
	return fmt.Sprintf("Produce exactly %d questions.", count)
}
