package generation

import (
	"context"
	"fmt"

	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/provider"
	"github.com/JaimeStill/steward/internal/trainings"
)

// KnowledgeChecks generates short comprehension questions from text.
func (g *Generator) KnowledgeChecks(ctx context.Context, text, title string) ([]trainings.Question, error) {
	return g.questions(ctx, prompts.StageKnowledgeCheck, text, title, g.cfg.KnowledgeChecks)
}

// Assessments generates scenario-based assessment questions from text.
func (g *Generator) Assessments(ctx context.Context, text, title string) ([]trainings.Question, error) {
	return g.questions(ctx, prompts.StageAssessment, text, title, g.cfg.Assessments)
}

func (g *Generator) questions(
	ctx context.Context,
	stage prompts.Stage,
	text, title string,
	count int,
) ([]trainings.Question, error) {
	system, err := ComposePrompt(ctx, g.prompts, stage, questionDemand(count))
	if err != nil {
		return nil, err
	}

	raw, ok, err := g.complete(ctx, stage, provider.Request{
		System:    system,
		Input:     composeInput(title, provider.Excerpt(text, g.cfg.ExcerptChars)),
		MaxTokens: g.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", stage, err)
	}
	if !ok {
		return []trainings.Question{}, nil
	}

	parsed := parseList[trainings.Question](g, stage, raw, "questions")

	valid := make([]trainings.Question, 0, len(parsed))
	for _, q := range parsed {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if dropped := len(parsed) - len(valid); dropped > 0 {
		g.logger.Warn("dropped malformed questions", "stage", stage, "dropped", dropped)
	}

	return valid, nil
}
