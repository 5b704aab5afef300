package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/provider"
	"github.com/JaimeStill/steward/internal/trainings"
)

// Lessons generates an ordered lesson list from text.
// level escalates the minimum-count demand; see lessonDemand.
// Malformed responses yield an empty list, never an error.
func (g *Generator) Lessons(ctx context.Context, text, title string, level int) ([]trainings.Lesson, error) {
	system, err := ComposePrompt(ctx, g.prompts, prompts.StageLessons, lessonDemand(g.cfg.MinLessons, level))
	if err != nil {
		return nil, err
	}

	maxTokens := g.cfg.MaxTokens
	if level >= 2 {
		maxTokens = g.cfg.CriticalMaxTokens
	}

	raw, ok, err := g.complete(ctx, prompts.StageLessons, provider.Request{
		System:    system,
		Input:     composeInput(title, provider.Excerpt(text, g.cfg.ExcerptChars)),
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate lessons: %w", err)
	}
	if !ok {
		return []trainings.Lesson{}, nil
	}

	lessons := normalizeLessons(parseList[trainings.Lesson](g, prompts.StageLessons, raw, "lessons"))

	g.logger.Debug("lessons generated", "title", title, "level", level, "count", len(lessons))
	return lessons, nil
}

// normalizeLessons drops lessons without a title or content,
// renumbers the rest from 1, and assigns fresh ids.
func normalizeLessons(in []trainings.Lesson) []trainings.Lesson {
	out := make([]trainings.Lesson, 0, len(in))
	for _, l := range in {
		l.Title = strings.TrimSpace(l.Title)
		l.Content = strings.TrimSpace(l.Content)
		if l.Title == "" || l.Content == "" {
			continue
		}
		l.ID = uuid.New()
		l.Number = len(out) + 1
		out = append(out, l)
	}
	return out
}
