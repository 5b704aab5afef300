// Package generation synthesizes training content from source text through
// the generative content provider. Each artifact type is one provider call;
// Generate fans the three calls out over the same excerpt and joins them.
package generation

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/provider"
	"github.com/JaimeStill/steward/internal/trainings"
	"github.com/JaimeStill/steward/pkg/formatting"
)

// Prompts resolves the instructions and output spec for a generation stage.
type Prompts interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

// Config holds generation budgets.
type Config struct {
	ExcerptChars      int
	MinLessons        int
	KnowledgeChecks   int
	Assessments       int
	MaxTokens         int
	CriticalMaxTokens int
}

// Content is the joined output of one Generate call.
type Content struct {
	Lessons         []trainings.Lesson   `json:"lessons"`
	KnowledgeChecks []trainings.Question `json:"knowledge_checks"`
	Assessments     []trainings.Question `json:"assessments"`
}

// Generator issues generation requests for lessons and questions.
type Generator struct {
	client  provider.Client
	prompts Prompts
	cfg     Config
	logger  *slog.Logger
}

// New creates a Generator. Zero-valued budgets fall back to defaults.
func New(client provider.Client, ps Prompts, cfg Config, logger *slog.Logger) *Generator {
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = 12000
	}
	if cfg.MinLessons <= 0 {
		cfg.MinLessons = 8
	}
	if cfg.KnowledgeChecks <= 0 {
		cfg.KnowledgeChecks = 5
	}
	if cfg.Assessments <= 0 {
		cfg.Assessments = 10
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.CriticalMaxTokens <= cfg.MaxTokens {
		cfg.CriticalMaxTokens = cfg.MaxTokens * 2
	}

	return &Generator{
		client:  client,
		prompts: ps,
		cfg:     cfg,
		logger:  logger.With("system", "generation"),
	}
}

// Generate runs the lesson, knowledge check, and assessment generators
// concurrently over the same excerpt and joins the results.
// The first hard failure cancels the remaining calls.
func (g *Generator) Generate(ctx context.Context, text, title string) (*Content, error) {
	var content Content
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		lessons, err := g.Lessons(ctx, text, title, 0)
		content.Lessons = lessons
		return err
	})

	eg.Go(func() error {
		questions, err := g.KnowledgeChecks(ctx, text, title)
		content.KnowledgeChecks = questions
		return err
	})

	eg.Go(func() error {
		questions, err := g.Assessments(ctx, text, title)
		content.Assessments = questions
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.Info(
		"content generated",
		"title", title,
		"lessons", len(content.Lessons),
		"knowledge_checks", len(content.KnowledgeChecks),
		"assessments", len(content.Assessments),
	)

	return &content, nil
}

// complete sends one request and returns the raw content.
// An empty provider response is reported as ok=false without an error.
func (g *Generator) complete(ctx context.Context, stage prompts.Stage, req provider.Request) (string, bool, error) {
	raw, err := g.client.Complete(ctx, req)
	if errors.Is(err, provider.ErrEmptyResponse) {
		g.logger.Warn("empty provider response", "stage", stage)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func parseList[T any](g *Generator, stage prompts.Stage, raw, field string) []T {
	items, err := formatting.ParseList[T](raw, field)
	if err != nil {
		g.logger.Warn("discarding malformed response", "stage", stage, "error", err)
		return []T{}
	}
	return items
}
