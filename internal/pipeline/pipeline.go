// Package pipeline drives source documents through extraction, generation,
// and publishing, and sweeps published modules that fall below the lesson
// threshold. Documents are processed one at a time; a failure is confined to
// the document that caused it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/generation"
	"github.com/JaimeStill/steward/internal/trainings"
)

// Pipeline runs generation and repair over the configured collaborators.
type Pipeline struct {
	rt     *Runtime
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// New creates a Pipeline. Zero-valued thresholds fall back to defaults.
func New(rt *Runtime, cfg Config) *Pipeline {
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 100
	}
	if cfg.MinLessons <= 0 {
		cfg.MinLessons = 8
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &Pipeline{
		rt:       rt,
		cfg:      cfg,
		logger:   rt.Logger.With("system", "pipeline"),
		inflight: make(map[uuid.UUID]struct{}),
	}
}

// Handler returns the HTTP handler for pipeline triggers.
func (p *Pipeline) Handler() *Handler {
	return NewHandler(p, p.logger)
}

// GenerateDocument runs the full pipeline for one document regardless of
// its eligibility. Returned errors are limited to ErrDocumentNotFound,
// ErrInProgress, and lookup failures; run failures are reported in the result.
func (p *Pipeline) GenerateDocument(ctx context.Context, documentID uuid.UUID) (*DocumentResult, error) {
	doc, err := p.rt.Documents.Find(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("find document %s: %w", documentID, err)
	}

	return p.process(ctx, *doc)
}

// GenerateCore processes every eligible document whose title matches a core pattern.
func (p *Pipeline) GenerateCore(ctx context.Context) (*BatchReport, error) {
	return p.batch(ctx, "core", func(d documents.Document, dec classifier.Decision) bool {
		return dec.Eligible && dec.Core
	})
}

// GenerateRemaining processes every eligible document that has no training yet.
func (p *Pipeline) GenerateRemaining(ctx context.Context) (*BatchReport, error) {
	return p.batch(ctx, "remaining", func(d documents.Document, dec classifier.Decision) bool {
		return dec.Eligible && d.TrainingID == nil
	})
}

func (p *Pipeline) batch(
	ctx context.Context,
	mode string,
	selectFn func(documents.Document, classifier.Decision) bool,
) (*BatchReport, error) {
	docs, err := p.rt.Documents.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var selected []documents.Document
	for _, d := range docs {
		if selectFn(d, p.classify(d)) {
			selected = append(selected, d)
		}
	}

	p.logger.Info("batch started", "mode", mode, "documents", len(docs), "selected", len(selected))

	report := &BatchReport{Results: make([]DocumentResult, 0, len(selected))}
	for _, d := range selected {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := p.process(ctx, d)
		if err != nil {
			result = &DocumentResult{
				DocumentID: d.ID,
				Title:      d.Title,
				Status:     StatusFailed,
				Error:      err.Error(),
			}
		}
		report.add(*result)
	}

	p.logger.Info(
		"batch finished",
		"mode", mode,
		"total", report.Summary.Total,
		"successful", report.Summary.Successful,
		"failed", report.Summary.Failed,
	)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, doc documents.Document) (*DocumentResult, error) {
	if !p.acquire(doc.ID) {
		return nil, fmt.Errorf("%w: %s", ErrInProgress, doc.ID)
	}
	defer p.release(doc.ID)

	logger := p.logger.With("document_id", doc.ID, "title", doc.Title)
	decision := p.classify(doc)

	result := &DocumentResult{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Status:     StatusFailed,
		Eligible:   decision.Eligible,
	}

	a, err := p.rt.Analyses.OpenForProcessing(ctx, doc.ID)
	if err != nil {
		result.Error = fmt.Sprintf("open analysis: %v", err)
		logger.Error("open analysis failed", "error", err)
		return result, nil
	}
	result.AnalysisID = &a.ID

	initial := state.New(nil).
		Set(KeyDocument, doc).
		Set(KeyDecision, decision).
		Set(KeyAnalysisID, a.ID).
		Set(KeyResult, result)

	if _, err := p.run(ctx, initial); err != nil {
		logger.Error("document graph failed", "error", err)
		switch {
		case result.Status == StatusCompleted:
		case result.TrainingID != nil:
			// published before the graph stopped; the training stands
			result.Status = StatusCompleted
			result.Warning = err.Error()
		default:
			result.Status = StatusFailed
			result.Error = err.Error()
			if _, err := p.rt.Analyses.MarkFailed(context.WithoutCancel(ctx), a.ID, result.Error); err != nil {
				logger.Error("mark analysis failed", "error", err)
			}
		}
		return result, nil
	}

	if result.Succeeded() {
		logger.Info(
			"document processed",
			"training_id", result.TrainingID,
			"slug", result.Slug,
			"created", result.Created,
			"lessons", result.Lessons,
		)
	} else {
		logger.Warn("generation failed", "reason", result.Error)
	}
	return result, nil
}

func (p *Pipeline) classify(d documents.Document) classifier.Decision {
	return p.rt.Classifier.Classify(d.Title, d.Category, d.RequiredByDefault)
}

func (p *Pipeline) acquire(id uuid.UUID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[id]; busy {
		return false
	}
	p.inflight[id] = struct{}{}
	return true
}

func (p *Pipeline) release(id uuid.UUID) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.mu.Unlock()
}

func summarize(title string, c *generation.Content) string {
	return fmt.Sprintf(
		"Generated %d lessons, %d knowledge checks, and %d assessment questions from %s.",
		len(c.Lessons), len(c.KnowledgeChecks), len(c.Assessments), title,
	)
}

func keyTopics(lessons []trainings.Lesson) []string {
	topics := make([]string, 0, len(lessons))
	for _, l := range lessons {
		if l.Title != "" {
			topics = append(topics, l.Title)
		}
	}
	return topics
}
