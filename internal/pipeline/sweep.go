package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/extraction"
	"github.com/JaimeStill/steward/internal/trainings"
)

// Regenerate sweeps published modules below the lesson threshold and
// regenerates their lessons with escalating enforcement. The best attempt is
// kept only when it improves on the stored lessons. Nothing is deleted.
func (p *Pipeline) Regenerate(ctx context.Context) (*SweepReport, error) {
	published, err := p.rt.Trainings.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published trainings: %w", err)
	}

	candidates := p.belowThreshold(published)
	report := &SweepReport{
		Before:  len(candidates),
		Results: make([]SweepResult, 0, len(candidates)),
	}

	p.logger.Info("sweep started", "published", len(published), "below_threshold", len(candidates))

	for _, t := range candidates {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.add(p.repair(ctx, t))
	}

	report.After = report.Summary.StillBelow + report.Summary.Unfixable

	p.logger.Info(
		"sweep finished",
		"total", report.Summary.Total,
		"fixed", report.Summary.Fixed,
		"still_below", report.Summary.StillBelow,
		"unfixable", report.Summary.Unfixable,
	)
	return report, nil
}

// belowThreshold selects the gated modules short of the lesson minimum.
// Modules are gated when their audience is all or leader, or their title
// matches a core pattern.
func (p *Pipeline) belowThreshold(all []trainings.Training) []trainings.Training {
	seen := make(map[uuid.UUID]bool, len(all))
	out := make([]trainings.Training, 0)

	for _, t := range all {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true

		if len(t.Lessons) >= p.cfg.MinLessons {
			continue
		}
		if !t.Audience.Gated() && !p.rt.Classifier.IsCore(t.Title) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (p *Pipeline) repair(ctx context.Context, t trainings.Training) SweepResult {
	logger := p.logger.With("training_id", t.ID, "title", t.Title)

	result := SweepResult{
		TrainingID: t.ID,
		Title:      t.Title,
		Before:     len(t.Lessons),
		After:      len(t.Lessons),
		Attempts:   make([]Attempt, 0, p.cfg.MaxAttempts),
		Outcome:    OutcomeUnfixable,
	}

	unfixable := func(reason string) SweepResult {
		result.Error = reason
		logger.Warn("module unfixable", "reason", reason)
		return result
	}

	if t.DocumentID == nil {
		return unfixable(ErrNoSource.Error())
	}

	if !p.acquire(*t.DocumentID) {
		return unfixable(ErrInProgress.Error())
	}
	defer p.release(*t.DocumentID)

	doc, err := p.rt.Documents.Find(ctx, *t.DocumentID)
	if err != nil {
		return unfixable(fmt.Sprintf("find document: %v", err))
	}

	text, err := p.rt.Extractor.Extract(ctx, extraction.Source{
		StorageKey:  doc.StorageKey,
		ContentType: doc.ContentType,
		Filename:    doc.Filename,
	})
	if err != nil {
		return unfixable(err.Error())
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < p.cfg.MinTextChars {
		return unfixable(fmt.Sprintf("%v: %d characters, minimum %d", ErrInsufficientText, n, p.cfg.MinTextChars))
	}

	var best []trainings.Lesson
	for i := range p.cfg.MaxAttempts {
		lessons, err := p.rt.Generator.Lessons(ctx, text, t.Title, i)

		attempt := Attempt{Index: i, Level: i, Lessons: len(lessons)}
		if err != nil {
			attempt.Error = err.Error()
		}
		result.Attempts = append(result.Attempts, attempt)

		logger.Info("lesson attempt", "attempt", i, "lessons", len(lessons), "error", attempt.Error)

		if len(lessons) > len(best) {
			best = lessons
		}
		if len(best) >= p.cfg.MinLessons {
			break
		}
	}

	if len(best) > len(t.Lessons) {
		updated, err := p.rt.Trainings.ReplaceLessons(ctx, t.ID, best)
		if err != nil {
			result.Outcome = OutcomeStillBelow
			result.Error = fmt.Sprintf("replace lessons: %v", err)
			logger.Error("replace lessons failed", "error", err)
			return result
		}
		result.After = len(updated.Lessons)
	}

	if result.After >= p.cfg.MinLessons {
		result.Outcome = OutcomeFixed
	} else {
		result.Outcome = OutcomeStillBelow
	}

	logger.Info("module repaired", "before", result.Before, "after", result.After, "outcome", result.Outcome)
	return result
}
