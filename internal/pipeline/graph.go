package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/analyses"
	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/extraction"
	"github.com/JaimeStill/steward/internal/generation"
	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/internal/trainings"
)

// State keys shared by the document graph nodes.
const (
	KeyDocument   = "document"
	KeyDecision   = "decision"
	KeyAnalysisID = "analysis_id"
	KeyText       = "text"
	KeyContent    = "content"
	KeyResult     = "result"
	KeyFailure    = "failure"
)

// run is the per-document graph:
//
//	extract -> generate -> publish -> close
//
// extract and generate branch straight to close when they record a failure.
// close is the only exit and always settles the analysis record.
func (p *Pipeline) run(ctx context.Context, s state.State) (state.State, error) {
	cfg := gaoconfig.DefaultGraphConfig("steward-generate")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return s, fmt.Errorf("build graph: %w", err)
	}

	nodes := []struct {
		name string
		node state.StateNode
	}{
		{"extract", p.extractNode()},
		{"generate", p.generateNode()},
		{"publish", p.publishNode()},
		{"close", p.closeNode()},
	}
	for _, n := range nodes {
		if err := graph.AddNode(n.name, n.node); err != nil {
			return s, fmt.Errorf("add node %s: %w", n.name, err)
		}
	}

	// extract and generate short-circuit to close on failure
	if err := graph.AddEdge("extract", "generate", state.Not(failed)); err != nil {
		return s, err
	}
	if err := graph.AddEdge("extract", "close", failed); err != nil {
		return s, err
	}
	if err := graph.AddEdge("generate", "publish", state.Not(failed)); err != nil {
		return s, err
	}
	if err := graph.AddEdge("generate", "close", failed); err != nil {
		return s, err
	}
	if err := graph.AddEdge("publish", "close", nil); err != nil {
		return s, err
	}

	if err := graph.SetEntryPoint("extract"); err != nil {
		return s, err
	}
	if err := graph.SetExitPoint("close"); err != nil {
		return s, err
	}

	return graph.Execute(ctx, s)
}

func failed(s state.State) bool {
	v, ok := s.Get(KeyFailure)
	if !ok {
		return false
	}
	reason, _ := v.(string)
	return reason != ""
}

func (p *Pipeline) extractNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := get[documents.Document](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		text, err := p.rt.Extractor.Extract(ctx, extraction.Source{
			StorageKey:  doc.StorageKey,
			ContentType: doc.ContentType,
			Filename:    doc.Filename,
		})
		if err != nil {
			return s.Set(KeyFailure, err.Error()), nil
		}

		if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < p.cfg.MinTextChars {
			reason := fmt.Sprintf("%v: %d characters, minimum %d", ErrInsufficientText, n, p.cfg.MinTextChars)
			return s.Set(KeyFailure, reason), nil
		}
		return s.Set(KeyText, text), nil
	})
}

func (p *Pipeline) generateNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := get[documents.Document](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("generate: %w", err)
		}
		text, err := get[string](s, KeyText)
		if err != nil {
			return s, fmt.Errorf("generate: %w", err)
		}

		content, err := p.rt.Generator.Generate(ctx, text, doc.Title)
		if err != nil {
			return s.Set(KeyFailure, fmt.Sprintf("generation: %v", err)), nil
		}
		return s.Set(KeyContent, content), nil
	})
}

// publishNode upserts the training and, on first creation, announces it to
// the owning group. Once the training is committed the rest of the run is
// detached from cancellation so the announcement is not lost.
func (p *Pipeline) publishNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		doc, err := get[documents.Document](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}
		decision, err := get[classifier.Decision](s, KeyDecision)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}
		content, err := get[*generation.Content](s, KeyContent)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}
		result, err := get[*DocumentResult](s, KeyResult)
		if err != nil {
			return s, fmt.Errorf("publish: %w", err)
		}

		published, err := p.rt.Trainings.Publish(ctx, trainings.PublishCommand{
			DocumentID:      doc.ID,
			Title:           doc.Title,
			Audience:        decision.Audience,
			GroupID:         doc.GroupID,
			Required:        decision.Required,
			Lessons:         content.Lessons,
			KnowledgeChecks: content.KnowledgeChecks,
			Assessments:     content.Assessments,
			PassingScore:    p.cfg.PassingScore,
			RewardWeight:    p.cfg.RewardWeight,
		})
		if err != nil {
			return s.Set(KeyFailure, fmt.Sprintf("publish: %v", err)), nil
		}

		t := published.Training
		result.TrainingID = &t.ID
		result.Slug = t.Slug
		result.Created = published.Created
		result.Lessons = len(content.Lessons)
		result.KnowledgeChecks = len(content.KnowledgeChecks)
		result.Assessments = len(content.Assessments)

		if published.Created && t.GroupID != nil {
			n, err := p.rt.Notifier.FanOut(context.WithoutCancel(ctx), notifications.Announcement{
				TrainingID: t.ID,
				GroupID:    *t.GroupID,
				Title:      t.Title,
			})
			if err != nil {
				p.logger.Error("notification fan-out failed", "training_id", t.ID, "error", err)
			}
			result.Notified = n
		}
		return s, nil
	})
}

// closeNode settles the analysis record. A failure recorded upstream marks it
// failed; otherwise it is completed. A run that reached publish is reported
// completed even when the record cannot be closed, since the training is live.
func (p *Pipeline) closeNode() state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		id, err := get[uuid.UUID](s, KeyAnalysisID)
		if err != nil {
			return s, fmt.Errorf("close: %w", err)
		}
		result, err := get[*DocumentResult](s, KeyResult)
		if err != nil {
			return s, fmt.Errorf("close: %w", err)
		}
		ctx = context.WithoutCancel(ctx)

		if failed(s) {
			reason, _ := get[string](s, KeyFailure)
			result.Status = StatusFailed
			result.Error = reason
			if _, err := p.rt.Analyses.MarkFailed(ctx, id, reason); err != nil {
				p.logger.Error("mark analysis failed", "analysis_id", id, "error", err)
			}
			return s, nil
		}

		doc, err := get[documents.Document](s, KeyDocument)
		if err != nil {
			return s, fmt.Errorf("close: %w", err)
		}
		text, _ := get[string](s, KeyText)
		content, err := get[*generation.Content](s, KeyContent)
		if err != nil {
			return s, fmt.Errorf("close: %w", err)
		}

		result.Status = StatusCompleted
		_, err = p.rt.Analyses.MarkCompleted(ctx, id, analyses.CompleteCommand{
			ExtractedText: text,
			Summary:       summarize(doc.Title, content),
			KeyTopics:     keyTopics(content.Lessons),
			Artifacts: analyses.Artifacts{
				Lessons:         result.Lessons,
				KnowledgeChecks: result.KnowledgeChecks,
				Assessments:     result.Assessments,
			},
		})
		if err != nil {
			result.Warning = fmt.Sprintf("complete analysis: %v", err)
			p.logger.Error("complete analysis failed", "analysis_id", id, "error", err)
		}
		return s, nil
	})
}

func get[T any](s state.State, key string) (T, error) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("missing %s in state", key)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s is %T, not %T", key, v, zero)
	}
	return t, nil
}
