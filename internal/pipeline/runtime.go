package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/analyses"
	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/extraction"
	"github.com/JaimeStill/steward/internal/generation"
	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/internal/trainings"
)

// Documents is the read side of the document store.
type Documents interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	All(ctx context.Context) ([]documents.Document, error)
}

// Analyses opens and closes per-document analysis records.
type Analyses interface {
	OpenForProcessing(ctx context.Context, documentID uuid.UUID) (*analyses.Analysis, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, cmd analyses.CompleteCommand) (*analyses.Analysis, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*analyses.Analysis, error)
}

// Trainings publishes and repairs training modules.
type Trainings interface {
	Publish(ctx context.Context, cmd trainings.PublishCommand) (*trainings.PublishResult, error)
	ReplaceLessons(ctx context.Context, id uuid.UUID, lessons []trainings.Lesson) (*trainings.Training, error)
	ListPublished(ctx context.Context) ([]trainings.Training, error)
}

// Notifier announces newly created trainings to their group.
type Notifier interface {
	FanOut(ctx context.Context, a notifications.Announcement) (int, error)
}

// Extractor converts a stored source document to plain text.
type Extractor interface {
	Extract(ctx context.Context, src extraction.Source) (string, error)
}

// Generator produces training content from source text.
type Generator interface {
	Generate(ctx context.Context, text, title string) (*generation.Content, error)
	Lessons(ctx context.Context, text, title string, level int) ([]trainings.Lesson, error)
}

// Runtime bundles the collaborators the pipeline drives.
// It is constructed by higher-level composition code from the domain systems.
type Runtime struct {
	Documents  Documents
	Analyses   Analyses
	Trainings  Trainings
	Notifier   Notifier
	Extractor  Extractor
	Generator  Generator
	Classifier classifier.Classifier
	Logger     *slog.Logger
}

// Config holds the quality thresholds and publishing defaults.
type Config struct {
	MinTextChars int
	MinLessons   int
	MaxAttempts  int
	PassingScore int
	RewardWeight int
}
