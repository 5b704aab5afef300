package api

import (
	"github.com/JaimeStill/steward/internal/analyses"
	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/extraction"
	"github.com/JaimeStill/steward/internal/generation"
	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/internal/pipeline"
	"github.com/JaimeStill/steward/internal/prompts"
	"github.com/JaimeStill/steward/internal/trainings"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses      analyses.System
	Documents     documents.System
	Notifications notifications.System
	Prompts       prompts.System
	Trainings     trainings.System
	Pipeline      *pipeline.Pipeline
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)
	promptsSystem := prompts.New(db, runtime.Logger, runtime.Pagination)
	analysesSystem := analyses.New(db, runtime.Logger, runtime.Pagination, runtime.Training.StoredTextChars)
	trainingsSystem := trainings.New(db, runtime.Logger, runtime.Pagination)
	notificationsSystem := notifications.New(db, runtime.Logger, runtime.Pagination)

	generator := generation.New(
		runtime.Provider,
		promptsSystem,
		generation.Config{
			ExcerptChars: runtime.Training.ExcerptChars,
			MinLessons:   runtime.Training.MinLessons,
		},
		runtime.Logger,
	)

	extractor := extraction.New(&runtime.Extraction, runtime.Storage, nil, runtime.Logger)

	pipelineSystem := pipeline.New(
		&pipeline.Runtime{
			Documents:  docsSystem,
			Analyses:   analysesSystem,
			Trainings:  trainingsSystem,
			Notifier:   notificationsSystem,
			Extractor:  extractor,
			Generator:  generator,
			Classifier: classifier.New(classifier.DefaultTable()),
			Logger:     runtime.Logger,
		},
		pipeline.Config{
			MinTextChars: runtime.Training.MinTextChars,
			MinLessons:   runtime.Training.MinLessons,
			MaxAttempts:  runtime.Training.MaxAttempts,
			PassingScore: runtime.Training.PassingScore,
			RewardWeight: runtime.Training.RewardWeight,
		},
	)

	return &Domain{
		Analyses:      analysesSystem,
		Documents:     docsSystem,
		Notifications: notificationsSystem,
		Prompts:       promptsSystem,
		Trainings:     trainingsSystem,
		Pipeline:      pipelineSystem,
	}
}
