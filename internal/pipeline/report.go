package pipeline

import "github.com/google/uuid"

// Outcome of one document run.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Outcome of one sweep entry.
const (
	OutcomeFixed      = "fixed"
	OutcomeStillBelow = "still_below"
	OutcomeUnfixable  = "unfixable"
)

// DocumentResult reports the run for a single document.
type DocumentResult struct {
	DocumentID      uuid.UUID  `json:"document_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	Eligible        bool       `json:"eligible"`
	AnalysisID      *uuid.UUID `json:"analysis_id,omitempty"`
	TrainingID      *uuid.UUID `json:"training_id,omitempty"`
	Slug            string     `json:"slug,omitempty"`
	Created         bool       `json:"created"`
	Lessons         int        `json:"lessons"`
	KnowledgeChecks int        `json:"knowledge_checks"`
	Assessments     int        `json:"assessments"`
	Notified        int        `json:"notified"`
	Error           string     `json:"error,omitempty"`
	Warning         string     `json:"warning,omitempty"`
}

// Succeeded reports whether the document was published.
func (r DocumentResult) Succeeded() bool {
	return r.Status == StatusCompleted
}

// BatchSummary totals a batch run.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchReport carries the per-document outcomes of a batch run.
type BatchReport struct {
	Results []DocumentResult `json:"results"`
	Summary BatchSummary     `json:"summary"`
}

func (b *BatchReport) add(r DocumentResult) {
	b.Results = append(b.Results, r)
	b.Summary.Total++
	if r.Succeeded() {
		b.Summary.Successful++
	} else {
		b.Summary.Failed++
	}
}

// Attempt records one lesson regeneration.
type Attempt struct {
	Index   int    `json:"index"`
	Level   int    `json:"level"`
	Lessons int    `json:"lessons"`
	Error   string `json:"error,omitempty"`
}

// SweepResult reports the repair of one training module.
type SweepResult struct {
	TrainingID uuid.UUID `json:"training_id"`
	Title      string    `json:"title"`
	Before     int       `json:"before"`
	After      int       `json:"after"`
	Attempts   []Attempt `json:"attempts"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
}

// SweepSummary totals a sweep.
type SweepSummary struct {
	Total      int `json:"total"`
	Fixed      int `json:"fixed"`
	StillBelow int `json:"still_below"`
	Unfixable  int `json:"unfixable"`
}

// SweepReport carries the per-module outcomes of a sweep. Before and After
// count the gated modules below the lesson threshold.
type SweepReport struct {
	Before  int           `json:"before"`
	After   int           `json:"after"`
	Results []SweepResult `json:"results"`
	Summary SweepSummary  `json:"summary"`
}

func (s *SweepReport) add(r SweepResult) {
	s.Results = append(s.Results, r)
	s.Summary.Total++
	switch r.Outcome {
	case OutcomeFixed:
		s.Summary.Fixed++
	case OutcomeStillBelow:
		s.Summary.StillBelow++
	default:
		s.Summary.Unfixable++
	}
}
