package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/analyses"
	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/internal/extraction"
	"github.com/JaimeStill/steward/internal/generation"
	"github.com/JaimeStill/steward/internal/notifications"
	"github.com/JaimeStill/steward/internal/pipeline"
	"github.com/JaimeStill/steward/internal/trainings"
)

var manualText = strings.Repeat("Volunteers check in at the welcome desk before every service. ", 10)

type fakeDocuments struct {
	docs []documents.Document
}

func (f *fakeDocuments) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	for _, d := range f.docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, documents.ErrNotFound
}

func (f *fakeDocuments) All(context.Context) ([]documents.Document, error) {
	return f.docs, nil
}

type fakeAnalyses struct {
	mu        sync.Mutex
	byDoc     map[uuid.UUID]*analyses.Analysis
	completed map[uuid.UUID]analyses.CompleteCommand
	failed    map[uuid.UUID]string

	// consumed one per MarkCompleted call
	completeErrs []error
}

func newFakeAnalyses() *fakeAnalyses {
	return &fakeAnalyses{
		byDoc:     make(map[uuid.UUID]*analyses.Analysis),
		completed: make(map[uuid.UUID]analyses.CompleteCommand),
		failed:    make(map[uuid.UUID]string),
	}
}

func (f *fakeAnalyses) OpenForProcessing(_ context.Context, documentID uuid.UUID) (*analyses.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byDoc[documentID]
	if !ok {
		a = &analyses.Analysis{ID: uuid.New(), DocumentID: documentID}
		f.byDoc[documentID] = a
	}
	a.Status = analyses.StatusProcessing
	a.Error = nil
	return a, nil
}

func (f *fakeAnalyses) find(id uuid.UUID) *analyses.Analysis {
	for _, a := range f.byDoc {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (f *fakeAnalyses) MarkCompleted(_ context.Context, id uuid.UUID, cmd analyses.CompleteCommand) (*analyses.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.completeErrs) > 0 {
		err := f.completeErrs[0]
		f.completeErrs = f.completeErrs[1:]
		return nil, err
	}
	a := f.find(id)
	if a == nil || a.Status != analyses.StatusProcessing {
		return nil, analyses.ErrNotProcessing
	}
	a.Status = analyses.StatusCompleted
	a.Artifacts = cmd.Artifacts
	f.completed[a.DocumentID] = cmd
	return a, nil
}

func (f *fakeAnalyses) MarkFailed(_ context.Context, id uuid.UUID, reason string) (*analyses.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.find(id)
	if a == nil || a.Status != analyses.StatusProcessing {
		return nil, analyses.ErrNotProcessing
	}
	a.Status = analyses.StatusFailed
	a.Error = &reason
	f.failed[a.DocumentID] = reason
	return a, nil
}

type fakeTrainings struct {
	mu       sync.Mutex
	items    []trainings.Training
	slugs    map[string]bool
	replaced map[uuid.UUID]int
}

func newFakeTrainings(items ...trainings.Training) *fakeTrainings {
	f := &fakeTrainings{slugs: map[string]bool{}, replaced: map[uuid.UUID]int{}}
	for _, t := range items {
		f.slugs[t.Slug] = true
		f.items = append(f.items, t)
	}
	return f
}

func (f *fakeTrainings) Publish(_ context.Context, cmd trainings.PublishCommand) (*trainings.PublishResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		t := &f.items[i]
		if t.DocumentID != nil && *t.DocumentID == cmd.DocumentID {
			t.Title = cmd.Title
			t.Lessons = cmd.Lessons
			t.GroupID = cmd.GroupID
			copied := *t
			return &trainings.PublishResult{Training: &copied, Created: false}, nil
		}
	}

	docID := cmd.DocumentID
	slug := trainings.AssignSlug(trainings.Slugify(cmd.Title), f.slugs)
	f.slugs[slug] = true

	t := trainings.Training{
		ID:         uuid.New(),
		DocumentID: &docID,
		Title:      cmd.Title,
		Slug:       slug,
		Audience:   cmd.Audience,
		GroupID:    cmd.GroupID,
		Required:   cmd.Required,
		Published:  true,
		Lessons:    cmd.Lessons,
	}
	f.items = append(f.items, t)
	return &trainings.PublishResult{Training: &t, Created: true}, nil
}

func (f *fakeTrainings) ReplaceLessons(_ context.Context, id uuid.UUID, lessons []trainings.Lesson) (*trainings.Training, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Lessons = lessons
			f.replaced[id] = len(lessons)
			copied := f.items[i]
			return &copied, nil
		}
	}
	return nil, trainings.ErrNotFound
}

func (f *fakeTrainings) ListPublished(context.Context) ([]trainings.Training, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]trainings.Training, len(f.items))
	copy(out, f.items)
	return out, nil
}

type fakeNotifier struct {
	announcements []notifications.Announcement
}

func (f *fakeNotifier) FanOut(_ context.Context, a notifications.Announcement) (int, error) {
	f.announcements = append(f.announcements, a)
	return 3, nil
}

type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) Extract(_ context.Context, src extraction.Source) (string, error) {
	if err, ok := f.errs[src.StorageKey]; ok {
		return "", err
	}
	if text, ok := f.texts[src.StorageKey]; ok {
		return text, nil
	}
	return manualText, nil
}

type fakeGenerator struct {
	mu            sync.Mutex
	generateCalls int
	generateErr   error
	block         chan struct{}
	started       chan struct{}
	lessonsByLvl  map[int]int
	lessonCalls   []int
}

func lessons(n int) []trainings.Lesson {
	out := make([]trainings.Lesson, n)
	for i := range out {
		out[i] = trainings.Lesson{ID: uuid.New(), Number: i + 1, Title: "Lesson"}
	}
	return out
}

func questions(n int) []trainings.Question {
	out := make([]trainings.Question, n)
	for i := range out {
		out[i] = trainings.Question{Prompt: "Q", Options: []string{"a", "b"}}
	}
	return out
}

func (f *fakeGenerator) Generate(ctx context.Context, _, _ string) (*generation.Content, error) {
	f.mu.Lock()
	f.generateCalls++
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return &generation.Content{
		Lessons:         lessons(8),
		KnowledgeChecks: questions(5),
		Assessments:     questions(10),
	}, nil
}

func (f *fakeGenerator) Lessons(_ context.Context, _, _ string, level int) ([]trainings.Lesson, error) {
	f.mu.Lock()
	f.lessonCalls = append(f.lessonCalls, level)
	f.mu.Unlock()
	return lessons(f.lessonsByLvl[level]), nil
}

type harness struct {
	docs      *fakeDocuments
	analyses  *fakeAnalyses
	trainings *fakeTrainings
	notifier  *fakeNotifier
	extractor *fakeExtractor
	generator *fakeGenerator
	pipeline  *pipeline.Pipeline
}

func newHarness(docs []documents.Document, existing ...trainings.Training) *harness {
	h := &harness{
		docs:      &fakeDocuments{docs: docs},
		analyses:  newFakeAnalyses(),
		trainings: newFakeTrainings(existing...),
		notifier:  &fakeNotifier{},
		extractor: &fakeExtractor{texts: map[string]string{}, errs: map[string]error{}},
		generator: &fakeGenerator{lessonsByLvl: map[int]int{}},
	}
	h.pipeline = pipeline.New(&pipeline.Runtime{
		Documents:  h.docs,
		Analyses:   h.analyses,
		Trainings:  h.trainings,
		Notifier:   h.notifier,
		Extractor:  h.extractor,
		Generator:  h.generator,
		Classifier: classifier.New(classifier.DefaultTable()),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, pipeline.Config{
		MinTextChars: 100,
		MinLessons:   8,
		MaxAttempts:  3,
		PassingScore: 80,
		RewardWeight: 1,
	})
	return h
}

func doc(title string, category classifier.Category) documents.Document {
	id := uuid.New()
	return documents.Document{
		ID:          id,
		Title:       title,
		Category:    category,
		Filename:    "manual.txt",
		ContentType: "text/plain",
		StorageKey:  id.String() + "/manual.txt",
	}
}

func TestGenerateDocument(t *testing.T) {
	t.Run("publishes and notifies the owning group", func(t *testing.T) {
		group := uuid.New()
		d := doc("Safe Sanctuary Policy", classifier.CategoryMinistryManual)
		d.GroupID = &group
		h := newHarness([]documents.Document{d})

		result, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		require.NoError(t, err)

		assert.Equal(t, pipeline.StatusCompleted, result.Status)
		assert.True(t, result.Created)
		assert.Equal(t, "safe-sanctuary-policy", result.Slug)
		assert.Equal(t, 8, result.Lessons)
		assert.Equal(t, 5, result.KnowledgeChecks)
		assert.Equal(t, 10, result.Assessments)
		assert.Equal(t, 3, result.Notified)

		cmd := h.analyses.completed[d.ID]
		assert.Equal(t, analyses.Artifacts{Lessons: 8, KnowledgeChecks: 5, Assessments: 10}, cmd.Artifacts)
		assert.Contains(t, cmd.Summary, "Safe Sanctuary Policy")
		assert.Len(t, cmd.KeyTopics, 8)

		require.Len(t, h.notifier.announcements, 1)
		assert.Equal(t, group, h.notifier.announcements[0].GroupID)
	})

	t.Run("republishing is idempotent and does not notify again", func(t *testing.T) {
		group := uuid.New()
		d := doc("Volunteer Handbook", classifier.CategoryMinistryManual)
		d.GroupID = &group
		h := newHarness([]documents.Document{d})

		first, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		require.NoError(t, err)
		second, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		require.NoError(t, err)

		assert.True(t, first.Created)
		assert.False(t, second.Created)
		assert.Equal(t, first.TrainingID, second.TrainingID)
		assert.Equal(t, first.Slug, second.Slug)
		assert.Len(t, h.notifier.announcements, 1)

		published, _ := h.trainings.ListPublished(context.Background())
		assert.Len(t, published, 1)
	})

	t.Run("thin text fails without a provider call", func(t *testing.T) {
		d := doc("Greeter Ministry Manual", classifier.CategoryMinistryManual)
		h := newHarness([]documents.Document{d})
		h.extractor.texts[d.StorageKey] = "Too short."

		result, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		require.NoError(t, err)

		assert.Equal(t, pipeline.StatusFailed, result.Status)
		assert.Contains(t, result.Error, "insufficient text")
		assert.Zero(t, h.generator.generateCalls)
		assert.Contains(t, h.analyses.failed[d.ID], "minimum 100")

		published, _ := h.trainings.ListPublished(context.Background())
		assert.Empty(t, published)
	})

	t.Run("extraction failure marks the analysis failed", func(t *testing.T) {
		d := doc("Greeter Ministry Manual", classifier.CategoryMinistryManual)
		h := newHarness([]documents.Document{d})
		h.extractor.errs[d.StorageKey] = extraction.ErrNotFound

		result, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		require.NoError(t, err)

		assert.Equal(t, pipeline.StatusFailed, result.Status)
		assert.Equal(t, analyses.StatusFailed, h.analyses.byDoc[d.ID].Status)
		assert.Zero(t, h.generator.generateCalls)
	})

	t.Run("provider failure leaves trainings untouched", func(t *testing.T) {
		d := doc("Greeter Ministry Manual", classifier.CategoryMinistryManual)
		h := newHarness([]documents.Document{d})
		h.generator.generateErr = errors.New("provider transport error")

		result, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		require.NoError(t, err)

		assert.Equal(t, pipeline.StatusFailed, result.Status)
		assert.Contains(t, h.analyses.failed[d.ID], "provider transport error")

		published, _ := h.trainings.ListPublished(context.Background())
		assert.Empty(t, published)
	})

	t.Run("unknown document", func(t *testing.T) {
		h := newHarness(nil)
		_, err := h.pipeline.GenerateDocument(context.Background(), uuid.New())
		assert.ErrorIs(t, err, pipeline.ErrDocumentNotFound)
	})
}

func TestGenerateDocumentRejectsConcurrentRun(t *testing.T) {
	d := doc("Greeter Ministry Manual", classifier.CategoryMinistryManual)
	h := newHarness([]documents.Document{d})
	h.generator.block = make(chan struct{})
	h.generator.started = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
		done <- err
	}()

	<-h.generator.started
	_, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
	assert.ErrorIs(t, err, pipeline.ErrInProgress)

	close(h.generator.block)
	require.NoError(t, <-done)
}

func TestGenerateCore(t *testing.T) {
	core := doc("Child Protection Policy", classifier.CategoryResource)
	broken := doc("Code of Conduct", classifier.CategoryMinistryManual)
	plain := doc("Hospitality Team Manual", classifier.CategoryMinistryManual)
	h := newHarness([]documents.Document{core, broken, plain})
	h.extractor.errs[broken.StorageKey] = extraction.ErrExtractFailed

	report, err := h.pipeline.GenerateCore(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pipeline.BatchSummary{Total: 2, Successful: 1, Failed: 1}, report.Summary)
	require.Len(t, report.Results, 2)
	assert.Equal(t, core.ID, report.Results[0].DocumentID)
	assert.Equal(t, broken.ID, report.Results[1].DocumentID)
	assert.Equal(t, pipeline.StatusFailed, report.Results[1].Status)
}

func TestGenerateRemaining(t *testing.T) {
	done := doc("Greeter Ministry Manual", classifier.CategoryMinistryManual)
	trainingID := uuid.New()
	done.TrainingID = &trainingID

	pending := doc("Usher Ministry Manual", classifier.CategoryMinistryManual)
	ineligible := doc("Potluck Signup Sheet", classifier.CategoryResource)
	allowed := doc("Baptism Guide", classifier.CategoryResource)

	h := newHarness([]documents.Document{done, pending, ineligible, allowed})

	report, err := h.pipeline.GenerateRemaining(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pipeline.BatchSummary{Total: 2, Successful: 2, Failed: 0}, report.Summary)

	ids := []uuid.UUID{report.Results[0].DocumentID, report.Results[1].DocumentID}
	assert.ElementsMatch(t, []uuid.UUID{pending.ID, allowed.ID}, ids)
}

func training(title string, audience classifier.Audience, n int, d *documents.Document) trainings.Training {
	t := trainings.Training{
		ID:        uuid.New(),
		Title:     title,
		Slug:      trainings.Slugify(title),
		Audience:  audience,
		Published: true,
		Lessons:   lessons(n),
	}
	if d != nil {
		id := d.ID
		t.DocumentID = &id
	}
	return t
}

func TestRegenerateConverges(t *testing.T) {
	d1 := doc("Welcome Team Guide", classifier.CategoryMinistryManual)
	d2 := doc("Nursery Guide", classifier.CategoryMinistryManual)
	d3 := doc("Parking Team Guide", classifier.CategoryMinistryManual)

	five := training("Welcome Team Guide", classifier.AudienceAll, 5, &d1)
	nine := training("Nursery Guide", classifier.AudienceAll, 9, &d2)
	three := training("Parking Team Guide", classifier.AudienceLeader, 3, &d3)

	h := newHarness([]documents.Document{d1, d2, d3}, five, nine, three)
	h.generator.lessonsByLvl = map[int]int{0: 4, 1: 6, 2: 8}

	report, err := h.pipeline.Regenerate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pipeline.SweepSummary{Total: 2, Fixed: 2, StillBelow: 0, Unfixable: 0}, report.Summary)
	assert.Equal(t, 2, report.Before)
	assert.Equal(t, 0, report.After)

	assert.Equal(t, 8, h.trainings.replaced[five.ID])
	assert.Equal(t, 8, h.trainings.replaced[three.ID])
	assert.NotContains(t, h.trainings.replaced, nine.ID)

	for _, r := range report.Results {
		require.Len(t, r.Attempts, 3)
		assert.Equal(t, []int{0, 1, 2}, []int{r.Attempts[0].Level, r.Attempts[1].Level, r.Attempts[2].Level})
	}
}

func TestRegenerateStopsAtThreshold(t *testing.T) {
	d := doc("Welcome Team Guide", classifier.CategoryMinistryManual)
	tr := training("Welcome Team Guide", classifier.AudienceAll, 5, &d)

	h := newHarness([]documents.Document{d}, tr)
	h.generator.lessonsByLvl = map[int]int{0: 9}

	report, err := h.pipeline.Regenerate(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Len(t, report.Results[0].Attempts, 1)
	assert.Equal(t, pipeline.OutcomeFixed, report.Results[0].Outcome)
	assert.Equal(t, []int{0}, h.generator.lessonCalls)
}

func TestRegenerateKeepsBestAttempt(t *testing.T) {
	d := doc("Welcome Team Guide", classifier.CategoryMinistryManual)
	tr := training("Welcome Team Guide", classifier.AudienceAll, 5, &d)

	t.Run("improvement below threshold is persisted", func(t *testing.T) {
		h := newHarness([]documents.Document{d}, tr)
		h.generator.lessonsByLvl = map[int]int{0: 6, 1: 4, 2: 5}

		report, err := h.pipeline.Regenerate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.StillBelow)
		assert.Equal(t, 6, h.trainings.replaced[tr.ID])
		assert.Equal(t, 6, report.Results[0].After)
		assert.Equal(t, 1, report.After)
	})

	t.Run("no improvement leaves the module alone", func(t *testing.T) {
		h := newHarness([]documents.Document{d}, tr)
		h.generator.lessonsByLvl = map[int]int{0: 2, 1: 0, 2: 5}

		report, err := h.pipeline.Regenerate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, report.Summary.StillBelow)
		assert.Empty(t, h.trainings.replaced)
		assert.Equal(t, 5, report.Results[0].After)
	})
}

func TestRegenerateSelection(t *testing.T) {
	ministryDoc := doc("Hospitality Team Manual", classifier.CategoryMinistryManual)
	coreDoc := doc("Volunteer Handbook", classifier.CategoryMinistryManual)

	exempt := training("Hospitality Team Manual", classifier.AudienceMinistry, 2, &ministryDoc)
	core := training("Volunteer Handbook", classifier.AudienceMinistry, 2, &coreDoc)
	orphan := training("Leader Handbook", classifier.AudienceLeader, 1, nil)

	h := newHarness([]documents.Document{ministryDoc, coreDoc}, exempt, core, orphan)
	h.generator.lessonsByLvl = map[int]int{0: 8}

	report, err := h.pipeline.Regenerate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pipeline.SweepSummary{Total: 2, Fixed: 1, StillBelow: 0, Unfixable: 1}, report.Summary)
	assert.NotContains(t, h.trainings.replaced, exempt.ID)

	outcomes := map[uuid.UUID]string{}
	for _, r := range report.Results {
		outcomes[r.TrainingID] = r.Outcome
	}
	assert.Equal(t, pipeline.OutcomeFixed, outcomes[core.ID])
	assert.Equal(t, pipeline.OutcomeUnfixable, outcomes[orphan.ID])
}

func TestGenerateDocumentNotifiesWhenAnalysisCloseFails(t *testing.T) {
	group := uuid.New()
	d := doc("Usher Ministry Manual", classifier.CategoryMinistryManual)
	d.GroupID = &group
	h := newHarness([]documents.Document{d})
	h.analyses.completeErrs = []error{errors.New("connection reset by peer")}

	first, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, first.Status)
	assert.True(t, first.Created)
	require.NotNil(t, first.TrainingID)
	assert.Equal(t, 3, first.Notified)
	assert.Contains(t, first.Warning, "connection reset by peer")
	assert.Empty(t, first.Error)
	require.Len(t, h.notifier.announcements, 1)
	assert.Equal(t, *first.TrainingID, h.notifier.announcements[0].TrainingID)
	assert.Equal(t, group, h.notifier.announcements[0].GroupID)

	second, err := h.pipeline.GenerateDocument(context.Background(), d.ID)
	require.NoError(t, err)

	assert.Equal(t, pipeline.StatusCompleted, second.Status)
	assert.False(t, second.Created)
	assert.Equal(t, *first.TrainingID, *second.TrainingID)
	assert.Zero(t, second.Notified)
	assert.Empty(t, second.Warning)
	assert.Len(t, h.notifier.announcements, 1)
	assert.Equal(t, analyses.StatusCompleted, h.analyses.byDoc[d.ID].Status)
}
