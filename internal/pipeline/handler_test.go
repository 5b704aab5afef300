package pipeline_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/pipeline"
)

type mockRunner struct {
	documentFn func(ctx context.Context, id uuid.UUID) (*pipeline.DocumentResult, error)
	calls      int
}

func (m *mockRunner) GenerateDocument(ctx context.Context, id uuid.UUID) (*pipeline.DocumentResult, error) {
	m.calls++
	return m.documentFn(ctx, id)
}

func (m *mockRunner) GenerateCore(context.Context) (*pipeline.BatchReport, error) {
	return &pipeline.BatchReport{}, nil
}

func (m *mockRunner) GenerateRemaining(context.Context) (*pipeline.BatchReport, error) {
	return &pipeline.BatchReport{}, nil
}

func (m *mockRunner) Regenerate(context.Context) (*pipeline.SweepReport, error) {
	return &pipeline.SweepReport{}, nil
}

func setupMux(h *pipeline.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func serve(t *testing.T, run pipeline.Runner, path string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	h := pipeline.NewHandler(run, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	setupMux(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))

	var body map[string]string
	if rec.Code != http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHandlerDocument(t *testing.T) {
	t.Run("malformed id", func(t *testing.T) {
		run := &mockRunner{}
		rec, body := serve(t, run, "/pipeline/not-a-uuid")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body["error"], pipeline.ErrInvalidID.Error())
		assert.NotContains(t, body["error"], pipeline.ErrDocumentNotFound.Error())
		assert.Zero(t, run.calls)
	})

	t.Run("unknown document", func(t *testing.T) {
		id := uuid.New()
		run := &mockRunner{documentFn: func(context.Context, uuid.UUID) (*pipeline.DocumentResult, error) {
			return nil, fmt.Errorf("%w: %s", pipeline.ErrDocumentNotFound, id)
		}}
		rec, body := serve(t, run, "/pipeline/"+id.String())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, body["error"], pipeline.ErrDocumentNotFound.Error())
	})

	t.Run("run in progress", func(t *testing.T) {
		run := &mockRunner{documentFn: func(context.Context, uuid.UUID) (*pipeline.DocumentResult, error) {
			return nil, pipeline.ErrInProgress
		}}
		rec, _ := serve(t, run, "/pipeline/"+uuid.NewString())

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("completed", func(t *testing.T) {
		id := uuid.New()
		run := &mockRunner{documentFn: func(_ context.Context, got uuid.UUID) (*pipeline.DocumentResult, error) {
			return &pipeline.DocumentResult{DocumentID: got, Status: pipeline.StatusCompleted}, nil
		}}
		rec, _ := serve(t, run, "/pipeline/"+id.String())

		require.Equal(t, http.StatusOK, rec.Code)
		var result pipeline.DocumentResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, id, result.DocumentID)
		assert.Equal(t, pipeline.StatusCompleted, result.Status)
	})
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{pipeline.ErrInvalidID, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", pipeline.ErrDocumentNotFound), http.StatusNotFound},
		{pipeline.ErrInProgress, http.StatusConflict},
		{pipeline.ErrNoSource, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.MapHTTPStatus(tt.err))
		})
	}
}
