package documents_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/classifier"
	"github.com/JaimeStill/steward/internal/documents"
	"github.com/JaimeStill/steward/pkg/pagination"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	createFn func(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	updateFn func(ctx context.Context, id uuid.UUID, cmd documents.UpdateCommand) (*documents.Document, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler(maxUploadSize int64) *documents.Handler {
	return newTestHandler(m, maxUploadSize)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters documents.Filters) (*pagination.PageResult[documents.Document], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) All(context.Context) ([]documents.Document, error) {
	return nil, nil
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*documents.Document, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd documents.UpdateCommand) (*documents.Document, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys documents.System, maxUploadSize int64) *documents.Handler {
	return documents.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		maxUploadSize,
	)
}

func setupMux(h *documents.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
	}
	return mux
}

func sampleDoc() documents.Document {
	return documents.Document{
		ID:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Title:       "Safe Sanctuary Policy",
		Category:    classifier.CategoryMinistryManual,
		Filename:    "safe-sanctuary.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		StorageKey:  "documents/550e8400-e29b-41d4-a716-446655440000/safe-sanctuary.pdf",
		UploadedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func createMultipartForm(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)

	for k, v := range fields {
		writer.WriteField(k, v)
	}

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func TestHandlerUpload(t *testing.T) {
	groupID := uuid.New()

	t.Run("creates document from multipart form", func(t *testing.T) {
		doc := sampleDoc()
		var captured documents.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd documents.CreateCommand) (*documents.Document, error) {
				captured = cmd
				return &doc, nil
			},
		}
		mux := setupMux(newTestHandler(sys, 1<<20))

		body, contentType := createMultipartForm(t, "usher-guide.txt", []byte("Ushers greet guests at the door."), map[string]string{
			"category":            "ministry_manual",
			"group_id":            groupID.String(),
			"required_by_default": "true",
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if captured.Title != "usher-guide" {
			t.Errorf("title = %q, want filename stem", captured.Title)
		}
		if captured.Category != classifier.CategoryMinistryManual {
			t.Errorf("category = %q", captured.Category)
		}
		if captured.GroupID == nil || *captured.GroupID != groupID {
			t.Errorf("group id = %v, want %v", captured.GroupID, groupID)
		}
		if !captured.RequiredByDefault {
			t.Error("required_by_default should be true")
		}
		if !strings.HasPrefix(captured.ContentType, "text/plain") {
			t.Errorf("content type = %q, want sniffed text/plain", captured.ContentType)
		}
		if captured.PageCount != nil {
			t.Error("page count should be nil for non-PDF uploads")
		}
	})

	t.Run("invalid category returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}, 1<<20))

		body, contentType := createMultipartForm(t, "flyer.txt", []byte("picnic"), map[string]string{"category": "bulletin"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("oversized upload returns 413", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}, 64))

		body, contentType := createMultipartForm(t, "big.txt", bytes.Repeat([]byte("a"), 4096), map[string]string{"category": "resource"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/documents", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("missing file returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}, 1<<20))

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		writer.WriteField("category", "resource")
		writer.Close()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/documents", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	doc := sampleDoc()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*documents.Document, error) {
			if id == doc.ID {
				return &doc, nil
			}
			return nil, documents.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys, 1<<20))

	tests := []struct {
		path string
		want int
	}{
		{"/documents/" + doc.ID.String(), http.StatusOK},
		{"/documents/" + uuid.NewString(), http.StatusNotFound},
		{"/documents/bad-id", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s: status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}

func TestHandlerUpdate(t *testing.T) {
	doc := sampleDoc()
	var captured documents.UpdateCommand
	sys := &mockSystem{
		updateFn: func(_ context.Context, _ uuid.UUID, cmd documents.UpdateCommand) (*documents.Document, error) {
			captured = cmd
			doc.Title = cmd.Title
			return &doc, nil
		},
	}
	mux := setupMux(newTestHandler(sys, 1<<20))

	body := `{"title":"Safe Sanctuary Policy (2026)","category":"ministry_manual","required_by_default":true}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", "/documents/"+doc.ID.String(), strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Title != "Safe Sanctuary Policy (2026)" || !captured.RequiredByDefault {
		t.Errorf("captured = %+v", captured)
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, _ uuid.UUID) error { return documents.ErrNotFound },
	}
	mux := setupMux(newTestHandler(sys, 1<<20))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/documents/"+uuid.NewString(), nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	groupID := uuid.New()
	f := documents.FiltersFromQuery(url.Values{
		"title":               {"sanctuary"},
		"category":            {"resource"},
		"group_id":            {groupID.String()},
		"required_by_default": {"false"},
		"analysis_status":     {"failed"},
		"untrained":           {"true"},
	})

	if f.Title == nil || *f.Title != "sanctuary" {
		t.Errorf("Title = %v", f.Title)
	}
	if f.Category == nil || *f.Category != classifier.CategoryResource {
		t.Errorf("Category = %v", f.Category)
	}
	if f.GroupID == nil || *f.GroupID != groupID {
		t.Errorf("GroupID = %v", f.GroupID)
	}
	if f.Required == nil || *f.Required {
		t.Errorf("Required = %v, want false", f.Required)
	}
	if f.AnalysisStatus == nil || *f.AnalysisStatus != "failed" {
		t.Errorf("AnalysisStatus = %v", f.AnalysisStatus)
	}
	if f.Untrained == nil || !*f.Untrained {
		t.Errorf("Untrained = %v, want true", f.Untrained)
	}

	bad := documents.FiltersFromQuery(url.Values{"group_id": {"nope"}})
	if bad.GroupID != nil {
		t.Error("malformed group_id should be ignored")
	}
}
