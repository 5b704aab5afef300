package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/steward/internal/api"
	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/internal/infrastructure"
	"github.com/JaimeStill/steward/pkg/database"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Database: database.Config{
			Name:     "steward",
			User:     "steward",
			Password: "steward",
		},
		Storage: storage.Config{
			ContainerName:    "manuals",
			ConnectionString: azuriteConnString,
		},
		API: config.APIConfig{
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Close() })
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestOpenAPIDocument(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var doc struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode openapi: %v", err)
	}

	for _, path := range []string{
		"/documents",
		"/analyses/{id}",
		"/trainings/slug/{slug}",
		"/notifications/{id}/read",
		"/pipeline/core",
		"/pipeline/regenerate",
		"/pipeline/{documentId}",
	} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("openapi paths missing %s", path)
		}
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Training.MinLessons != 8 {
		t.Errorf("training min lessons: got %d, want 8", runtime.Training.MinLessons)
	}
	if runtime.Logger == infra.Logger {
		t.Error("runtime logger should be module scoped")
	}
	if runtime.Database == nil || runtime.Storage == nil || runtime.Provider == nil {
		t.Error("runtime is missing infrastructure systems")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig(t)
	infra := setupInfra(t, cfg)

	domain := api.NewDomain(api.NewRuntime(cfg, infra))
	if domain.Pipeline == nil {
		t.Fatal("NewDomain() did not build the pipeline")
	}
	if domain.Trainings == nil || domain.Analyses == nil || domain.Notifications == nil {
		t.Error("NewDomain() is missing systems")
	}
}
