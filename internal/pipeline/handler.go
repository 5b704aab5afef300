package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Runner is the set of pipeline entry points exposed over HTTP.
type Runner interface {
	GenerateDocument(ctx context.Context, documentID uuid.UUID) (*DocumentResult, error)
	GenerateCore(ctx context.Context) (*BatchReport, error)
	GenerateRemaining(ctx context.Context) (*BatchReport, error)
	Regenerate(ctx context.Context) (*SweepReport, error)
}

// Handler provides HTTP triggers for generation runs and sweeps.
type Handler struct {
	run    Runner
	logger *slog.Logger
}

func NewHandler(run Runner, logger *slog.Logger) *Handler {
	return &Handler{
		run:    run,
		logger: logger.With("handler", "pipeline"),
	}
}

// Routes returns the route group definition for pipeline endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/pipeline",
		Tags:        []string{"Pipeline"},
		Description: "Training generation runs and quality sweeps",
		Schemas:     Schemas(),
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/core", Handler: h.Core,
				OpenAPI: openapi.Standard("Generate core trainings", 200, openapi.ResponseJSON("Batch report", "BatchReport"), nil)},
			{Method: "POST", Pattern: "/remaining", Handler: h.Remaining,
				OpenAPI: openapi.Standard("Generate remaining trainings", 200, openapi.ResponseJSON("Batch report", "BatchReport"), nil)},
			{Method: "POST", Pattern: "/regenerate", Handler: h.Regenerate,
				OpenAPI: openapi.Standard("Sweep trainings below the lesson threshold", 200, openapi.ResponseJSON("Sweep report", "SweepReport"), nil)},
			{Method: "POST", Pattern: "/{documentId}", Handler: h.Document,
				OpenAPI: openapi.Standard("Generate a training for one document", 200, openapi.ResponseJSON("Document result", "DocumentResult"), map[int]string{400: "BadRequest", 404: "NotFound", 409: "Conflict"})},
		},
	}
}

func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrInvalidID), fmt.Errorf("%w: %v", ErrInvalidID, err))
		return
	}

	result, err := h.run.GenerateDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Core(w http.ResponseWriter, r *http.Request) {
	report, err := h.run.GenerateCore(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) Remaining(w http.ResponseWriter, r *http.Request) {
	report, err := h.run.GenerateRemaining(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	report, err := h.run.Regenerate(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}
