package prompts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler serves prompt overrides and the effective per-stage prompt text.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest is the body of POST /prompts/search.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StageContent wraps text resolved for a stage.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	notFound := map[int]string{400: "BadRequest", 404: "NotFound"}
	conflict := map[int]string{400: "BadRequest", 404: "NotFound", 409: "Conflict"}
	prompt := openapi.ResponseJSON("Prompt", "Prompt")
	content := openapi.ResponseJSON("Stage content", "StageContent")

	return routes.Group{
		Prefix:      "/prompts",
		Tags:        []string{"Prompts"},
		Description: "Instruction overrides for the generation stages",
		Schemas:     Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List,
				OpenAPI: openapi.Standard("List prompts", 200, openapi.ResponseJSON("Prompt page", "PromptPage"), nil)},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/stages", Handler: h.Stages},
			{Method: "GET", Pattern: "/{stage}/instructions", Handler: h.stageContent(h.sys.Instructions),
				OpenAPI: openapi.Standard("Effective stage instructions", 200, content, notFound)},
			{Method: "GET", Pattern: "/{stage}/spec", Handler: h.stageContent(h.sys.Spec),
				OpenAPI: openapi.Standard("Stage output specification", 200, content, notFound)},
			{Method: "GET", Pattern: "/{stage}/preview", Handler: h.stageContent(h.sys.Preview),
				OpenAPI: openapi.Standard("Composed system prompt for a stage", 200, content, notFound)},
			{Method: "POST", Pattern: "", Handler: h.Create,
				OpenAPI: openapi.Standard("Create prompt", 201, prompt, map[int]string{400: "BadRequest", 409: "Conflict"})},
			{Method: "GET", Pattern: "/{id}", Handler: h.byID(h.sys.Find),
				OpenAPI: openapi.Standard("Find prompt", 200, prompt, notFound)},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update,
				OpenAPI: openapi.Standard("Update prompt", 200, prompt, conflict)},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete,
				OpenAPI: openapi.Standard("Delete prompt", 204, &openapi.Response{Description: "Deleted"}, notFound)},
			{Method: "POST", Pattern: "/{id}/activate", Handler: h.byID(h.sys.Activate),
				OpenAPI: openapi.Standard("Activate prompt", 200, prompt, notFound)},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: h.byID(h.sys.Deactivate),
				OpenAPI: openapi.Standard("Deactivate prompt", 200, prompt, notFound)},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	h.list(w, r, page, FiltersFromQuery(r.URL.Query()))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SearchRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.list(w, r, req.PageRequest, req.Filters)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, page pagination.PageRequest, filters Filters) {
	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Stages(w http.ResponseWriter, _ *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := handlers.DecodeJSON[Command](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	cmd, err := handlers.DecodeJSON[Command](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// byID adapts a single-prompt operation keyed by the {id} path value.
func (h *Handler) byID(op func(context.Context, uuid.UUID) (*Prompt, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r)
		if !ok {
			return
		}

		p, err := op(r.Context(), id)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, p)
	}
}

// stageContent adapts a per-stage text lookup keyed by the {stage} path value.
func (h *Handler) stageContent(resolve func(context.Context, Stage) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, err := ParseStage(r.PathValue("stage"))
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}

		text, err := resolve(r.Context(), stage)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, StageContent{Stage: stage, Content: text})
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
