package trainings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/pagination"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for published training modules.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "trainings"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for training endpoints.
func (h *Handler) Routes() routes.Group {
	errs := map[int]string{400: "BadRequest", 404: "NotFound"}
	return routes.Group{
		Prefix:      "/trainings",
		Tags:        []string{"Trainings"},
		Description: "Generated training modules",
		Schemas:     Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List,
				OpenAPI: openapi.Standard("List trainings", 200, openapi.ResponseJSON("Training page", "TrainingPage"), nil)},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find,
				OpenAPI: openapi.Standard("Find training", 200, openapi.ResponseJSON("Training", "Training"), errs)},
			{Method: "GET", Pattern: "/slug/{slug}", Handler: h.FindBySlug,
				OpenAPI: openapi.Standard("Find training by slug", 200, openapi.ResponseJSON("Training", "Training"), map[int]string{404: "NotFound"})},
			{Method: "GET", Pattern: "/document/{documentId}", Handler: h.FindByDocument,
				OpenAPI: openapi.Standard("Find training by document", 200, openapi.ResponseJSON("Training", "Training"), errs)},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	t, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) FindBySlug(w http.ResponseWriter, r *http.Request) {
	t, err := h.sys.FindBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) FindByDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	t, err := h.sys.FindByDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, t)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
