package api

import (
	"net/http"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		spec,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Analyses.Handler().Routes(),
		domain.Trainings.Handler().Routes(),
		domain.Notifications.Handler().Routes(),
		domain.Pipeline.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	)
}
