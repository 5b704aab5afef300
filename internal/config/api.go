package config

import (
	"fmt"

	"github.com/JaimeStill/steward/pkg/formatting"
	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/pagination"
)

const defaultMaxUploadSize = "50MB"

// APIConfig covers everything mounted under BasePath.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes is the parsed upload limit. Finalize guarantees it parses.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		size, _ = formatting.ParseBytes(defaultMaxUploadSize)
	}
	return size
}

func (c *APIConfig) Finalize() error {
	defaultString(&c.BasePath, "/api")
	defaultString(&c.MaxUploadSize, defaultMaxUploadSize)
	envString("STEWARD_API_BASE_PATH", &c.BasePath)
	envString("STEWARD_API_MAX_UPLOAD_SIZE", &c.MaxUploadSize)

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}

	if err := c.CORS.Finalize(&middleware.CORSEnv{
		Enabled:          "STEWARD_CORS_ENABLED",
		Origins:          "STEWARD_CORS_ORIGINS",
		AllowedMethods:   "STEWARD_CORS_ALLOWED_METHODS",
		AllowedHeaders:   "STEWARD_CORS_ALLOWED_HEADERS",
		AllowCredentials: "STEWARD_CORS_ALLOW_CREDENTIALS",
		MaxAge:           "STEWARD_CORS_MAX_AGE",
	}); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(&pagination.ConfigEnv{
		DefaultPageSize: "STEWARD_PAGINATION_DEFAULT_PAGE_SIZE",
		MaxPageSize:     "STEWARD_PAGINATION_MAX_PAGE_SIZE",
	}); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return c.OpenAPI.Finalize(&openapi.ConfigEnv{
		Title:       "STEWARD_OPENAPI_TITLE",
		Description: "STEWARD_OPENAPI_DESCRIPTION",
	})
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}
