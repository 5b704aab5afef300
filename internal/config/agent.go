package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "STEWARD_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "STEWARD_AGENT_BASE_URL"
	EnvAgentToken        = "STEWARD_AGENT_TOKEN"
	EnvAgentDeployment   = "STEWARD_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "STEWARD_AGENT_API_VERSION"
	EnvAgentAuthType     = "STEWARD_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "STEWARD_AGENT_MODEL_NAME"
)

// FinalizeAgent layers the go-agents defaults under c, applies STEWARD_AGENT_*
// overrides, and requires a provider and model.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = map[string]any{}
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	envString(EnvAgentProviderName, &c.Provider.Name)
	envString(EnvAgentBaseURL, &c.Provider.BaseURL)
	envString(EnvAgentModelName, &c.Model.Name)
	for env, key := range map[string]string{
		EnvAgentToken:      "token",
		EnvAgentDeployment: "deployment",
		EnvAgentAPIVersion: "api_version",
		EnvAgentAuthType:   "auth_type",
	} {
		if v := os.Getenv(env); v != "" {
			c.Provider.Options[key] = v
		}
	}

	switch {
	case c.Name == "":
		return fmt.Errorf("name required")
	case c.Provider.Name == "":
		return fmt.Errorf("provider name required")
	case c.Model.Name == "":
		return fmt.Errorf("model name required")
	}
	return nil
}
