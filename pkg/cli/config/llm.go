package config

import (
	"github.com/m-mizutani/repowiki/pkg/infra/llm"
	"github.com/urfave/cli/v3"
)

// LLM holds credentials of the model providers
type LLM struct {
	GeminiProjectID string
	GeminiLocation  string
	OpenAIAPIKey    string `masq:"secret"`
	AnthropicAPIKey string `masq:"secret"`
}

// Flags returns CLI flags for LLM configuration
func (c *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "Google Cloud Project ID for Gemini",
			Destination: &c.GeminiProjectID,
			Sources:     cli.EnvVars("REPOWIKI_GEMINI_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI location/region",
			Value:       "us-central1",
			Destination: &c.GeminiLocation,
			Sources:     cli.EnvVars("REPOWIKI_GEMINI_LOCATION"),
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Destination: &c.OpenAIAPIKey,
			Sources:     cli.EnvVars("REPOWIKI_OPENAI_API_KEY", "OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Destination: &c.AnthropicAPIKey,
			Sources:     cli.EnvVars("REPOWIKI_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"),
		},
	}
}

// New creates a provider registry holding every provider with credentials
func (c *LLM) New() *llm.Registry {
	var opts []llm.Option
	if c.GeminiProjectID != "" {
		opts = append(opts, llm.WithGemini(c.GeminiProjectID, c.GeminiLocation))
	}
	if c.OpenAIAPIKey != "" {
		opts = append(opts, llm.WithOpenAI(c.OpenAIAPIKey))
	}
	if c.AnthropicAPIKey != "" {
		opts = append(opts, llm.WithAnthropic(c.AnthropicAPIKey))
	}
	return llm.New(opts...)
}
