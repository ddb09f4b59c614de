package model

// LLMModel is a selectable model of a provider
type LLMModel struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// LLMProvider is a model provider and the models it offers
type LLMProvider struct {
	ID                  string     `json:"id" toml:"id"`
	Name                string     `json:"name" toml:"name"`
	Models              []LLMModel `json:"models" toml:"models"`
	SupportsCustomModel bool       `json:"supportsCustomModel" toml:"supports_custom_model"`
}

// ModelConfig is the provider/model catalog served to the configuration dialog
type ModelConfig struct {
	Providers       []LLMProvider `json:"providers" toml:"providers"`
	DefaultProvider string        `json:"defaultProvider" toml:"default_provider"`
}

// FindProvider returns the provider with the id, or nil
func (c *ModelConfig) FindProvider(id string) *LLMProvider {
	for i := range c.Providers {
		if c.Providers[i].ID == id {
			return &c.Providers[i]
		}
	}
	return nil
}

// DefaultModel returns the first model of the provider, or empty string
func (p *LLMProvider) DefaultModel() string {
	if len(p.Models) == 0 {
		return ""
	}
	return p.Models[0].ID
}
