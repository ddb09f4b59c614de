package usecase

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
)

//go:embed catalog/default.toml
var defaultCatalog []byte

type modelCatalog struct {
	config *model.ModelConfig
}

// NewModelCatalog loads the provider catalog from a TOML file. An empty path
// selects the built-in catalog. A file that cannot be loaded is logged and
// replaced by the fallback catalog so that the configuration dialog keeps working.
func NewModelCatalog(ctx context.Context, path string) interfaces.ModelCatalog {
	logger := ctxlog.From(ctx)

	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read model catalog, using fallback", "path", path, "error", err)
			return &modelCatalog{config: fallbackModelConfig()}
		}
		raw = data
	}

	cfg, err := ParseModelConfig(raw)
	if err != nil {
		logger.Warn("Failed to parse model catalog, using fallback", "path", path, "error", err)
		return &modelCatalog{config: fallbackModelConfig()}
	}

	logger.Info("Loaded model catalog",
		"path", path,
		"provider_count", len(cfg.Providers),
		"default_provider", cfg.DefaultProvider,
	)
	return &modelCatalog{config: cfg}
}

// ModelConfig implements interfaces.ModelCatalog
func (x *modelCatalog) ModelConfig(ctx context.Context) *model.ModelConfig {
	return x.config
}

// ParseModelConfig decodes a TOML catalog and fills display names that are omitted
func ParseModelConfig(raw []byte) (*model.ModelConfig, error) {
	var cfg model.ModelConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to decode model catalog")
	}
	if len(cfg.Providers) == 0 {
		return nil, goerr.New("model catalog has no provider")
	}

	for i := range cfg.Providers {
		p := &cfg.Providers[i]
		if p.ID == "" {
			return nil, goerr.New("provider id is required", goerr.V("index", i))
		}
		if p.Name == "" {
			p.Name = capitalize(p.ID)
		}
		if p.Models == nil {
			p.Models = []model.LLMModel{}
		}
		for j := range p.Models {
			if p.Models[j].Name == "" {
				p.Models[j].Name = p.Models[j].ID
			}
		}
	}

	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = "google"
	}

	return &cfg, nil
}

func fallbackModelConfig() *model.ModelConfig {
	return &model.ModelConfig{
		Providers: []model.LLMProvider{
			{
				ID:                  "google",
				Name:                "Google",
				SupportsCustomModel: true,
				Models: []model.LLMModel{
					{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash"},
				},
			},
		},
		DefaultProvider: "google",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
