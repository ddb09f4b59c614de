package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/usecase"
	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v3"
)

// ModelCatalog holds the location of the provider/model catalog
type ModelCatalog struct {
	Path string
}

// Flags returns CLI flags for the model catalog
func (c *ModelCatalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model-config",
			Usage:       "Path to model catalog TOML file (default: built-in catalog)",
			Destination: &c.Path,
			Sources:     cli.EnvVars("REPOWIKI_MODEL_CONFIG"),
		},
	}
}

// New loads the catalog
func (c *ModelCatalog) New(ctx context.Context) (interfaces.ModelCatalog, error) {
	path := c.Path
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to expand model config path", goerr.V("path", path))
		}
		path = expanded
	}
	return usecase.NewModelCatalog(ctx, path), nil
}
