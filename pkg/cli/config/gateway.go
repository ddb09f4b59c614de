package config

import (
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Gateway holds the upstream of the front-end gateway
type Gateway struct {
	Upstream string
}

// Flags returns CLI flags for gateway configuration
func (c *Gateway) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "upstream",
			Usage:       "Base URL of the API server",
			Value:       "http://localhost:8001",
			Destination: &c.Upstream,
			Sources:     cli.EnvVars("REPOWIKI_UPSTREAM", "SERVER_BASE_URL"),
		},
	}
}

// URL parses the upstream base URL
func (c *Gateway) URL() (*url.URL, error) {
	u, err := url.Parse(c.Upstream)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid upstream URL", goerr.V("upstream", c.Upstream))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("upstream URL must be http or https", goerr.V("upstream", c.Upstream))
	}
	if u.Host == "" {
		return nil, goerr.New("upstream URL has no host", goerr.V("upstream", c.Upstream))
	}
	return u, nil
}
