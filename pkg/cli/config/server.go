package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr string
}

// Flags returns CLI flags for server configuration. A preset Addr becomes the default value.
func (c *Server) Flags() []cli.Flag {
	addr := c.Addr
	if addr == "" {
		addr = "localhost:8001"
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       addr,
			Destination: &c.Addr,
			Sources:     cli.EnvVars("REPOWIKI_ADDR"),
		},
	}
}
