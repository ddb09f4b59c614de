package config

import "github.com/urfave/cli/v3"

// Auth holds write protection configuration of the wiki cache
type Auth struct {
	Secret string `masq:"secret"`
}

// Flags returns CLI flags for auth configuration
func (c *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "auth-secret",
			Usage:       "HS256 secret of bearer tokens required to modify the wiki cache. Writes are open when empty",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("REPOWIKI_AUTH_SECRET"),
		},
	}
}

// Enabled reports whether write protection is configured
func (c *Auth) Enabled() bool {
	return c.Secret != ""
}
