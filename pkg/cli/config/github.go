package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	githubinfra "github.com/m-mizutani/repowiki/pkg/infra/github"
	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration. Requests from users may carry their
// own token; these credentials are used otherwise.
type GitHub struct {
	BaseURL        string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("REPOWIKI_GITHUB_BASE_URL"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub access token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("REPOWIKI_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("REPOWIKI_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("REPOWIKI_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("REPOWIKI_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key file",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("REPOWIKI_GITHUB_PRIVATE_KEY_FILE"),
		},
	}
}

// New creates a GitHub client
func (c *GitHub) New() (interfaces.GitHubClient, error) {
	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}
	if c.Token != "" {
		opts = append(opts, githubinfra.WithToken(c.Token))
	}

	if c.AppID != 0 {
		key := []byte(c.PrivateKey)
		if c.PrivateKeyFile != "" {
			path, err := homedir.Expand(c.PrivateKeyFile)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to expand private key path", goerr.V("path", c.PrivateKeyFile))
			}
			key, err = os.ReadFile(path)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to read private key file", goerr.V("path", path))
			}
		}
		if len(key) == 0 || c.InstallationID == 0 {
			return nil, goerr.New("GitHub App requires installation ID and private key", goerr.V("app_id", c.AppID))
		}
		opts = append(opts, githubinfra.WithAppInstallation(c.AppID, c.InstallationID, key))
	}

	return githubinfra.NewClient(opts...)
}
