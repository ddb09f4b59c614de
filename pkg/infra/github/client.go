package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

type config struct {
	baseURL        string
	token          string
	appID          int64
	installationID int64
	privateKey     []byte
}

// Option configures the GitHub client
type Option func(*config)

// WithBaseURL points the client to another API endpoint, such as GitHub Enterprise
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithToken sets the access token used when a request carries none
func WithToken(token string) Option {
	return func(c *config) {
		c.token = token
	}
}

// WithAppInstallation authenticates as a GitHub App installation when a
// request carries no token
func WithAppInstallation(appID, installationID int64, privateKey []byte) Option {
	return func(c *config) {
		c.appID = appID
		c.installationID = installationID
		c.privateKey = privateKey
	}
}

type client struct {
	// anonymous is the base for clients authenticated by a per-request token
	anonymous *github.Client
	// fallback is used when a request has no token
	fallback *github.Client
}

// NewClient creates a GitHub client. Without credentials, requests that carry
// no token are sent unauthenticated and are subject to the public rate limit.
func NewClient(opts ...Option) (interfaces.GitHubClient, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	anonymous := github.NewClient(nil)
	if cfg.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", cfg.baseURL))
		}
		anonymous.BaseURL = u
	}

	fallback := anonymous
	switch {
	case cfg.appID != 0:
		itr, err := ghinstallation.New(http.DefaultTransport, cfg.appID, cfg.installationID, cfg.privateKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create GitHub App transport",
				goerr.V("app_id", cfg.appID),
				goerr.V("installation_id", cfg.installationID))
		}
		if cfg.baseURL != "" {
			itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")
		}
		fallback = github.NewClient(&http.Client{Transport: itr})
		fallback.BaseURL = anonymous.BaseURL

	case cfg.token != "":
		fallback = anonymous.WithAuthToken(cfg.token)
	}

	return &client{
		anonymous: anonymous,
		fallback:  fallback,
	}, nil
}

func (c *client) clientFor(token string) *github.Client {
	if token != "" {
		return c.anonymous.WithAuthToken(token)
	}
	return c.fallback
}

// GetStructure returns the recursive file tree of the default branch and the README
func (c *client) GetStructure(ctx context.Context, owner, repo, token string) (*model.RepoStructure, error) {
	gh := c.clientFor(token)
	logger := ctxlog.From(ctx)

	repository, _, err := gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapAPIError(err, "failed to get repository", owner, repo)
	}
	branch := repository.GetDefaultBranch()
	if branch == "" {
		branch = "main"
	}

	tree, _, err := gh.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, wrapAPIError(err, "failed to get repository tree", owner, repo)
	}
	if tree.GetTruncated() {
		logger.Warn("Repository tree is truncated by GitHub API", "owner", owner, "repo", repo)
	}

	var files []string
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" {
			files = append(files, entry.GetPath())
		}
	}
	sort.Strings(files)

	result := &model.RepoStructure{
		FileTree: strings.Join(files, "\n"),
	}

	readme, _, err := gh.Repositories.GetReadme(ctx, owner, repo, nil)
	switch {
	case isNotFound(err):
		logger.Debug("Repository has no README", "owner", owner, "repo", repo)
	case err != nil:
		return nil, wrapAPIError(err, "failed to get README", owner, repo)
	default:
		content, err := readme.GetContent()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode README", goerr.V("owner", owner), goerr.V("repo", repo))
		}
		result.Readme = content
	}

	return result, nil
}

// GetFileContent returns the content of a file on the default branch
func (c *client) GetFileContent(ctx context.Context, owner, repo, path, token string) (string, error) {
	gh := c.clientFor(token)

	file, _, _, err := gh.Repositories.GetContents(ctx, owner, repo, strings.TrimPrefix(path, "/"), nil)
	if err != nil {
		return "", wrapAPIError(err, "failed to get file content", owner, repo, goerr.V("path", path))
	}
	if file == nil {
		return "", goerr.New("path is a directory",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("path", path),
			goerr.T(types.ErrTagInvalidArgument))
	}

	content, err := file.GetContent()
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode file content", goerr.V("path", path))
	}
	return content, nil
}

func isNotFound(err error) bool {
	var resp *github.ErrorResponse
	return errors.As(err, &resp) && resp.Response != nil && resp.Response.StatusCode == http.StatusNotFound
}

func wrapAPIError(err error, msg, owner, repo string, opts ...goerr.Option) error {
	opts = append(opts, goerr.V("owner", owner), goerr.V("repo", repo))
	if isNotFound(err) {
		opts = append(opts, goerr.T(types.ErrTagNotFound))
	}
	return goerr.Wrap(err, msg, opts...)
}
