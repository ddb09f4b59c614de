package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

type repository struct {
	github interfaces.GitHubClient
}

// NewRepository creates a RepositoryUseCase. githubClient may be nil, in
// which case remote structures are not available.
func NewRepository(githubClient interfaces.GitHubClient) interfaces.RepositoryUseCase {
	return &repository{github: githubClient}
}

// Resolve parses the input against the selected platform and builds the navigation URL
func (uc *repository) Resolve(ctx context.Context, input string, opts *model.WikiOptions) (*model.ResolveResult, error) {
	if opts == nil {
		opts = &model.WikiOptions{}
	}

	platform, err := model.ParsePlatform(string(opts.Platform))
	if err != nil {
		return nil, err
	}

	ref, err := model.ParseRepoRef(input, platform)
	if err != nil {
		return nil, err
	}

	ctxlog.From(ctx).Debug("Resolved repository reference",
		"owner", ref.Owner,
		"repo", ref.Repo,
		"type", ref.Type,
	)

	return &model.ResolveResult{
		Reference: ref,
		URL:       model.BuildWikiURL(input, ref, opts),
	}, nil
}

// LocalStructure walks a directory on this host
func (uc *repository) LocalStructure(ctx context.Context, path string, filter model.FileFilter) (*model.RepoStructure, error) {
	ctxlog.From(ctx).Info("Processing local repository", "path", path)
	return walkLocalRepository(path, filter)
}

// RemoteStructure fetches the tree and README of a GitHub repository
func (uc *repository) RemoteStructure(ctx context.Context, repoURL, token string) (*model.RepoStructure, error) {
	ref, err := model.ParseRepoRef(repoURL, model.PlatformGitHub)
	if err != nil {
		return nil, err
	}
	if ref.Type != model.RepoTypeWeb {
		return nil, goerr.New("repo_url must point to a hosted repository",
			goerr.V("repo_url", repoURL),
			goerr.T(types.ErrTagInvalidArgument))
	}
	if ref.Platform() != model.PlatformGitHub {
		return nil, goerr.New("unsupported platform",
			goerr.V("platform", ref.Platform()),
			goerr.T(types.ErrTagUnsupported))
	}
	if uc.github == nil {
		return nil, goerr.New("GitHub client is not configured", goerr.T(types.ErrTagUnsupported))
	}

	structure, err := uc.github.GetStructure(ctx, ref.Owner, ref.Repo, token)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get repository structure",
			goerr.V("owner", ref.Owner),
			goerr.V("repo", ref.Repo))
	}
	return structure, nil
}
