package interfaces

import (
	"context"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
)

// WikiCacheRepository persists generated wikis
type WikiCacheRepository interface {
	// Get returns the entry, or nil without error when it does not exist
	Get(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheEntry, error)

	// Put creates or replaces the entry
	Put(ctx context.Context, entry *model.WikiCacheEntry) error

	// Delete removes the entry. It returns an error tagged not_found when the entry does not exist.
	Delete(ctx context.Context, key model.WikiCacheKey) error

	// List returns all entries
	List(ctx context.Context) ([]*model.WikiCacheEntry, error)
}

// GitHubClient reads repository contents from GitHub
type GitHubClient interface {
	// GetStructure returns the recursive file tree of the default branch and the README
	GetStructure(ctx context.Context, owner, repo, token string) (*model.RepoStructure, error)

	// GetFileContent returns the content of a file on the default branch
	GetFileContent(ctx context.Context, owner, repo, path, token string) (string, error)
}

// LLMProvider creates LLM clients for a provider/model pair selected by a user
type LLMProvider interface {
	NewClient(ctx context.Context, provider, model string) (gollem.LLMClient, error)
}
