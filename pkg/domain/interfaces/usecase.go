package interfaces

import (
	"context"
	"io"

	"github.com/m-mizutani/repowiki/pkg/domain/model"
)

// RepositoryUseCase resolves user input into repository references and reads repository layouts
type RepositoryUseCase interface {
	// Resolve parses input and builds the wiki navigation URL
	Resolve(ctx context.Context, input string, opts *model.WikiOptions) (*model.ResolveResult, error)

	// LocalStructure lists the files and README of a directory on this host
	LocalStructure(ctx context.Context, path string, filter model.FileFilter) (*model.RepoStructure, error)

	// RemoteStructure lists the files and README of a hosted repository
	RemoteStructure(ctx context.Context, repoURL, token string) (*model.RepoStructure, error)
}

// WikiUseCase manages generated wikis
type WikiUseCase interface {
	// GetCache returns the cached wiki, or nil when nothing is cached
	GetCache(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheData, error)

	// SaveCache stores a generated wiki
	SaveCache(ctx context.Context, req *model.WikiCacheRequest) error

	// DeleteCache removes a cached wiki
	DeleteCache(ctx context.Context, key model.WikiCacheKey) error

	// ListProjects returns summaries of all cached wikis, most recent first
	ListProjects(ctx context.Context) ([]*model.ProcessedProject, error)

	// Export renders wiki pages as a downloadable file
	Export(ctx context.Context, req *model.WikiExportRequest) (*model.ExportedFile, error)
}

// ChatUseCase answers questions about a repository
type ChatUseCase interface {
	// StreamChat writes the answer to w as it is generated
	StreamChat(ctx context.Context, req *model.ChatRequest, w io.Writer) error
}

// ModelCatalog provides the provider/model catalog
type ModelCatalog interface {
	ModelConfig(ctx context.Context) *model.ModelConfig
}
