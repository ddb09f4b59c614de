package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// WikiPage is a single generated page of a repository wiki
type WikiPage struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	FilePaths    []string `json:"filePaths"`
	Importance   string   `json:"importance"`
	RelatedPages []string `json:"relatedPages"`
}

// WikiStructure is the outline of a repository wiki
type WikiStructure struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Pages       []WikiPage `json:"pages"`
}

// WikiCacheData is what gets stored for a generated wiki
type WikiCacheData struct {
	WikiStructure  WikiStructure       `json:"wiki_structure"`
	GeneratedPages map[string]WikiPage `json:"generated_pages"`
}

// WikiCacheKey identifies one cached wiki. A repository has one entry per language.
type WikiCacheKey struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	RepoType string `json:"repo_type"`
	Language string `json:"language"`
}

// Validate checks that every part of the key is present
func (k WikiCacheKey) Validate() error {
	var missing []string
	if k.Owner == "" {
		missing = append(missing, "owner")
	}
	if k.Repo == "" {
		missing = append(missing, "repo")
	}
	if k.RepoType == "" {
		missing = append(missing, "repo_type")
	}
	if k.Language == "" {
		missing = append(missing, "language")
	}
	if len(missing) > 0 {
		return goerr.New("missing wiki cache key fields",
			goerr.V("missing", strings.Join(missing, ",")),
			goerr.T(types.ErrTagInvalidArgument),
		)
	}
	return nil
}

// FileName returns the storage object name of the cache entry
func (k WikiCacheKey) FileName() string {
	return fmt.Sprintf("repowiki_cache_%s_%s_%s_%s.json", k.RepoType, k.Owner, k.Repo, k.Language)
}

// String is used for logging
func (k WikiCacheKey) String() string {
	return fmt.Sprintf("%s/%s (%s), lang: %s", k.Owner, k.Repo, k.RepoType, k.Language)
}

// WikiCacheRequest is the body of a cache store request
type WikiCacheRequest struct {
	WikiCacheKey
	WikiCacheData
}

// WikiCacheEntry is the persisted form of a cache entry. The key is kept in the
// payload so that listing does not depend on parsing object names.
type WikiCacheEntry struct {
	WikiCacheKey
	WikiCacheData
	UpdatedAt int64 `json:"updated_at"` // unix milliseconds
}

// ProcessedProject is a summary of a cached wiki shown in the project list
type ProcessedProject struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Name        string `json:"name"`
	RepoType    string `json:"repo_type"`
	SubmittedAt int64  `json:"submittedAt"`
	Language    string `json:"language"`
}

// NewProcessedProject summarizes a cache entry
func NewProcessedProject(e *WikiCacheEntry) *ProcessedProject {
	return &ProcessedProject{
		ID:          fmt.Sprintf("%s_%s_%s_%s", e.RepoType, e.Owner, e.Repo, e.Language),
		Owner:       e.Owner,
		Repo:        e.Repo,
		Name:        e.Owner + "/" + e.Repo,
		RepoType:    e.RepoType,
		SubmittedAt: e.UpdatedAt,
		Language:    e.Language,
	}
}

// ExportFormat is the output format of a wiki export
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// WikiExportRequest is the body of an export request
type WikiExportRequest struct {
	RepoURL string       `json:"repo_url"`
	Pages   []WikiPage   `json:"pages"`
	Format  ExportFormat `json:"format"`
}

// Validate checks the request
func (r *WikiExportRequest) Validate() error {
	if r.RepoURL == "" {
		return goerr.New("repo_url is required", goerr.T(types.ErrTagInvalidArgument))
	}
	switch r.Format {
	case ExportFormatMarkdown, ExportFormatJSON:
		return nil
	default:
		return goerr.New("format must be markdown or json",
			goerr.V("format", r.Format),
			goerr.T(types.ErrTagInvalidArgument),
		)
	}
}

// ExportedFile is a rendered export ready for download
type ExportedFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
