package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
)

type wiki struct {
	cache interfaces.WikiCacheRepository
	now   func() time.Time
}

// WikiOption configures the wiki use case
type WikiOption func(*wiki)

// WithClock replaces the time source used for cache timestamps and export names
func WithClock(now func() time.Time) WikiOption {
	return func(w *wiki) {
		w.now = now
	}
}

// NewWiki creates a WikiUseCase backed by the cache repository
func NewWiki(cache interfaces.WikiCacheRepository, opts ...WikiOption) interfaces.WikiUseCase {
	uc := &wiki{
		cache: cache,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetCache returns the cached wiki, or nil when nothing is stored for the key
func (uc *wiki) GetCache(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheData, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	entry, err := uc.cache.Get(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get wiki cache", goerr.V("key", key.String()))
	}
	if entry == nil {
		ctxlog.From(ctx).Info("Wiki cache not found", "key", key.String())
		return nil, nil
	}
	return &entry.WikiCacheData, nil
}

// SaveCache stores a generated wiki, replacing any previous one for the same key
func (uc *wiki) SaveCache(ctx context.Context, req *model.WikiCacheRequest) error {
	if err := req.WikiCacheKey.Validate(); err != nil {
		return err
	}

	entry := &model.WikiCacheEntry{
		WikiCacheKey:  req.WikiCacheKey,
		WikiCacheData: req.WikiCacheData,
		UpdatedAt:     uc.now().UnixMilli(),
	}
	if err := uc.cache.Put(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to save wiki cache", goerr.V("key", req.WikiCacheKey.String()))
	}

	ctxlog.From(ctx).Info("Saved wiki cache",
		"key", req.WikiCacheKey.String(),
		"page_count", len(req.GeneratedPages),
	)
	return nil
}

// DeleteCache removes a cached wiki. A missing entry is reported with the not_found tag.
func (uc *wiki) DeleteCache(ctx context.Context, key model.WikiCacheKey) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := uc.cache.Delete(ctx, key); err != nil {
		return goerr.Wrap(err, "failed to delete wiki cache", goerr.V("key", key.String()))
	}

	ctxlog.From(ctx).Info("Deleted wiki cache", "key", key.String())
	return nil
}

// ListProjects summarizes every cached wiki, most recently updated first
func (uc *wiki) ListProjects(ctx context.Context) ([]*model.ProcessedProject, error) {
	entries, err := uc.cache.List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list wiki caches")
	}

	projects := make([]*model.ProcessedProject, 0, len(entries))
	for _, e := range entries {
		projects = append(projects, model.NewProcessedProject(e))
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].SubmittedAt > projects[j].SubmittedAt
	})

	return projects, nil
}

// Export renders wiki pages as a Markdown or JSON attachment
func (uc *wiki) Export(ctx context.Context, req *model.WikiExportRequest) (*model.ExportedFile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	base := fmt.Sprintf("%s_wiki_%s", exportRepoName(req.RepoURL), now.Format("20060102_150405"))

	ctxlog.From(ctx).Info("Exporting wiki",
		"repo_url", req.RepoURL,
		"format", req.Format,
		"page_count", len(req.Pages),
	)

	switch req.Format {
	case model.ExportFormatJSON:
		content, err := renderJSONExport(req.RepoURL, req.Pages, now)
		if err != nil {
			return nil, err
		}
		return &model.ExportedFile{
			FileName:    base + ".json",
			ContentType: "application/json",
			Content:     content,
		}, nil

	default:
		return &model.ExportedFile{
			FileName:    base + ".md",
			ContentType: "text/markdown",
			Content:     renderMarkdownExport(req.RepoURL, req.Pages, now),
		}, nil
	}
}

func exportRepoName(repoURL string) string {
	parts := strings.Split(strings.TrimRight(repoURL, "/"), "/")
	if name := parts[len(parts)-1]; name != "" {
		return name
	}
	return "wiki"
}

func renderMarkdownExport(repoURL string, pages []model.WikiPage, now time.Time) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Wiki Documentation for %s\n\n", repoURL)
	fmt.Fprintf(&b, "Generated on: %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("## Table of Contents\n\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "- [%s](#%s)\n", p.Title, p.ID)
	}
	b.WriteString("\n")

	titles := make(map[string]string, len(pages))
	for _, p := range pages {
		if _, ok := titles[p.ID]; !ok {
			titles[p.ID] = p.Title
		}
	}

	for _, p := range pages {
		fmt.Fprintf(&b, "<a id='%s'></a>\n\n", p.ID)
		fmt.Fprintf(&b, "## %s\n\n", p.Title)

		if len(p.RelatedPages) > 0 {
			b.WriteString("### Related Pages\n\n")
			var links []string
			for _, id := range p.RelatedPages {
				if title, ok := titles[id]; ok {
					links = append(links, fmt.Sprintf("[%s](#%s)", title, id))
				}
			}
			if len(links) > 0 {
				b.WriteString("Related topics: " + strings.Join(links, ", ") + "\n\n")
			}
		}

		b.WriteString(p.Content + "\n\n")
		b.WriteString("---\n\n")
	}

	return b.Bytes()
}

type jsonExport struct {
	Metadata jsonExportMetadata `json:"metadata"`
	Pages    []model.WikiPage   `json:"pages"`
}

type jsonExportMetadata struct {
	Repository  string `json:"repository"`
	GeneratedAt string `json:"generated_at"`
	PageCount   int    `json:"page_count"`
}

func renderJSONExport(repoURL string, pages []model.WikiPage, now time.Time) ([]byte, error) {
	if pages == nil {
		pages = []model.WikiPage{}
	}
	raw, err := json.MarshalIndent(jsonExport{
		Metadata: jsonExportMetadata{
			Repository:  repoURL,
			GeneratedAt: now.Format(time.RFC3339),
			PageCount:   len(pages),
		},
		Pages: pages,
	}, "", "  ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode JSON export")
	}
	return raw, nil
}
