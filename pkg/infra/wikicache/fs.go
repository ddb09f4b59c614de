package wikicache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
)

// FileSystem stores each cache entry as a JSON file in a single directory
type FileSystem struct {
	dir string
}

// NewFileSystem creates the cache directory if needed
func NewFileSystem(dir string) (*FileSystem, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create wiki cache directory", goerr.V("dir", dir))
	}
	return &FileSystem{dir: dir}, nil
}

func (x *FileSystem) path(key model.WikiCacheKey) string {
	// Separators in key parts would escape the cache directory
	name := strings.NewReplacer("/", "-", `\`, "-").Replace(key.FileName())
	return filepath.Join(x.dir, name)
}

// Get implements interfaces.WikiCacheRepository
func (x *FileSystem) Get(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheEntry, error) {
	path := x.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read wiki cache", goerr.V("path", path))
	}

	var entry model.WikiCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode wiki cache", goerr.V("path", path))
	}
	return &entry, nil
}

// Put implements interfaces.WikiCacheRepository. The file is written to a
// temporary name first so that readers never see a partial entry.
func (x *FileSystem) Put(ctx context.Context, entry *model.WikiCacheEntry) error {
	path := x.path(entry.WikiCacheKey)
	raw, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode wiki cache")
	}

	tmp, err := os.CreateTemp(x.dir, ".wikicache-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary cache file", goerr.V("dir", x.dir))
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write wiki cache", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close wiki cache", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to move wiki cache into place", goerr.V("path", path))
	}

	ctxlog.From(ctx).Debug("Wrote wiki cache file", "path", path, "size_bytes", len(raw))
	return nil
}

// Delete implements interfaces.WikiCacheRepository
func (x *FileSystem) Delete(ctx context.Context, key model.WikiCacheKey) error {
	path := x.path(key)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return goerr.New("wiki cache not found", goerr.V("key", key.String()), goerr.T(types.ErrTagNotFound))
		}
		return goerr.Wrap(err, "failed to delete wiki cache", goerr.V("path", path))
	}
	return nil
}

// List implements interfaces.WikiCacheRepository. Unreadable files are skipped with a warning.
func (x *FileSystem) List(ctx context.Context) ([]*model.WikiCacheEntry, error) {
	logger := ctxlog.From(ctx)

	files, err := os.ReadDir(x.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to list wiki cache directory", goerr.V("dir", x.dir))
	}

	var entries []*model.WikiCacheEntry
	for _, f := range files {
		if f.IsDir() || !strings.HasPrefix(f.Name(), "repowiki_cache_") || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}

		path := filepath.Join(x.dir, f.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read wiki cache file", "path", path, "error", err)
			continue
		}

		var entry model.WikiCacheEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			logger.Warn("Failed to decode wiki cache file", "path", path, "error", err)
			continue
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
