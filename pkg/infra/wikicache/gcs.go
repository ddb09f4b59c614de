package wikicache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// CloudStorage stores cache entries as JSON objects under a bucket prefix
type CloudStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewCloudStorage connects to Cloud Storage
func NewCloudStorage(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*CloudStorage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cloud storage client", goerr.V("bucket", bucket))
	}

	return &CloudStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Close releases the client
func (x *CloudStorage) Close() error {
	return x.client.Close()
}

func (x *CloudStorage) object(key model.WikiCacheKey) *storage.ObjectHandle {
	return x.client.Bucket(x.bucket).Object(path.Join(x.prefix, docID(key)+".json"))
}

// Get implements interfaces.WikiCacheRepository
func (x *CloudStorage) Get(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheEntry, error) {
	r, err := x.object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to open wiki cache object", goerr.V("key", key.String()))
	}
	defer r.Close()

	return decodeEntry(r)
}

// Put implements interfaces.WikiCacheRepository
func (x *CloudStorage) Put(ctx context.Context, entry *model.WikiCacheEntry) error {
	w := x.object(entry.WikiCacheKey).NewWriter(ctx)
	w.ContentType = "application/json"

	if err := json.NewEncoder(w).Encode(entry); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write wiki cache object", goerr.V("key", entry.WikiCacheKey.String()))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize wiki cache object", goerr.V("key", entry.WikiCacheKey.String()))
	}
	return nil
}

// Delete implements interfaces.WikiCacheRepository
func (x *CloudStorage) Delete(ctx context.Context, key model.WikiCacheKey) error {
	if err := x.object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return goerr.New("wiki cache not found", goerr.V("key", key.String()), goerr.T(types.ErrTagNotFound))
		}
		return goerr.Wrap(err, "failed to delete wiki cache object", goerr.V("key", key.String()))
	}
	return nil
}

// List implements interfaces.WikiCacheRepository
func (x *CloudStorage) List(ctx context.Context) ([]*model.WikiCacheEntry, error) {
	logger := ctxlog.From(ctx)
	bucket := x.client.Bucket(x.bucket)

	query := &storage.Query{}
	if x.prefix != "" {
		query.Prefix = x.prefix + "/"
	}

	var entries []*model.WikiCacheEntry
	it := bucket.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list wiki cache objects", goerr.V("bucket", x.bucket))
		}
		if !strings.HasSuffix(attrs.Name, ".json") {
			continue
		}

		entry, err := x.read(ctx, attrs.Name)
		if err != nil {
			logger.Warn("Failed to read wiki cache object", "name", attrs.Name, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (x *CloudStorage) read(ctx context.Context, name string) (*model.WikiCacheEntry, error) {
	r, err := x.client.Bucket(x.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("name", name))
	}
	defer r.Close()
	return decodeEntry(r)
}

func decodeEntry(r io.Reader) (*model.WikiCacheEntry, error) {
	var entry model.WikiCacheEntry
	if err := json.NewDecoder(r).Decode(&entry); err != nil {
		return nil, goerr.Wrap(err, "failed to decode wiki cache entry")
	}
	return &entry, nil
}
