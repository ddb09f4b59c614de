package wikicache

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/model"
	"github.com/m-mizutani/repowiki/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreDoc is the document layout. The wiki body is kept as a JSON string
// because page maps use arbitrary keys that are not valid field paths. A body
// larger than the chunk size is moved to the "chunks" subcollection and Chunks
// holds the number of chunk documents.
type firestoreDoc struct {
	Owner     string `firestore:"owner"`
	Repo      string `firestore:"repo"`
	RepoType  string `firestore:"repo_type"`
	Language  string `firestore:"language"`
	Data      string `firestore:"data,omitempty"`
	Chunks    int    `firestore:"chunks,omitempty"`
	UpdatedAt int64  `firestore:"updated_at"`
}

type firestoreChunk struct {
	Data []byte `firestore:"data"`
}

// Firestore documents are limited to 1 MiB
const defaultFirestoreChunkSize = 512 * 1024

const chunkCollection = "chunks"

// Firestore stores cache entries as documents of one collection
type Firestore struct {
	client     *firestore.Client
	collection string
	chunkSize  int
}

// NewFirestore connects to the Firestore database
func NewFirestore(ctx context.Context, projectID, databaseID, collection string, opts ...option.ClientOption) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	return &Firestore{
		client:     client,
		collection: collection,
		chunkSize:  defaultFirestoreChunkSize,
	}, nil
}

// Close releases the client
func (x *Firestore) Close() error {
	return x.client.Close()
}

func (x *Firestore) doc(key model.WikiCacheKey) *firestore.DocumentRef {
	return x.client.Collection(x.collection).Doc(docID(key))
}

func chunkRef(parent *firestore.DocumentRef, i int) *firestore.DocumentRef {
	return parent.Collection(chunkCollection).Doc(fmt.Sprintf("%04d", i))
}

// splitPayload cuts data into pieces of at most size bytes
func splitPayload(data []byte, size int) [][]byte {
	var parts [][]byte
	for len(data) > size {
		parts = append(parts, data[:size])
		data = data[size:]
	}
	return append(parts, data)
}

// loadData returns the JSON body of doc, reading chunk documents when needed
func (x *Firestore) loadData(ctx context.Context, ref *firestore.DocumentRef, doc *firestoreDoc) ([]byte, error) {
	if doc.Chunks == 0 {
		return []byte(doc.Data), nil
	}

	refs := make([]*firestore.DocumentRef, doc.Chunks)
	for i := range refs {
		refs[i] = chunkRef(ref, i)
	}
	snaps, err := x.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get wiki cache chunks", goerr.V("id", ref.ID))
	}

	var data []byte
	for i, snap := range snaps {
		if !snap.Exists() {
			return nil, goerr.New("wiki cache chunk is missing", goerr.V("id", ref.ID), goerr.V("chunk", i))
		}
		var chunk firestoreChunk
		if err := snap.DataTo(&chunk); err != nil {
			return nil, goerr.Wrap(err, "failed to decode wiki cache chunk", goerr.V("id", ref.ID), goerr.V("chunk", i))
		}
		data = append(data, chunk.Data...)
	}
	return data, nil
}

// deleteChunks removes chunk documents in [from, to)
func (x *Firestore) deleteChunks(ctx context.Context, ref *firestore.DocumentRef, from, to int) error {
	for i := from; i < to; i++ {
		if _, err := chunkRef(ref, i).Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete wiki cache chunk", goerr.V("id", ref.ID), goerr.V("chunk", i))
		}
	}
	return nil
}

// storedChunks returns the chunk count of the current document, zero when absent
func (x *Firestore) storedChunks(ctx context.Context, ref *firestore.DocumentRef) (int, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, goerr.Wrap(err, "failed to get wiki cache document", goerr.V("id", ref.ID))
	}
	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		ctxlog.From(ctx).Warn("Failed to decode wiki cache document before overwrite", "id", ref.ID, "error", err)
		return 0, nil
	}
	return doc.Chunks, nil
}

// Get implements interfaces.WikiCacheRepository
func (x *Firestore) Get(ctx context.Context, key model.WikiCacheKey) (*model.WikiCacheEntry, error) {
	snap, err := x.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get wiki cache document", goerr.V("key", key.String()))
	}

	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode wiki cache document", goerr.V("key", key.String()))
	}
	data, err := x.loadData(ctx, snap.Ref, &doc)
	if err != nil {
		return nil, err
	}
	return doc.toEntry(data)
}

// Put implements interfaces.WikiCacheRepository
func (x *Firestore) Put(ctx context.Context, entry *model.WikiCacheEntry) error {
	data, err := json.Marshal(entry.WikiCacheData)
	if err != nil {
		return goerr.Wrap(err, "failed to encode wiki cache")
	}

	ref := x.doc(entry.WikiCacheKey)
	prevChunks, err := x.storedChunks(ctx, ref)
	if err != nil {
		return err
	}

	doc := &firestoreDoc{
		Owner:     entry.Owner,
		Repo:      entry.Repo,
		RepoType:  entry.RepoType,
		Language:  entry.Language,
		UpdatedAt: entry.UpdatedAt,
	}

	if len(data) <= x.chunkSize {
		doc.Data = string(data)
	} else {
		parts := splitPayload(data, x.chunkSize)
		for i, part := range parts {
			if _, err := chunkRef(ref, i).Set(ctx, &firestoreChunk{Data: part}); err != nil {
				return goerr.Wrap(err, "failed to set wiki cache chunk",
					goerr.V("key", entry.WikiCacheKey.String()),
					goerr.V("chunk", i))
			}
		}
		doc.Chunks = len(parts)
		ctxlog.From(ctx).Debug("Wiki cache split into chunks",
			"key", entry.WikiCacheKey.String(),
			"bytes", len(data),
			"chunks", doc.Chunks,
		)
	}

	if _, err := ref.Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to set wiki cache document", goerr.V("key", entry.WikiCacheKey.String()))
	}

	return x.deleteChunks(ctx, ref, doc.Chunks, prevChunks)
}

// Delete implements interfaces.WikiCacheRepository
func (x *Firestore) Delete(ctx context.Context, key model.WikiCacheKey) error {
	ref := x.doc(key)
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.New("wiki cache not found", goerr.V("key", key.String()), goerr.T(types.ErrTagNotFound))
		}
		return goerr.Wrap(err, "failed to get wiki cache document", goerr.V("key", key.String()))
	}

	var doc firestoreDoc
	if err := snap.DataTo(&doc); err == nil {
		if err := x.deleteChunks(ctx, ref, 0, doc.Chunks); err != nil {
			return err
		}
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete wiki cache document", goerr.V("key", key.String()))
	}
	return nil
}

// List implements interfaces.WikiCacheRepository
func (x *Firestore) List(ctx context.Context) ([]*model.WikiCacheEntry, error) {
	logger := ctxlog.From(ctx)
	iter := x.client.Collection(x.collection).Documents(ctx)
	defer iter.Stop()

	var entries []*model.WikiCacheEntry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate wiki cache documents")
		}

		var doc firestoreDoc
		if err := snap.DataTo(&doc); err != nil {
			logger.Warn("Failed to decode wiki cache document", "id", snap.Ref.ID, "error", err)
			continue
		}
		data, err := x.loadData(ctx, snap.Ref, &doc)
		if err != nil {
			logger.Warn("Failed to load wiki cache payload", "id", snap.Ref.ID, "error", err)
			continue
		}
		entry, err := doc.toEntry(data)
		if err != nil {
			logger.Warn("Failed to decode wiki cache payload", "id", snap.Ref.ID, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (d *firestoreDoc) toEntry(data []byte) (*model.WikiCacheEntry, error) {
	entry := &model.WikiCacheEntry{
		WikiCacheKey: model.WikiCacheKey{
			Owner:    d.Owner,
			Repo:     d.Repo,
			RepoType: d.RepoType,
			Language: d.Language,
		},
		UpdatedAt: d.UpdatedAt,
	}
	if err := json.Unmarshal(data, &entry.WikiCacheData); err != nil {
		return nil, goerr.Wrap(err, "failed to decode wiki cache data")
	}
	return entry, nil
}
