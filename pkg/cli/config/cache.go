package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/repowiki/pkg/domain/interfaces"
	"github.com/m-mizutani/repowiki/pkg/infra/wikicache"
	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Cache holds wiki cache storage configuration
type Cache struct {
	Backend             string
	Dir                 string
	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string
	GCSBucket           string
	GCSPrefix           string
	CredentialsFile     string
}

// Flags returns CLI flags for cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cache-backend",
			Usage:       "Wiki cache backend (fs, memory, firestore, gcs)",
			Value:       "fs",
			Destination: &c.Backend,
			Sources:     cli.EnvVars("REPOWIKI_CACHE_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "cache-dir",
			Usage:       "Directory of the fs cache backend",
			Value:       "~/.repowiki/wikicache",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("REPOWIKI_CACHE_DIR"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud Project ID of the Firestore cache",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("REPOWIKI_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("REPOWIKI_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection of cache documents",
			Value:       "wiki_cache",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("REPOWIKI_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket of the gcs cache backend",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("REPOWIKI_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Value:       "wikicache",
			Destination: &c.GCSPrefix,
			Sources:     cli.EnvVars("REPOWIKI_GCS_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "gcp-credentials-file",
			Usage:       "Service account key file for Firestore/Cloud Storage (default: application default credentials)",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("REPOWIKI_GCP_CREDENTIALS_FILE"),
		},
	}
}

func (c *Cache) clientOptions() ([]option.ClientOption, error) {
	if c.CredentialsFile == "" {
		return nil, nil
	}
	path, err := homedir.Expand(c.CredentialsFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to expand credentials path", goerr.V("path", c.CredentialsFile))
	}
	return []option.ClientOption{option.WithCredentialsFile(path)}, nil
}

// New creates the cache repository. The returned function releases its clients.
func (c *Cache) New(ctx context.Context) (interfaces.WikiCacheRepository, func(), error) {
	noop := func() {}

	switch c.Backend {
	case "", "fs":
		dir, err := homedir.Expand(c.Dir)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to expand cache directory", goerr.V("dir", c.Dir))
		}
		repo, err := wikicache.NewFileSystem(dir)
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil

	case "memory":
		return wikicache.NewMemory(), noop, nil

	case "firestore":
		if c.FirestoreProjectID == "" {
			return nil, nil, goerr.New("firestore-project-id is required for firestore cache backend")
		}
		opts, err := c.clientOptions()
		if err != nil {
			return nil, nil, err
		}
		repo, err := wikicache.NewFirestore(ctx, c.FirestoreProjectID, c.FirestoreDatabaseID, c.FirestoreCollection, opts...)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	case "gcs":
		if c.GCSBucket == "" {
			return nil, nil, goerr.New("gcs-bucket is required for gcs cache backend")
		}
		opts, err := c.clientOptions()
		if err != nil {
			return nil, nil, err
		}
		repo, err := wikicache.NewCloudStorage(ctx, c.GCSBucket, c.GCSPrefix, opts...)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	default:
		return nil, nil, goerr.New("unknown cache backend", goerr.V("backend", c.Backend))
	}
}
