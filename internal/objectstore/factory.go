package objectstore

import (
	"fmt"
	"sync"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
)

// Factory resolves the Store backend for a build on a per-request
// basis, keyed by IndexBuildParameters.RepositoryType — mirroring
// ObjectStoreFactory.create_object_store in the original source, which
// is invoked once per build rather than once at process startup.
// Unsupported repository types are rejected before a Factory is ever
// consulted (internal/httpapi/validation.go), so the default case here
// only guards against values validation missed.
type Factory struct {
	bucket string
	prefix string

	mu     sync.Mutex
	s3     Store
	memory Store
}

// NewFactory builds a Factory that lazily constructs and caches each
// backend the first time a repository_type requests it.
func NewFactory(bucket, prefix string) *Factory {
	return &Factory{bucket: bucket, prefix: prefix}
}

// Store returns the backend for repositoryType, constructing and
// caching it on first use.
func (f *Factory) Store(repositoryType models.RepositoryType) (Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch repositoryType {
	case models.RepositoryTypeS3:
		if f.s3 == nil {
			s3Store, err := NewS3StoreFromEnv(f.bucket, f.prefix)
			if err != nil {
				return nil, err
			}
			f.s3 = s3Store
		}
		return f.s3, nil
	case models.RepositoryTypeMemory:
		if f.memory == nil {
			f.memory = NewMemoryStore()
		}
		return f.memory, nil
	default:
		return nil, fmt.Errorf("objectstore: unsupported repository_type %q", repositoryType)
	}
}
