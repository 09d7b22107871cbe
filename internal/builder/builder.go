// Package builder adapts the C7 external collaborators — the
// object-store and the vector-index engine — into the single
// executor.BuildFunc the worker pool invokes. The engine itself is
// modeled as a Go interface with one method, Build, since the concrete
// ANN libraries referenced by spec.md (FAISS, nmslib) have no
// pure-Go/cgo-free binding anywhere in the retrieved pack; Engine is
// the seam a real binding would plug into.
package builder

import (
	"context"
	"fmt"
	"io"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/objectstore"
)

// Engine builds a vector index artifact from raw vector and doc-id
// blobs, writing the result to w. It returns a non-nil error if the
// build fails.
type Engine interface {
	Build(ctx context.Context, params models.IndexBuildParameters, vectors io.Reader, docIDs io.Reader, w io.Writer) error
}

// StoreResolver resolves the object-store backend for a build, keyed
// by repository_type. *objectstore.Factory implements this; tests
// substitute a fixed single-backend fake.
type StoreResolver interface {
	Store(repositoryType models.RepositoryType) (objectstore.Store, error)
}

// Adapter wires a StoreResolver and an Engine into an
// executor.BuildFunc.
type Adapter struct {
	stores StoreResolver
	engine Engine
}

// New creates an Adapter.
func New(stores StoreResolver, engine Engine) *Adapter {
	return &Adapter{stores: stores, engine: engine}
}

// Build implements executor.BuildFunc. It resolves the object-store
// backend named by the workflow's repository_type, reads the vector
// and doc-id blobs, invokes the engine, and writes the resulting
// artifact back under the object-store key
// IndexBuildParameters.ArtifactName derives. The returned file name is
// that key's basename (spec.md §6), the value reported to clients.
func (a *Adapter) Build(ctx context.Context, workflow models.BuildWorkflow) (ok bool, fileName string, errMsg string) {
	params := workflow.IndexBuildParameters
	logger := logging.Log.WithField("job_id", workflow.JobID)

	store, err := a.stores.Store(params.RepositoryType)
	if err != nil {
		logger.WithError(err).Warn("failed to resolve object store")
		return false, "", fmt.Sprintf("failed to resolve object store: %v", err)
	}

	vectors, err := store.ReadBlob(ctx, params.VectorPath)
	if err != nil {
		logger.WithError(err).Warn("failed to read vector blob")
		return false, "", fmt.Sprintf("failed to read vector_path: %v", err)
	}
	defer vectors.Close()

	docIDs, err := store.ReadBlob(ctx, params.DocIDPath)
	if err != nil {
		logger.WithError(err).Warn("failed to read doc id blob")
		return false, "", fmt.Sprintf("failed to read doc_id_path: %v", err)
	}
	defer docIDs.Close()

	pr, pw := io.Pipe()
	buildErrCh := make(chan error, 1)
	go func() {
		buildErrCh <- a.engine.Build(ctx, params, vectors, docIDs, pw)
		pw.Close()
	}()

	artifactKey := params.ArtifactName()
	if err := store.WriteBlob(ctx, artifactKey, pr); err != nil {
		logger.WithError(err).Warn("failed to write artifact blob")
		return false, "", fmt.Sprintf("failed to write artifact: %v", err)
	}

	if err := <-buildErrCh; err != nil {
		logger.WithError(err).Warn("engine build failed")
		return false, "", fmt.Sprintf("index build failed: %v", err)
	}

	return true, params.ArtifactFileName(), ""
}
