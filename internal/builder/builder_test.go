package builder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/objectstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	err error
}

func (e *stubEngine) Build(ctx context.Context, params models.IndexBuildParameters, vectors, docIDs io.Reader, w io.Writer) error {
	if e.err != nil {
		return e.err
	}
	_, err := io.Copy(w, vectors)
	return err
}

// fixedResolver is a StoreResolver stand-in that hands back the same
// store regardless of repository_type, for tests that don't exercise
// per-type selection.
type fixedResolver struct {
	store objectstore.Store
}

func (f fixedResolver) Store(models.RepositoryType) (objectstore.Store, error) {
	return f.store, nil
}

func paramsFor(vectorPath string) models.IndexBuildParameters {
	return models.IndexBuildParameters{
		VectorPath:      vectorPath,
		DocIDPath:       "x.knndid",
		Engine:          models.EngineFAISS,
		Dimension:       2,
		DocCount:        4,
		IndexParameters: models.DefaultIndexParameters(),
	}
}

func TestAdapterBuildWritesArtifactAndReturnsName(t *testing.T) {
	store := objectstore.NewMemoryStore()
	require.NoError(t, store.WriteBlob(context.Background(), "x.knnvec", bytes.NewBufferString("vector-bytes")))
	require.NoError(t, store.WriteBlob(context.Background(), "x.knndid", bytes.NewBufferString("doc-ids")))

	adapter := New(fixedResolver{store}, &stubEngine{})

	ok, artifactName, errMsg := adapter.Build(context.Background(), models.BuildWorkflow{
		JobID:                "job-1",
		IndexBuildParameters: paramsFor("x.knnvec"),
	})

	require.True(t, ok)
	assert.Equal(t, "x.faiss", artifactName)
	assert.Empty(t, errMsg)

	r, err := store.ReadBlob(context.Background(), "x.faiss")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "vector-bytes", string(data))
}

func TestAdapterBuildReportsBasenameNotFullPath(t *testing.T) {
	store := objectstore.NewMemoryStore()
	require.NoError(t, store.WriteBlob(context.Background(), "tenant/foo.knnvec", bytes.NewBufferString("vector-bytes")))
	require.NoError(t, store.WriteBlob(context.Background(), "tenant/foo.knndid", bytes.NewBufferString("doc-ids")))

	adapter := New(fixedResolver{store}, &stubEngine{})

	params := paramsFor("tenant/foo.knnvec")
	params.DocIDPath = "tenant/foo.knndid"

	ok, fileName, errMsg := adapter.Build(context.Background(), models.BuildWorkflow{
		JobID:                "job-4",
		IndexBuildParameters: params,
	})

	require.True(t, ok)
	assert.Empty(t, errMsg)
	assert.Equal(t, "foo.faiss", fileName)

	r, err := store.ReadBlob(context.Background(), "tenant/foo.faiss")
	require.NoError(t, err)
	r.Close()
}

func TestAdapterBuildMissingVectorBlobFails(t *testing.T) {
	store := objectstore.NewMemoryStore()
	adapter := New(fixedResolver{store}, &stubEngine{})

	ok, _, errMsg := adapter.Build(context.Background(), models.BuildWorkflow{
		JobID:                "job-2",
		IndexBuildParameters: paramsFor("missing.knnvec"),
	})

	assert.False(t, ok)
	assert.Contains(t, errMsg, "failed to read vector_path")
}

func TestAdapterBuildEngineFailurePropagates(t *testing.T) {
	store := objectstore.NewMemoryStore()
	require.NoError(t, store.WriteBlob(context.Background(), "x.knnvec", bytes.NewBufferString("v")))
	require.NoError(t, store.WriteBlob(context.Background(), "x.knndid", bytes.NewBufferString("d")))

	adapter := New(fixedResolver{store}, &stubEngine{err: errors.New("engine blew up")})

	ok, _, errMsg := adapter.Build(context.Background(), models.BuildWorkflow{
		JobID:                "job-3",
		IndexBuildParameters: paramsFor("x.knnvec"),
	})

	assert.False(t, ok)
	assert.Contains(t, errMsg, "engine blew up")
}
