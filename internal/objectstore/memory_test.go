package objectstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreWriteThenRead(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.WriteBlob(ctx, "dir/file.knnvec", strings.NewReader("vectors")))

	r, err := s.ReadBlob(ctx, "dir/file.knnvec")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "vectors", string(data))
}

func TestMemoryStoreReadMissingReturnsErrNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.ReadBlob(context.Background(), "missing.knnvec")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreRejectsPathTraversal(t *testing.T) {
	s := NewMemoryStore()
	err := s.WriteBlob(context.Background(), "../etc/passwd", strings.NewReader("x"))
	assert.Error(t, err)
}
