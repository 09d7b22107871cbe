package builder

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
)

// FlatEngine is a dependency-free stand-in for a real FAISS/nmslib
// binding (Non-goal: no ANN library implementation, see spec.md). It
// streams the raw vector blob straight through into a small
// self-describing container: a header (dimension, doc count, space
// type, algorithm) followed by the vector bytes unmodified. It exists
// so the executor's build path is exercised end to end without a cgo
// dependency the corpus never demonstrates.
type FlatEngine struct{}

// NewFlatEngine constructs a FlatEngine.
func NewFlatEngine() *FlatEngine { return &FlatEngine{} }

// Build satisfies the Engine interface.
func (e *FlatEngine) Build(ctx context.Context, params models.IndexBuildParameters, vectors io.Reader, docIDs io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)

	header := struct {
		Dimension      int32
		DocCount       int32
		SpaceType      [16]byte
		Algorithm      [16]byte
		EfConstruction int32
		EfSearch       int32
		M              int32
	}{
		Dimension:      int32(params.Dimension),
		DocCount:       int32(params.DocCount),
		EfConstruction: int32(params.IndexParameters.AlgorithmParameters.EfConstruction),
		EfSearch:       int32(params.IndexParameters.AlgorithmParameters.EfSearch),
		M:              int32(params.IndexParameters.AlgorithmParameters.M),
	}
	copy(header.SpaceType[:], string(params.IndexParameters.SpaceType))
	copy(header.Algorithm[:], string(params.IndexParameters.Algorithm))

	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	if _, err := io.Copy(bw, vectors); err != nil {
		return err
	}
	if _, err := io.Copy(io.Discard, docIDs); err != nil {
		return err
	}

	return bw.Flush()
}
