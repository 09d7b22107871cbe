// Package models holds the data types shared across the request
// store, job service, executor, and HTTP surface: the wire-level
// build request, the persisted job record, and the workflow handed
// to the executor.
package models

import (
	"path"
	"strings"
	"time"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/identity"
)

// JobStatus is the wire-level status string for a Job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "RUNNING_INDEX_BUILD"
	JobStatusCompleted JobStatus = "COMPLETED_INDEX_BUILD"
	JobStatusFailed    JobStatus = "FAILED_INDEX_BUILD"
)

// Algorithm is the vector indexing algorithm.
type Algorithm string

const AlgorithmHNSW Algorithm = "hnsw"

// SpaceType is the distance metric used for vector comparisons.
type SpaceType string

const (
	SpaceTypeL2           SpaceType = "l2"
	SpaceTypeInnerProduct SpaceType = "innerproduct"
)

// Engine is the vector search engine used to build the index.
type Engine string

const EngineFAISS Engine = "faiss"

// RepositoryType selects the object-store backend a build reads from
// and writes to.
type RepositoryType string

const (
	RepositoryTypeS3     RepositoryType = "s3"
	RepositoryTypeMemory RepositoryType = "memory"
)

// AlgorithmParameters configures the HNSW algorithm.
type AlgorithmParameters struct {
	EfConstruction int `json:"ef_construction"`
	EfSearch       int `json:"ef_search"`
	M              int `json:"m"`
}

// DefaultAlgorithmParameters mirrors the original source's defaults.
func DefaultAlgorithmParameters() AlgorithmParameters {
	return AlgorithmParameters{EfConstruction: 100, EfSearch: 100, M: 16}
}

// IndexParameters configures vector index construction.
type IndexParameters struct {
	Algorithm           Algorithm           `json:"algorithm"`
	SpaceType           SpaceType           `json:"space_type"`
	AlgorithmParameters AlgorithmParameters `json:"algorithm_parameters"`
}

// DefaultIndexParameters mirrors the original source's defaults.
func DefaultIndexParameters() IndexParameters {
	return IndexParameters{
		Algorithm:           AlgorithmHNSW,
		SpaceType:           SpaceTypeL2,
		AlgorithmParameters: DefaultAlgorithmParameters(),
	}
}

// IndexBuildParameters is the full build request payload.
type IndexBuildParameters struct {
	RepositoryType  RepositoryType        `json:"repository_type"`
	ContainerName   string                `json:"container_name"`
	VectorPath      string                `json:"vector_path"`
	DocIDPath       string                `json:"doc_id_path"`
	TenantID        string                `json:"tenant_id"`
	Dimension       int                   `json:"dimension"`
	DocCount        int                   `json:"doc_count"`
	DataType        identity.DataType     `json:"data_type"`
	Engine          Engine                `json:"engine"`
	IndexParameters IndexParameters       `json:"index_parameters"`
}

// RequestParameters projects the identity-bearing fields out of a
// full build request.
func (p IndexBuildParameters) RequestParameters() identity.RequestParameters {
	return identity.RequestParameters{VectorPath: p.VectorPath, TenantID: p.TenantID}
}

// ArtifactName derives the object-store key the built artifact is
// written under: strip the .knnvec suffix from vector_path and append
// "." + engine, preserving any directory prefix vector_path carries.
// The tenant id is not part of the key, so requests that differ only
// in tenant_id write to the same key.
func (p IndexBuildParameters) ArtifactName() string {
	base := strings.TrimSuffix(p.VectorPath, ".knnvec")
	return base + "." + string(p.Engine)
}

// ArtifactFileName is the basename of ArtifactName: the value reported
// to clients as file_name in the /_status response (spec.md §6), which
// never exposes the underlying object-store key's directory prefix.
func (p IndexBuildParameters) ArtifactFileName() string {
	return path.Base(p.ArtifactName())
}

// Job is the record kept in the request store.
type Job struct {
	ID                string
	Status            JobStatus
	RequestParameters identity.RequestParameters
	FileName          *string
	ErrorMessage      *string
	CreatedAt         time.Time
}

// CompareRequestParameters reports whether the job's stored identity
// matches the given request parameters.
func (j Job) CompareRequestParameters(params identity.RequestParameters) bool {
	return j.RequestParameters.Equal(params)
}

// BuildWorkflow is the unit passed to the executor: created at
// admission, owned by the worker that executes it, discarded on
// completion.
type BuildWorkflow struct {
	JobID               string
	GPUMemoryRequired    float64
	CPUMemoryRequired    float64
	IndexBuildParameters IndexBuildParameters
}
