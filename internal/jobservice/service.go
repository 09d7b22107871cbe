// Package jobservice implements the admission gatekeeper: request
// validation's identity projection, deduplication, resource
// reservation, and workflow dispatch to the executor.
package jobservice

import (
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/identity"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/metrics"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/requeststore"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/resources"
)

// Executor is the subset of internal/executor.Executor the job
// service depends on, kept as an interface so tests can substitute a
// recording fake instead of running real goroutines.
type Executor interface {
	Submit(workflow models.BuildWorkflow)
}

// Service is the sole entry point for admission. The only public
// write operation is CreateJob; GetJob and ListJobs are read-only.
type Service struct {
	store     requeststore.Store
	executor  Executor
	resources *resources.Manager
}

// New wires a Service from its three collaborators.
func New(store requeststore.Store, executor Executor, rm *resources.Manager) *Service {
	return &Service{store: store, executor: executor, resources: rm}
}

// CreateJob runs the admission algorithm from spec.md §4.5 and
// returns the job id. The request-store entry for a new job is
// visible to GetJob before CreateJob returns; if resource reservation
// fails, no residual store entry remains.
func (s *Service) CreateJob(params models.IndexBuildParameters) (string, error) {
	requestParams := params.RequestParameters()
	jobID := identity.JobID(requestParams)

	existing, found := s.store.Get(jobID)
	if found {
		if existing.CompareRequestParameters(requestParams) {
			logging.Log.WithField("job_id", jobID).Info("job already exists, returning existing id")
			return jobID, nil
		}
		metrics.RecordAdmissionRejection("hash_collision")
		return "", ErrHashCollision
	}

	job := models.Job{
		ID:                jobID,
		Status:            models.JobStatusRunning,
		RequestParameters: requestParams,
		CreatedAt:         time.Now(),
	}
	if !s.store.Add(jobID, job) {
		metrics.RecordAdmissionRejection("capacity")
		return "", ErrCapacity
	}

	estimate := identity.EstimateMemory(
		params.Dimension,
		params.DocCount,
		params.DataType,
		params.IndexParameters.AlgorithmParameters.M,
	)

	if !s.resources.TryAllocate(estimate.GPUBytes, estimate.CPUBytes) {
		s.store.Delete(jobID)
		metrics.RecordAdmissionRejection("capacity")
		return "", ErrCapacity
	}

	workflow := models.BuildWorkflow{
		JobID:                jobID,
		GPUMemoryRequired:    estimate.GPUBytes,
		CPUMemoryRequired:    estimate.CPUBytes,
		IndexBuildParameters: params,
	}
	s.executor.Submit(workflow)
	metrics.RecordJobSubmission()

	logging.Log.WithField("job_id", jobID).
		WithField("gpu_bytes", estimate.GPUBytes).
		WithField("cpu_bytes", estimate.CPUBytes).
		Info("admitted build job")

	return jobID, nil
}

// GetJob returns the job record for id, or ErrNotFound if it is
// unknown or has been evicted.
func (s *Service) GetJob(id string) (models.Job, error) {
	job, ok := s.store.Get(id)
	if !ok {
		return models.Job{}, ErrNotFound
	}
	return job, nil
}

// ListJobs returns every job currently visible in the store.
func (s *Service) ListJobs() map[string]models.Job {
	return s.store.List()
}
