// Package executor runs admitted builds on a fixed-size worker pool,
// enforcing resource admission defensively, invoking the external
// index-building engine, persisting the outcome, and releasing
// reserved resources on every control-flow path.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/metrics"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/requeststore"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/resources"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// insufficientResourcesMessage is the literal error recorded when the
// worker's defensive re-allocation fails.
const insufficientResourcesMessage = "Worker has not enough memory available at this time"

// BuildFunc converts an admitted workflow into a build outcome. The
// executor treats it as a plain function value (spec.md §9); an
// interface with a single BuildIndex method would be equally valid —
// this is the seam the C7 adapter plugs into.
type BuildFunc func(ctx context.Context, workflow models.BuildWorkflow) (ok bool, artifactName string, errMsg string)

// queueCapacity bounds the in-process submission channel. Go has no
// literally unbounded channel; this is sized well above any volume
// the fixed worker pool could plausibly be asked to absorb, so Submit
// never blocks the HTTP request path in practice.
const queueCapacity = 4096

// Executor is the fixed-size worker pool described in spec.md §4.4.
type Executor struct {
	resources *resources.Manager
	store     requeststore.Store
	build     BuildFunc

	queue chan models.BuildWorkflow
	wg    sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
}

// New creates an Executor with maxWorkers goroutines draining the
// submission queue. Workers are started immediately.
func New(maxWorkers int, rm *resources.Manager, store requeststore.Store, build BuildFunc) *Executor {
	e := &Executor{
		resources: rm,
		store:     store,
		build:     build,
		queue:     make(chan models.BuildWorkflow, queueCapacity),
		closed:    make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		e.wg.Add(1)
		go e.runWorker(i)
	}

	metrics.SetWorkersActive(float64(maxWorkers))
	return e
}

// Submit enqueues workflow without blocking. Any error surfaces later
// via the request store, never to the caller.
func (e *Executor) Submit(workflow models.BuildWorkflow) {
	select {
	case e.queue <- workflow:
	case <-e.closed:
		logging.Log.WithField("job_id", workflow.JobID).
			Warn("submit rejected: executor is shutting down")
	}
}

// Shutdown blocks until every in-flight and queued workflow has
// produced a terminal store state. No new submissions are accepted
// afterward.
func (e *Executor) Shutdown() {
	e.closeOnce.Do(func() {
		close(e.queue)
		close(e.closed)
	})
	e.wg.Wait()
}

func (e *Executor) runWorker(workerIndex int) {
	defer e.wg.Done()

	for workflow := range e.queue {
		e.execute(workflow, workerIndex)
	}
}

// execute runs the per-workflow protocol from spec.md §4.4: defensive
// re-allocation, the external build call, a survivor check against
// the store, and a guaranteed resource release.
func (e *Executor) execute(workflow models.BuildWorkflow, workerIndex int) {
	correlationID := uuid.New().String()
	logger := logging.Log.
		WithField("job_id", workflow.JobID).
		WithField("worker", workerIndex).
		WithField("correlation_id", correlationID)

	if !e.resources.TryAllocate(workflow.GPUMemoryRequired, workflow.CPUMemoryRequired) {
		logger.Warn("defensive re-allocation failed")
		msg := insufficientResourcesMessage
		status := models.JobStatusFailed
		e.store.Update(workflow.JobID, requeststore.Patch{Status: &status, ErrorMessage: &msg})
		metrics.RecordJobOutcome(string(models.JobStatusFailed))
		return
	}

	// Guaranteed release on every exit path, including a panic
	// recovered inside the build call below.
	defer e.resources.Release(workflow.GPUMemoryRequired, workflow.CPUMemoryRequired)

	start := time.Now()
	ok, artifactName, errMsg := e.runBuild(workflow, logger)
	duration := time.Since(start).Seconds()

	if _, stillPresent := e.store.Get(workflow.JobID); !stillPresent {
		logger.Info("job was deleted during execution; skipping store update")
		return
	}

	if ok {
		status := models.JobStatusCompleted
		e.store.Update(workflow.JobID, requeststore.Patch{Status: &status, FileName: &artifactName})
		metrics.RecordJobOutcome(string(models.JobStatusCompleted))
		metrics.RecordBuildDuration(string(models.JobStatusCompleted), duration)
	} else {
		status := models.JobStatusFailed
		e.store.Update(workflow.JobID, requeststore.Patch{Status: &status, ErrorMessage: &errMsg})
		metrics.RecordJobOutcome(string(models.JobStatusFailed))
		metrics.RecordBuildDuration(string(models.JobStatusFailed), duration)
	}
}

// runBuild invokes the external engine, converting any panic into a
// FAILED_INDEX_BUILD outcome so worker goroutines never die.
func (e *Executor) runBuild(workflow models.BuildWorkflow, logger *logrus.Entry) (ok bool, artifactName string, errMsg string) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("build panicked")
			ok = false
			artifactName = ""
			errMsg = "internal error during build"
		}
	}()

	ctx := context.Background()
	return e.build(ctx, workflow)
}
