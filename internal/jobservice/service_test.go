package jobservice

import (
	"sync"
	"testing"
	"time"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/identity"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/requeststore"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	mu        sync.Mutex
	submitted []models.BuildWorkflow
}

func (r *recordingExecutor) Submit(workflow models.BuildWorkflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, workflow)
}

func (r *recordingExecutor) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submitted)
}

func baseParams() models.IndexBuildParameters {
	return models.IndexBuildParameters{
		ContainerName:   "bucket",
		VectorPath:      "x.knnvec",
		DocIDPath:       "x.knndid",
		TenantID:        "",
		Dimension:       3,
		DocCount:        5,
		DataType:        "float",
		Engine:          models.EngineFAISS,
		IndexParameters: models.DefaultIndexParameters(),
	}
}

func newService(maxSize int, gpu, cpu float64) (*Service, *recordingExecutor) {
	store := requeststore.NewMemoryStore(maxSize, nil)
	exec := &recordingExecutor{}
	rm := resources.NewManager(gpu, cpu)
	return New(store, exec, rm), exec
}

func TestCreateJobIdempotentDedup(t *testing.T) {
	svc, exec := newService(10, 1e9, 1e9)

	id1, err := svc.CreateJob(baseParams())
	require.NoError(t, err)

	id2, err := svc.CreateJob(baseParams())
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, exec.count())
}

func TestCreateJobCapacityRollbackOnResourceFailure(t *testing.T) {
	svc, exec := newService(10, 0, 0)

	_, err := svc.CreateJob(baseParams())
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, 0, exec.count())

	_, err = svc.GetJob(identityJobID(baseParams()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateJobStoreCapacityFailure(t *testing.T) {
	svc, _ := newService(0, 1e9, 1e9)

	_, err := svc.CreateJob(baseParams())
	assert.ErrorIs(t, err, ErrCapacity)
}

// TestCreateJobHashCollisionDoesNotSubmit forges a store entry under
// the exact id a subsequent CreateJob call's params will hash to, but
// with different RequestParameters — simulating a true SHA-256
// collision without needing a real preimage. CreateJob must detect the
// mismatch via CompareRequestParameters and reject the request without
// ever reaching the executor.
func TestCreateJobHashCollisionDoesNotSubmit(t *testing.T) {
	store := requeststore.NewMemoryStore(10, nil)
	t.Cleanup(store.Close)
	exec := &recordingExecutor{}
	rm := resources.NewManager(1e9, 1e9)
	svc := New(store, exec, rm)

	params := baseParams()
	collidedID := identity.JobID(params.RequestParameters())

	differentParams := identity.RequestParameters{VectorPath: "some-other-path.knnvec", TenantID: "other-tenant"}
	require.True(t, store.Add(collidedID, models.Job{
		ID:                collidedID,
		Status:            models.JobStatusRunning,
		RequestParameters: differentParams,
		CreatedAt:         time.Now(),
	}))

	id, err := svc.CreateJob(params)
	assert.Empty(t, id)
	assert.ErrorIs(t, err, ErrHashCollision)
	assert.Equal(t, 0, exec.count())
}

func TestGetJobUnknownReturnsNotFound(t *testing.T) {
	svc, _ := newService(10, 1e9, 1e9)
	_, err := svc.GetJob("deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListJobsReturnsAdmittedJob(t *testing.T) {
	svc, _ := newService(10, 1e9, 1e9)

	id, err := svc.CreateJob(baseParams())
	require.NoError(t, err)

	jobs := svc.ListJobs()
	require.Contains(t, jobs, id)
	assert.Equal(t, models.JobStatusRunning, jobs[id].Status)
}

func identityJobID(params models.IndexBuildParameters) string {
	return identity.JobID(params.RequestParameters())
}
