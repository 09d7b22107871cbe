// Package requeststore implements the capacity-bounded, TTL-swept
// mapping from job id to job record that backs the request-admission
// layer. The memory backend is the only one specified; the Store
// interface leaves room for future backends behind the same contract.
package requeststore

import (
	"sync"
	"time"

	"github.com/catalystcommunity/app-utils-go/logging"
	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/models"
)

// Patch is a partial update applied atomically to a stored Job.
// Only non-nil fields are applied; CreatedAt is never touched by a
// patch.
type Patch struct {
	Status       *models.JobStatus
	FileName     *string
	ErrorMessage *string
}

// Store is the request-store contract. Implementations must preserve
// linearizability of individual operations; broader transactional
// guarantees are not required.
type Store interface {
	Add(id string, job models.Job) bool
	Get(id string) (models.Job, bool)
	Update(id string, patch Patch) bool
	Delete(id string) bool
	List() map[string]models.Job
}

type entry struct {
	job       models.Job
	createdAt time.Time
}

// MemoryStore is the in-memory Store implementation: a mutex-guarded
// map with a bounded size and an optional TTL, swept by a background
// goroutine every five seconds and evicted lazily on Get.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	maxSize int
	ttl     *time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewMemoryStore creates a store bounded to maxSize entries. If ttl is
// non-nil, a background sweeper removes entries older than ttl every
// five seconds and Get evicts a lazily-observed expired entry.
func NewMemoryStore(maxSize int, ttl *time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		maxSize: maxSize,
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	if ttl != nil {
		logging.Log.WithField("ttl_seconds", ttl.Seconds()).
			Info("starting request store sweeper")
		go s.sweepLoop()
	}
	return s
}

// Close stops the background sweeper, if running. Safe to call more
// than once.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Add inserts job under id if the store is below capacity.
func (s *MemoryStore) Add(id string, job models.Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxSize {
		return false
	}
	s.entries[id] = entry{job: job, createdAt: job.CreatedAt}
	return true
}

// Get returns the job for id, lazily evicting it first if it is
// observed expired.
func (s *MemoryStore) Get(id string) (models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return models.Job{}, false
	}
	if s.expired(e) {
		delete(s.entries, id)
		return models.Job{}, false
	}
	return e.job, true
}

// Update applies patch to the job stored under id, preserving
// createdAt. Returns false if id is unknown.
func (s *MemoryStore) Update(id string, patch Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	if patch.Status != nil {
		e.job.Status = *patch.Status
	}
	if patch.FileName != nil {
		e.job.FileName = patch.FileName
	}
	if patch.ErrorMessage != nil {
		e.job.ErrorMessage = patch.ErrorMessage
	}
	s.entries[id] = e
	return true
}

// Delete removes id from the store. Returns false if it was absent.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// List returns a snapshot of every non-expired job currently stored.
func (s *MemoryStore) List() map[string]models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.Job, len(s.entries))
	for id, e := range s.entries {
		if s.expired(e) {
			continue
		}
		out[id] = e.job
	}
	return out
}

// expired reports whether e is past its TTL. Must be called with
// s.mu held. RUNNING_INDEX_BUILD entries are not protected from
// eviction: TTL is a ceiling on result availability, not a workflow
// lifeline.
func (s *MemoryStore) expired(e entry) bool {
	if s.ttl == nil {
		return false
	}
	return time.Since(e.createdAt) >= *s.ttl
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweepExpired()
		}
	}
}

func (s *MemoryStore) sweepExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl == nil {
		return
	}
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}
