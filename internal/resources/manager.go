// Package resources implements the GPU/CPU memory ledger that gates
// how many concurrent index builds the service will admit.
package resources

import "sync"

// Manager tracks available GPU and CPU memory against fixed totals
// fixed at startup. All operations are atomic across both dimensions
// under a single mutex; there are no queues or waiters, so admission
// failure is immediate.
type Manager struct {
	mu           sync.Mutex
	totalGPU     float64
	totalCPU     float64
	availableGPU float64
	availableCPU float64
}

// NewManager creates a ledger with the given totals, fully available.
func NewManager(totalGPU, totalCPU float64) *Manager {
	return &Manager{
		totalGPU:     totalGPU,
		totalCPU:     totalCPU,
		availableGPU: totalGPU,
		availableCPU: totalCPU,
	}
}

// TryAllocate atomically reserves gpu and cpu bytes if both are
// available, leaving the ledger unchanged otherwise.
func (m *Manager) TryAllocate(gpu, cpu float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.availableGPU < gpu || m.availableCPU < cpu {
		return false
	}
	m.availableGPU -= gpu
	m.availableCPU -= cpu
	return true
}

// Release adds gpu and cpu bytes back to the ledger. The caller must
// only release what it previously allocated; Release does not itself
// track outstanding reservations.
func (m *Manager) Release(gpu, cpu float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.availableGPU += gpu
	m.availableCPU += cpu
}

// AvailableGPU returns a snapshot of the available GPU memory, bytes.
func (m *Manager) AvailableGPU() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableGPU
}

// AvailableCPU returns a snapshot of the available CPU memory, bytes.
func (m *Manager) AvailableCPU() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableCPU
}

// TotalGPU returns the fixed startup GPU memory budget, bytes.
func (m *Manager) TotalGPU() float64 {
	return m.totalGPU
}

// TotalCPU returns the fixed startup CPU memory budget, bytes.
func (m *Manager) TotalCPU() float64 {
	return m.totalCPU
}
