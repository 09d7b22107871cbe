package resources

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAllocateAllOrNothing(t *testing.T) {
	m := NewManager(100, 200)

	ok := m.TryAllocate(50, 50)
	require.True(t, ok)
	assert.Equal(t, float64(50), m.AvailableGPU())
	assert.Equal(t, float64(150), m.AvailableCPU())

	// Exceeds GPU availability; ledger must be untouched.
	ok = m.TryAllocate(60, 10)
	require.False(t, ok)
	assert.Equal(t, float64(50), m.AvailableGPU())
	assert.Equal(t, float64(150), m.AvailableCPU())

	// Exceeds CPU availability only; still all-or-nothing.
	ok = m.TryAllocate(10, 300)
	require.False(t, ok)
	assert.Equal(t, float64(50), m.AvailableGPU())
	assert.Equal(t, float64(150), m.AvailableCPU())
}

func TestReleaseReturnsToInitialState(t *testing.T) {
	m := NewManager(100, 200)

	require.True(t, m.TryAllocate(30, 40))
	require.True(t, m.TryAllocate(20, 10))

	m.Release(30, 40)
	m.Release(20, 10)

	assert.Equal(t, m.TotalGPU(), m.AvailableGPU())
	assert.Equal(t, m.TotalCPU(), m.AvailableCPU())
}

func TestZeroLimitRejectsAnyNontrivialAllocation(t *testing.T) {
	m := NewManager(0, 0)
	assert.False(t, m.TryAllocate(1, 1))
}

func TestConcurrentAllocateReleaseStaysInBounds(t *testing.T) {
	m := NewManager(1000, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.TryAllocate(5, 5) {
				m.Release(5, 5)
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, m.AvailableGPU(), float64(0))
	assert.LessOrEqual(t, m.AvailableGPU(), float64(1000))
	assert.GreaterOrEqual(t, m.AvailableCPU(), float64(0))
	assert.LessOrEqual(t, m.AvailableCPU(), float64(1000))
	assert.Equal(t, float64(1000), m.AvailableGPU())
	assert.Equal(t, float64(1000), m.AvailableCPU())
}
