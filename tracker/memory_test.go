package tracker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	op1 := NewOperationID()
	op2 := NewOperationID()
	require.NotEqual(t, op1, op2)

	require.NoError(t, m.Start(ctx, op1))
	require.NoError(t, m.Start(ctx, op2))
	assert.False(t, m.IsCancelled(ctx, op1))

	require.NoError(t, m.Cancel(ctx, op1))
	assert.True(t, m.IsCancelled(ctx, op1))
	//互不影响
	assert.False(t, m.IsCancelled(ctx, op2))

	require.NoError(t, m.Finish(ctx, op1))
	assert.False(t, m.IsCancelled(ctx, op1))
}

func TestMemoryTrackerUnknownOperation(t *testing.T) {
	m := NewMemory()
	assert.False(t, m.IsCancelled(context.Background(), "never-started"))
}

func TestMemoryTrackerConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	const ops = 50

	ids := make([]string, ops)
	for i := range ids {
		ids[i] = NewOperationID()
		require.NoError(t, m.Start(ctx, ids[i]))
	}

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			_ = m.Cancel(ctx, id)
		}(ids[i])
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.IsCancelled(ctx, id)
			}
		}(ids[i])
	}
	wg.Wait()

	for i := range ids {
		assert.True(t, m.IsCancelled(ctx, ids[i]))
	}
}
