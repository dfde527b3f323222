package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Status   *string
	Featured *bool
}

func TestPendingStageAndUpdate(t *testing.T) {
	p := NewPending[patch]()
	yes := true
	p.Update("a", func(pt *patch) { pt.Featured = &yes })
	status := "inactive"
	p.Update("a", func(pt *patch) { pt.Status = &status })
	p.Stage("b", patch{})

	got, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "inactive", *got.Status)
	assert.True(t, *got.Featured)
	assert.Equal(t, []string{"a", "b"}, p.IDs())

	p.Discard("b")
	assert.Equal(t, 1, p.Len())
}

func TestFlushReportsPartialFailure(t *testing.T) {
	p := NewPending[patch]()
	for _, id := range []string{"a", "b", "c", "d"} {
		p.Stage(id, patch{})
	}

	var calls atomic.Int32
	res := p.Flush(context.Background(), 2, func(_ context.Context, id string, _ patch) error {
		calls.Add(1)
		if id == "c" {
			return errors.New("boom")
		}
		return nil
	})

	assert.EqualValues(t, 4, calls.Load())
	assert.False(t, res.OK())
	assert.Equal(t, []string{"a", "b", "d"}, res.Succeeded)
	require.Contains(t, res.Failed, "c")
	assert.EqualError(t, res.Failed["c"], "boom")

	// Only the failed row stays dirty.
	assert.Equal(t, []string{"c"}, p.IDs())
}

func TestFlushRunsConcurrently(t *testing.T) {
	p := NewPending[patch]()
	for _, id := range []string{"a", "b", "c", "d"} {
		p.Stage(id, patch{})
	}

	var inFlight, peak atomic.Int32
	res := p.Flush(context.Background(), 4, func(context.Context, string, patch) error {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})

	assert.True(t, res.OK())
	assert.Greater(t, peak.Load(), int32(1))
	assert.Zero(t, p.Len())
}

func TestRunEmpty(t *testing.T) {
	res := Run[patch](context.Background(), 4, nil, func(context.Context, string, patch) error {
		t.Fatal("send must not be called")
		return nil
	})
	assert.True(t, res.OK())
	assert.Empty(t, res.Succeeded)
}

func TestFlushRecordsPanicAsFailure(t *testing.T) {
	p := NewPending[patch]()
	for _, id := range []string{"a", "b", "c"} {
		p.Stage(id, patch{})
	}

	res := p.Flush(context.Background(), 2, func(_ context.Context, id string, _ patch) error {
		if id == "b" {
			panic("nil status")
		}
		return nil
	})

	assert.Equal(t, []string{"a", "c"}, res.Succeeded)
	require.Contains(t, res.Failed, "b")
	assert.Contains(t, res.Failed["b"].Error(), "nil status")
	assert.Len(t, res.Succeeded, 3-len(res.Failed))
	assert.Equal(t, []string{"b"}, p.IDs())
}
