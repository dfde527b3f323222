// Package batch accumulates per-row edits and flushes them concurrently.
//
// A Pending set maps an entity id to the latest partial patch staged for it.
// Flush fires one send per dirty id on a bounded worker pool, with no
// ordering and no cross-row atomicity, and reports the aggregate outcome.
// Rows whose send failed stay pending so the caller can retry them.
package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aircon-store/storefront/pkg/workerpool"
)

// Pending holds staged patches keyed by id. Safe for concurrent use.
type Pending[P any] struct {
	mu    sync.Mutex
	items map[string]P
}

func NewPending[P any]() *Pending[P] {
	return &Pending[P]{items: map[string]P{}}
}

// Stage replaces whatever was staged for id.
func (p *Pending[P]) Stage(id string, patch P) {
	p.mu.Lock()
	p.items[id] = patch
	p.mu.Unlock()
}

// Update merges into the staged patch for id, starting from the zero value.
func (p *Pending[P]) Update(id string, fn func(*P)) {
	p.mu.Lock()
	cur := p.items[id]
	fn(&cur)
	p.items[id] = cur
	p.mu.Unlock()
}

func (p *Pending[P]) Discard(id string) {
	p.mu.Lock()
	delete(p.items, id)
	p.mu.Unlock()
}

func (p *Pending[P]) Get(id string) (P, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.items[id]
	return v, ok
}

func (p *Pending[P]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// IDs returns the dirty ids in ascending order.
func (p *Pending[P]) IDs() []string {
	p.mu.Lock()
	ids := make([]string, 0, len(p.items))
	for id := range p.items {
		ids = append(ids, id)
	}
	p.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Result is the aggregate outcome of a flush.
type Result struct {
	Succeeded []string
	Failed    map[string]error
}

// OK reports whether every row succeeded.
func (r Result) OK() bool { return len(r.Failed) == 0 }

// Flush sends every staged patch through send using at most workers
// goroutines. Succeeded rows are removed from the set.
func (p *Pending[P]) Flush(ctx context.Context, workers int, send func(ctx context.Context, id string, patch P) error) Result {
	p.mu.Lock()
	snapshot := make(map[string]P, len(p.items))
	for id, v := range p.items {
		snapshot[id] = v
	}
	p.mu.Unlock()

	res := Run(ctx, workers, snapshot, send)

	p.mu.Lock()
	for _, id := range res.Succeeded {
		delete(p.items, id)
	}
	p.mu.Unlock()
	return res
}

// Run sends each entry of patches concurrently and aggregates the outcome.
func Run[P any](ctx context.Context, workers int, patches map[string]P, send func(ctx context.Context, id string, patch P) error) Result {
	res := Result{Succeeded: []string{}, Failed: map[string]error{}}
	if len(patches) == 0 {
		return res
	}
	if workers > len(patches) {
		workers = len(patches)
	}

	pool := workerpool.New(workers)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(id string, err error) {
		mu.Lock()
		if err != nil {
			res.Failed[id] = err
		} else {
			res.Succeeded = append(res.Succeeded, id)
		}
		mu.Unlock()
	}

	for id, patch := range patches {
		id, patch := id, patch
		wg.Add(1)
		err := pool.SubmitWait(ctx, func() {
			defer wg.Done()
			record(id, call(ctx, send, id, patch))
		})
		if err != nil {
			wg.Done()
			record(id, err)
		}
	}
	wg.Wait()
	pool.Shutdown()

	sort.Strings(res.Succeeded)
	return res
}

// call runs send, turning a panic into that row's error.
func call[P any](ctx context.Context, send func(ctx context.Context, id string, patch P) error, id string, patch P) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch: row %s panicked: %v", id, r)
		}
	}()
	return send(ctx, id, patch)
}
