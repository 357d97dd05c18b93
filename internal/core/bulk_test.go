package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	mu      sync.Mutex
	calls   map[Query]int
	active  atomic.Int32
	maxSeen atomic.Int32
	delay   time.Duration
}

func (s *stubCatalog) Fetch(ctx context.Context, q Query) (*Result, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[Query]int{}
	}
	s.calls[q]++
	s.mu.Unlock()

	time.Sleep(s.delay)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &Result{Metadata: &Metadata{Map: Map{"uci_id": q.ID}}}, nil
}

func (s *stubCatalog) Search(context.Context, ListOptions) ([]DatasetSummary, error) {
	return nil, nil
}

func (s *stubCatalog) List(context.Context, ListOptions) error {
	return nil
}

func TestBulkFetch(t *testing.T) {
	stub := &stubCatalog{}
	queries := []Query{{ID: 53}, {ID: 45}, {ID: -1}, {ID: 53}}

	results, errs := BulkFetch(context.Background(), stub, queries)

	require.Len(t, results, 2)
	assert.Equal(t, 53, results[Query{ID: 53}].Metadata.ID())
	assert.Equal(t, 45, results[Query{ID: 45}].Metadata.ID())

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[Query{ID: -1}], ErrInvalidInput)
	assert.Equal(t, 1, stub.calls[Query{ID: 53}], "duplicates are fetched once")
}

func TestBulkFetchConcurrencyLimit(t *testing.T) {
	stub := &stubCatalog{delay: 10 * time.Millisecond}
	var queries []Query
	for i := 1; i <= 10; i++ {
		queries = append(queries, Query{ID: i})
	}

	results, errs := BulkFetchWithConcurrency(context.Background(), stub, queries, 2)
	assert.Len(t, results, 10)
	assert.Empty(t, errs)
	assert.LessOrEqual(t, stub.maxSeen.Load(), int32(2))
}

func TestBulkFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubCatalog{}
	results, errs := BulkFetchWithConcurrency(ctx, stub, []Query{{ID: 1}, {ID: 2}, {ID: 3}}, 1)
	assert.Equal(t, 3, len(results)+len(errs))
}
