package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/five82/shelf/internal/catalog"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fail  bool
	err   error
	gate  chan struct{}
}

func (f *fakeFetcher) FetchProducts(ctx context.Context, opts catalog.FetchOptions) ([]catalog.Product, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	fail := f.fail || opts.Fail
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		if err == nil {
			err = catalog.ErrFetchFailed
		}
		return nil, err
	}
	return catalog.SampleProducts(), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) setFail(fail bool) {
	f.mu.Lock()
	f.fail = fail
	f.mu.Unlock()
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Phase, 0, len(r.snaps))
	for _, s := range r.snaps {
		out = append(out, s.Phase)
	}
	return out
}

func TestQuery_ExecuteSuccess(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	initial := q.Snapshot()
	assert.Equal(t, PhaseIdle, initial.Phase)
	assert.False(t, initial.Loading)

	var rec recorder
	cancel := q.Subscribe(rec.observe)
	defer cancel()

	before := time.Now()
	snap := q.Execute(context.Background())

	assert.Equal(t, PhaseSuccess, snap.Phase)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
	require.Len(t, snap.Products, 5)
	assert.Equal(t, "p1", snap.Products[0].ID)
	assert.Equal(t, "p5", snap.Products[4].ID)
	assert.False(t, snap.LastUpdated.Before(before))

	assert.Equal(t, []Phase{PhaseLoading, PhaseSuccess}, rec.phases())
	rec.mu.Lock()
	loading := rec.snaps[0]
	rec.mu.Unlock()
	assert.True(t, loading.Loading)
	assert.Nil(t, loading.Products)
}

func TestQuery_ExecuteFailure(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true, ShouldFail: true})

	snap := q.Execute(context.Background())
	assert.Equal(t, PhaseError, snap.Phase)
	assert.False(t, snap.Loading)
	assert.Equal(t, "Failed to load products", snap.Err)
	assert.True(t, snap.HasError())
	assert.Nil(t, snap.Products)
	assert.Equal(t, 1, snap.ConsecutiveFailures)

	snap = q.Refresh(context.Background())
	assert.Equal(t, 2, snap.ConsecutiveFailures)
}

func TestQuery_RefreshRecoversFromError(t *testing.T) {
	f := &fakeFetcher{fail: true}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	snap := q.Execute(context.Background())
	require.Equal(t, PhaseError, snap.Phase)

	f.setFail(false)
	snap = q.Refresh(context.Background())
	assert.Equal(t, PhaseSuccess, snap.Phase)
	assert.Empty(t, snap.Err)
	assert.Len(t, snap.Products, 5)
	assert.Zero(t, snap.ConsecutiveFailures)
	assert.Equal(t, 2, f.callCount())
}

func TestQuery_EmptyErrorMessageFallsBack(t *testing.T) {
	f := &fakeFetcher{fail: true, err: errors.New("")}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	snap := q.Execute(context.Background())
	assert.Equal(t, fallbackErrorMessage, snap.Err)
}

func TestQuery_ImmediateFetchOnConstruction(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	q := NewQuery(context.Background(), f, QueryOptions{})

	require.Eventually(t, func() bool { return q.Snapshot().Loading }, time.Second, 5*time.Millisecond)
	assert.Equal(t, PhaseLoading, q.Snapshot().Phase)

	close(f.gate)
	require.Eventually(t, func() bool { return q.Snapshot().Phase == PhaseSuccess }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.callCount())
}

func TestQuery_DeferFetchDoesNotFetch(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, f.callCount())
	assert.Equal(t, PhaseIdle, q.Snapshot().Phase)
}

func TestQuery_ConcurrentExecuteJoinsInFlightFetch(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	results := make(chan Snapshot, 2)
	go func() { results <- q.Execute(context.Background()) }()
	require.Eventually(t, func() bool { return f.callCount() == 1 }, time.Second, time.Millisecond)

	go func() { results <- q.Execute(context.Background()) }()
	// Give the second caller time to join before the fetch settles.
	time.Sleep(50 * time.Millisecond)
	close(f.gate)

	first := <-results
	second := <-results
	assert.Equal(t, 1, f.callCount())
	assert.Equal(t, PhaseSuccess, first.Phase)
	assert.Equal(t, PhaseSuccess, second.Phase)
	assert.Equal(t, first.Products, second.Products)
}

func TestQuery_ResetDuringFlightDiscardsResult(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	done := make(chan Snapshot, 1)
	go func() { done <- q.Execute(context.Background()) }()
	require.Eventually(t, func() bool { return q.Snapshot().Loading }, time.Second, time.Millisecond)

	q.Reset()
	close(f.gate)
	<-done

	snap := q.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.Products)
	assert.Empty(t, snap.Err)

	// A fresh execute after reset starts its own fetch.
	snap = q.Execute(context.Background())
	assert.Equal(t, PhaseSuccess, snap.Phase)
	assert.Equal(t, 2, f.callCount())
}

func TestQuery_ResetClearsSettledState(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})
	q.Execute(context.Background())

	var rec recorder
	cancel := q.Subscribe(rec.observe)
	defer cancel()

	q.Reset()
	snap := q.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Products)
	assert.False(t, snap.Loading)
	assert.Equal(t, []Phase{PhaseIdle}, rec.phases())
	assert.Equal(t, 1, f.callCount())
}

func TestQuery_SnapshotIsCopy(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})
	snap := q.Execute(context.Background())

	snap.Products[0].Name = "mutated"
	assert.Equal(t, "Kind Vue Guide", q.Snapshot().Products[0].Name)
}

func TestQuery_UnsubscribeStopsNotifications(t *testing.T) {
	f := &fakeFetcher{}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	var rec recorder
	cancel := q.Subscribe(rec.observe)
	cancel()
	cancel() // idempotent

	q.Execute(context.Background())
	assert.Empty(t, rec.phases())
}

func TestQuery_CancelledContextSettlesAsError(t *testing.T) {
	f := &fakeFetcher{gate: make(chan struct{})}
	q := NewQuery(context.Background(), f, QueryOptions{DeferFetch: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snap := q.Execute(ctx)
	assert.Equal(t, PhaseError, snap.Phase)
	assert.Equal(t, context.Canceled.Error(), snap.Err)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "success", PhaseSuccess.String())
	assert.Equal(t, "error", PhaseError.String())
}
