package state

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/five82/shelf/internal/catalog"
)

const fallbackErrorMessage = "An error occurred"

// QueryOptions configure a Query.
type QueryOptions struct {
	// DeferFetch disables the fetch that NewQuery otherwise starts immediately.
	DeferFetch bool
	// ShouldFail forces every fetch to fail.
	ShouldFail bool
	Logger     *zap.Logger
}

// Query wraps a catalog fetch in an idle/loading/success/error lifecycle.
//
// Execute calls issued while a fetch is in flight join that fetch instead of
// starting another one, so at most one fetch per generation is ever running.
// Reset starts a new generation; a fetch from an older generation that settles
// afterwards is discarded.
type Query struct {
	fetcher    catalog.Fetcher
	shouldFail bool
	logger     *zap.Logger
	group      singleflight.Group

	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64

	obsMu     sync.Mutex
	observers map[int]func(Snapshot)
	nextObs   int
}

// NewQuery builds a Query. Unless opts.DeferFetch is set, one Execute is
// started in the background using ctx.
func NewQuery(ctx context.Context, fetcher catalog.Fetcher, opts QueryOptions) *Query {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &Query{
		fetcher:    fetcher,
		shouldFail: opts.ShouldFail,
		logger:     logger,
		observers:  make(map[int]func(Snapshot)),
	}
	if !opts.DeferFetch {
		if ctx == nil {
			ctx = context.Background()
		}
		go q.Execute(ctx)
	}
	return q
}

// Execute fetches the catalog and blocks until the fetch settles. It returns
// the settled snapshot. Concurrent callers share one fetch.
func (q *Query) Execute(ctx context.Context) Snapshot {
	q.mu.RLock()
	gen := q.generation
	q.mu.RUnlock()

	v, _, shared := q.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return q.run(ctx, gen), nil
	})
	if shared {
		q.logger.Debug("execute joined in-flight fetch", zap.Uint64("generation", gen))
	}
	return v.(Snapshot).clone()
}

// Refresh is the retry action exposed to callers. It is an alias for Execute.
func (q *Query) Refresh(ctx context.Context) Snapshot {
	return q.Execute(ctx)
}

// Reset clears data and error and returns to idle without fetching.
func (q *Query) Reset() {
	q.mu.Lock()
	q.generation++
	q.snapshot = Snapshot{Phase: PhaseIdle}
	snap := q.snapshot.clone()
	q.mu.Unlock()

	q.publish(snap)
}

// Snapshot returns a copy of the current state.
func (q *Query) Snapshot() Snapshot {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.snapshot.clone()
}

// Subscribe registers fn to receive every state transition. The returned
// function removes the observer.
func (q *Query) Subscribe(fn func(Snapshot)) (cancel func()) {
	q.obsMu.Lock()
	id := q.nextObs
	q.nextObs++
	q.observers[id] = fn
	q.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.obsMu.Lock()
			delete(q.observers, id)
			q.obsMu.Unlock()
		})
	}
}

func (q *Query) run(ctx context.Context, gen uint64) Snapshot {
	q.mu.Lock()
	if gen != q.generation {
		snap := q.snapshot.clone()
		q.mu.Unlock()
		return snap
	}
	q.snapshot.Phase = PhaseLoading
	q.snapshot.Loading = true
	q.snapshot.Products = nil
	q.snapshot.Err = ""
	loading := q.snapshot.clone()
	q.mu.Unlock()

	q.publish(loading)

	products, err := q.fetcher.FetchProducts(ctx, catalog.FetchOptions{Fail: q.shouldFail})

	q.mu.Lock()
	if gen != q.generation {
		snap := q.snapshot.clone()
		q.mu.Unlock()
		q.logger.Debug("discarding fetch from reset generation", zap.Uint64("generation", gen))
		return snap
	}
	q.snapshot.Loading = false
	q.snapshot.LastUpdated = time.Now()
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallbackErrorMessage
		}
		q.snapshot.Phase = PhaseError
		q.snapshot.Err = msg
		q.snapshot.Products = nil
		q.snapshot.ConsecutiveFailures++
	} else {
		q.snapshot.Phase = PhaseSuccess
		q.snapshot.Err = ""
		q.snapshot.Products = cloneProducts(products)
		q.snapshot.ConsecutiveFailures = 0
	}
	settled := q.snapshot.clone()
	q.mu.Unlock()

	if err != nil {
		q.logger.Warn("product fetch failed",
			zap.Error(err),
			zap.Int("consecutive_failures", settled.ConsecutiveFailures))
	} else {
		q.logger.Debug("product fetch succeeded", zap.Int("count", len(settled.Products)))
	}
	q.publish(settled)
	return settled
}

func (q *Query) publish(snap Snapshot) {
	q.obsMu.Lock()
	fns := make([]func(Snapshot), 0, len(q.observers))
	for _, fn := range q.observers {
		fns = append(fns, fn)
	}
	q.obsMu.Unlock()

	for _, fn := range fns {
		fn(snap.clone())
	}
}
