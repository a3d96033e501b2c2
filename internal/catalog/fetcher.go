package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/catalogview/internal/logging"
)

// Source retrieves the full product list from wherever it lives.
type Source interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// FetchResult describes one completed fetch.
type FetchResult struct {
	FetchID    string `json:"fetch_id"`
	Generation uint64 `json:"generation"`
	Count      int    `json:"count"`
	// Applied is false when a newer generation was already in the store.
	Applied bool `json:"applied"`
	// Shared is true when the caller joined a fetch that was already running.
	Shared bool `json:"shared"`
}

// Fetcher loads products from a Source into a Store.
type Fetcher struct {
	source  Source
	store   *Store
	timeout time.Duration
	now     func() time.Time

	group    singleflight.Group
	gen      atomic.Uint64
	inFlight atomic.Bool
}

// NewFetcher returns a Fetcher writing into store.
// A positive timeout bounds each outbound fetch.
func NewFetcher(source Source, store *Store, timeout time.Duration) *Fetcher {
	return &Fetcher{
		source:  source,
		store:   store,
		timeout: timeout,
		now:     time.Now,
	}
}

// Store returns the store this fetcher writes to.
func (f *Fetcher) Store() *Store {
	return f.store
}

// InFlight reports whether a fetch is currently outstanding.
func (f *Fetcher) InFlight() bool {
	return f.inFlight.Load()
}

// Fetch loads the catalog. While a fetch is outstanding, further calls do
// not issue a request; they wait for the running one and share its outcome.
//
// The outbound call runs on a context detached from ctx, so a caller that
// gives up does not abort a fetch other callers are waiting on.
func (f *Fetcher) Fetch(ctx context.Context) (FetchResult, error) {
	ch := f.group.DoChan("catalog", func() (any, error) {
		return f.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return FetchResult{}, ctx.Err()
	case res := <-ch:
		result, _ := res.Val.(FetchResult)
		result.Shared = res.Shared
		return result, res.Err
	}
}

func (f *Fetcher) fetch(ctx context.Context) (FetchResult, error) {
	f.inFlight.Store(true)
	defer f.inFlight.Store(false)

	result := FetchResult{
		FetchID:    uuid.NewString(),
		Generation: f.gen.Add(1),
	}
	logger := logging.WithFields(ctx, "fetch_id", result.FetchID, "generation", result.Generation)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	logger.Debug("catalog fetch started")

	products, err := f.source.FetchProducts(ctx)
	if err != nil {
		f.store.RecordFailure(result.Generation, err, f.now())
		logger.Error("catalog fetch failed",
			"error", err,
			"code", MapError(err).Code,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return result, errors.Wrap(err, "fetch catalog")
	}

	result.Count = len(products)
	result.Applied = f.store.Replace(result.Generation, products, f.now())
	if !result.Applied {
		logger.Warn("discarding stale catalog", "count", result.Count)
	} else {
		logger.Info("catalog fetched",
			"count", result.Count,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return result, nil
}
