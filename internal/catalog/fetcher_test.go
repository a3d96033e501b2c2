package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// stubSource returns queued responses in order; the last one repeats.
type stubSource struct {
	mu        sync.Mutex
	responses []stubResponse
	calls     atomic.Int32
	release   chan struct{}
}

type stubResponse struct {
	products []Product
	err      error
}

func (s *stubSource) FetchProducts(ctx context.Context) ([]Product, error) {
	s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp.products, resp.err
}

func TestFetcher_SuccessReplacesStore(t *testing.T) {
	t.Parallel()

	src := &stubSource{responses: []stubResponse{{products: []Product{{ID: "1"}, {ID: "2"}}}}}
	f := NewFetcher(src, NewStore(), time.Second)

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	require.Equal(t, uint64(1), res.Generation)
	require.True(t, res.Applied)
	require.False(t, res.Shared)
	require.NotEmpty(t, res.FetchID)

	require.Len(t, f.Store().Products(), 2)
	require.False(t, f.InFlight())
}

func TestFetcher_FailureLeavesStoreThenRecovers(t *testing.T) {
	t.Parallel()

	src := &stubSource{responses: []stubResponse{
		{products: []Product{{ID: "1"}}},
		{err: &StatusError{StatusCode: 503}},
		{products: []Product{{ID: "2"}, {ID: "3"}}},
	}}
	store := NewStore()
	f := NewFetcher(src, store, time.Second)

	_, err := f.Fetch(context.Background())
	require.NoError(t, err)

	_, err = f.Fetch(context.Background())
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, "FETCH002", MapError(err).Code)

	require.True(t, store.Failed())
	require.Equal(t, []Product{{ID: "1"}}, store.Products())

	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(3), res.Generation)
	require.False(t, store.Failed())
	require.Len(t, store.Products(), 2)
}

func TestFetcher_FirstLoadFailure(t *testing.T) {
	t.Parallel()

	src := &stubSource{responses: []stubResponse{{err: ErrMalformedBody}}}
	store := NewStore()
	f := NewFetcher(src, store, 0)

	_, err := f.Fetch(context.Background())
	require.ErrorIs(t, err, ErrMalformedBody)

	_, ok := store.Snapshot()
	require.False(t, ok)
	require.True(t, store.Failed())
}

func TestFetcher_ConcurrentCallsShareOneRequest(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		responses: []stubResponse{{products: []Product{{ID: "1"}}}},
		release:   make(chan struct{}),
	}
	f := NewFetcher(src, NewStore(), 5*time.Second)

	const callers = 5
	var wg sync.WaitGroup
	results := make([]FetchResult, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = f.Fetch(context.Background())
	}()
	require.Eventually(t, f.InFlight, time.Second, 5*time.Millisecond)

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.Fetch(context.Background())
		}(i)
	}

	// Give the joiners time to attach to the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	require.Equal(t, int32(1), src.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, uint64(1), results[i].Generation)
		require.True(t, results[i].Shared)
	}
}

func TestFetcher_CallerCancelDoesNotAbortSharedFetch(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		responses: []stubResponse{{products: []Product{{ID: "1"}}}},
		release:   make(chan struct{}),
	}
	store := NewStore()
	f := NewFetcher(src, store, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.Fetch(ctx)
		done <- err
	}()
	require.Eventually(t, f.InFlight, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(src.release)
	require.Eventually(t, func() bool {
		_, ok := store.Snapshot()
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestFetcher_Timeout(t *testing.T) {
	t.Parallel()

	src := &stubSource{
		responses: []stubResponse{{products: []Product{{ID: "1"}}}},
		release:   make(chan struct{}),
	}
	f := NewFetcher(src, NewStore(), 20*time.Millisecond)

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Equal(t, "FETCH004", MapError(err).Code)
}

func TestFetcher_RefreshScheduler(t *testing.T) {
	t.Parallel()

	src := &stubSource{responses: []stubResponse{{products: []Product{{ID: "1"}}}}}
	f := NewFetcher(src, NewStore(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		f.StartRefreshScheduler(ctx, 10*time.Millisecond)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-stopped

	require.GreaterOrEqual(t, f.Store().Status().Generation, uint64(2))
}

func TestFetcher_RefreshSchedulerDisabled(t *testing.T) {
	t.Parallel()

	src := &stubSource{responses: []stubResponse{{products: nil}}}
	f := NewFetcher(src, NewStore(), time.Second)

	// Returns immediately when the interval is not positive.
	f.StartRefreshScheduler(context.Background(), 0)
	require.Zero(t, src.calls.Load())
}
