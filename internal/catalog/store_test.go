package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_EmptyUntilFirstReplace(t *testing.T) {
	t.Parallel()

	s := NewStore()
	snap, ok := s.Snapshot()
	require.False(t, ok)
	require.Empty(t, snap.Products)
	require.Nil(t, s.Products())
	require.False(t, s.Failed())

	st := s.Status()
	require.False(t, st.Loaded)
	require.Zero(t, st.Count)
}

func TestStore_ReplaceCopiesInput(t *testing.T) {
	t.Parallel()

	s := NewStore()
	in := []Product{{ID: "1", Title: "Original"}}
	require.True(t, s.Replace(1, in, time.Now()))

	in[0].Title = "Mutated"
	require.Equal(t, "Original", s.Products()[0].Title)

	snap, ok := s.Snapshot()
	require.True(t, ok)
	require.NotEmpty(t, snap.ID)
	require.Equal(t, uint64(1), snap.Generation)
}

func TestStore_ReplaceEmptyCatalogIsLoaded(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.True(t, s.Replace(1, nil, time.Now()))

	snap, ok := s.Snapshot()
	require.True(t, ok)
	require.NotNil(t, snap.Products)
	require.Empty(t, snap.Products)
}

func TestStore_RejectsStaleGeneration(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.True(t, s.Replace(2, []Product{{ID: "new"}}, time.Now()))

	require.False(t, s.Replace(1, []Product{{ID: "stale"}}, time.Now()))
	require.False(t, s.Replace(2, []Product{{ID: "same"}}, time.Now()))
	require.Equal(t, "new", s.Products()[0].ID)

	require.True(t, s.Replace(3, []Product{{ID: "newer"}}, time.Now()))
	require.Equal(t, "newer", s.Products()[0].ID)
}

func TestStore_FailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.True(t, s.Replace(1, []Product{{ID: "a"}, {ID: "b"}}, time.Now()))

	require.True(t, s.RecordFailure(2, errors.New("connection refused"), time.Now()))
	require.True(t, s.Failed())
	require.Len(t, s.Products(), 2)

	st := s.Status()
	require.True(t, st.Failed)
	require.Equal(t, "connection refused", st.LastError)
	require.Equal(t, 2, st.Count)

	// A later success clears the failed state.
	require.True(t, s.Replace(3, []Product{{ID: "c"}}, time.Now()))
	require.False(t, s.Failed())
	require.Empty(t, s.Status().LastError)
}

func TestStore_FailureBeforeFirstLoad(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.True(t, s.RecordFailure(1, errors.New("boom"), time.Now()))
	require.True(t, s.Failed())

	_, ok := s.Snapshot()
	require.False(t, ok)
}

func TestStore_StaleFailureIgnored(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.True(t, s.Replace(5, []Product{{ID: "a"}}, time.Now()))
	require.False(t, s.RecordFailure(4, errors.New("late"), time.Now()))
	require.False(t, s.Failed())
}

func TestStore_Categories(t *testing.T) {
	t.Parallel()

	s := NewStore()
	require.Empty(t, s.Categories())

	s.Replace(1, []Product{
		{Category: &Category{Name: "Shoes"}},
		{Category: &Category{Name: "Clothes"}},
		{},
		{Category: &Category{Name: "Shoes"}},
		{Category: &Category{Name: ""}},
	}, time.Now())

	require.Equal(t, []string{"Clothes", "Shoes"}, s.Categories())
}
