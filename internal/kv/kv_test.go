package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestSQLStore creates an in-memory SQLite store for testing
func NewTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()

	s, err := NewSQLStore(DriverSQLite, ":memory:")
	require.NoError(t, err, "failed to create test store")

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

type doc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
	Order *int     `json:"order,omitempty"`
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewTestSQLStore(t),
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			dst := doc{Name: "untouched"}
			found, err := s.Get(context.Background(), "nope", &dst)
			require.NoError(t, err)
			require.False(t, found)
			require.Equal(t, "untouched", dst.Name)
		})
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			order := 2
			in := []doc{{Name: "a", Items: []string{"x", "y"}}, {Name: "b", Order: &order}}

			require.NoError(t, s.Set(ctx, KeyCandidates, in))

			var out []doc
			found, err := s.Get(ctx, KeyCandidates, &out)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, in, out)
		})
	}
}

func TestStore_SetOverwrites(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, KeyPositions, []string{"one"}))
			require.NoError(t, s.Set(ctx, KeyPositions, []string{"two", "three"}))

			var out []string
			_, err := s.Get(ctx, KeyPositions, &out)
			require.NoError(t, err)
			require.Equal(t, []string{"two", "three"}, out)
		})
	}
}

func TestStore_Keys(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, KeyPositions, 1))
			require.NoError(t, s.Set(ctx, KeyOrderingPresets, 2))
			require.NoError(t, s.Set(ctx, KeyCandidates, 3))

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{KeyCandidates, KeyOrderingPresets, KeyPositions}, keys)
		})
	}
}

func TestStore_UnencodableValueIsPersistError(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Set(context.Background(), "bad", make(chan int))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrPersist))
		})
	}
}

func TestSQLStore_ClosedDatabaseIsPersistError(t *testing.T) {
	s, err := NewSQLStore(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Set(context.Background(), KeyPositions, []string{})
	require.ErrorIs(t, err, ErrPersist)
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: DriverPostgres}
	lite := &SQLStore{dialect: DriverSQLite}
	q := "INSERT INTO t (a, b, c) VALUES (?, ?, ?)"

	require.Equal(t, "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)", pg.rebind(q))
	require.Equal(t, q, lite.rebind(q))
}

func TestOpen(t *testing.T) {
	s, err := Open(DriverMemory, "")
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	s, err = Open(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.IsType(t, &SQLStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(DriverPostgres, "")
	require.Error(t, err)

	_, err = Open("mongo", "x")
	require.Error(t, err)
}
