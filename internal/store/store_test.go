package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N int `json:"n"`
}

func TestMemoryStore_RunTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits staged writes", func(t *testing.T) {
		s := NewMemoryStore()
		err := s.RunTx(ctx, func(ctx context.Context, tx Tx) error {
			require.NoError(t, tx.Put(ctx, "c", "k", counter{N: 1}))
			var got counter
			exists, err := tx.Get(ctx, "c", "k", &got)
			require.NoError(t, err)
			assert.True(t, exists, "writes are visible inside the transaction")
			assert.Equal(t, 1, got.N)
			return nil
		})
		require.NoError(t, err)

		doc, err := Load[counter](ctx, s, "c", "k")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, 1, doc.N)
	})

	t.Run("discards writes on error", func(t *testing.T) {
		s := NewMemoryStore()
		boom := errors.New("boom")
		err := s.RunTx(ctx, func(ctx context.Context, tx Tx) error {
			require.NoError(t, tx.Put(ctx, "c", "k", counter{N: 1}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		doc, err := Load[counter](ctx, s, "c", "k")
		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.Equal(t, 0, s.Count("c"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewMemoryStore()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := s.RunTx(cctx, func(ctx context.Context, tx Tx) error { return nil })
		assert.Error(t, err)
	})
}

func TestCompareAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	incr := func(current *counter) (*counter, error) {
		if current == nil {
			return &counter{N: 1}, nil
		}
		return &counter{N: current.N + 1}, nil
	}

	got, err := CompareAndUpdate(ctx, s, "c", "k", incr)
	require.NoError(t, err)
	assert.Equal(t, 1, got.N)

	got, err = CompareAndUpdate(ctx, s, "c", "k", incr)
	require.NoError(t, err)
	assert.Equal(t, 2, got.N)

	t.Run("nil result keeps current", func(t *testing.T) {
		got, err := CompareAndUpdate(ctx, s, "c", "k", func(current *counter) (*counter, error) {
			return nil, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, got.N)
	})

	t.Run("error aborts", func(t *testing.T) {
		_, err := CompareAndUpdate(ctx, s, "c", "k", func(current *counter) (*counter, error) {
			return nil, apperr.New(apperr.KindFailedPrecondition, "no")
		})
		assert.Equal(t, apperr.KindFailedPrecondition, apperr.KindOf(err))

		doc, err := Load[counter](ctx, s, "c", "k")
		require.NoError(t, err)
		assert.Equal(t, 2, doc.N)
	})
}

func TestCompareAndUpdate_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := CompareAndUpdate(ctx, s, "c", "k", func(current *counter) (*counter, error) {
				if current == nil {
					return &counter{N: 1}, nil
				}
				return &counter{N: current.N + 1}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := Load[counter](ctx, s, "c", "k")
	require.NoError(t, err)
	assert.Equal(t, workers, doc.N)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"40001", true},
		{"40P01", true},
		{"23505", true},
		{"23503", false},
		{"42P01", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: tt.code})
			assert.Equal(t, tt.want, isRetryable(err))
		})
	}
	assert.False(t, isRetryable(errors.New("plain")))
}

func TestWrapQueryError(t *testing.T) {
	conflict := &pgconn.PgError{Code: "40001"}
	assert.Same(t, error(conflict), wrapQueryError(conflict, "read"))

	err := wrapQueryError(errors.New("connection reset"), "read")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
