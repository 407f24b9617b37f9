// Package store is the transactional document store. Every record is a JSON
// document addressed by (collection, key); read-modify-write cycles run inside
// RunTx so concurrent writers to the same document serialize.
package store

import (
	"context"
)

// Tx reads and writes documents inside one atomic unit.
type Tx interface {
	// Get decodes the document into dest and reports whether it exists.
	Get(ctx context.Context, collection, key string, dest interface{}) (bool, error)
	// Put creates or replaces the document.
	Put(ctx context.Context, collection, key string, value interface{}) error
}

// Store runs transactions and serves non-transactional reads.
type Store interface {
	// RunTx runs fn atomically. fn may be invoked more than once when the
	// backend detects a conflict, so it must not have side effects outside tx.
	RunTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Get(ctx context.Context, collection, key string, dest interface{}) (bool, error)
}

// UpdateFunc receives the current document (nil when absent) and returns the
// document to write. Returning nil leaves the stored document untouched.
type UpdateFunc[T any] func(current *T) (*T, error)

// UpdateTx applies fn to one document inside an open transaction and returns
// the resulting document: the written one, or the current one when fn
// declined to write.
func UpdateTx[T any](ctx context.Context, tx Tx, collection, key string, fn UpdateFunc[T]) (*T, error) {
	var current *T
	var doc T
	exists, err := tx.Get(ctx, collection, key, &doc)
	if err != nil {
		return nil, err
	}
	if exists {
		current = &doc
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}
	if err := tx.Put(ctx, collection, key, next); err != nil {
		return nil, err
	}
	return next, nil
}

// CompareAndUpdate reads the document, lets fn decide its next state, and
// writes it back atomically.
func CompareAndUpdate[T any](ctx context.Context, s Store, collection, key string, fn UpdateFunc[T]) (*T, error) {
	var result *T
	err := s.RunTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		result, err = UpdateTx(ctx, tx, collection, key, fn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Load reads a typed document outside a transaction. A missing document is
// returned as nil without error.
func Load[T any](ctx context.Context, s Store, collection, key string) (*T, error) {
	var doc T
	exists, err := s.Get(ctx, collection, key, &doc)
	if err != nil || !exists {
		return nil, err
	}
	return &doc, nil
}
