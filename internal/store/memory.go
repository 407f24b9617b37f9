package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dudedrops/dudes-api/internal/apperr"
)

type docKey struct {
	collection string
	key        string
}

// MemoryStore is an in-process Store. A transaction holds the store lock for
// its whole duration and its writes become visible only on success.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[docKey][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[docKey][]byte)}
}

func (m *MemoryStore) RunTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return apperr.Wrap(err, apperr.KindOf(err), "transaction not started")
	}

	tx := &memoryTx{store: m, staged: make(map[docKey][]byte)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for k, v := range tx.staged {
		m.docs[k] = v
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeDoc(m.docs[docKey{collection, key}], dest)
}

// Put writes a document outside a transaction. Used to seed externally owned
// collections.
func (m *MemoryStore) Put(ctx context.Context, collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "encode document")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docKey{collection, key}] = raw
	return nil
}

// Count returns how many documents a collection holds.
func (m *MemoryStore) Count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.docs {
		if k.collection == collection {
			n++
		}
	}
	return n
}

type memoryTx struct {
	store  *MemoryStore
	staged map[docKey][]byte
}

func (t *memoryTx) Get(ctx context.Context, collection, key string, dest interface{}) (bool, error) {
	k := docKey{collection, key}
	if raw, ok := t.staged[k]; ok {
		return decodeDoc(raw, dest)
	}
	return decodeDoc(t.store.docs[k], dest)
}

func (t *memoryTx) Put(ctx context.Context, collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperr.Wrap(err, apperr.KindInvalidArgument, "encode document")
	}
	t.staged[docKey{collection, key}] = raw
	return nil
}

func decodeDoc(raw []byte, dest interface{}) (bool, error) {
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, apperr.Wrap(err, apperr.KindUnknown, "decode document")
	}
	return true, nil
}
