// Package allocator hands out scarce ids: figure ids drawn from the shared
// pool when a box is opened, and delivery ids unused on chain and in the store.
package allocator

import (
	"context"
	"encoding/json"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/instructions"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/store"
	"go.uber.org/zap"
)

// BoxAssignment records the figures a box resolves to. Immutable once written.
type BoxAssignment struct {
	BoxID     string    `json:"boxId"`
	DudeIDs   []int     `json:"dudeIds"`
	CreatedAt time.Time `json:"createdAt"`
}

// DudePool holds every figure id not yet assigned to a box.
type DudePool struct {
	Available []int `json:"available"`
}

// AccountChecker reports whether an on-chain account exists.
type AccountChecker interface {
	AccountExists(ctx context.Context, address sol.PublicKey) (bool, error)
}

// Allocator assigns figure ids and delivery ids.
type Allocator struct {
	store     store.Store
	chain     AccountChecker
	programID sol.PublicKey
	intN      func(n int) int
	now       func() time.Time
	attempts  int
	logger    *zap.Logger
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRand replaces the uniform random source. intN must return a value in [0, n).
func WithRand(intN func(n int) int) Option {
	return func(a *Allocator) {
		a.intN = intN
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Allocator) {
		a.now = now
	}
}

// WithDeliveryIDAttempts bounds how many candidates AllocateDeliveryID draws.
func WithDeliveryIDAttempts(n int) Option {
	return func(a *Allocator) {
		a.attempts = n
	}
}

// New creates an Allocator.
func New(s store.Store, chain AccountChecker, programID sol.PublicKey, opts ...Option) *Allocator {
	a := &Allocator{
		store:     s,
		chain:     chain,
		programID: programID,
		intN:      rand.IntN,
		now:       time.Now,
		attempts:  constants.DefaultDeliveryIDAttempts,
		logger:    logger.Log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FullPool returns every figure id in order.
func FullPool() []int {
	ids := make([]int, constants.MaxDudeID)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

// AssignItems returns the figures of boxID, drawing them from the pool on
// first use. Repeated calls return the same assignment.
func (a *Allocator) AssignItems(ctx context.Context, boxID string) (*BoxAssignment, error) {
	if boxID == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "box id is required")
	}

	var result *BoxAssignment
	err := a.store.RunTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var existing BoxAssignment
		exists, err := tx.Get(ctx, constants.CollectionBoxAssignments, boxID, &existing)
		if err != nil {
			return err
		}
		if exists {
			result = &existing
			return nil
		}

		var drawn []int
		_, err = store.UpdateTx(ctx, tx, constants.CollectionDudePool, constants.DudePoolKey, func(pool *DudePool) (*DudePool, error) {
			if pool == nil {
				pool = &DudePool{Available: FullPool()}
			}
			if len(pool.Available) < constants.DudesPerBox {
				return nil, apperr.New(apperr.KindResourceExhausted, "dude pool exhausted").
					WithDetail("available", len(pool.Available))
			}
			drawn, pool.Available = draw(pool.Available, constants.DudesPerBox, a.intN)
			return pool, nil
		})
		if err != nil {
			return err
		}

		result = &BoxAssignment{BoxID: boxID, DudeIDs: drawn, CreatedAt: a.now().UTC()}
		return tx.Put(ctx, constants.CollectionBoxAssignments, boxID, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// draw removes count uniformly chosen entries from available by swapping
// each pick with the last element.
func draw(available []int, count int, intN func(int) int) ([]int, []int) {
	picked := make([]int, 0, count)
	for i := 0; i < count; i++ {
		idx := intN(len(available))
		last := len(available) - 1
		picked = append(picked, available[idx])
		available[idx] = available[last]
		available = available[:last]
	}
	return picked, available
}

// AllocateDeliveryID draws random ids in [1, 2^31-1] until one is unused both
// on chain and in the store.
func (a *Allocator) AllocateDeliveryID(ctx context.Context) (uint32, error) {
	for attempt := 1; attempt <= a.attempts; attempt++ {
		candidate := uint32(a.intN(math.MaxInt32)) + 1

		addr, err := instructions.DeliveryAddress(a.programID, candidate)
		if err != nil {
			a.logger.Debug("Delivery id has no derived address", zap.Uint32("delivery_id", candidate))
			continue
		}
		onChain, err := a.chain.AccountExists(ctx, addr)
		if err != nil {
			return 0, err
		}
		if onChain {
			a.logger.Warn("Delivery id already used on chain",
				zap.Uint32("delivery_id", candidate),
				zap.Int("attempt", attempt),
			)
			continue
		}

		var doc json.RawMessage
		stored, err := a.store.Get(ctx, constants.CollectionDeliveries, DeliveryKey(candidate), &doc)
		if err != nil {
			return 0, err
		}
		if stored {
			a.logger.Warn("Delivery id already used in store",
				zap.Uint32("delivery_id", candidate),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return candidate, nil
	}
	return 0, apperr.Newf(apperr.KindUnavailable, "could not allocate a delivery id after %d attempts", a.attempts)
}

// DeliveryKey is the store key of a delivery order.
func DeliveryKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
