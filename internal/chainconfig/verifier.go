package chainconfig

import (
	"context"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"go.uber.org/zap"
)

// AccountReader reads on-chain accounts.
type AccountReader interface {
	GetAccountInfo(ctx context.Context, address sol.PublicKey) (*sol.AccountInfo, error)
}

// Identities are the addresses the service is configured to trust.
type Identities struct {
	ProgramID      sol.PublicKey
	Admin          sol.PublicKey
	Treasury       sol.PublicKey
	MerkleTree     sol.PublicKey
	CollectionMint sol.PublicKey
	// CustodyProgram must own the collection mint account.
	CustodyProgram sol.PublicKey
}

// Verifier checks that on-chain configuration matches Identities.
type Verifier struct {
	accounts   AccountReader
	ids        Identities
	configAddr sol.PublicKey
	cache      *Cache
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithTTL sets how long a successful check is trusted.
func WithTTL(ttl time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.ttl = ttl
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// WithCache shares a cache between verifiers.
func WithCache(cache *Cache) VerifierOption {
	return func(v *Verifier) {
		v.cache = cache
	}
}

// NewVerifier creates a Verifier for ids.
func NewVerifier(accounts AccountReader, ids Identities, opts ...VerifierOption) (*Verifier, error) {
	if ids.CustodyProgram.IsZero() {
		ids.CustodyProgram = sol.TokenProgramID
	}
	configAddr, _, err := ConfigAddress(ids.ProgramID)
	if err != nil {
		return nil, err
	}
	v := &Verifier{
		accounts:   accounts,
		ids:        ids,
		configAddr: configAddr,
		cache:      &Cache{},
		ttl:        constants.DefaultConfigCacheTTL,
		now:        time.Now,
		logger:     logger.Log,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// ConfigAddress returns the program config account address.
func (v *Verifier) ConfigAddress() sol.PublicKey {
	return v.configAddr
}

// EnsureConfig verifies the program config and collection accounts unless a
// successful check is still within the TTL. force bypasses the cache.
func (v *Verifier) EnsureConfig(ctx context.Context, force bool) error {
	if !force && v.cache.Fresh(v.ttl, v.now()) {
		return nil
	}

	_, err := v.verify(ctx)
	v.cache.Refresh(err == nil, v.now())
	if err != nil {
		v.logger.Error("Chain config verification failed", zap.Error(err))
		return err
	}
	return nil
}

// ProgramConfig reads and verifies the current program config. The result
// is never cached since the minted counter moves.
func (v *Verifier) ProgramConfig(ctx context.Context) (*ProgramConfig, error) {
	cfg, err := v.verify(ctx)
	v.cache.Refresh(err == nil, v.now())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (v *Verifier) verify(ctx context.Context) (*ProgramConfig, error) {
	cfg, err := v.readConfig(ctx)
	if err != nil {
		return nil, err
	}

	checks := []struct {
		account  string
		expected sol.PublicKey
		actual   sol.PublicKey
	}{
		{"admin", v.ids.Admin, cfg.Admin},
		{"treasury", v.ids.Treasury, cfg.Treasury},
		{"merkleTree", v.ids.MerkleTree, cfg.MerkleTree},
		{"collectionMint", v.ids.CollectionMint, cfg.CollectionMint},
	}
	for _, c := range checks {
		if c.expected.IsZero() || c.expected == c.actual {
			continue
		}
		return nil, mismatch(c.account, c.expected, c.actual.String())
	}

	collection, err := v.accounts.GetAccountInfo(ctx, v.ids.CollectionMint)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, mismatch("collectionMint", v.ids.CollectionMint, "missing")
	}
	if collection.Owner != v.ids.CustodyProgram {
		return nil, mismatch("collectionMintOwner", v.ids.CustodyProgram, collection.Owner.String())
	}
	return cfg, nil
}

func (v *Verifier) readConfig(ctx context.Context) (*ProgramConfig, error) {
	account, err := v.accounts.GetAccountInfo(ctx, v.configAddr)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, mismatch("config", v.configAddr, "missing")
	}
	if account.Owner != v.ids.ProgramID {
		return nil, mismatch("configOwner", v.ids.ProgramID, account.Owner.String())
	}
	cfg, err := DecodeProgramConfig(account.Data)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindFailedPrecondition, "config account undecodable").
			WithDetail("account", "config")
	}
	return cfg, nil
}

func mismatch(account string, expected sol.PublicKey, actual string) *apperr.Error {
	return apperr.Newf(apperr.KindFailedPrecondition, "on-chain %s does not match configuration", account).
		WithDetail("account", account).
		WithDetail("expected", expected.String()).
		WithDetail("actual", actual)
}
