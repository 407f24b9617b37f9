package chainconfig

import (
	"context"
	"crypto/ed25519"
	"sync"
	"testing"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	mu       sync.Mutex
	accounts map[sol.PublicKey]*sol.AccountInfo
	reads    int
	err      error
}

func (f *fakeAccounts) GetAccountInfo(ctx context.Context, address sol.PublicKey) (*sol.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts[address], nil
}

func randomKey(t *testing.T) sol.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	var pk sol.PublicKey
	copy(pk[:], pub)
	return pk
}

type fixture struct {
	ids      Identities
	cfg      *ProgramConfig
	accounts *fakeAccounts
	now      time.Time
	verifier *Verifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ids := Identities{
		ProgramID:      sol.MustPublicKey("FPAzYdh8rdSRSXYQBneqwniqWGn3out5eQg2n1qyotxd"),
		Admin:          randomKey(t),
		Treasury:       randomKey(t),
		MerkleTree:     randomKey(t),
		CollectionMint: randomKey(t),
	}
	cfg := &ProgramConfig{
		Admin:                   ids.Admin,
		Treasury:                ids.Treasury,
		MerkleTree:              ids.MerkleTree,
		CollectionMint:          ids.CollectionMint,
		CollectionMetadata:      randomKey(t),
		CollectionMasterEdition: randomKey(t),
		PriceLamports:           100_000_000,
		MaxSupply:               1000,
		MaxPerTx:                5,
		Minted:                  10,
		NamePrefix:              "Box #",
		Symbol:                  "DUDE",
		URIBase:                 "https://meta.example.com/boxes",
		Bump:                    252,
	}
	f := &fixture{ids: ids, cfg: cfg, now: time.Unix(1_700_000_000, 0)}
	configAddr, _, err := ConfigAddress(ids.ProgramID)
	require.NoError(t, err)
	f.accounts = &fakeAccounts{accounts: map[sol.PublicKey]*sol.AccountInfo{
		configAddr:         {Address: configAddr, Owner: ids.ProgramID, Data: cfg.Encode()},
		ids.CollectionMint: {Address: ids.CollectionMint, Owner: sol.TokenProgramID},
	}}
	f.verifier, err = NewVerifier(f.accounts, ids, WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	return f
}

func TestDecodeProgramConfig(t *testing.T) {
	f := newFixture(t)
	got, err := DecodeProgramConfig(f.cfg.Encode())
	require.NoError(t, err)
	assert.Equal(t, f.cfg, got)
	assert.Equal(t, uint32(990), got.Remaining())

	t.Run("truncated", func(t *testing.T) {
		data := f.cfg.Encode()
		_, err := DecodeProgramConfig(data[:len(data)-3])
		assert.Error(t, err)
	})

	t.Run("wrong discriminator", func(t *testing.T) {
		data := f.cfg.Encode()
		data[0] ^= 0xff
		_, err := DecodeProgramConfig(data)
		assert.Error(t, err)
	})
}

func TestAccountDiscriminator(t *testing.T) {
	assert.Equal(t, [8]byte{62, 29, 116, 188, 219, 247, 48, 227}, AccountDiscriminator)
}

func TestVerifier_EnsureConfig_Caching(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.verifier.EnsureConfig(ctx, false))
	assert.Equal(t, 2, f.accounts.reads)

	f.now = f.now.Add(4 * time.Minute)
	require.NoError(t, f.verifier.EnsureConfig(ctx, false))
	assert.Equal(t, 2, f.accounts.reads, "fresh cache skips reads")

	require.NoError(t, f.verifier.EnsureConfig(ctx, true))
	assert.Equal(t, 4, f.accounts.reads, "force bypasses the cache")

	f.now = f.now.Add(5 * time.Minute)
	require.NoError(t, f.verifier.EnsureConfig(ctx, false))
	assert.Equal(t, 6, f.accounts.reads, "expired cache rechecks")
}

func TestVerifier_EnsureConfig_FailureInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.verifier.EnsureConfig(ctx, false))

	f.accounts.accounts[f.ids.CollectionMint].Owner = randomKey(t)
	err := f.verifier.EnsureConfig(ctx, true)
	require.Error(t, err)

	// Repairing the chain state is picked up on the very next call.
	f.accounts.accounts[f.ids.CollectionMint].Owner = sol.TokenProgramID
	reads := f.accounts.reads
	require.NoError(t, f.verifier.EnsureConfig(ctx, false))
	assert.Greater(t, f.accounts.reads, reads)
}

func TestVerifier_EnsureConfig_Mismatches(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		mutate      func(t *testing.T, f *fixture)
		wantAccount string
	}{
		{
			name: "config missing",
			mutate: func(t *testing.T, f *fixture) {
				delete(f.accounts.accounts, f.verifier.ConfigAddress())
			},
			wantAccount: "config",
		},
		{
			name: "config owned by another program",
			mutate: func(t *testing.T, f *fixture) {
				f.accounts.accounts[f.verifier.ConfigAddress()].Owner = sol.SystemProgramID
			},
			wantAccount: "configOwner",
		},
		{
			name: "config undecodable",
			mutate: func(t *testing.T, f *fixture) {
				f.accounts.accounts[f.verifier.ConfigAddress()].Data = []byte{1, 2, 3}
			},
			wantAccount: "config",
		},
		{
			name: "treasury changed",
			mutate: func(t *testing.T, f *fixture) {
				f.cfg.Treasury = randomKey(t)
				f.accounts.accounts[f.verifier.ConfigAddress()].Data = f.cfg.Encode()
			},
			wantAccount: "treasury",
		},
		{
			name: "collection missing",
			mutate: func(t *testing.T, f *fixture) {
				delete(f.accounts.accounts, f.ids.CollectionMint)
			},
			wantAccount: "collectionMint",
		},
		{
			name: "collection owned by wrong program",
			mutate: func(t *testing.T, f *fixture) {
				f.accounts.accounts[f.ids.CollectionMint].Owner = sol.SystemProgramID
			},
			wantAccount: "collectionMintOwner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.mutate(t, f)
			err := f.verifier.EnsureConfig(ctx, false)
			require.Error(t, err)
			appErr := apperr.From(err)
			assert.Equal(t, apperr.KindFailedPrecondition, appErr.Kind)
			assert.Equal(t, tt.wantAccount, appErr.Details["account"])
		})
	}
}

func TestVerifier_ProgramConfig(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cfg, err := f.verifier.ProgramConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), cfg.Minted)

	f.cfg.Minted = 11
	f.accounts.accounts[f.verifier.ConfigAddress()].Data = f.cfg.Encode()
	cfg, err = f.verifier.ProgramConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(11), cfg.Minted, "always read fresh")
}

func TestVerifier_UpstreamErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.accounts.err = apperr.New(apperr.KindUnavailable, "rpc down")
	err := f.verifier.EnsureConfig(context.Background(), false)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
