package txbuilder

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/instructions"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBlockhash struct {
	hash  sol.Hash
	calls int
	err   error
}

func (s *staticBlockhash) LatestBlockhash(ctx context.Context) (sol.Hash, error) {
	s.calls++
	return s.hash, s.err
}

func key(t *testing.T) sol.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	var pk sol.PublicKey
	copy(pk[:], pub)
	return pk
}

type fixture struct {
	builder  *Builder
	program  *instructions.Program
	owner    sol.PublicKey
	cosigner ed25519.PrivateKey
	hashes   *staticBlockhash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_, cosigner, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	program, err := instructions.NewProgram(
		sol.MustPublicKey("FPAzYdh8rdSRSXYQBneqwniqWGn3out5eQg2n1qyotxd"),
		key(t), key(t), key(t),
		instructions.Limits{MinFeeLamports: 1, MaxFeeLamports: 1 << 40},
	)
	require.NoError(t, err)
	hashes := &staticBlockhash{hash: sol.Hash{7}}
	return &fixture{
		builder:  New(hashes, cosigner),
		program:  program,
		owner:    key(t),
		cosigner: cosigner,
		hashes:   hashes,
	}
}

func (f *fixture) deliverIx(t *testing.T, n int) sol.Instruction {
	t.Helper()
	ids := make([]int, n)
	assets := make([]sol.PublicKey, n)
	for i := range ids {
		ids[i] = i + 1
		assets[i] = key(t)
	}
	ix, err := f.program.Deliver(instructions.DeliverParams{
		Owner:       f.owner,
		Cosigner:    f.builder.Cosigner(),
		DeliveryID:  42,
		FeeLamports: 5_000_000,
		DudeIDs:     ids,
		ItemAssets:  assets,
	})
	require.NoError(t, err)
	return ix
}

func TestBuilder_Build_OpenBox(t *testing.T) {
	f := newFixture(t)
	ix, err := f.program.OpenBox(instructions.OpenBoxParams{
		Owner:    f.owner,
		Cosigner: f.builder.Cosigner(),
		BoxAsset: key(t),
		DudeIDs:  []int{4, 5, 6},
	})
	require.NoError(t, err)

	prepared, err := f.builder.Build(context.Background(), f.owner, []sol.Instruction{ix})
	require.NoError(t, err)
	assert.LessOrEqual(t, prepared.Size, constants.MaxTransactionSize)
	assert.Equal(t, sol.Hash{7}, prepared.Blockhash)

	raw, err := base64.StdEncoding.DecodeString(prepared.Transaction)
	require.NoError(t, err)
	assert.Len(t, raw, prepared.Size)
	assert.Equal(t, byte(2), raw[0], "owner and cosigner slots")
	assert.Equal(t, make([]byte, sol.SignatureLength), raw[1:1+sol.SignatureLength], "owner slot left empty")

	msg := raw[1+2*sol.SignatureLength:]
	cosignerPub := f.cosigner.Public().(ed25519.PublicKey)
	assert.True(t, ed25519.Verify(cosignerPub, msg, raw[1+sol.SignatureLength:1+2*sol.SignatureLength]))
}

func TestBuilder_Build_BlockhashError(t *testing.T) {
	f := newFixture(t)
	f.hashes.err = apperr.New(apperr.KindUnavailable, "rpc down")
	_, err := f.builder.Build(context.Background(), f.owner, []sol.Instruction{instructions.Memo(f.owner, "x")})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}

func TestBuilder_OverLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.builder.BuildWithBlockhash(f.owner, []sol.Instruction{f.deliverIx(t, constants.MaxDeliveryItems)}, sol.Hash{})
	require.Error(t, err)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindFailedPrecondition, appErr.Kind)
	assert.Equal(t, constants.MaxTransactionSize, appErr.Details["limit"])
	assert.Greater(t, appErr.Details["size"], constants.MaxTransactionSize)
}

func TestBuilder_SkipsCosignWhenNotRequired(t *testing.T) {
	f := newFixture(t)
	prepared, err := f.builder.BuildWithBlockhash(f.owner, []sol.Instruction{instructions.Memo(f.owner, "x")}, sol.Hash{})
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(prepared.Transaction)
	require.NoError(t, err)
	assert.Equal(t, byte(1), raw[0], "only the owner signs")
	assert.Equal(t, make([]byte, sol.SignatureLength), raw[1:1+sol.SignatureLength])
}

func TestMaxFitting_Deliveries(t *testing.T) {
	f := newFixture(t)
	n := constants.MaxDeliveryItems

	sizeOf := func(k int) (int, error) {
		return f.builder.Size(f.owner, []sol.Instruction{f.deliverIx(t, k)}, sol.Hash{})
	}
	k, err := MaxFitting(n, f.builder.MaxSize(), sizeOf)
	require.NoError(t, err)
	require.Greater(t, k, 0)
	require.Less(t, k, n)

	fits, err := sizeOf(k)
	require.NoError(t, err)
	assert.LessOrEqual(t, fits, constants.MaxTransactionSize)

	over, err := sizeOf(k + 1)
	require.NoError(t, err)
	assert.Greater(t, over, constants.MaxTransactionSize)
}

func TestMaxFitting(t *testing.T) {
	linear := func(perItem, base int) func(int) (int, error) {
		return func(k int) (int, error) { return base + perItem*k, nil }
	}

	tests := []struct {
		name   string
		n      int
		limit  int
		sizeOf func(int) (int, error)
		want   int
	}{
		{"all but one fit", 10, 1000, linear(10, 0), 9},
		{"exact boundary", 40, 100, linear(10, 0), 10},
		{"nothing fits", 10, 5, linear(10, 0), 0},
		{"single item request", 1, 1000, linear(10, 0), 0},
		{"large base", 33, 1232, linear(33, 400), 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxFitting(tt.n, tt.limit, tt.sizeOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("property: k fits and k+1 does not", func(t *testing.T) {
		for n := 2; n <= 64; n++ {
			for _, limit := range []int{50, 333, 1232} {
				sizeOf := linear(37, 120)
				k, err := MaxFitting(n, limit, sizeOf)
				require.NoError(t, err)
				if k > 0 {
					s, _ := sizeOf(k)
					assert.LessOrEqual(t, s, limit)
				}
				if k+1 <= n-1 {
					s, _ := sizeOf(k + 1)
					assert.Greater(t, s, limit)
				}
			}
		}
	})

	t.Run("size errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := MaxFitting(10, 100, func(int) (int, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	})
}
