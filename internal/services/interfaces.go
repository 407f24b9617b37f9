package services

import (
	"context"

	"github.com/dudedrops/dudes-api/internal/allocator"
	"github.com/dudedrops/dudes-api/internal/assets"
	"github.com/dudedrops/dudes-api/internal/chainconfig"
	"github.com/dudedrops/dudes-api/internal/claims"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/txbuilder"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_services.go -package=mocks

// ConfigVerifier checks the deployed program against the configured identities.
type ConfigVerifier interface {
	EnsureConfig(ctx context.Context, force bool) error
	ProgramConfig(ctx context.Context) (*chainconfig.ProgramConfig, error)
}

// AssetRequirer fetches an asset and checks owner, collection and kind.
type AssetRequirer interface {
	Require(ctx context.Context, id string, exp assets.Expectation) (*assets.Asset, assets.Classification, error)
}

// OwnerAssetLister lists every asset a wallet holds.
type OwnerAssetLister interface {
	AssetsByOwner(ctx context.Context, owner string) ([]assets.Asset, error)
}

// ItemAllocator hands out figure ids and delivery ids.
type ItemAllocator interface {
	AssignItems(ctx context.Context, boxID string) (*allocator.BoxAssignment, error)
	AllocateDeliveryID(ctx context.Context) (uint32, error)
}

// TransactionBuilder produces cosigned, size-bounded transactions.
type TransactionBuilder interface {
	Cosigner() sol.PublicKey
	MaxSize() int
	Blockhash(ctx context.Context) (sol.Hash, error)
	BuildWithBlockhash(feePayer sol.PublicKey, ixs []sol.Instruction, blockhash sol.Hash) (*txbuilder.Prepared, error)
	Size(feePayer sol.PublicKey, ixs []sol.Instruction, blockhash sol.Hash) (int, error)
}

// ClaimLocker drives the claim code lock and redemption.
type ClaimLocker interface {
	Load(ctx context.Context, code string) (*claims.ClaimCode, error)
	Acquire(ctx context.Context, code, owner, certificateID string) (*claims.ClaimCode, error)
	DetectAndReconcile(ctx context.Context, code string, owner sol.PublicKey) (bool, error)
	Finalize(ctx context.Context, code string, owner sol.PublicKey, signature string) (*claims.ClaimCode, error)
}
