package services

import (
	"context"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/assets"
	"github.com/dudedrops/dudes-api/internal/instructions"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/store"
	"github.com/dudedrops/dudes-api/internal/txbuilder"
	"go.uber.org/zap"
)

// DropService prepares the custody transactions of the drop: opening boxes,
// requesting deliveries, redeeming claim codes and buying boxes.
type DropService struct {
	program    *instructions.Program
	verifier   ConfigVerifier
	assets     AssetRequirer
	owned      OwnerAssetLister
	classifier *assets.Classifier
	allocator  ItemAllocator
	builder    TransactionBuilder
	claims     ClaimLocker
	store      store.Store
	fees       FeeSchedule

	collectionMint string
	metadataBase   string

	now    func() time.Time
	logger *zap.Logger
}

// Dependencies wires a DropService.
type Dependencies struct {
	Program    *instructions.Program
	Verifier   ConfigVerifier
	Assets     AssetRequirer
	Owned      OwnerAssetLister
	Classifier *assets.Classifier
	Allocator  ItemAllocator
	Builder    TransactionBuilder
	Claims     ClaimLocker
	Store      store.Store
	Fees       FeeSchedule

	// MetadataBase recognizes assets of the collection by json uri when the
	// index has not grouped them yet.
	MetadataBase string
}

// NewDropService creates a new drop service
func NewDropService(deps Dependencies) *DropService {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = assets.NewClassifier()
	}
	return &DropService{
		program:        deps.Program,
		verifier:       deps.Verifier,
		assets:         deps.Assets,
		owned:          deps.Owned,
		classifier:     classifier,
		allocator:      deps.Allocator,
		builder:        deps.Builder,
		claims:         deps.Claims,
		store:          deps.Store,
		fees:           deps.Fees,
		collectionMint: deps.Program.CollectionMint.String(),
		metadataBase:   deps.MetadataBase,
		now:            time.Now,
		logger:         logger.Log,
	}
}

// ensureConfig is the verification step every operation runs before it
// touches the chain on a wallet's behalf.
func (s *DropService) ensureConfig(ctx context.Context) error {
	return s.verifier.EnsureConfig(ctx, false)
}

func (s *DropService) expect(caller Caller, kind assets.Kind) assets.Expectation {
	return assets.Expectation{
		Owner:          caller.Wallet.String(),
		Kind:           kind,
		CollectionMint: s.collectionMint,
		MetadataBase:   s.metadataBase,
	}
}

// build assembles ixs against a fresh blockhash.
func (s *DropService) build(ctx context.Context, feePayer sol.PublicKey, ixs []sol.Instruction) (*txbuilder.Prepared, error) {
	blockhash, err := s.builder.Blockhash(ctx)
	if err != nil {
		return nil, err
	}
	return s.builder.BuildWithBlockhash(feePayer, ixs, blockhash)
}

func parseKey(field, value string) (sol.PublicKey, error) {
	if value == "" {
		return sol.PublicKey{}, apperr.Newf(apperr.KindInvalidArgument, "%s is required", field)
	}
	pk, err := sol.PublicKeyFromBase58(value)
	if err != nil {
		return sol.PublicKey{}, apperr.Wrap(err, apperr.KindInvalidArgument, "invalid "+field).
			WithDetail("field", field)
	}
	return pk, nil
}
