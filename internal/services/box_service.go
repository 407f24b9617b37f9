package services

import (
	"context"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/assets"
	"github.com/dudedrops/dudes-api/internal/instructions"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"go.uber.org/zap"
)

// OpenBox prepares the transaction burning a box the caller owns into its
// three figures. The figures are assigned on the first call and reused after.
func (s *DropService) OpenBox(ctx context.Context, caller Caller, req OpenBoxRequest) (*OpenBoxResult, error) {
	boxAsset, err := parseKey("boxAssetId", req.BoxAssetID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureConfig(ctx); err != nil {
		return nil, err
	}
	if _, _, err := s.assets.Require(ctx, req.BoxAssetID, s.expect(caller, assets.KindBox)); err != nil {
		return nil, err
	}

	assignment, err := s.allocator.AssignItems(ctx, req.BoxAssetID)
	if err != nil {
		return nil, err
	}

	ix, err := s.program.OpenBox(instructions.OpenBoxParams{
		Owner:    caller.Wallet,
		Cosigner: s.builder.Cosigner(),
		BoxAsset: boxAsset,
		DudeIDs:  assignment.DudeIDs,
	})
	if err != nil {
		return nil, err
	}
	prepared, err := s.build(ctx, caller.Wallet, []sol.Instruction{ix})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Prepared open box transaction",
		zap.String("owner", caller.Wallet.String()),
		zap.String("box_asset_id", req.BoxAssetID),
		zap.Ints("dude_ids", assignment.DudeIDs),
		zap.Int("size", prepared.Size),
	)
	return &OpenBoxResult{
		Transaction: prepared.Transaction,
		DudeIDs:     assignment.DudeIDs,
	}, nil
}

// PrepareMintBoxes prepares a primary-sale purchase of quantity boxes. The
// payer is the only signer.
func (s *DropService) PrepareMintBoxes(ctx context.Context, caller Caller, req MintBoxesRequest) (*MintBoxesResult, error) {
	if req.Quantity < 1 {
		return nil, apperr.New(apperr.KindInvalidArgument, "quantity must be at least 1")
	}

	cfg, err := s.verifier.ProgramConfig(ctx)
	if err != nil {
		return nil, err
	}
	if uint32(req.Quantity) > cfg.Remaining() {
		return nil, apperr.New(apperr.KindFailedPrecondition, "not enough boxes left").
			WithDetail("remaining", cfg.Remaining())
	}

	ix, err := s.program.MintBoxes(instructions.MintBoxesParams{
		Payer:                   caller.Wallet,
		Quantity:                req.Quantity,
		MaxPerTx:                cfg.MaxPerTx,
		CollectionMetadata:      cfg.CollectionMetadata,
		CollectionMasterEdition: cfg.CollectionMasterEdition,
	})
	if err != nil {
		return nil, err
	}
	prepared, err := s.build(ctx, caller.Wallet, []sol.Instruction{ix})
	if err != nil {
		return nil, err
	}

	price := cfg.PriceLamports * uint64(req.Quantity)
	s.logger.Info("Prepared mint transaction",
		zap.String("payer", caller.Wallet.String()),
		zap.Int("quantity", req.Quantity),
		zap.Uint64("price_lamports", price),
	)
	return &MintBoxesResult{
		Transaction:   prepared.Transaction,
		PriceLamports: price,
	}, nil
}
