package services

import (
	"context"
	"strings"

	"github.com/dudedrops/dudes-api/internal/allocator"
	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/assets"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/instructions"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/store"
	"github.com/dudedrops/dudes-api/internal/txbuilder"
	"go.uber.org/zap"
)

// PrepareDelivery prepares the transaction burning the given figures in
// exchange for a physical delivery to one of the caller's saved addresses.
// A request whose transaction would exceed the size limit fails with the
// largest item count that fits.
func (s *DropService) PrepareDelivery(ctx context.Context, caller Caller, req DeliveryRequest) (*DeliveryResult, error) {
	// Validate required fields
	if strings.TrimSpace(req.AddressID) == "" {
		return nil, apperr.New(apperr.KindInvalidArgument, "addressId is required")
	}
	itemIDs, itemKeys, err := dedupeItems(req.ItemIDs)
	if err != nil {
		return nil, err
	}
	n := len(itemIDs)
	if n == 0 || n > constants.MaxDeliveryItems {
		return nil, apperr.Newf(apperr.KindInvalidArgument, "expected 1 to %d items, got %d", constants.MaxDeliveryItems, n).
			WithDetail("maxItems", constants.MaxDeliveryItems)
	}
	fee := s.fees.For(n)
	if err := s.program.ValidateFee(fee); err != nil {
		return nil, err
	}

	address, err := store.Load[Address](ctx, s.store, constants.CollectionAddresses, AddressKey(caller.UID, req.AddressID))
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, apperr.New(apperr.KindNotFound, "address not found").
			WithDetail("addressId", req.AddressID)
	}

	if err := s.ensureConfig(ctx); err != nil {
		return nil, err
	}

	dudeIDs := make([]int, n)
	for i, id := range itemIDs {
		_, class, err := s.assets.Require(ctx, id, s.expect(caller, assets.KindFigure))
		if err != nil {
			return nil, err
		}
		dudeIDs[i] = class.FigureID
	}
	if err := instructions.ValidateDudeIDs(dudeIDs, 1, constants.MaxDeliveryItems); err != nil {
		return nil, err
	}

	deliveryID, err := s.allocator.AllocateDeliveryID(ctx)
	if err != nil {
		return nil, err
	}

	blockhash, err := s.builder.Blockhash(ctx)
	if err != nil {
		return nil, err
	}
	deliver := func(k int) ([]sol.Instruction, error) {
		ix, err := s.program.Deliver(instructions.DeliverParams{
			Owner:       caller.Wallet,
			Cosigner:    s.builder.Cosigner(),
			DeliveryID:  deliveryID,
			FeeLamports: s.fees.For(k),
			DudeIDs:     dudeIDs[:k],
			ItemAssets:  itemKeys[:k],
		})
		if err != nil {
			return nil, err
		}
		return []sol.Instruction{ix}, nil
	}

	ixs, err := deliver(n)
	if err != nil {
		return nil, err
	}
	prepared, err := s.builder.BuildWithBlockhash(caller.Wallet, ixs, blockhash)
	if err != nil {
		if isOversize(err) {
			return nil, s.oversize(caller.Wallet, n, blockhash, deliver, err)
		}
		return nil, err
	}

	order := &DeliveryOrder{
		DeliveryID:  deliveryID,
		Owner:       caller.Wallet.String(),
		UID:         caller.UID,
		ItemIDs:     itemIDs,
		DudeIDs:     dudeIDs,
		Address:     *address,
		FeeLamports: fee,
		Status:      constants.DeliveryStatusPrepared,
		CreatedAt:   s.now().UTC(),
	}
	_, err = store.CompareAndUpdate(ctx, s.store, constants.CollectionDeliveries, allocator.DeliveryKey(deliveryID),
		func(current *DeliveryOrder) (*DeliveryOrder, error) {
			if current != nil {
				return nil, apperr.New(apperr.KindUnavailable, "delivery id already taken, retry the request").
					WithDetail("deliveryId", deliveryID)
			}
			return order, nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Prepared delivery transaction",
		zap.String("owner", caller.Wallet.String()),
		zap.Uint32("delivery_id", deliveryID),
		zap.Int("items", n),
		zap.Uint64("fee_lamports", fee),
		zap.Int("size", prepared.Size),
	)
	return &DeliveryResult{
		Transaction: prepared.Transaction,
		FeeLamports: fee,
		DeliveryID:  deliveryID,
	}, nil
}

// dedupeItems parses item ids and drops repeats, keeping first-seen order.
func dedupeItems(ids []string) ([]string, []sol.PublicKey, error) {
	outIDs := make([]string, 0, len(ids))
	keys := make([]sol.PublicKey, 0, len(ids))
	seen := make(map[sol.PublicKey]struct{}, len(ids))
	for _, id := range ids {
		pk, err := parseKey("itemIds", id)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[pk]; dup {
			continue
		}
		seen[pk] = struct{}{}
		outIDs = append(outIDs, pk.String())
		keys = append(keys, pk)
	}
	return outIDs, keys, nil
}

// isOversize reports whether err is the builder's size ceiling rejection.
func isOversize(err error) bool {
	appErr := apperr.From(err)
	if appErr.Kind != apperr.KindFailedPrecondition {
		return false
	}
	_, ok := appErr.Details["limit"]
	return ok
}

// oversize searches the largest prefix of the request that fits.
func (s *DropService) oversize(feePayer sol.PublicKey, n int, blockhash sol.Hash, deliver func(int) ([]sol.Instruction, error), cause error) error {
	limit := s.builder.MaxSize()
	maxItems, err := txbuilder.MaxFitting(n, limit, func(k int) (int, error) {
		ixs, err := deliver(k)
		if err != nil {
			return 0, err
		}
		return s.builder.Size(feePayer, ixs, blockhash)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("Delivery transaction over size limit",
		zap.Int("items", n),
		zap.Int("max_items", maxItems),
	)
	return apperr.Wrap(cause, apperr.KindFailedPrecondition, "too many items for one transaction").
		WithDetail("maxItems", maxItems).
		WithDetail("limit", limit)
}
