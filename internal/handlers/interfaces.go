package handlers

import (
	"context"

	"github.com/dudedrops/dudes-api/internal/services"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_handlers.go -package=mocks

// DropOperations is the service surface the drop handlers call.
type DropOperations interface {
	OpenBox(ctx context.Context, caller services.Caller, req services.OpenBoxRequest) (*services.OpenBoxResult, error)
	PrepareDelivery(ctx context.Context, caller services.Caller, req services.DeliveryRequest) (*services.DeliveryResult, error)
	PrepareClaim(ctx context.Context, caller services.Caller, req services.ClaimRequest) (*services.ClaimResult, error)
	FinalizeClaim(ctx context.Context, caller services.Caller, req services.FinalizeClaimRequest) error
	PrepareMintBoxes(ctx context.Context, caller services.Caller, req services.MintBoxesRequest) (*services.MintBoxesResult, error)
}
