package handlers

import (
	"strings"

	"github.com/dudedrops/dudes-api/internal/services"
)

func toOpenBox(req OpenBoxRequest) services.OpenBoxRequest {
	return services.OpenBoxRequest{BoxAssetID: strings.TrimSpace(req.BoxAssetID)}
}

func toDelivery(req DeliveryRequest) services.DeliveryRequest {
	items := make([]string, len(req.ItemIDs))
	for i, id := range req.ItemIDs {
		items[i] = strings.TrimSpace(id)
	}
	return services.DeliveryRequest{
		AddressID: strings.TrimSpace(req.AddressID),
		ItemIDs:   items,
	}
}

func toClaim(req ClaimRequest) services.ClaimRequest {
	return services.ClaimRequest{Code: req.Code}
}

func toFinalizeClaim(req FinalizeClaimRequest) services.FinalizeClaimRequest {
	return services.FinalizeClaimRequest{Code: req.Code, Signature: req.Signature}
}

func toMintBoxes(req MintBoxesRequest) services.MintBoxesRequest {
	return services.MintBoxesRequest{Quantity: req.Quantity}
}
