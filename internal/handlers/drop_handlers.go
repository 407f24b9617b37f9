package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DropHandler serves the custody transaction endpoints. Every route expects
// a wallet session set by the auth middleware.
type DropHandler struct {
	ops DropOperations
}

// NewDropHandler creates a new DropHandler instance
func NewDropHandler(ops DropOperations) *DropHandler {
	return &DropHandler{ops: ops}
}

// OpenBoxRequest represents the request body for opening a box
type OpenBoxRequest struct {
	BoxAssetID string `json:"boxAssetId" binding:"required"`
}

// DeliveryRequest represents the request body for a physical delivery
type DeliveryRequest struct {
	AddressID string   `json:"addressId" binding:"required"`
	ItemIDs   []string `json:"itemIds" binding:"required,min=1,dive,required"`
}

// ClaimRequest represents the request body for preparing a claim
type ClaimRequest struct {
	Code string `json:"code" binding:"required"`
}

// FinalizeClaimRequest represents the request body for finalizing a claim
type FinalizeClaimRequest struct {
	Code      string `json:"code" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// MintBoxesRequest represents the request body for buying boxes
type MintBoxesRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// OKResponse acknowledges a request with no other output.
type OKResponse struct {
	OK bool `json:"ok"`
}

// OpenBox prepares the transaction opening a box the wallet owns
func (h *DropHandler) OpenBox(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		sendError(c, err)
		return
	}
	var req OpenBoxRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, err)
		return
	}

	result, err := h.ops.OpenBox(c.Request.Context(), caller, toOpenBox(req))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, result)
}

// PrepareDelivery prepares the transaction for a physical delivery
func (h *DropHandler) PrepareDelivery(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		sendError(c, err)
		return
	}
	var req DeliveryRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, err)
		return
	}

	result, err := h.ops.PrepareDelivery(c.Request.Context(), caller, toDelivery(req))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, result)
}

// PrepareClaim locks a claim code and prepares its redemption transaction
func (h *DropHandler) PrepareClaim(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		sendError(c, err)
		return
	}
	var req ClaimRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, err)
		return
	}

	result, err := h.ops.PrepareClaim(c.Request.Context(), caller, toClaim(req))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, result)
}

// FinalizeClaim records a submitted claim transaction
func (h *DropHandler) FinalizeClaim(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		sendError(c, err)
		return
	}
	var req FinalizeClaimRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, err)
		return
	}

	if err := h.ops.FinalizeClaim(c.Request.Context(), caller, toFinalizeClaim(req)); err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, OKResponse{OK: true})
}

// MintBoxes prepares a primary-sale purchase
func (h *DropHandler) MintBoxes(c *gin.Context) {
	caller, err := callerFrom(c)
	if err != nil {
		sendError(c, err)
		return
	}
	var req MintBoxesRequest
	if err := bindJSON(c, &req); err != nil {
		sendError(c, err)
		return
	}

	result, err := h.ops.PrepareMintBoxes(c.Request.Context(), caller, toMintBoxes(req))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, result)
}
