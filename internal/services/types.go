package services

import (
	"time"

	sol "github.com/dudedrops/dudes-api/internal/solana"
)

// Caller is the authenticated wallet behind a request.
type Caller struct {
	UID    string
	Wallet sol.PublicKey
}

// Address is a saved shipping address. Records are written by the profile
// service and only read here.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// AddressKey is the store key of a user's address.
func AddressKey(uid, addressID string) string {
	return uid + ":" + addressID
}

// DeliveryOrder records a prepared delivery together with the address it
// ships to at the time of preparation.
type DeliveryOrder struct {
	DeliveryID  uint32    `json:"deliveryId"`
	Owner       string    `json:"owner"`
	UID         string    `json:"uid"`
	ItemIDs     []string  `json:"itemIds"`
	DudeIDs     []int     `json:"dudeIds"`
	Address     Address   `json:"address"`
	FeeLamports uint64    `json:"feeLamports"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FeeSchedule prices a delivery by item count.
type FeeSchedule struct {
	BaseLamports    uint64
	PerItemLamports uint64
}

// For returns the fee for n items.
func (f FeeSchedule) For(n int) uint64 {
	return f.BaseLamports + f.PerItemLamports*uint64(n)
}

type OpenBoxRequest struct {
	BoxAssetID string `json:"boxAssetId"`
}

type OpenBoxResult struct {
	Transaction string `json:"transaction"`
	DudeIDs     []int  `json:"dudeIds"`
}

type DeliveryRequest struct {
	AddressID string   `json:"addressId"`
	ItemIDs   []string `json:"itemIds"`
}

type DeliveryResult struct {
	Transaction string `json:"transaction"`
	FeeLamports uint64 `json:"feeLamports"`
	DeliveryID  uint32 `json:"deliveryId"`
}

type ClaimRequest struct {
	Code string `json:"code"`
}

type ClaimResult struct {
	Transaction   string    `json:"transaction"`
	DudeIDs       []int     `json:"dudeIds"`
	AttemptID     string    `json:"attemptId"`
	ExpiresAt     time.Time `json:"expiresAt"`
	CertificateID string    `json:"certificateId"`
}

type FinalizeClaimRequest struct {
	Code      string `json:"code"`
	Signature string `json:"signature"`
}

type MintBoxesRequest struct {
	Quantity int `json:"quantity"`
}

type MintBoxesResult struct {
	Transaction   string `json:"transaction"`
	PriceLamports uint64 `json:"priceLamports"`
}
