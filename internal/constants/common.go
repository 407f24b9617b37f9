package constants

import "time"

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"

	ServiceName = "dudes-api"
)

// Drop parameters
const (
	DudesPerBox      = 3
	MaxDudeID        = 999
	MaxDeliveryItems = 32
	MaxClaimCodeLen  = 64
)

// Chain limits
const (
	// MaxTransactionSize is the packet size ceiling for a serialized transaction.
	MaxTransactionSize = 1232

	DefaultComputeUnitLimit   = 400_000
	DefaultComputeUnitPriceMu = 1_000
)

// Delivery fee window, in lamports
const (
	DefaultDeliveryBaseFee    = 5_000_000
	DefaultDeliveryPerItemFee = 1_000_000
	DefaultDeliveryMinFee     = 1_000_000
	DefaultDeliveryMaxFee     = 100_000_000
)

// Timing
const (
	DefaultRPCAttemptTimeout = 8 * time.Second
	DefaultRPCMaxAttempts    = 4
	DefaultRPCBaseDelay      = 250 * time.Millisecond
	DefaultRPCMaxDelay       = 4 * time.Second

	DefaultIndexLagWindow    = 6 * time.Second
	DefaultConfigCacheTTL    = 5 * time.Minute
	DefaultClaimLockDuration = 10 * time.Minute

	DefaultDeliveryIDAttempts = 8
	DefaultSignatureScanLimit = 50
)

// Document collections
const (
	CollectionWalletSessions = "wallet_sessions"
	CollectionBoxAssignments = "box_assignments"
	CollectionDudePool       = "dude_pool"
	CollectionDeliveries     = "deliveries"
	CollectionClaimCodes     = "claim_codes"
	CollectionAddresses      = "addresses"

	DudePoolKey = "global"
)

// Delivery statuses
const (
	DeliveryStatusPrepared = "prepared"
)
