// Package config loads and validates the service configuration from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/helpers"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"go.uber.org/zap"
)

// Environment variables holding the cosigner keypair.
const (
	CosignerSecretARNEnv = "COSIGNER_SECRET_ARN"
	CosignerSecretKeyEnv = "COSIGNER_SECRET_KEY"
)

// Config holds all env configuration vars for the API.
type Config struct {
	Stage string
	Port  string

	// DatabaseURL selects the Postgres document store. When empty outside of
	// prod the service runs on the in-memory store.
	DatabaseURL string

	SolanaRPCURL string
	// DASRPCURL serves the digital asset index. Defaults to SolanaRPCURL.
	DASRPCURL    string

	ProgramID      sol.PublicKey
	CollectionMint sol.PublicKey
	MerkleTree     sol.PublicKey
	Admin          sol.PublicKey
	Treasury       sol.PublicKey
	MetadataBase   string

	DeliveryBaseFee    uint64
	DeliveryPerItemFee uint64
	DeliveryMinFee     uint64
	DeliveryMaxFee     uint64

	ComputeUnitLimit uint32
	ComputeUnitPrice uint64

	RPCAttemptTimeout  time.Duration
	RPCMaxAttempts     int
	IndexLagWindow     time.Duration
	ConfigCacheTTL     time.Duration
	ClaimLockDuration  time.Duration
	SignatureScanLimit int

	RateLimitPerSecond int
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:        envString("STAGE", constants.DevEnvironment),
		Port:         envString("PORT", "8000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SolanaRPCURL: os.Getenv("SOLANA_RPC_URL"),
		DASRPCURL:    os.Getenv("DAS_RPC_URL"),
		MetadataBase: os.Getenv("METADATA_BASE"),

		DeliveryBaseFee:    envUint64("DELIVERY_FEE_BASE_LAMPORTS", constants.DefaultDeliveryBaseFee),
		DeliveryPerItemFee: envUint64("DELIVERY_FEE_PER_ITEM_LAMPORTS", constants.DefaultDeliveryPerItemFee),
		DeliveryMinFee:     envUint64("DELIVERY_FEE_MIN_LAMPORTS", constants.DefaultDeliveryMinFee),
		DeliveryMaxFee:     envUint64("DELIVERY_FEE_MAX_LAMPORTS", constants.DefaultDeliveryMaxFee),

		ComputeUnitLimit: uint32(envInt("COMPUTE_UNIT_LIMIT", constants.DefaultComputeUnitLimit)),
		ComputeUnitPrice: envUint64("COMPUTE_UNIT_PRICE_MICROLAMPORTS", constants.DefaultComputeUnitPriceMu),

		RPCAttemptTimeout:  envDuration("RPC_ATTEMPT_TIMEOUT", constants.DefaultRPCAttemptTimeout),
		RPCMaxAttempts:     envInt("RPC_MAX_ATTEMPTS", constants.DefaultRPCMaxAttempts),
		IndexLagWindow:     envDuration("INDEX_LAG_WINDOW", constants.DefaultIndexLagWindow),
		ConfigCacheTTL:     envDuration("CONFIG_CACHE_TTL", constants.DefaultConfigCacheTTL),
		ClaimLockDuration:  envDuration("CLAIM_LOCK_DURATION", constants.DefaultClaimLockDuration),
		SignatureScanLimit: envInt("SIGNATURE_SCAN_LIMIT", constants.DefaultSignatureScanLimit),

		RateLimitPerSecond: envInt("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     envInt("RATE_LIMIT_BURST", 20),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if !helpers.IsValidStage(cfg.Stage) {
		return nil, fmt.Errorf("STAGE %q is not one of %s, %s, %s", cfg.Stage, constants.ProdEnvironment, constants.DevEnvironment, constants.LocalEnvironment)
	}
	if cfg.SolanaRPCURL == "" {
		return nil, fmt.Errorf("SOLANA_RPC_URL is required")
	}
	if cfg.DASRPCURL == "" {
		cfg.DASRPCURL = cfg.SolanaRPCURL
	}
	if cfg.DatabaseURL == "" && cfg.Stage == constants.ProdEnvironment {
		return nil, fmt.Errorf("DATABASE_URL is required in %s", constants.ProdEnvironment)
	}

	keys := []struct {
		env  string
		dest *sol.PublicKey
	}{
		{"BOX_PROGRAM_ID", &cfg.ProgramID},
		{"COLLECTION_MINT", &cfg.CollectionMint},
		{"MERKLE_TREE", &cfg.MerkleTree},
		{"ADMIN_PUBKEY", &cfg.Admin},
		{"TREASURY_PUBKEY", &cfg.Treasury},
	}
	for _, k := range keys {
		key, err := envPublicKey(k.env)
		if err != nil {
			return nil, err
		}
		*k.dest = key
	}

	if cfg.DeliveryMinFee > cfg.DeliveryMaxFee {
		return nil, fmt.Errorf("DELIVERY_FEE_MIN_LAMPORTS (%d) exceeds DELIVERY_FEE_MAX_LAMPORTS (%d)", cfg.DeliveryMinFee, cfg.DeliveryMaxFee)
	}
	// Every request size from one item to the cap must price inside the window.
	for _, n := range []int{1, constants.MaxDeliveryItems} {
		fee := cfg.DeliveryFee(n)
		if fee < cfg.DeliveryMinFee || fee > cfg.DeliveryMaxFee {
			return nil, fmt.Errorf("delivery fee for %d items (%d) is outside DELIVERY_FEE_MIN_LAMPORTS..DELIVERY_FEE_MAX_LAMPORTS [%d, %d]",
				n, fee, cfg.DeliveryMinFee, cfg.DeliveryMaxFee)
		}
	}
	if cfg.MetadataBase != "" && !strings.HasPrefix(cfg.MetadataBase, "https://") {
		return nil, fmt.Errorf("METADATA_BASE must start with https://")
	}

	return cfg, nil
}

// UsesMemoryStore reports whether documents live in process memory.
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == ""
}

// DeliveryFee is the lamport fee charged for n items.
func (c *Config) DeliveryFee(n int) uint64 {
	return c.DeliveryBaseFee + c.DeliveryPerItemFee*uint64(n)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envPublicKey(key string) (sol.PublicKey, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return sol.PublicKey{}, fmt.Errorf("%s is required", key)
	}
	pk, err := sol.PublicKeyFromBase58(v)
	if err != nil {
		return sol.PublicKey{}, fmt.Errorf("%s is not a valid base58 public key: %w", key, err)
	}
	return pk, nil
}

// envInt reads an env var as a positive int, returning def if missing or unparseable.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.Log.Warn("invalid env var, using default", zap.String("key", key), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func envUint64(key string, def uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		logger.Log.Warn("invalid env var, using default", zap.String("key", key), zap.String("value", v), zap.Uint64("default", def))
		return def
	}
	return n
}

// envDuration reads an env var as time.Duration, returning def if missing or unparseable.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logger.Log.Warn("invalid env var, using default", zap.String("key", key), zap.String("value", v), zap.Duration("default", def))
		return def
	}
	return d
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
