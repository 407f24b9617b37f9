package solana

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	PublicKeyLength = 32
	SignatureLength = 64
)

// PublicKey is a 32-byte account address.
type PublicKey [PublicKeyLength]byte

// Hash is a 32-byte blockhash.
type Hash [32]byte

// Well-known program ids.
var (
	SystemProgramID        = MustPublicKey("11111111111111111111111111111111")
	ComputeBudgetProgramID = MustPublicKey("ComputeBudget111111111111111111111111111111")
	MemoProgramID          = MustPublicKey("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	MemoV1ProgramID        = MustPublicKey("Memo1UhkJRfHyvLMcVucJwxXeuD728EqVDDwQDxFMNo")
	TokenProgramID         = MustPublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	BubblegumProgramID     = MustPublicKey("BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY")
	CompressionProgramID   = MustPublicKey("cmtDvXumGCrqC1Age74AVPhSRVXJMd8PJS91L8KbNCK")
	NoopProgramID          = MustPublicKey("noopb9bkMVfRPU8AsbpTUg8AQkHtKwMYZiFUjNRtMmV")
	TokenMetadataProgramID = MustPublicKey("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
)

// PublicKeyFromBase58 parses a base58 address.
func PublicKeyFromBase58(s string) (PublicKey, error) {
	var pk PublicKey
	if s == "" {
		return pk, fmt.Errorf("empty public key")
	}
	raw := base58.Decode(s)
	if len(raw) != PublicKeyLength {
		return pk, fmt.Errorf("invalid public key %q: decoded length %d", s, len(raw))
	}
	copy(pk[:], raw)
	return pk, nil
}

// MustPublicKey parses s and panics on failure. Only for constants.
func MustPublicKey(s string) PublicKey {
	pk, err := PublicKeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PublicKeyFromPrivate returns the public half of an ed25519 key.
func PublicKeyFromPrivate(key ed25519.PrivateKey) PublicKey {
	var pk PublicKey
	copy(pk[:], key.Public().(ed25519.PublicKey))
	return pk
}

func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.String())
}

func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := PublicKeyFromBase58(s)
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// HashFromBase58 parses a base58 blockhash.
func HashFromBase58(s string) (Hash, error) {
	var h Hash
	raw := base58.Decode(s)
	if len(raw) != len(h) {
		return h, fmt.Errorf("invalid hash %q: decoded length %d", s, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

func (h Hash) String() string {
	return base58.Encode(h[:])
}

// DecodeBase58 exposes base58 decoding for instruction data and memos.
func DecodeBase58(s string) []byte {
	return base58.Decode(s)
}

// EncodeBase58 encodes raw bytes, e.g. a transaction signature.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}
