// Package txbuilder assembles cosigned, size-bounded transactions.
package txbuilder

import (
	"context"
	"crypto/ed25519"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/instructions"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"go.uber.org/zap"
)

// BlockhashSource returns the latest network blockhash.
type BlockhashSource interface {
	LatestBlockhash(ctx context.Context) (sol.Hash, error)
}

// Prepared is a partially signed transaction ready for the owner's wallet.
type Prepared struct {
	Transaction string
	Size        int
	Blockhash   sol.Hash
}

// Builder prepends compute-budget instructions, compiles the message and
// signs with the cosigner. The fee payer's slot is left for the wallet.
type Builder struct {
	blockhashes      BlockhashSource
	cosigner         ed25519.PrivateKey
	computeUnitLimit uint32
	computeUnitPrice uint64
	maxSize          int
	logger           *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithComputeBudget sets the unit limit and the priority price. Zero values
// omit the corresponding instruction.
func WithComputeBudget(limit uint32, microLamports uint64) Option {
	return func(b *Builder) {
		b.computeUnitLimit = limit
		b.computeUnitPrice = microLamports
	}
}

// WithMaxSize overrides the serialized size ceiling.
func WithMaxSize(n int) Option {
	return func(b *Builder) {
		b.maxSize = n
	}
}

// New creates a Builder.
func New(blockhashes BlockhashSource, cosigner ed25519.PrivateKey, opts ...Option) *Builder {
	b := &Builder{
		blockhashes:      blockhashes,
		cosigner:         cosigner,
		computeUnitLimit: constants.DefaultComputeUnitLimit,
		computeUnitPrice: constants.DefaultComputeUnitPriceMu,
		maxSize:          constants.MaxTransactionSize,
		logger:           logger.Log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Cosigner returns the server key's address.
func (b *Builder) Cosigner() sol.PublicKey {
	return sol.PublicKeyFromPrivate(b.cosigner)
}

// MaxSize is the serialized size ceiling.
func (b *Builder) MaxSize() int {
	return b.maxSize
}

// Blockhash fetches the blockhash a request will reuse for every encoding.
func (b *Builder) Blockhash(ctx context.Context) (sol.Hash, error) {
	return b.blockhashes.LatestBlockhash(ctx)
}

// Build fetches a blockhash and assembles the transaction.
func (b *Builder) Build(ctx context.Context, feePayer sol.PublicKey, ixs []sol.Instruction) (*Prepared, error) {
	blockhash, err := b.Blockhash(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildWithBlockhash(feePayer, ixs, blockhash)
}

// BuildWithBlockhash assembles and enforces the size ceiling.
func (b *Builder) BuildWithBlockhash(feePayer sol.PublicKey, ixs []sol.Instruction, blockhash sol.Hash) (*Prepared, error) {
	tx, err := b.Assemble(feePayer, ixs, blockhash)
	if err != nil {
		return nil, err
	}
	raw := tx.Serialize()
	if len(raw) > b.maxSize {
		return nil, apperr.Newf(apperr.KindFailedPrecondition, "transaction is %d bytes, limit is %d", len(raw), b.maxSize).
			WithDetail("size", len(raw)).
			WithDetail("limit", b.maxSize)
	}
	b.logger.Debug("Prepared transaction",
		zap.String("fee_payer", feePayer.String()),
		zap.Int("size", len(raw)),
		zap.Int("instructions", len(ixs)),
	)
	return &Prepared{
		Transaction: tx.SerializeBase64(),
		Size:        len(raw),
		Blockhash:   blockhash,
	}, nil
}

// Assemble compiles the message and cosigns it when the cosigner is one of
// its signers. The size is not checked.
func (b *Builder) Assemble(feePayer sol.PublicKey, ixs []sol.Instruction, blockhash sol.Hash) (*sol.Transaction, error) {
	all := make([]sol.Instruction, 0, len(ixs)+2)
	if b.computeUnitLimit > 0 {
		all = append(all, instructions.SetComputeUnitLimit(b.computeUnitLimit))
	}
	if b.computeUnitPrice > 0 {
		all = append(all, instructions.SetComputeUnitPrice(b.computeUnitPrice))
	}
	all = append(all, ixs...)

	msg, err := sol.CompileMessage(feePayer, all, blockhash)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindInvalidArgument, "compile transaction")
	}
	tx := sol.NewTransaction(msg)
	if !isSigner(msg, b.Cosigner()) {
		return tx, nil
	}
	if err := tx.PartialSign(b.cosigner); err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnknown, "cosign transaction")
	}
	return tx, nil
}

// Size returns the serialized size of the assembled transaction.
func (b *Builder) Size(feePayer sol.PublicKey, ixs []sol.Instruction, blockhash sol.Hash) (int, error) {
	tx, err := b.Assemble(feePayer, ixs, blockhash)
	if err != nil {
		return 0, err
	}
	return len(tx.Serialize()), nil
}

func isSigner(msg *sol.Message, pk sol.PublicKey) bool {
	for _, s := range msg.Signers() {
		if s == pk {
			return true
		}
	}
	return false
}
