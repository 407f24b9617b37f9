// Package claims guards claim codes against concurrent redemption and
// records redemptions confirmed on chain.
//
// A code moves from unredeemed to pending when a wallet prepares a claim
// transaction, and from pending (or unredeemed) to redeemed once a matching
// transaction is observed. A pending lock expires on its own; redeemed is
// terminal.
package claims

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PendingAttempt is a time-boxed lock held by one wallet.
type PendingAttempt struct {
	Owner         string    `json:"owner"`
	AttemptID     string    `json:"attemptId"`
	CertificateID string    `json:"certificateId"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Expired reports whether the lock no longer holds at now.
func (p *PendingAttempt) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// ClaimCode is the stored state of one code.
type ClaimCode struct {
	Code              string          `json:"code"`
	BoxID             int             `json:"boxId"`
	DudeIDs           []int           `json:"dudeIds"`
	CertificateID     string          `json:"certificateId,omitempty"`
	RedeemedAt        *time.Time      `json:"redeemedAt,omitempty"`
	RedeemedBy        string          `json:"redeemedBy,omitempty"`
	RedeemedSignature string          `json:"redeemedSignature,omitempty"`
	PendingAttempt    *PendingAttempt `json:"pendingAttempt,omitempty"`
}

// Redeemed reports whether the code reached its terminal state.
func (c *ClaimCode) Redeemed() bool {
	return c.RedeemedAt != nil
}

// ChainReader reads the owner's activity on chain.
type ChainReader interface {
	SignaturesForAddress(ctx context.Context, address sol.PublicKey, limit int) ([]sol.SignatureInfo, error)
	GetTransaction(ctx context.Context, signature string) (*sol.TransactionInfo, error)
}

// Manager drives claim codes through their states.
type Manager struct {
	store     store.Store
	chain     ChainReader
	lockTTL   time.Duration
	scanLimit int
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLockTTL sets how long a pending attempt holds the code.
func WithLockTTL(d time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = d
	}
}

// WithScanLimit bounds how many recent signatures reconciliation inspects.
func WithScanLimit(n int) Option {
	return func(m *Manager) {
		m.scanLimit = n
	}
}

// NewManager creates a Manager.
func NewManager(s store.Store, chain ChainReader, opts ...Option) *Manager {
	m := &Manager{
		store:     s,
		chain:     chain,
		lockTTL:   constants.DefaultClaimLockDuration,
		scanLimit: constants.DefaultSignatureScanLimit,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    logger.Log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Normalize canonicalizes user-entered codes.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Load returns the stored code or NotFound.
func (m *Manager) Load(ctx context.Context, code string) (*ClaimCode, error) {
	c, err := store.Load[ClaimCode](ctx, m.store, constants.CollectionClaimCodes, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.New(apperr.KindNotFound, "claim code not found")
	}
	return c, nil
}

// Acquire locks code for owner. The availability check runs once outside
// and again inside the transaction that writes the lock.
func (m *Manager) Acquire(ctx context.Context, code, owner, certificateID string) (*ClaimCode, error) {
	current, err := m.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := checkAvailable(current, owner, m.now()); err != nil {
		return nil, err
	}

	updated, err := store.CompareAndUpdate(ctx, m.store, constants.CollectionClaimCodes, code, func(c *ClaimCode) (*ClaimCode, error) {
		if c == nil {
			return nil, apperr.New(apperr.KindNotFound, "claim code not found")
		}
		now := m.now()
		if err := checkAvailable(c, owner, now); err != nil {
			return nil, err
		}
		c.PendingAttempt = &PendingAttempt{
			Owner:         owner,
			AttemptID:     m.newID(),
			CertificateID: certificateID,
			ExpiresAt:     now.Add(m.lockTTL).UTC(),
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Claim code locked",
		zap.String("code", code),
		zap.String("owner", owner),
		zap.String("attempt_id", updated.PendingAttempt.AttemptID),
		zap.Time("expires_at", updated.PendingAttempt.ExpiresAt),
	)
	return updated, nil
}

func checkAvailable(c *ClaimCode, owner string, now time.Time) error {
	if c.Redeemed() {
		return apperr.New(apperr.KindFailedPrecondition, "claim code already redeemed")
	}
	p := c.PendingAttempt
	if p == nil || p.Expired(now) {
		return nil
	}
	if p.Owner == owner {
		return apperr.New(apperr.KindFailedPrecondition, "claim already pending for this wallet").
			WithDetail("attemptId", p.AttemptID).
			WithDetail("expiresAt", p.ExpiresAt)
	}
	return apperr.New(apperr.KindFailedPrecondition, "claim code is locked by another wallet").
		WithDetail("expiresAt", p.ExpiresAt)
}

// DetectAndReconcile looks for a redemption of code the service never heard
// about: a successful transaction paid by owner carrying the claim memo. When
// found the code is marked redeemed and true is returned.
func (m *Manager) DetectAndReconcile(ctx context.Context, code string, owner sol.PublicKey) (bool, error) {
	sigs, err := m.chain.SignaturesForAddress(ctx, owner, m.scanLimit)
	if err != nil {
		return false, err
	}

	for _, sig := range sigs {
		if sig.Failed || !MatchesMemo(sig.Memo, code) {
			continue
		}
		tx, err := m.chain.GetTransaction(ctx, sig.Signature)
		if err != nil {
			return false, err
		}
		if tx == nil || !tx.Succeeded || tx.FeePayer != owner || !anyMemoMatches(tx.Memos, code) {
			continue
		}

		if _, err := m.markRedeemed(ctx, code, owner.String(), sig.Signature); err != nil {
			return false, err
		}
		m.logger.Info("Reconciled claim redeemed outside the service",
			zap.String("code", code),
			zap.String("owner", owner.String()),
			zap.String("signature", sig.Signature),
		)
		return true, nil
	}
	return false, nil
}

// Finalize records a redemption from the submitted transaction. Finalizing a
// redeemed code succeeds without changes.
func (m *Manager) Finalize(ctx context.Context, code string, owner sol.PublicKey, signature string) (*ClaimCode, error) {
	current, err := m.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if current.Redeemed() {
		return current, nil
	}

	tx, err := m.chain.GetTransaction(ctx, signature)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperr.New(apperr.KindFailedPrecondition, "transaction not found").
			WithDetail("signature", signature)
	}
	if !tx.Succeeded {
		return nil, apperr.New(apperr.KindFailedPrecondition, "transaction failed on chain").
			WithDetail("signature", signature)
	}
	if tx.FeePayer != owner {
		return nil, apperr.New(apperr.KindFailedPrecondition, "transaction was not sent by this wallet").
			WithDetail("signature", signature)
	}
	if !anyMemoMatches(tx.Memos, code) {
		return nil, apperr.New(apperr.KindFailedPrecondition, "transaction memo does not match the claim code").
			WithDetail("signature", signature)
	}

	redeemed, err := m.markRedeemed(ctx, code, owner.String(), signature)
	if err != nil {
		return nil, err
	}
	m.logger.Info("Claim code redeemed",
		zap.String("code", code),
		zap.String("owner", owner.String()),
		zap.String("signature", signature),
	)
	return redeemed, nil
}

func (m *Manager) markRedeemed(ctx context.Context, code, owner, signature string) (*ClaimCode, error) {
	return store.CompareAndUpdate(ctx, m.store, constants.CollectionClaimCodes, code, func(c *ClaimCode) (*ClaimCode, error) {
		if c == nil {
			return nil, apperr.New(apperr.KindNotFound, "claim code not found")
		}
		if c.Redeemed() {
			return nil, nil
		}
		now := m.now().UTC()
		c.RedeemedAt = &now
		c.RedeemedBy = owner
		c.RedeemedSignature = signature
		if c.PendingAttempt != nil && c.PendingAttempt.CertificateID != "" {
			c.CertificateID = c.PendingAttempt.CertificateID
		}
		c.PendingAttempt = nil
		return c, nil
	})
}

const memoPrefix = "claim:"

// MemoFor is the memo a claim transaction carries.
func MemoFor(code, attemptID string) string {
	if attemptID == "" {
		return memoPrefix + code
	}
	return memoPrefix + code + ":" + attemptID
}

var lengthPrefix = regexp.MustCompile(`^\[\d+\]\s*`)

// MatchesMemo reports whether memo carries a claim tag for code. It accepts
// the "[len] " prefix and "; " separators used when memos are listed
// alongside signatures.
func MatchesMemo(memo, code string) bool {
	if memo == "" || code == "" {
		return false
	}
	tag := memoPrefix + code
	for _, part := range strings.Split(memo, "; ") {
		part = lengthPrefix.ReplaceAllString(strings.TrimSpace(part), "")
		if part == tag || strings.HasPrefix(part, tag+":") {
			return true
		}
	}
	return false
}

func anyMemoMatches(memos []string, code string) bool {
	for _, memo := range memos {
		if MatchesMemo(memo, code) {
			return true
		}
	}
	return false
}
