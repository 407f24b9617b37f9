package auth

import (
	"context"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/dudedrops/dudes-api/internal/store"
)

// sessionRecord is the document the sign-in service writes per bearer token.
type sessionRecord struct {
	UID       string    `json:"uid"`
	Wallet    string    `json:"wallet"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// WalletSession is the authenticated wallet behind a request.
type WalletSession struct {
	UID       string
	Wallet    sol.PublicKey
	ExpiresAt time.Time
}

// SessionResolver looks up wallet sessions by bearer token.
type SessionResolver struct {
	store store.Store
	now   func() time.Time
}

// NewSessionResolver creates a resolver reading sessions from s.
func NewSessionResolver(s store.Store) *SessionResolver {
	return &SessionResolver{store: s, now: time.Now}
}

// WithClock injects the time source.
func (r *SessionResolver) WithClock(now func() time.Time) *SessionResolver {
	r.now = now
	return r
}

// Resolve returns the live session for token.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*WalletSession, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	record, err := store.Load[sessionRecord](ctx, r.store, constants.CollectionWalletSessions, token)
	if err != nil {
		return nil, err
	}
	if record == nil || record.UID == "" {
		return nil, ErrInvalidSession
	}
	if !r.now().Before(record.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	wallet, err := sol.PublicKeyFromBase58(record.Wallet)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnauthenticated, "session wallet is not a valid address")
	}
	return &WalletSession{
		UID:       record.UID,
		Wallet:    wallet,
		ExpiresAt: record.ExpiresAt,
	}, nil
}
