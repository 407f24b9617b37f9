package auth

import "github.com/dudedrops/dudes-api/internal/apperr"

var (
	ErrMissingToken   = apperr.New(apperr.KindUnauthenticated, "missing bearer token")
	ErrInvalidSession = apperr.New(apperr.KindUnauthenticated, "invalid session")
	ErrSessionExpired = apperr.New(apperr.KindUnauthenticated, "session expired")
	ErrNoSessionInCtx = apperr.New(apperr.KindUnauthenticated, "no wallet session found in request ctx")
)
