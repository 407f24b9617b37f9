package services

import (
	"context"
	"strings"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/assets"
	"github.com/dudedrops/dudes-api/internal/claims"
	"github.com/dudedrops/dudes-api/internal/instructions"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"go.uber.org/zap"
)

// PrepareClaim locks a claim code for the caller and prepares the
// transaction redeeming it against the certificate the caller holds for the
// code's box. The transaction carries a memo tying it to the lock.
func (s *DropService) PrepareClaim(ctx context.Context, caller Caller, req ClaimRequest) (*ClaimResult, error) {
	code := claims.Normalize(req.Code)
	if err := instructions.ValidateCode(code); err != nil {
		return nil, err
	}

	if err := s.ensureConfig(ctx); err != nil {
		return nil, err
	}

	claim, err := s.claims.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if claim.Redeemed() {
		return nil, apperr.New(apperr.KindFailedPrecondition, "claim code already redeemed")
	}
	reconciled, err := s.claims.DetectAndReconcile(ctx, code, caller.Wallet)
	if err != nil {
		return nil, err
	}
	if reconciled {
		return nil, apperr.New(apperr.KindFailedPrecondition, "claim code already redeemed")
	}

	certificate, err := s.findCertificate(ctx, caller, claim.BoxID)
	if err != nil {
		return nil, err
	}
	certificateKey, err := sol.PublicKeyFromBase58(certificate.ID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnknown, "asset index returned an invalid certificate id")
	}

	claimIx, err := s.program.Claim(instructions.ClaimParams{
		Owner:            caller.Wallet,
		Cosigner:         s.builder.Cosigner(),
		CertificateAsset: certificateKey,
		DudeIDs:          claim.DudeIDs,
		Code:             code,
	})
	if err != nil {
		return nil, err
	}

	locked, err := s.claims.Acquire(ctx, code, caller.Wallet.String(), certificate.ID)
	if err != nil {
		return nil, err
	}
	attempt := locked.PendingAttempt

	prepared, err := s.build(ctx, caller.Wallet, []sol.Instruction{
		claimIx,
		instructions.Memo(caller.Wallet, claims.MemoFor(code, attempt.AttemptID)),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Prepared claim transaction",
		zap.String("owner", caller.Wallet.String()),
		zap.String("code", code),
		zap.String("attempt_id", attempt.AttemptID),
		zap.String("certificate_id", certificate.ID),
	)
	return &ClaimResult{
		Transaction:   prepared.Transaction,
		DudeIDs:       claim.DudeIDs,
		AttemptID:     attempt.AttemptID,
		ExpiresAt:     attempt.ExpiresAt,
		CertificateID: certificate.ID,
	}, nil
}

// findCertificate picks the certificate for boxID among the caller's assets.
func (s *DropService) findCertificate(ctx context.Context, caller Caller, boxID int) (*assets.Asset, error) {
	owned, err := s.owned.AssetsByOwner(ctx, caller.Wallet.String())
	if err != nil {
		return nil, err
	}
	certificate, ok := s.classifier.FindByBox(owned, assets.KindCertificate, boxID, s.collectionMint, s.metadataBase)
	if !ok {
		return nil, apperr.New(apperr.KindPermissionDenied, "wallet holds no certificate for this claim code").
			WithDetail("boxId", boxID)
	}
	return certificate, nil
}

// FinalizeClaim records the redemption carried by the submitted transaction.
// Finalizing an already redeemed code succeeds.
func (s *DropService) FinalizeClaim(ctx context.Context, caller Caller, req FinalizeClaimRequest) error {
	code := claims.Normalize(req.Code)
	if err := instructions.ValidateCode(code); err != nil {
		return err
	}
	signature := strings.TrimSpace(req.Signature)
	if signature == "" {
		return apperr.New(apperr.KindInvalidArgument, "signature is required")
	}
	if len(sol.DecodeBase58(signature)) != sol.SignatureLength {
		return apperr.New(apperr.KindInvalidArgument, "signature must be a base58 encoded 64 byte signature")
	}

	if _, err := s.claims.Finalize(ctx, code, caller.Wallet, signature); err != nil {
		return err
	}
	return nil
}
