package assets

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	"github.com/dudedrops/dudes-api/internal/logger"
	"go.uber.org/zap"
)

// Expectation is what a caller requires of an asset.
type Expectation struct {
	Owner          string
	Kind           Kind
	CollectionMint string
	MetadataBase   string
}

// Fetcher polls a Source for assets that may not be indexed yet and checks
// them against an Expectation.
type Fetcher struct {
	source     Source
	classifier *Classifier
	window     time.Duration
	interval   time.Duration
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher that polls within window.
func NewFetcher(source Source, classifier *Classifier, window time.Duration) *Fetcher {
	if window <= 0 {
		window = constants.DefaultIndexLagWindow
	}
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &Fetcher{
		source:     source,
		classifier: classifier,
		window:     window,
		interval:   250 * time.Millisecond,
		logger:     logger.Log,
	}
}

// WithInterval sets the initial polling interval.
func (f *Fetcher) WithInterval(d time.Duration) *Fetcher {
	f.interval = d
	return f
}

func retriesLag(kind apperr.Kind) bool {
	return kind == apperr.KindNotFound || apperr.IsTransient(kind)
}

// FetchWithRetry polls until the asset is returned or the time window closes.
// Only not-found and transient failures are retried. A call still in flight
// when the window closes is abandoned and the last lag error is returned.
func (f *Fetcher) FetchWithRetry(ctx context.Context, id string) (*Asset, error) {
	windowCtx, cancel := context.WithTimeout(ctx, f.window)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.interval
	b.MaxInterval = time.Second
	b.MaxElapsedTime = f.window
	b.Reset()

	var (
		asset   *Asset
		lastErr error
	)
	attempt := 0
	operation := func() error {
		attempt++
		a, err := f.source.GetAsset(windowCtx, id)
		if err == nil {
			asset = a
			return nil
		}
		if windowCtx.Err() != nil {
			return backoff.Permanent(err)
		}
		if !retriesLag(apperr.KindOf(err)) {
			return backoff.Permanent(err)
		}
		lastErr = err
		f.logger.Debug("Asset not available yet",
			zap.String("asset_id", id),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(b, windowCtx))
	if err == nil {
		return asset, nil
	}
	if ctx.Err() == nil && windowCtx.Err() != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, apperr.Newf(apperr.KindNotFound, "asset %s not available within %s", id, f.window).
			WithDetail("assetId", id)
	}
	return nil, err
}

// Require fetches an asset and checks burn state, owner, collection and kind.
func (f *Fetcher) Require(ctx context.Context, id string, exp Expectation) (*Asset, Classification, error) {
	asset, err := f.FetchWithRetry(ctx, id)
	if err != nil {
		return nil, Classification{}, err
	}
	if asset.Burnt {
		return nil, Classification{}, apperr.Newf(apperr.KindNotFound, "asset %s has been burned", id)
	}
	if exp.Owner != "" && asset.Owner() != exp.Owner {
		return nil, Classification{}, apperr.Newf(apperr.KindFailedPrecondition, "asset %s is not owned by this wallet", id).
			WithDetail("assetId", id)
	}
	if !InCollection(asset, exp.CollectionMint, exp.MetadataBase) {
		return nil, Classification{}, apperr.Newf(apperr.KindFailedPrecondition, "asset %s is not part of this collection", id).
			WithDetail("assetId", id)
	}

	cl, ok := f.classifier.Classify(asset)
	if !ok {
		return nil, Classification{}, apperr.Newf(apperr.KindFailedPrecondition, "asset %s could not be classified", id).
			WithDetail("assetId", id)
	}
	if exp.Kind != "" && cl.Kind != exp.Kind {
		return nil, Classification{}, apperr.Newf(apperr.KindFailedPrecondition, "asset %s is a %s, expected a %s", id, cl.Kind, exp.Kind).
			WithDetail("assetId", id).
			WithDetail("kind", string(cl.Kind))
	}
	return asset, cl, nil
}
