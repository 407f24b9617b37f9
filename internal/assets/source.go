package assets

import (
	"context"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/client/rpc"
	"github.com/pkg/errors"
)

// Source fetches asset records by id.
type Source interface {
	GetAsset(ctx context.Context, id string) (*Asset, error)
}

// IndexClient reads assets from a digital-asset index over JSON-RPC.
type IndexClient struct {
	rpc *rpc.Client
}

// NewIndexClient creates an IndexClient.
func NewIndexClient(rpcClient *rpc.Client) *IndexClient {
	return &IndexClient{rpc: rpcClient}
}

// GetAsset calls getAsset. A freshly minted or transferred asset can be
// missing for a few seconds, so not-found is retried by the RPC client.
func (c *IndexClient) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var asset *Asset
	err := c.rpc.CallJSONRPC(ctx, "getAsset", map[string]string{"id": id}, "get asset", &asset, rpc.TolerateIndexLag())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get asset %s", id)
	}
	if asset == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "asset %s not found", id)
	}
	return asset, nil
}

const ownerPageLimit = 1000

// AssetsByOwner pages through getAssetsByOwner until a short page.
func (c *IndexClient) AssetsByOwner(ctx context.Context, owner string) ([]Asset, error) {
	var all []Asset
	for page := 1; ; page++ {
		params := map[string]interface{}{
			"ownerAddress": owner,
			"page":         page,
			"limit":        ownerPageLimit,
		}
		var result struct {
			Total int     `json:"total"`
			Items []Asset `json:"items"`
		}
		if err := c.rpc.CallJSONRPC(ctx, "getAssetsByOwner", params, "assets by owner", &result); err != nil {
			return nil, errors.Wrapf(err, "failed to list assets of %s", owner)
		}
		all = append(all, result.Items...)
		if len(result.Items) < ownerPageLimit {
			return all, nil
		}
	}
}
