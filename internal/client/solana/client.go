package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/client/rpc"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/pkg/errors"
)

const defaultCommitment = "confirmed"

// Client exposes the chain RPC methods the service needs.
type Client struct {
	rpc        *rpc.Client
	commitment string
}

// NewClient creates a chain client over an RPC client.
func NewClient(rpcClient *rpc.Client) *Client {
	return &Client{rpc: rpcClient, commitment: defaultCommitment}
}

type commitmentConfig struct {
	Commitment string `json:"commitment,omitempty"`
}

// LatestBlockhash returns the most recent blockhash at the client's commitment.
func (c *Client) LatestBlockhash(ctx context.Context) (sol.Hash, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	err := c.rpc.CallJSONRPC(ctx, "getLatestBlockhash", []interface{}{commitmentConfig{c.commitment}}, "latest blockhash", &result)
	if err != nil {
		return sol.Hash{}, errors.Wrap(err, "failed to get latest blockhash")
	}
	hash, err := sol.HashFromBase58(result.Value.Blockhash)
	if err != nil {
		return sol.Hash{}, apperr.Wrap(err, apperr.KindUnknown, "decode blockhash")
	}
	return hash, nil
}

// GetAccountInfo returns the account at address, or nil when it does not exist.
func (c *Client) GetAccountInfo(ctx context.Context, address sol.PublicKey) (*sol.AccountInfo, error) {
	params := []interface{}{
		address.String(),
		map[string]string{"encoding": "base64", "commitment": c.commitment},
	}
	var result struct {
		Value *struct {
			Owner      string    `json:"owner"`
			Lamports   uint64    `json:"lamports"`
			Executable bool      `json:"executable"`
			Data       [2]string `json:"data"`
		} `json:"value"`
	}
	if err := c.rpc.CallJSONRPC(ctx, "getAccountInfo", params, "account info", &result); err != nil {
		return nil, errors.Wrapf(err, "failed to get account %s", address)
	}
	if result.Value == nil {
		return nil, nil
	}

	owner, err := sol.PublicKeyFromBase58(result.Value.Owner)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnknown, "decode account owner")
	}
	data, err := base64.StdEncoding.DecodeString(result.Value.Data[0])
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindUnknown, "decode account data")
	}
	return &sol.AccountInfo{
		Address:    address,
		Owner:      owner,
		Lamports:   result.Value.Lamports,
		Executable: result.Value.Executable,
		Data:       data,
	}, nil
}

// AccountExists reports whether any account lives at address.
func (c *Client) AccountExists(ctx context.Context, address sol.PublicKey) (bool, error) {
	info, err := c.GetAccountInfo(ctx, address)
	if err != nil {
		return false, err
	}
	return info != nil, nil
}

// SignaturesForAddress returns up to limit recent signatures involving address,
// newest first.
func (c *Client) SignaturesForAddress(ctx context.Context, address sol.PublicKey, limit int) ([]sol.SignatureInfo, error) {
	params := []interface{}{
		address.String(),
		map[string]interface{}{"limit": limit, "commitment": c.commitment},
	}
	var result []struct {
		Signature string          `json:"signature"`
		Err       json.RawMessage `json:"err"`
		Memo      *string         `json:"memo"`
		BlockTime *int64          `json:"blockTime"`
	}
	if err := c.rpc.CallJSONRPC(ctx, "getSignaturesForAddress", params, "signatures for address", &result); err != nil {
		return nil, errors.Wrapf(err, "failed to list signatures for %s", address)
	}

	out := make([]sol.SignatureInfo, 0, len(result))
	for _, r := range result {
		info := sol.SignatureInfo{
			Signature: r.Signature,
			Failed:    !isNullJSON(r.Err),
			BlockTime: unixTime(r.BlockTime),
		}
		if r.Memo != nil {
			info.Memo = *r.Memo
		}
		out = append(out, info)
	}
	return out, nil
}

type rawTransaction struct {
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Err json.RawMessage `json:"err"`
	} `json:"meta"`
	Transaction struct {
		Signatures []string `json:"signatures"`
		Message    struct {
			Header struct {
				NumRequiredSignatures int `json:"numRequiredSignatures"`
			} `json:"header"`
			AccountKeys  []string `json:"accountKeys"`
			Instructions []struct {
				ProgramIDIndex int    `json:"programIdIndex"`
				Data           string `json:"data"`
			} `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}

// GetTransaction fetches a confirmed transaction, or nil when the node does
// not know the signature.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*sol.TransactionInfo, error) {
	params := []interface{}{
		signature,
		map[string]interface{}{
			"encoding":                       "json",
			"commitment":                     c.commitment,
			"maxSupportedTransactionVersion": 0,
		},
	}
	var raw *rawTransaction
	if err := c.rpc.CallJSONRPC(ctx, "getTransaction", params, "transaction", &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to get transaction %s", signature)
	}
	if raw == nil {
		return nil, nil
	}
	return decodeTransaction(signature, raw)
}

func decodeTransaction(signature string, raw *rawTransaction) (*sol.TransactionInfo, error) {
	msg := raw.Transaction.Message
	keys := make([]sol.PublicKey, 0, len(msg.AccountKeys))
	for _, k := range msg.AccountKeys {
		pk, err := sol.PublicKeyFromBase58(k)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindUnknown, "decode transaction account key")
		}
		keys = append(keys, pk)
	}
	if len(keys) == 0 || msg.Header.NumRequiredSignatures > len(keys) {
		return nil, apperr.New(apperr.KindUnknown, "decode transaction: malformed account keys")
	}

	info := &sol.TransactionInfo{
		Signature: signature,
		Succeeded: raw.Meta != nil && isNullJSON(raw.Meta.Err),
		FeePayer:  keys[0],
		Signers:   keys[:msg.Header.NumRequiredSignatures],
		BlockTime: unixTime(raw.BlockTime),
	}
	for _, ix := range msg.Instructions {
		if ix.ProgramIDIndex < 0 || ix.ProgramIDIndex >= len(keys) {
			continue
		}
		program := keys[ix.ProgramIDIndex]
		if program != sol.MemoProgramID && program != sol.MemoV1ProgramID {
			continue
		}
		info.Memos = append(info.Memos, string(sol.DecodeBase58(ix.Data)))
	}
	return info, nil
}

func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func unixTime(sec *int64) *time.Time {
	if sec == nil {
		return nil
	}
	t := time.Unix(*sec, 0).UTC()
	return &t
}
