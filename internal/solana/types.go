package solana

import "time"

// AccountInfo is the decoded result of an account lookup.
type AccountInfo struct {
	Address    PublicKey
	Owner      PublicKey
	Lamports   uint64
	Executable bool
	Data       []byte
}

// SignatureInfo is one entry of an address's recent signature history.
type SignatureInfo struct {
	Signature string
	Failed    bool
	Memo      string
	BlockTime *time.Time
}

// TransactionInfo is the subset of a confirmed transaction the service
// inspects.
type TransactionInfo struct {
	Signature string
	Succeeded bool
	FeePayer  PublicKey
	Signers   []PublicKey
	Memos     []string
	BlockTime *time.Time
}

// SignedBy reports whether pk is among the transaction's signers.
func (t *TransactionInfo) SignedBy(pk PublicKey) bool {
	for _, s := range t.Signers {
		if s == pk {
			return true
		}
	}
	return false
}
