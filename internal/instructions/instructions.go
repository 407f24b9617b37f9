// Package instructions encodes the box program's instructions and the
// compute-budget and memo instructions sent alongside them.
package instructions

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/dudedrops/dudes-api/internal/apperr"
	"github.com/dudedrops/dudes-api/internal/constants"
	sol "github.com/dudedrops/dudes-api/internal/solana"
)

// Discriminator is the 8-byte opcode tag that prefixes instruction data.
type Discriminator [8]byte

// NewDiscriminator derives the tag of a program method from its name.
func NewDiscriminator(method string) Discriminator {
	sum := sha256.Sum256([]byte("global:" + method))
	var d Discriminator
	copy(d[:], sum[:8])
	return d
}

var (
	OpenBoxDiscriminator   = NewDiscriminator("open_box")
	DeliverDiscriminator   = NewDiscriminator("deliver")
	ClaimDiscriminator     = NewDiscriminator("claim")
	MintBoxesDiscriminator = NewDiscriminator("mint_boxes")
)

const (
	computeUnitLimitTag = 2
	computeUnitPriceTag = 3
)

// OpenBoxParams describe burning a box asset into its assigned figures.
type OpenBoxParams struct {
	Owner    sol.PublicKey
	Cosigner sol.PublicKey
	BoxAsset sol.PublicKey
	DudeIDs  []int
}

// OpenBox encodes open_box: tag, then three u16 figure ids.
func (p *Program) OpenBox(params OpenBoxParams) (sol.Instruction, error) {
	if err := ValidateDudeIDs(params.DudeIDs, constants.DudesPerBox, constants.DudesPerBox); err != nil {
		return sol.Instruction{}, err
	}
	boxRecord, err := BoxAddress(p.ID, params.BoxAsset)
	if err != nil {
		return sol.Instruction{}, apperr.Wrap(err, apperr.KindInvalidArgument, "derive box record address")
	}

	data := append([]byte(nil), OpenBoxDiscriminator[:]...)
	data = appendU16s(data, params.DudeIDs)

	accounts := []sol.AccountMeta{
		sol.Writable(p.Config),
		sol.WritableSigner(params.Owner),
		sol.ReadonlySigner(params.Cosigner),
		sol.Readonly(params.BoxAsset),
		sol.Writable(boxRecord),
	}
	return sol.Instruction{
		ProgramID: p.ID,
		Accounts:  append(accounts, p.treeAccounts()...),
		Data:      data,
	}, nil
}

// DeliverParams describe burning figures in exchange for a physical delivery.
// ItemAssets[i] is the asset holding DudeIDs[i].
type DeliverParams struct {
	Owner       sol.PublicKey
	Cosigner    sol.PublicKey
	DeliveryID  uint32
	FeeLamports uint64
	DudeIDs     []int
	ItemAssets  []sol.PublicKey
}

// Deliver encodes deliver: tag, u32 delivery id, u64 fee, u32 count, then
// one u16 per figure. Each item asset is passed as a read-only account.
func (p *Program) Deliver(params DeliverParams) (sol.Instruction, error) {
	if params.DeliveryID == 0 {
		return sol.Instruction{}, apperr.New(apperr.KindInvalidArgument, "delivery id must be positive")
	}
	if err := ValidateDudeIDs(params.DudeIDs, 1, constants.MaxDeliveryItems); err != nil {
		return sol.Instruction{}, err
	}
	if len(params.ItemAssets) != len(params.DudeIDs) {
		return sol.Instruction{}, apperr.Newf(apperr.KindInvalidArgument,
			"got %d item assets for %d figures", len(params.ItemAssets), len(params.DudeIDs))
	}
	if err := p.ValidateFee(params.FeeLamports); err != nil {
		return sol.Instruction{}, err
	}
	deliveryRecord, err := DeliveryAddress(p.ID, params.DeliveryID)
	if err != nil {
		return sol.Instruction{}, apperr.Wrap(err, apperr.KindInvalidArgument, "derive delivery address")
	}

	data := append([]byte(nil), DeliverDiscriminator[:]...)
	data = binary.LittleEndian.AppendUint32(data, params.DeliveryID)
	data = binary.LittleEndian.AppendUint64(data, params.FeeLamports)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(params.DudeIDs)))
	data = appendU16s(data, params.DudeIDs)

	accounts := []sol.AccountMeta{
		sol.Readonly(p.Config),
		sol.WritableSigner(params.Owner),
		sol.ReadonlySigner(params.Cosigner),
		sol.Writable(p.Treasury),
		sol.Writable(deliveryRecord),
	}
	accounts = append(accounts, p.treeAccounts()...)
	for _, asset := range params.ItemAssets {
		accounts = append(accounts, sol.Readonly(asset))
	}
	return sol.Instruction{ProgramID: p.ID, Accounts: accounts, Data: data}, nil
}

// ClaimParams describe redeeming a claim code against a certificate asset.
type ClaimParams struct {
	Owner            sol.PublicKey
	Cosigner         sol.PublicKey
	CertificateAsset sol.PublicKey
	DudeIDs          []int
	Code             string
}

// Claim encodes claim: tag, three u16 figure ids, then the length-prefixed code.
func (p *Program) Claim(params ClaimParams) (sol.Instruction, error) {
	if err := ValidateDudeIDs(params.DudeIDs, constants.DudesPerBox, constants.DudesPerBox); err != nil {
		return sol.Instruction{}, err
	}
	if err := ValidateCode(params.Code); err != nil {
		return sol.Instruction{}, err
	}
	claimRecord, err := ClaimAddress(p.ID, params.Code)
	if err != nil {
		return sol.Instruction{}, apperr.Wrap(err, apperr.KindInvalidArgument, "derive claim address")
	}

	data := append([]byte(nil), ClaimDiscriminator[:]...)
	data = appendU16s(data, params.DudeIDs)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(params.Code)))
	data = append(data, params.Code...)

	accounts := []sol.AccountMeta{
		sol.Readonly(p.Config),
		sol.WritableSigner(params.Owner),
		sol.ReadonlySigner(params.Cosigner),
		sol.Readonly(params.CertificateAsset),
		sol.Writable(claimRecord),
	}
	return sol.Instruction{
		ProgramID: p.ID,
		Accounts:  append(accounts, p.treeAccounts()...),
		Data:      data,
	}, nil
}

// MintBoxesParams describe a primary-sale purchase of boxes.
type MintBoxesParams struct {
	Payer    sol.PublicKey
	Quantity int
	MaxPerTx uint8
	// Collection accounts as recorded in the program config.
	CollectionMetadata      sol.PublicKey
	CollectionMasterEdition sol.PublicKey
}

// MintBoxes encodes mint_boxes: tag, then a u8 quantity.
func (p *Program) MintBoxes(params MintBoxesParams) (sol.Instruction, error) {
	if params.Quantity < 1 || params.Quantity > int(params.MaxPerTx) {
		return sol.Instruction{}, apperr.Newf(apperr.KindInvalidArgument,
			"quantity must be between 1 and %d", params.MaxPerTx).
			WithDetail("maxPerTx", params.MaxPerTx)
	}
	metadata := params.CollectionMetadata
	if metadata.IsZero() {
		metadata = p.CollectionMetadata
	}
	edition := params.CollectionMasterEdition
	if edition.IsZero() {
		edition = p.CollectionMasterEdition
	}

	data := append([]byte(nil), MintBoxesDiscriminator[:]...)
	data = append(data, uint8(params.Quantity))

	return sol.Instruction{
		ProgramID: p.ID,
		Accounts: []sol.AccountMeta{
			sol.Writable(p.Config),
			sol.WritableSigner(params.Payer),
			sol.Writable(p.Treasury),
			sol.Writable(p.MerkleTree),
			sol.Writable(p.TreeAuthority),
			sol.Readonly(p.CollectionMint),
			sol.Writable(metadata),
			sol.Readonly(edition),
			sol.Readonly(p.CollectionAuthorityRecord),
			sol.Readonly(p.BubblegumSigner),
			sol.Readonly(sol.BubblegumProgramID),
			sol.Readonly(sol.CompressionProgramID),
			sol.Readonly(sol.NoopProgramID),
			sol.Readonly(sol.TokenMetadataProgramID),
			sol.Readonly(sol.SystemProgramID),
		},
		Data: data,
	}, nil
}

// SetComputeUnitLimit caps the compute units the transaction may use.
func SetComputeUnitLimit(units uint32) sol.Instruction {
	data := binary.LittleEndian.AppendUint32([]byte{computeUnitLimitTag}, units)
	return sol.Instruction{ProgramID: sol.ComputeBudgetProgramID, Data: data}
}

// SetComputeUnitPrice sets the priority fee in micro-lamports per unit.
func SetComputeUnitPrice(microLamports uint64) sol.Instruction {
	data := binary.LittleEndian.AppendUint64([]byte{computeUnitPriceTag}, microLamports)
	return sol.Instruction{ProgramID: sol.ComputeBudgetProgramID, Data: data}
}

// Memo attaches text signed by signer.
func Memo(signer sol.PublicKey, text string) sol.Instruction {
	return sol.Instruction{
		ProgramID: sol.MemoProgramID,
		Accounts:  []sol.AccountMeta{sol.ReadonlySigner(signer)},
		Data:      []byte(text),
	}
}

// ValidateFee checks a delivery fee against the configured window.
func (p *Program) ValidateFee(fee uint64) error {
	if fee < p.Limits.MinFeeLamports || (p.Limits.MaxFeeLamports > 0 && fee > p.Limits.MaxFeeLamports) {
		return apperr.Newf(apperr.KindInvalidArgument, "fee %d lamports outside [%d, %d]",
			fee, p.Limits.MinFeeLamports, p.Limits.MaxFeeLamports).
			WithDetail("min", p.Limits.MinFeeLamports).
			WithDetail("max", p.Limits.MaxFeeLamports)
	}
	return nil
}

// ValidateDudeIDs checks count, range and uniqueness of figure ids.
func ValidateDudeIDs(ids []int, minCount, maxCount int) error {
	if len(ids) < minCount || len(ids) > maxCount {
		if minCount == maxCount {
			return apperr.Newf(apperr.KindInvalidArgument, "expected exactly %d figure ids, got %d", minCount, len(ids))
		}
		return apperr.Newf(apperr.KindInvalidArgument, "expected %d to %d figure ids, got %d", minCount, maxCount, len(ids)).
			WithDetail("maxItems", maxCount)
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id < 1 || id > constants.MaxDudeID {
			return apperr.Newf(apperr.KindInvalidArgument, "figure id %d outside [1, %d]", id, constants.MaxDudeID)
		}
		if _, dup := seen[id]; dup {
			return apperr.Newf(apperr.KindInvalidArgument, "duplicate figure id %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateCode checks a claim code is non-empty and short enough to encode.
func ValidateCode(code string) error {
	if code == "" {
		return apperr.New(apperr.KindInvalidArgument, "claim code is required")
	}
	if len(code) > constants.MaxClaimCodeLen {
		return apperr.New(apperr.KindInvalidArgument, fmt.Sprintf("claim code longer than %d bytes", constants.MaxClaimCodeLen))
	}
	return nil
}

func appendU16s(data []byte, ids []int) []byte {
	for _, id := range ids {
		data = binary.LittleEndian.AppendUint16(data, uint16(id))
	}
	return data
}
