package instructions

import (
	"crypto/sha256"
	"encoding/binary"

	sol "github.com/dudedrops/dudes-api/internal/solana"
)

// Seeds used by the box program and its dependencies.
const (
	seedConfig              = "config"
	seedBox                 = "box"
	seedDelivery            = "delivery"
	seedClaim               = "claim"
	seedCollectionCPI       = "collection_cpi"
	seedMetadata            = "metadata"
	seedEdition             = "edition"
	seedCollectionAuthority = "collection_authority"
)

// Program holds the box program id together with every address its
// instructions reference that does not change per request.
type Program struct {
	ID                        sol.PublicKey
	Config                    sol.PublicKey
	Treasury                  sol.PublicKey
	MerkleTree                sol.PublicKey
	TreeAuthority             sol.PublicKey
	CollectionMint            sol.PublicKey
	CollectionMetadata        sol.PublicKey
	CollectionMasterEdition   sol.PublicKey
	CollectionAuthorityRecord sol.PublicKey
	BubblegumSigner           sol.PublicKey
	Limits                    Limits
}

// Limits bounds request arguments before encoding.
type Limits struct {
	MinFeeLamports uint64
	MaxFeeLamports uint64
}

// NewProgram derives the static addresses of the box program.
func NewProgram(id, treasury, merkleTree, collectionMint sol.PublicKey, limits Limits) (*Program, error) {
	p := &Program{
		ID:             id,
		Treasury:       treasury,
		MerkleTree:     merkleTree,
		CollectionMint: collectionMint,
		Limits:         limits,
	}

	var err error
	derive := func(seeds [][]byte, program sol.PublicKey) sol.PublicKey {
		if err != nil {
			return sol.PublicKey{}
		}
		var addr sol.PublicKey
		addr, _, err = sol.FindProgramAddress(seeds, program)
		return addr
	}

	p.Config = derive([][]byte{[]byte(seedConfig)}, id)
	p.TreeAuthority = derive([][]byte{merkleTree[:]}, sol.BubblegumProgramID)
	p.BubblegumSigner = derive([][]byte{[]byte(seedCollectionCPI)}, sol.BubblegumProgramID)
	p.CollectionMetadata = derive([][]byte{
		[]byte(seedMetadata), sol.TokenMetadataProgramID[:], collectionMint[:],
	}, sol.TokenMetadataProgramID)
	p.CollectionMasterEdition = derive([][]byte{
		[]byte(seedMetadata), sol.TokenMetadataProgramID[:], collectionMint[:], []byte(seedEdition),
	}, sol.TokenMetadataProgramID)
	p.CollectionAuthorityRecord = derive([][]byte{
		[]byte(seedMetadata), sol.TokenMetadataProgramID[:], collectionMint[:], []byte(seedCollectionAuthority), p.Config[:],
	}, sol.TokenMetadataProgramID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// BoxAddress is the assignment record of a box asset.
func BoxAddress(programID, boxAsset sol.PublicKey) (sol.PublicKey, error) {
	addr, _, err := sol.FindProgramAddress([][]byte{[]byte(seedBox), boxAsset[:]}, programID)
	return addr, err
}

// DeliveryAddress is the on-chain record of a delivery id.
func DeliveryAddress(programID sol.PublicKey, deliveryID uint32) (sol.PublicKey, error) {
	addr, _, err := sol.FindProgramAddress([][]byte{
		[]byte(seedDelivery),
		binary.LittleEndian.AppendUint32(nil, deliveryID),
	}, programID)
	return addr, err
}

// ClaimAddress is the on-chain record of a redeemed claim code. The code is
// hashed since seeds are limited to 32 bytes.
func ClaimAddress(programID sol.PublicKey, code string) (sol.PublicKey, error) {
	digest := sha256.Sum256([]byte(code))
	addr, _, err := sol.FindProgramAddress([][]byte{[]byte(seedClaim), digest[:]}, programID)
	return addr, err
}

// treeAccounts are appended to every instruction that mints or burns leaves.
func (p *Program) treeAccounts() []sol.AccountMeta {
	return []sol.AccountMeta{
		sol.Writable(p.MerkleTree),
		sol.Writable(p.TreeAuthority),
		sol.Readonly(sol.NoopProgramID),
		sol.Readonly(sol.CompressionProgramID),
		sol.Readonly(sol.BubblegumProgramID),
		sol.Readonly(sol.SystemProgramID),
	}
}
