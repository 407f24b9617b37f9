package chainconfig

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	sol "github.com/dudedrops/dudes-api/internal/solana"
)

// ConfigSeed is the derived-address seed of the program config account.
const ConfigSeed = "config"

// AccountDiscriminator prefixes every program config account.
var AccountDiscriminator = accountDiscriminator("BoxMinterConfig")

func accountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// ProgramConfig is the decoded program config account.
type ProgramConfig struct {
	Admin                   sol.PublicKey
	Treasury                sol.PublicKey
	MerkleTree              sol.PublicKey
	CollectionMint          sol.PublicKey
	CollectionMetadata      sol.PublicKey
	CollectionMasterEdition sol.PublicKey
	PriceLamports           uint64
	MaxSupply               uint32
	MaxPerTx                uint8
	Minted                  uint32
	NamePrefix              string
	Symbol                  string
	URIBase                 string
	Bump                    uint8
}

// Remaining returns how many boxes can still be minted.
func (c *ProgramConfig) Remaining() uint32 {
	if c.Minted >= c.MaxSupply {
		return 0
	}
	return c.MaxSupply - c.Minted
}

// ConfigAddress derives the config account address for programID.
func ConfigAddress(programID sol.PublicKey) (sol.PublicKey, uint8, error) {
	return sol.FindProgramAddress([][]byte{[]byte(ConfigSeed)}, programID)
}

type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("account data truncated at offset %d (need %d bytes, have %d)", r.off, n, len(r.data)-r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) publicKey() sol.PublicKey {
	var pk sol.PublicKey
	copy(pk[:], r.take(sol.PublicKeyLength))
	return pk
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) string() string {
	n := r.u32()
	return string(r.take(int(n)))
}

// DecodeProgramConfig parses raw account data.
func DecodeProgramConfig(data []byte) (*ProgramConfig, error) {
	r := &reader{data: data}
	disc := r.take(8)
	if r.err != nil {
		return nil, r.err
	}
	if [8]byte(disc) != AccountDiscriminator {
		return nil, fmt.Errorf("unexpected account discriminator %x", disc)
	}

	cfg := &ProgramConfig{
		Admin:                   r.publicKey(),
		Treasury:                r.publicKey(),
		MerkleTree:              r.publicKey(),
		CollectionMint:          r.publicKey(),
		CollectionMetadata:      r.publicKey(),
		CollectionMasterEdition: r.publicKey(),
		PriceLamports:           r.u64(),
		MaxSupply:               r.u32(),
		MaxPerTx:                r.u8(),
		Minted:                  r.u32(),
		NamePrefix:              r.string(),
		Symbol:                  r.string(),
		URIBase:                 r.string(),
		Bump:                    r.u8(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// Encode serializes the config in account layout. Used to build fixtures.
func (c *ProgramConfig) Encode() []byte {
	out := append([]byte(nil), AccountDiscriminator[:]...)
	for _, pk := range []sol.PublicKey{c.Admin, c.Treasury, c.MerkleTree, c.CollectionMint, c.CollectionMetadata, c.CollectionMasterEdition} {
		out = append(out, pk[:]...)
	}
	out = binary.LittleEndian.AppendUint64(out, c.PriceLamports)
	out = binary.LittleEndian.AppendUint32(out, c.MaxSupply)
	out = append(out, c.MaxPerTx)
	out = binary.LittleEndian.AppendUint32(out, c.Minted)
	for _, s := range []string{c.NamePrefix, c.Symbol, c.URIBase} {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(s)))
		out = append(out, s...)
	}
	return append(out, c.Bump)
}
