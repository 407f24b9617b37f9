package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyFromBase58(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		const addr = "FPAzYdh8rdSRSXYQBneqwniqWGn3out5eQg2n1qyotxd"
		pk, err := PublicKeyFromBase58(addr)
		require.NoError(t, err)
		assert.Equal(t, addr, pk.String())
	})

	t.Run("system program is all zeros", func(t *testing.T) {
		assert.True(t, SystemProgramID.IsZero())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, in := range []string{"", "0OIl", "abc", "FPAzYdh8rdSRSXYQBneqwniqWGn3out5eQg2n1qyotxdFPAz"} {
			_, err := PublicKeyFromBase58(in)
			assert.Error(t, err, in)
		}
	})
}

func TestFindProgramAddress(t *testing.T) {
	programID := MustPublicKey("FPAzYdh8rdSRSXYQBneqwniqWGn3out5eQg2n1qyotxd")

	tests := []struct {
		name     string
		seeds    [][]byte
		program  PublicKey
		wantAddr string
		wantBump uint8
	}{
		{
			name:     "program config",
			seeds:    [][]byte{[]byte("config")},
			program:  programID,
			wantAddr: "FG56hxGTsmhCNvgGWN6cmMjJK1QAKrpJoxkte4p7hqGC",
			wantBump: 252,
		},
		{
			name:     "delivery order",
			seeds:    [][]byte{[]byte("delivery"), binary.LittleEndian.AppendUint32(nil, 42)},
			program:  programID,
			wantAddr: "HRAZD8jthTbYVjimgesdNz57odo4H4Yj5JZzHGeTyf3D",
			wantBump: 255,
		},
		{
			name:     "bubblegum collection signer",
			seeds:    [][]byte{[]byte("collection_cpi")},
			program:  BubblegumProgramID,
			wantAddr: "4ewWZC5gT6TGpm5LZNDs9wVonfUT2q5PP5sc9kVbwMAK",
			wantBump: 255,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, bump, err := FindProgramAddress(tt.seeds, tt.program)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAddr, addr.String())
			assert.Equal(t, tt.wantBump, bump)
			assert.False(t, IsOnCurve(addr[:]))
		})
	}

	t.Run("rejects oversized seeds", func(t *testing.T) {
		_, _, err := FindProgramAddress([][]byte{make([]byte, 33)}, programID)
		assert.Error(t, err)
	})
}

func TestIsOnCurve(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	assert.True(t, IsOnCurve(pub))
}

func TestCompileMessage_AccountOrdering(t *testing.T) {
	payer := newKey(t)
	cosigner := newKey(t)
	writable := newKey(t)
	readonly := newKey(t)
	program := newKey(t)

	ix := Instruction{
		ProgramID: program,
		Accounts: []AccountMeta{
			Readonly(readonly),
			ReadonlySigner(cosigner),
			Writable(writable),
			WritableSigner(payer),
		},
		Data: []byte{1, 2, 3},
	}

	msg, err := CompileMessage(payer, []Instruction{ix}, Hash{})
	require.NoError(t, err)

	assert.Equal(t, []PublicKey{payer, cosigner, writable, readonly, program}, msg.AccountKeys)
	assert.Equal(t, MessageHeader{
		NumRequiredSignatures:       2,
		NumReadonlySignedAccounts:   1,
		NumReadonlyUnsignedAccounts: 2,
	}, msg.Header)
	assert.Equal(t, []PublicKey{payer, cosigner}, msg.Signers())
}

func TestCompileMessage_MergesFlags(t *testing.T) {
	payer := newKey(t)
	shared := newKey(t)
	program := newKey(t)

	msg, err := CompileMessage(payer, []Instruction{
		{ProgramID: program, Accounts: []AccountMeta{Readonly(shared)}},
		{ProgramID: program, Accounts: []AccountMeta{Writable(shared)}},
	}, Hash{})
	require.NoError(t, err)

	require.Len(t, msg.AccountKeys, 3)
	assert.Equal(t, shared, msg.AccountKeys[1])
	assert.Equal(t, uint8(1), msg.Header.NumReadonlyUnsignedAccounts)
}

func TestCompileMessage_RequiresInstructions(t *testing.T) {
	_, err := CompileMessage(newKey(t), nil, Hash{})
	assert.Error(t, err)
}

func TestTransaction_SignAndSerialize(t *testing.T) {
	_, cosignerKey, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	cosigner := PublicKeyFromPrivate(cosignerKey)
	payer := newKey(t)
	program := newKey(t)

	msg, err := CompileMessage(payer, []Instruction{{
		ProgramID: program,
		Accounts:  []AccountMeta{ReadonlySigner(cosigner)},
		Data:      []byte{9},
	}}, Hash{1})
	require.NoError(t, err)

	tx := NewTransaction(msg)
	require.NoError(t, tx.PartialSign(cosignerKey))

	assert.Equal(t, [SignatureLength]byte{}, tx.Signatures[0], "fee payer slot stays empty")
	assert.True(t, ed25519.Verify(ed25519.PublicKey(cosigner[:]), tx.MessageBytes(), tx.Signatures[1][:]))

	raw := tx.Serialize()
	assert.Equal(t, byte(2), raw[0])
	assert.Equal(t, 1+2*SignatureLength+len(tx.MessageBytes()), len(raw))

	_, stranger, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	assert.Error(t, tx.PartialSign(stranger))
}

func TestWriteCompactU16(t *testing.T) {
	tests := []struct {
		in   int
		want []byte
	}{
		{0, []byte{0x00}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0x80, 0x01}},
		{0x3fff, []byte{0xff, 0x7f}},
		{0x4000, []byte{0x80, 0x80, 0x01}},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		writeCompactU16(&buf, tt.in)
		assert.Equal(t, tt.want, buf.Bytes(), "n=%d", tt.in)
	}
}

func newKey(t *testing.T) PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	var pk PublicKey
	copy(pk[:], pub)
	return pk
}
