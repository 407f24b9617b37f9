package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// AccountMeta references an account used by an instruction.
type AccountMeta struct {
	PublicKey  PublicKey
	IsSigner   bool
	IsWritable bool
}

// Meta builders keep instruction account lists readable.
func Writable(pk PublicKey) AccountMeta       { return AccountMeta{PublicKey: pk, IsWritable: true} }
func Readonly(pk PublicKey) AccountMeta       { return AccountMeta{PublicKey: pk} }
func WritableSigner(pk PublicKey) AccountMeta { return AccountMeta{PublicKey: pk, IsSigner: true, IsWritable: true} }
func ReadonlySigner(pk PublicKey) AccountMeta { return AccountMeta{PublicKey: pk, IsSigner: true} }

// Instruction is a single program invocation.
type Instruction struct {
	ProgramID PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// MessageHeader counts signer and read-only accounts.
type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

type compiledInstruction struct {
	programIDIndex uint8
	accounts       []uint8
	data           []byte
}

// Message is a compiled legacy message.
type Message struct {
	Header          MessageHeader
	AccountKeys     []PublicKey
	RecentBlockhash Hash
	instructions    []compiledInstruction
}

type accountEntry struct {
	key      PublicKey
	signer   bool
	writable bool
}

// CompileMessage orders accounts as the runtime expects: fee payer first, then
// writable signers, read-only signers, writable non-signers and read-only
// non-signers, each group in first-seen order.
func CompileMessage(feePayer PublicKey, instructions []Instruction, blockhash Hash) (*Message, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("message has no instructions")
	}

	entries := []*accountEntry{{key: feePayer, signer: true, writable: true}}
	index := map[PublicKey]*accountEntry{feePayer: entries[0]}
	add := func(meta AccountMeta) {
		if e, ok := index[meta.PublicKey]; ok {
			e.signer = e.signer || meta.IsSigner
			e.writable = e.writable || meta.IsWritable
			return
		}
		e := &accountEntry{key: meta.PublicKey, signer: meta.IsSigner, writable: meta.IsWritable}
		entries = append(entries, e)
		index[meta.PublicKey] = e
	}
	for _, ix := range instructions {
		for _, meta := range ix.Accounts {
			add(meta)
		}
		add(AccountMeta{PublicKey: ix.ProgramID})
	}

	ordered := make([]*accountEntry, 0, len(entries))
	ordered = append(ordered, entries[0])
	groups := []func(e *accountEntry) bool{
		func(e *accountEntry) bool { return e.signer && e.writable },
		func(e *accountEntry) bool { return e.signer && !e.writable },
		func(e *accountEntry) bool { return !e.signer && e.writable },
		func(e *accountEntry) bool { return !e.signer && !e.writable },
	}
	for _, inGroup := range groups {
		for _, e := range entries[1:] {
			if inGroup(e) {
				ordered = append(ordered, e)
			}
		}
	}
	if len(ordered) > 256 {
		return nil, fmt.Errorf("too many accounts: %d", len(ordered))
	}

	msg := &Message{RecentBlockhash: blockhash}
	position := make(map[PublicKey]uint8, len(ordered))
	for i, e := range ordered {
		msg.AccountKeys = append(msg.AccountKeys, e.key)
		position[e.key] = uint8(i)
		switch {
		case e.signer:
			msg.Header.NumRequiredSignatures++
			if !e.writable {
				msg.Header.NumReadonlySignedAccounts++
			}
		case !e.writable:
			msg.Header.NumReadonlyUnsignedAccounts++
		}
	}

	for _, ix := range instructions {
		compiled := compiledInstruction{
			programIDIndex: position[ix.ProgramID],
			data:           ix.Data,
		}
		for _, meta := range ix.Accounts {
			compiled.accounts = append(compiled.accounts, position[meta.PublicKey])
		}
		msg.instructions = append(msg.instructions, compiled)
	}
	return msg, nil
}

// Signers returns the accounts whose signatures the message requires, in
// signature-slot order.
func (m *Message) Signers() []PublicKey {
	return m.AccountKeys[:m.Header.NumRequiredSignatures]
}

// Serialize encodes the message in the legacy wire format.
func (m *Message) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteByte(m.Header.NumRequiredSignatures)
	buf.WriteByte(m.Header.NumReadonlySignedAccounts)
	buf.WriteByte(m.Header.NumReadonlyUnsignedAccounts)
	writeCompactU16(&buf, len(m.AccountKeys))
	for _, key := range m.AccountKeys {
		buf.Write(key[:])
	}
	buf.Write(m.RecentBlockhash[:])
	writeCompactU16(&buf, len(m.instructions))
	for _, ix := range m.instructions {
		buf.WriteByte(ix.programIDIndex)
		writeCompactU16(&buf, len(ix.accounts))
		buf.Write(ix.accounts)
		writeCompactU16(&buf, len(ix.data))
		buf.Write(ix.data)
	}
	return buf.Bytes()
}

// Transaction pairs a message with its signature slots. Slots for signers
// that have not signed yet stay zeroed.
type Transaction struct {
	Message    *Message
	Signatures [][SignatureLength]byte
	messageRaw []byte
}

// NewTransaction prepares empty signature slots for every required signer.
func NewTransaction(msg *Message) *Transaction {
	return &Transaction{
		Message:    msg,
		Signatures: make([][SignatureLength]byte, msg.Header.NumRequiredSignatures),
		messageRaw: msg.Serialize(),
	}
}

// PartialSign signs with each key that is a required signer.
func (tx *Transaction) PartialSign(keys ...ed25519.PrivateKey) error {
	signers := tx.Message.Signers()
	for _, key := range keys {
		pub := PublicKeyFromPrivate(key)
		slot := -1
		for i, s := range signers {
			if s == pub {
				slot = i
				break
			}
		}
		if slot < 0 {
			return fmt.Errorf("%s is not a required signer", pub)
		}
		copy(tx.Signatures[slot][:], ed25519.Sign(key, tx.messageRaw))
	}
	return nil
}

// Serialize encodes signatures followed by the message.
func (tx *Transaction) Serialize() []byte {
	var buf bytes.Buffer
	writeCompactU16(&buf, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		buf.Write(sig[:])
	}
	buf.Write(tx.messageRaw)
	return buf.Bytes()
}

// SerializeBase64 is the encoding wallets accept.
func (tx *Transaction) SerializeBase64() string {
	return base64.StdEncoding.EncodeToString(tx.Serialize())
}

// MessageBytes returns the signed payload.
func (tx *Transaction) MessageBytes() []byte {
	return tx.messageRaw
}

// writeCompactU16 writes the shortvec length encoding.
func writeCompactU16(buf *bytes.Buffer, n int) {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			buf.WriteByte(b)
			return
		}
		buf.WriteByte(b | 0x80)
	}
}
