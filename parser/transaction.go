// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package parser deserializes (full) transactions (zcashd).
package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"

	"github.com/zingolabs/zindexer/hash32"
	"github.com/zingolabs/zindexer/parser/internal/bytestring"
	"github.com/zingolabs/zindexer/walletrpc"
)

const (
	versionGroupIDv4 = 0x892F2085
	versionGroupIDv5 = 0x26A7270A
)

type rawTransaction struct {
	fOverwintered       bool
	version             uint32
	nVersionGroupID     uint32
	consensusBranchID   uint32
	transparentInputs   []*txIn
	transparentOutputs  []*txOut
	nLockTime           uint32
	nExpiryHeight       uint32
	valueBalanceSapling int64
	shieldedSpends      []*spend
	shieldedOutputs     []*output
	orchardActions      []*action
	joinSplits          []*joinSplit
	joinSplitPubKey     []byte
	joinSplitSig        []byte
	bindingSigSapling   []byte
}

// txIn is a transaction input as described in
// https://en.bitcoin.it/wiki/Transaction.
type txIn struct {
	// SHA256d of a previous (to-be-used) transaction
	PrevTxHash []byte

	// Index of the to-be-used output in the previous tx
	PrevTxOutIndex uint32

	// CompactSize-prefixed, could be a pubkey or a script
	ScriptSig []byte

	// Bitcoin: "normally 0xFFFFFFFF; irrelevant unless transaction's lock_time > 0"
	SequenceNumber uint32
}

func (tx *txIn) ParseFromSlice(data []byte) ([]byte, error) {
	s := bytestring.String(data)

	if !s.ReadBytes(&tx.PrevTxHash, 32) {
		return nil, errors.New("could not read PrevTxHash")
	}

	if !s.ReadUint32(&tx.PrevTxOutIndex) {
		return nil, errors.New("could not read PrevTxOutIndex")
	}

	if !s.ReadCompactLengthPrefixed((*bytestring.String)(&tx.ScriptSig)) {
		return nil, errors.New("could not read ScriptSig")
	}

	if !s.ReadUint32(&tx.SequenceNumber) {
		return nil, errors.New("could not read SequenceNumber")
	}

	return []byte(s), nil
}

// txOut is a transaction output as described in
// https://en.bitcoin.it/wiki/Transaction.
type txOut struct {
	// Non-negative int giving the number of zatoshis to be transferred
	Value uint64

	// Script. CompactSize-prefixed.
	Script []byte
}

func (tx *txOut) ParseFromSlice(data []byte) ([]byte, error) {
	s := bytestring.String(data)

	if !s.ReadUint64(&tx.Value) {
		return nil, errors.New("could not read txOut value")
	}

	if !s.ReadCompactLengthPrefixed((*bytestring.String)(&tx.Script)) {
		return nil, errors.New("could not read txOut script")
	}

	return []byte(s), nil
}

// ParseTransparent parses the transparent parts of the transaction.
func (tx *Transaction) ParseTransparent(data []byte) ([]byte, error) {
	s := bytestring.String(data)
	var txInCount int
	if !s.ReadCompactSize(&txInCount) {
		return nil, errors.New("could not read tx_in_count")
	}
	var err error
	tx.transparentInputs = make([]*txIn, txInCount)
	for i := 0; i < txInCount; i++ {
		ti := &txIn{}
		s, err = ti.ParseFromSlice([]byte(s))
		if err != nil {
			return nil, errors.Wrap(err, "while parsing transparent input")
		}
		tx.transparentInputs[i] = ti
	}

	var txOutCount int
	if !s.ReadCompactSize(&txOutCount) {
		return nil, errors.New("could not read tx_out_count")
	}
	tx.transparentOutputs = make([]*txOut, txOutCount)
	for i := 0; i < txOutCount; i++ {
		to := &txOut{}
		s, err = to.ParseFromSlice([]byte(s))
		if err != nil {
			return nil, errors.Wrap(err, "while parsing transparent output")
		}
		tx.transparentOutputs[i] = to
	}
	return []byte(s), nil
}

// spend is a Sapling Spend Description as described in 7.3 of the Zcash
// protocol specification.
type spend struct {
	cv           []byte // 32
	anchor       []byte // 32, v4 only (trailing bulk field in v5)
	nullifier    []byte // 32
	rk           []byte // 32
	zkproof      []byte // 192, v4 only (trailing bulk field in v5)
	spendAuthSig []byte // 64, v4 only (trailing bulk field in v5)
}

func (p *spend) ParseFromSlice(data []byte, version uint32) ([]byte, error) {
	s := bytestring.String(data)

	if !s.ReadBytes(&p.cv, 32) {
		return nil, errors.New("could not read cv")
	}

	if version <= 4 && !s.ReadBytes(&p.anchor, 32) {
		return nil, errors.New("could not read anchor")
	}

	if !s.ReadBytes(&p.nullifier, 32) {
		return nil, errors.New("could not read nullifier")
	}

	if !s.ReadBytes(&p.rk, 32) {
		return nil, errors.New("could not read rk")
	}

	if version <= 4 && !s.ReadBytes(&p.zkproof, 192) {
		return nil, errors.New("could not read zkproof")
	}

	if version <= 4 && !s.ReadBytes(&p.spendAuthSig, 64) {
		return nil, errors.New("could not read spendAuthSig")
	}

	return []byte(s), nil
}

func (p *spend) ToCompact() *walletrpc.CompactSpend {
	return &walletrpc.CompactSpend{
		Nf: p.nullifier,
	}
}

// output is a Sapling Output Description as described in section 7.4 of the
// Zcash protocol spec.
type output struct {
	cv            []byte // 32
	cmu           []byte // 32
	ephemeralKey  []byte // 32
	encCiphertext []byte // 580
	outCiphertext []byte // 80
	zkproof       []byte // 192, v4 only (trailing bulk field in v5)
}

func (p *output) ParseFromSlice(data []byte, version uint32) ([]byte, error) {
	s := bytestring.String(data)

	if !s.ReadBytes(&p.cv, 32) {
		return nil, errors.New("could not read cv")
	}

	if !s.ReadBytes(&p.cmu, 32) {
		return nil, errors.New("could not read cmu")
	}

	if !s.ReadBytes(&p.ephemeralKey, 32) {
		return nil, errors.New("could not read ephemeralKey")
	}

	if !s.ReadBytes(&p.encCiphertext, 580) {
		return nil, errors.New("could not read encCiphertext")
	}

	if !s.ReadBytes(&p.outCiphertext, 80) {
		return nil, errors.New("could not read outCiphertext")
	}

	if version <= 4 && !s.ReadBytes(&p.zkproof, 192) {
		return nil, errors.New("could not read zkproof")
	}

	return []byte(s), nil
}

func (p *output) ToCompact() *walletrpc.CompactOutput {
	return &walletrpc.CompactOutput{
		Cmu:        p.cmu,
		Epk:        p.ephemeralKey,
		Ciphertext: p.encCiphertext[:52],
	}
}

// action is an Orchard Action as described in section 7.5 of the Zcash
// protocol spec (v5 transactions only). Per-action layout is
// cv(32) || nullifier(32) || rk(32) || cmx(32) || ephemeralKey(32) ||
// encCiphertext(580) || outCiphertext(80), 820 bytes total; proofs and
// signatures for the whole bundle trail separately.
type action struct {
	cv            []byte // 32
	nullifier     []byte // 32
	rk            []byte // 32
	cmx           []byte // 32
	ephemeralKey  []byte // 32
	encCiphertext []byte // 580
	outCiphertext []byte // 80
}

func (p *action) ParseFromSlice(data []byte) ([]byte, error) {
	s := bytestring.String(data)

	if !s.ReadBytes(&p.cv, 32) {
		return nil, errors.New("could not read Orchard cv")
	}
	if !s.ReadBytes(&p.nullifier, 32) {
		return nil, errors.New("could not read Orchard nullifier")
	}
	if !s.ReadBytes(&p.rk, 32) {
		return nil, errors.New("could not read Orchard rk")
	}
	if !s.ReadBytes(&p.cmx, 32) {
		return nil, errors.New("could not read Orchard cmx")
	}
	if !s.ReadBytes(&p.ephemeralKey, 32) {
		return nil, errors.New("could not read Orchard ephemeralKey")
	}
	if !s.ReadBytes(&p.encCiphertext, 580) {
		return nil, errors.New("could not read Orchard encCiphertext")
	}
	if !s.ReadBytes(&p.outCiphertext, 80) {
		return nil, errors.New("could not read Orchard outCiphertext")
	}

	return []byte(s), nil
}

func (p *action) ToCompact() *walletrpc.CompactOrchardAction {
	return &walletrpc.CompactOrchardAction{
		Nullifier:    p.nullifier,
		Cmx:          p.cmx,
		EphemeralKey: p.ephemeralKey,
		Ciphertext:   p.encCiphertext[:52],
	}
}

// joinSplit is a JoinSplit description as described in 7.2 of the Zcash
// protocol spec. Only the version 4 (Groth16) layout is supported; the
// fields are parsed and discarded, v4 transactions only.
type joinSplit struct {
	vpubOld        uint64
	vpubNew        uint64
	anchor         []byte    // 32
	nullifiers     [2][]byte // 64 [N_old][32]byte
	commitments    [2][]byte // 64 [N_new][32]byte
	ephemeralKey   []byte    // 32
	randomSeed     []byte    // 32
	vmacs          [2][]byte // 64 [N_old][32]byte
	proofGroth16   []byte    // 192
	encCiphertexts [2][]byte // 1202 [N_new][601]byte
}

func (p *joinSplit) ParseFromSlice(data []byte) ([]byte, error) {
	s := bytestring.String(data)

	if !s.ReadUint64(&p.vpubOld) {
		return nil, errors.New("could not read vpubOld")
	}

	if !s.ReadUint64(&p.vpubNew) {
		return nil, errors.New("could not read vpubNew")
	}

	if !s.ReadBytes(&p.anchor, 32) {
		return nil, errors.New("could not read anchor")
	}

	for i := 0; i < 2; i++ {
		if !s.ReadBytes(&p.nullifiers[i], 32) {
			return nil, errors.New("could not read a nullifier")
		}
	}

	for i := 0; i < 2; i++ {
		if !s.ReadBytes(&p.commitments[i], 32) {
			return nil, errors.New("could not read a commitment")
		}
	}

	if !s.ReadBytes(&p.ephemeralKey, 32) {
		return nil, errors.New("could not read ephemeralKey")
	}

	if !s.ReadBytes(&p.randomSeed, 32) {
		return nil, errors.New("could not read randomSeed")
	}

	for i := 0; i < 2; i++ {
		if !s.ReadBytes(&p.vmacs[i], 32) {
			return nil, errors.New("could not read a vmac")
		}
	}

	if !s.ReadBytes(&p.proofGroth16, 192) {
		return nil, errors.New("could not read Groth16 proof")
	}

	for i := 0; i < 2; i++ {
		if !s.ReadBytes(&p.encCiphertexts[i], 601) {
			return nil, errors.New("could not read an encCiphertext")
		}
	}

	return []byte(s), nil
}

// Transaction encodes a full (zcashd) transaction.
type Transaction struct {
	*rawTransaction
	rawBytes   []byte
	cachedTxID []byte // cached for performance
}

// SetTxID overrides the transaction's hash with an authoritative value
// in big-endian display order. zcashd's raw block bytes alone are not
// enough to correctly compute the txid of a v5 (NU5/Orchard-era)
// transaction in every case; callers that can obtain the true txid
// from a verbose getblock RPC call should push it in here, which takes
// priority over GetDisplayHash/GetEncodableHash's own computation.
func (tx *Transaction) SetTxID(displayTxID []byte) {
	tx.cachedTxID = displayTxID
}

// GetDisplayHash returns the transaction hash in big-endian display order.
func (tx *Transaction) GetDisplayHash() []byte {
	if tx.cachedTxID != nil {
		return tx.cachedTxID
	}
	tx.cachedTxID = Reverse(tx.computeEncodableHash())
	return tx.cachedTxID
}

// GetDisplayHashString returns the hex-encoded big-endian display hash.
func (tx *Transaction) GetDisplayHashString() string {
	return hex.EncodeToString(tx.GetDisplayHash())
}

// GetEncodableHash returns the transaction hash in little-endian wire format order.
func (tx *Transaction) GetEncodableHash() []byte {
	if tx.cachedTxID != nil {
		return Reverse(tx.cachedTxID)
	}
	return tx.computeEncodableHash()
}

// computeEncodableHash computes the transaction hash in wire order. v5
// (NU5) transactions use the ZIP 244 txid digest tree; v4 and earlier
// use double-sha256 of the raw serialized bytes, as zcashd does.
func (tx *Transaction) computeEncodableHash() []byte {
	if tx.version >= 5 {
		if digest, err := computeV5TxID(tx.rawBytes); err == nil {
			return hash32.ToSlice(digest)
		}
	}
	digest := sha256.Sum256(tx.rawBytes)
	digest = sha256.Sum256(digest[:])
	return digest[:]
}

// Bytes returns a full transaction's raw bytes.
func (tx *Transaction) Bytes() []byte {
	return tx.rawBytes
}

// HasShieldedElements indicates whether a transaction has at least one
// Sapling spend, Sapling output, or Orchard action.
func (tx *Transaction) HasShieldedElements() bool {
	return len(tx.shieldedSpends)+len(tx.shieldedOutputs)+len(tx.orchardActions) > 0
}

// ToCompact converts the given (full) transaction to compact form. The fee
// is always reported as 0: computing a real fee requires looking up the
// values of each transparent input's previous output, which this parser
// does not have access to.
func (tx *Transaction) ToCompact(index int) *walletrpc.CompactTx {
	ctx := &walletrpc.CompactTx{
		Index:   uint64(index), // contextual: position within the filtered vtx
		Hash:    tx.GetEncodableHash(),
		Fee:     0,
		Spends:  make([]*walletrpc.CompactSpend, len(tx.shieldedSpends)),
		Outputs: make([]*walletrpc.CompactOutput, len(tx.shieldedOutputs)),
		Actions: make([]*walletrpc.CompactOrchardAction, len(tx.orchardActions)),
	}
	for i, s := range tx.shieldedSpends {
		ctx.Spends[i] = s.ToCompact()
	}
	for i, o := range tx.shieldedOutputs {
		ctx.Outputs[i] = o.ToCompact()
	}
	for i, a := range tx.orchardActions {
		ctx.Actions[i] = a.ToCompact()
	}
	return ctx
}

// parseV4 parses version 4 transaction data after the nVersionGroupId field.
func (tx *Transaction) parseV4(data []byte) ([]byte, error) {
	s := bytestring.String(data)
	var err error
	if tx.nVersionGroupID != versionGroupIDv4 {
		return nil, fmt.Errorf("version group ID %x must be 0x892F2085", tx.nVersionGroupID)
	}
	s, err = tx.ParseTransparent([]byte(s))
	if err != nil {
		return nil, err
	}
	if !s.ReadUint32(&tx.nLockTime) {
		return nil, errors.New("could not read nLockTime")
	}

	if !s.ReadUint32(&tx.nExpiryHeight) {
		return nil, errors.New("could not read nExpiryHeight")
	}

	var spendCount, outputCount int

	if !s.ReadInt64(&tx.valueBalanceSapling) {
		return nil, errors.New("could not read valueBalance")
	}
	if !s.ReadCompactSize(&spendCount) {
		return nil, errors.New("could not read nShieldedSpend")
	}
	tx.shieldedSpends = make([]*spend, spendCount)
	for i := 0; i < spendCount; i++ {
		newSpend := &spend{}
		s, err = newSpend.ParseFromSlice([]byte(s), 4)
		if err != nil {
			return nil, errors.Wrap(err, "while parsing shielded Spend")
		}
		tx.shieldedSpends[i] = newSpend
	}
	if !s.ReadCompactSize(&outputCount) {
		return nil, errors.New("could not read nShieldedOutput")
	}
	tx.shieldedOutputs = make([]*output, outputCount)
	for i := 0; i < outputCount; i++ {
		newOutput := &output{}
		s, err = newOutput.ParseFromSlice([]byte(s), 4)
		if err != nil {
			return nil, errors.Wrap(err, "while parsing shielded Output")
		}
		tx.shieldedOutputs[i] = newOutput
	}
	var joinSplitCount int
	if !s.ReadCompactSize(&joinSplitCount) {
		return nil, errors.New("could not read nJoinSplit")
	}

	tx.joinSplits = make([]*joinSplit, joinSplitCount)
	if joinSplitCount > 0 {
		for i := 0; i < joinSplitCount; i++ {
			js := &joinSplit{}
			s, err = js.ParseFromSlice([]byte(s))
			if err != nil {
				return nil, errors.Wrap(err, "while parsing JoinSplit")
			}
			tx.joinSplits[i] = js
		}

		if !s.ReadBytes(&tx.joinSplitPubKey, 32) {
			return nil, errors.New("could not read joinSplitPubKey")
		}

		if !s.ReadBytes(&tx.joinSplitSig, 64) {
			return nil, errors.New("could not read joinSplitSig")
		}
	}
	if spendCount+outputCount > 0 && !s.ReadBytes(&tx.bindingSigSapling, 64) {
		return nil, errors.New("could not read bindingSigSapling")
	}
	return s, nil
}

// parseV5 parses version 5 transaction data after the nVersionGroupId field.
func (tx *Transaction) parseV5(data []byte) ([]byte, error) {
	s := bytestring.String(data)
	var err error
	if !s.ReadUint32(&tx.consensusBranchID) {
		return nil, errors.New("could not read consensusBranchId")
	}
	if tx.nVersionGroupID != versionGroupIDv5 {
		return nil, fmt.Errorf("version group ID %x must be 0x26A7270A", tx.nVersionGroupID)
	}
	if !s.ReadUint32(&tx.nLockTime) {
		return nil, errors.New("could not read nLockTime")
	}
	if !s.ReadUint32(&tx.nExpiryHeight) {
		return nil, errors.New("could not read nExpiryHeight")
	}
	s, err = tx.ParseTransparent([]byte(s))
	if err != nil {
		return nil, err
	}

	var spendCount, outputCount int
	if !s.ReadCompactSize(&spendCount) {
		return nil, errors.New("could not read nShieldedSpend")
	}
	if spendCount >= (1 << 16) {
		return nil, fmt.Errorf("spendCount (%d) must be less than 2^16", spendCount)
	}
	tx.shieldedSpends = make([]*spend, spendCount)
	for i := 0; i < spendCount; i++ {
		newSpend := &spend{}
		s, err = newSpend.ParseFromSlice([]byte(s), tx.version)
		if err != nil {
			return nil, errors.Wrap(err, "while parsing shielded Spend")
		}
		tx.shieldedSpends[i] = newSpend
	}
	if !s.ReadCompactSize(&outputCount) {
		return nil, errors.New("could not read nShieldedOutput")
	}
	if outputCount >= (1 << 16) {
		return nil, fmt.Errorf("outputCount (%d) must be less than 2^16", outputCount)
	}
	tx.shieldedOutputs = make([]*output, outputCount)
	for i := 0; i < outputCount; i++ {
		newOutput := &output{}
		s, err = newOutput.ParseFromSlice([]byte(s), tx.version)
		if err != nil {
			return nil, errors.Wrap(err, "while parsing shielded Output")
		}
		tx.shieldedOutputs[i] = newOutput
	}
	if spendCount+outputCount > 0 && !s.ReadInt64(&tx.valueBalanceSapling) {
		return nil, errors.New("could not read valueBalance")
	}
	if spendCount > 0 && !s.Skip(32) {
		return nil, errors.New("could not skip anchorSapling")
	}
	if !s.Skip(192 * spendCount) {
		return nil, errors.New("could not skip vSpendProofsSapling")
	}
	if !s.Skip(64 * spendCount) {
		return nil, errors.New("could not skip vSpendAuthSigsSapling")
	}
	if !s.Skip(192 * outputCount) {
		return nil, errors.New("could not skip vOutputProofsSapling")
	}
	if spendCount+outputCount > 0 && !s.ReadBytes(&tx.bindingSigSapling, 64) {
		return nil, errors.New("could not read bindingSigSapling")
	}
	var actionsCount int
	if !s.ReadCompactSize(&actionsCount) {
		return nil, errors.New("could not read nActionsOrchard")
	}
	if actionsCount >= (1 << 16) {
		return nil, fmt.Errorf("actionsCount (%d) must be less than 2^16", actionsCount)
	}
	tx.orchardActions = make([]*action, actionsCount)
	for i := 0; i < actionsCount; i++ {
		a := &action{}
		s, err = a.ParseFromSlice([]byte(s))
		if err != nil {
			return nil, errors.Wrap(err, "while parsing Orchard action")
		}
		tx.orchardActions[i] = a
	}
	if actionsCount > 0 {
		if !s.Skip(1) {
			return nil, errors.New("could not skip flagsOrchard")
		}
		if !s.Skip(8) {
			return nil, errors.New("could not skip valueBalanceOrchard")
		}
		if !s.Skip(32) {
			return nil, errors.New("could not skip anchorOrchard")
		}
		var proofsCount int
		if !s.ReadCompactSize(&proofsCount) {
			return nil, errors.New("could not read sizeProofsOrchard")
		}
		if !s.Skip(proofsCount) {
			return nil, errors.New("could not skip proofsOrchard")
		}
		if !s.Skip(64 * actionsCount) {
			return nil, errors.New("could not skip vSpendAuthSigsOrchard")
		}
		if !s.Skip(64) {
			return nil, errors.New("could not skip bindingSigOrchard")
		}
	}
	return s, nil
}

// ParseFromSlice deserializes a single transaction from the given data.
func (tx *Transaction) ParseFromSlice(data []byte) ([]byte, error) {
	s := bytestring.String(data)

	var err error

	var header uint32
	if !s.ReadUint32(&header) {
		return nil, errors.New("could not read header")
	}

	tx.fOverwintered = (header >> 31) == 1
	if !tx.fOverwintered {
		return nil, errors.New("fOverwinter flag must be set")
	}
	tx.version = header & 0x7FFFFFFF
	if tx.version < 4 {
		return nil, fmt.Errorf("version number %d must be greater or equal to 4", tx.version)
	}

	if !s.ReadUint32(&tx.nVersionGroupID) {
		return nil, errors.New("could not read nVersionGroupId")
	}
	if tx.version <= 4 {
		s, err = tx.parseV4([]byte(s))
	} else {
		s, err = tx.parseV5([]byte(s))
	}
	if err != nil {
		return nil, err
	}
	txLen := len(data) - len(s)
	tx.rawBytes = data[:txLen]

	return []byte(s), nil
}

// NewTransaction is the constructor for a full transaction.
func NewTransaction() *Transaction {
	return &Transaction{
		rawTransaction: new(rawTransaction),
	}
}
