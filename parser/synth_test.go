// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .
package parser

// Builders for small, valid (by construction) block/transaction/header
// byte streams used across this package's tests. The retrieval pack this
// module was built from ships no binary block/transaction fixtures, so
// the test suite exercises the wire-format parser against byte streams
// it assembles itself rather than against recorded chain data.

import (
	"bytes"
	"encoding/binary"
)

func appendCompactSize(buf *bytes.Buffer, n int) {
	switch {
	case n < 253:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(253)
		binary.Write(buf, binary.LittleEndian, uint16(n))
	case n <= 0xffffffff:
		buf.WriteByte(254)
		binary.Write(buf, binary.LittleEndian, uint32(n))
	default:
		buf.WriteByte(255)
		binary.Write(buf, binary.LittleEndian, uint64(n))
	}
}

// buildHeightScriptSig encodes a BIP34 coinbase height push: a push-length
// byte followed by that many little-endian bytes, padded with a zero byte
// when the high bit of the last byte would otherwise be mistaken for a
// sign bit.
func buildHeightScriptSig(height uint32) []byte {
	var b []byte
	for v := height; v > 0; v >>= 8 {
		b = append(b, byte(v))
	}
	if len(b) == 0 {
		b = []byte{0}
	}
	if b[len(b)-1]&0x80 != 0 {
		b = append(b, 0)
	}
	return append([]byte{byte(len(b))}, b...)
}

// buildHeader assembles a minimal, well-formed block header. The
// Equihash solution need not be valid: this parser only stores and
// re-serializes it, it never verifies proof of work.
func buildHeader(version int32, prevHash [32]byte, t uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, version)
	buf.Write(prevHash[:])
	buf.Write(make([]byte, 32)) // HashMerkleRoot
	buf.Write(make([]byte, 32)) // HashFinalSaplingRoot
	binary.Write(&buf, binary.LittleEndian, t)
	buf.Write(make([]byte, 4))  // NBitsBytes
	buf.Write(make([]byte, 32)) // Nonce
	solution := []byte{0xde, 0xad, 0xbe, 0xef}
	appendCompactSize(&buf, len(solution))
	buf.Write(solution)
	return buf.Bytes()
}

// buildCoinbaseV4Tx builds a transparent-only (no shielded elements) v4
// transaction whose single input's scriptSig carries the BIP34 height
// encoding, matching how GetHeight reads it back out.
func buildCoinbaseV4Tx(height uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x80000004)) // fOverwintered | version 4
	binary.Write(&buf, binary.LittleEndian, uint32(versionGroupIDv4))

	buf.WriteByte(1) // tx_in_count
	buf.Write(make([]byte, 32))
	binary.Write(&buf, binary.LittleEndian, uint32(0xffffffff)) // PrevTxOutIndex
	scriptSig := buildHeightScriptSig(height)
	appendCompactSize(&buf, len(scriptSig))
	buf.Write(scriptSig)
	binary.Write(&buf, binary.LittleEndian, uint32(0xffffffff)) // SequenceNumber

	buf.WriteByte(0) // tx_out_count

	binary.Write(&buf, binary.LittleEndian, uint32(0)) // nLockTime
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // nExpiryHeight
	binary.Write(&buf, binary.LittleEndian, int64(0))  // valueBalanceSapling
	buf.WriteByte(0)                                   // nShieldedSpend
	buf.WriteByte(0)                                   // nShieldedOutput
	buf.WriteByte(0)                                   // nJoinSplit
	return buf.Bytes()
}

// buildShieldedV4Tx builds a v4 transaction with a single (all-zero)
// Sapling output and no transparent inputs or outputs.
func buildShieldedV4Tx() []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x80000004))
	binary.Write(&buf, binary.LittleEndian, uint32(versionGroupIDv4))

	buf.WriteByte(0) // tx_in_count
	buf.WriteByte(0) // tx_out_count

	binary.Write(&buf, binary.LittleEndian, uint32(0)) // nLockTime
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // nExpiryHeight
	binary.Write(&buf, binary.LittleEndian, int64(0))  // valueBalanceSapling
	buf.WriteByte(0)                                   // nShieldedSpend
	buf.WriteByte(1)                                   // nShieldedOutput
	buf.Write(make([]byte, 32+32+32+580+80+192))       // cv,cmu,ephemeralKey,encCiphertext,outCiphertext,zkproof
	buf.WriteByte(0)                                   // nJoinSplit
	buf.Write(make([]byte, 64))                        // bindingSigSapling
	return buf.Bytes()
}

// buildMinimalV5Tx builds a v5 transaction with no transparent, Sapling,
// or Orchard elements at all: the smallest byte stream parseV5 accepts.
// lockTime varies the content (and so the txid) without disturbing the
// rest of the layout.
func buildMinimalV5Tx(lockTime uint32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x80000005)) // fOverwintered | version 5
	binary.Write(&buf, binary.LittleEndian, uint32(versionGroupIDv5))
	binary.Write(&buf, binary.LittleEndian, uint32(0x37519621)) // consensusBranchId (NU5, arbitrary for tests)
	binary.Write(&buf, binary.LittleEndian, lockTime)
	binary.Write(&buf, binary.LittleEndian, uint32(0)) // nExpiryHeight
	buf.WriteByte(0)                                   // tx_in_count
	buf.WriteByte(0)                                   // tx_out_count
	buf.WriteByte(0)                                   // nShieldedSpend
	buf.WriteByte(0)                                   // nShieldedOutput
	buf.WriteByte(0)                                   // nActionsOrchard
	return buf.Bytes()
}

// buildBlock assembles a full block from a header and a list of
// already-serialized transactions.
func buildBlock(header []byte, txs [][]byte) []byte {
	var buf bytes.Buffer
	buf.Write(header)
	appendCompactSize(&buf, len(txs))
	for _, tx := range txs {
		buf.Write(tx)
	}
	return buf.Bytes()
}
