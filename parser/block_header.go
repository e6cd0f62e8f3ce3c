// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package parser deserializes Zcash block headers, transactions, and
// blocks, and projects them to the compact wallet-oriented form.
package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/zingolabs/zindexer/hash32"
	"github.com/zingolabs/zindexer/parser/internal/bytestring"
)

const serBlockHeaderMinusSolution = 140 // size of a serialized block header minus the CompactSize-prefixed solution

// RawBlockHeader implements the block header as defined in the Zcash
// protocol spec. The Equihash solution is carried as a
// CompactSize-prefixed field rather than a fixed-size array, since its
// length varies with the network's Equihash parameters.
type RawBlockHeader struct {
	// The block version number indicates which set of block validation rules
	// to follow.
	Version int32

	// A SHA-256d hash in internal byte order of the previous block's header.
	HashPrevBlock hash32.T

	// A SHA-256d hash in internal byte order derived from the hashes of all
	// transactions included in this block.
	HashMerkleRoot hash32.T

	// [Pre-Sapling] Reserved, should be ignored.
	// [Sapling onward] The root of the Sapling note commitment tree
	// corresponding to the final Sapling treestate of this block.
	HashFinalSaplingRoot hash32.T

	// Unix epoch time (UTC) when the miner started hashing the header.
	Time uint32

	// The target threshold this block's header hash must be less than or
	// equal to, in Bitcoin's nBits format.
	NBitsBytes [4]byte

	// An arbitrary field miners vary to produce a hash under the target.
	Nonce [32]byte

	// The Equihash solution, CompactSize length-prefixed on the wire.
	Solution []byte
}

// BlockHeader extends RawBlockHeader by adding a cache for the block hash.
type BlockHeader struct {
	*RawBlockHeader
	cachedHash hash32.T
}

// CompactLengthPrefixedLen calculates the total number of bytes needed to
// encode 'length' bytes, length prefix included.
func CompactLengthPrefixedLen(length int) int {
	switch {
	case length < 253:
		return 1 + length
	case length <= 0xffff:
		return 1 + 2 + length
	case length <= 0xffffffff:
		return 1 + 4 + length
	default:
		return 1 + 8 + length
	}
}

// WriteCompactLengthPrefixedLen writes the given length to the stream.
func WriteCompactLengthPrefixedLen(buf *bytes.Buffer, length int) {
	switch {
	case length < 253:
		binary.Write(buf, binary.LittleEndian, uint8(length))
	case length <= 0xffff:
		binary.Write(buf, binary.LittleEndian, byte(253))
		binary.Write(buf, binary.LittleEndian, uint16(length))
	case length <= 0xffffffff:
		binary.Write(buf, binary.LittleEndian, byte(254))
		binary.Write(buf, binary.LittleEndian, uint32(length))
	default:
		binary.Write(buf, binary.LittleEndian, byte(255))
		binary.Write(buf, binary.LittleEndian, uint64(length))
	}
}

func (hdr *RawBlockHeader) getSize() int {
	return serBlockHeaderMinusSolution + CompactLengthPrefixedLen(len(hdr.Solution))
}

// MarshalBinary returns the block header in serialized (consensus wire) form.
func (hdr *RawBlockHeader) MarshalBinary() ([]byte, error) {
	headerSize := hdr.getSize()
	backing := make([]byte, 0, headerSize)
	buf := bytes.NewBuffer(backing)
	binary.Write(buf, binary.LittleEndian, hdr.Version)
	binary.Write(buf, binary.LittleEndian, hdr.HashPrevBlock)
	binary.Write(buf, binary.LittleEndian, hdr.HashMerkleRoot)
	binary.Write(buf, binary.LittleEndian, hdr.HashFinalSaplingRoot)
	binary.Write(buf, binary.LittleEndian, hdr.Time)
	binary.Write(buf, binary.LittleEndian, hdr.NBitsBytes)
	binary.Write(buf, binary.LittleEndian, hdr.Nonce)
	WriteCompactLengthPrefixedLen(buf, len(hdr.Solution))
	binary.Write(buf, binary.LittleEndian, hdr.Solution)
	return backing[:headerSize], nil
}

// NewBlockHeader returns a pointer to a new, zeroed block header instance.
func NewBlockHeader() *BlockHeader {
	return &BlockHeader{
		RawBlockHeader: new(RawBlockHeader),
	}
}

// ParseFromSlice parses the block header struct from the provided byte
// slice, advancing over the bytes read. If successful it returns the rest
// of the slice, otherwise it returns the input slice unaltered along with
// an error.
func (hdr *BlockHeader) ParseFromSlice(in []byte) (rest []byte, err error) {
	s := bytestring.String(in)

	if !s.ReadInt32(&hdr.Version) {
		return in, errors.New("could not read header version")
	}

	b32 := make([]byte, 32)
	if !s.ReadBytes(&b32, 32) {
		return in, errors.New("could not read HashPrevBlock")
	}
	hdr.HashPrevBlock = hash32.T(b32)

	if !s.ReadBytes(&b32, 32) {
		return in, errors.New("could not read HashMerkleRoot")
	}
	hdr.HashMerkleRoot = hash32.T(b32)

	if !s.ReadBytes(&b32, 32) {
		return in, errors.New("could not read HashFinalSaplingRoot")
	}
	hdr.HashFinalSaplingRoot = hash32.T(b32)

	if !s.ReadUint32(&hdr.Time) {
		return in, errors.New("could not read timestamp")
	}

	b4 := make([]byte, 4)
	if !s.ReadBytes(&b4, 4) {
		return in, errors.New("could not read NBits bytes")
	}
	hdr.NBitsBytes = [4]byte(b4)

	if !s.ReadBytes(&b32, 32) {
		return in, errors.New("could not read Nonce bytes")
	}
	hdr.Nonce = hash32.T(b32)

	var solution bytestring.String
	if !s.ReadCompactLengthPrefixed(&solution) {
		return in, errors.New("could not read CompactSize-prefixed Equihash solution")
	}
	hdr.Solution = append([]byte(nil), solution...)

	return []byte(s), nil
}

// GetDisplayHash returns the bytes of a block hash in big-endian (display)
// order, caching the result.
func (hdr *BlockHeader) GetDisplayHash() hash32.T {
	if hdr.cachedHash != hash32.Nil {
		return hdr.cachedHash
	}

	serializedHeader, err := hdr.MarshalBinary()
	if err != nil {
		return hash32.Nil
	}

	digest := sha256.Sum256(serializedHeader)
	digest = sha256.Sum256(digest[:])

	hdr.cachedHash = hash32.Reverse(digest)
	return hdr.cachedHash
}

func (hdr *BlockHeader) GetDisplayHashString() string {
	h := hdr.GetDisplayHash()
	return hex.EncodeToString(h[:])
}

// GetEncodableHash returns the bytes of a block hash in little-endian wire order.
func (hdr *BlockHeader) GetEncodableHash() hash32.T {
	serializedHeader, err := hdr.MarshalBinary()
	if err != nil {
		return hash32.Nil
	}

	digest := sha256.Sum256(serializedHeader)
	digest = sha256.Sum256(digest[:])

	return digest
}

// GetDisplayPrevHash returns the previous block's hash in big-endian order.
func (hdr *BlockHeader) GetDisplayPrevHash() hash32.T {
	return hash32.Reverse(hdr.HashPrevBlock)
}
