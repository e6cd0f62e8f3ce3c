// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .
package parser

import (
	"bytes"
	"testing"

	"github.com/zingolabs/zindexer/hash32"
)

func TestBlockHeaderRoundTrip(t *testing.T) {
	raw := buildHeader(4, [32]byte{0xaa}, 123456)

	hdr := NewBlockHeader()
	rest, err := hdr.ParseFromSlice(raw)
	if err != nil {
		t.Fatalf("ParseFromSlice: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("%d bytes remaining after header parse", len(rest))
	}

	if hdr.Version != 4 {
		t.Errorf("Version = %d, want 4", hdr.Version)
	}
	if hdr.Time != 123456 {
		t.Errorf("Time = %d, want 123456", hdr.Time)
	}
	if hdr.HashPrevBlock[0] != 0xaa {
		t.Error("HashPrevBlock not parsed correctly")
	}

	serialized, err := hdr.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if !bytes.Equal(serialized, raw) {
		t.Errorf("round-trip mismatch:\ngot  %x\nwant %x", serialized, raw)
	}

	hash := hdr.GetDisplayHash()
	// test caching
	if hash != hdr.GetDisplayHash() {
		t.Error("GetDisplayHash caching is broken")
	}

	if hdr.GetDisplayPrevHash() != hash32.Reverse(hdr.HashPrevBlock) {
		t.Error("GetDisplayPrevHash does not match reversed HashPrevBlock")
	}
}

func TestBadBlockHeader(t *testing.T) {
	raw := buildHeader(4, [32]byte{}, 1)

	// Every strict prefix of a valid header is missing at least one
	// required field and must fail to parse.
	for n := 0; n < len(raw); n++ {
		hdr := NewBlockHeader()
		if _, err := hdr.ParseFromSlice(raw[:n]); err == nil {
			t.Fatalf("unexpected success parsing %d-byte truncated header", n)
		}
	}
}

var compactLengthPrefixedLenTests = []struct {
	length       int
	returnLength int
}{
	/* 00 */ {0, 1},
	/* 01 */ {1, 1 + 1},
	/* 02 */ {2, 1 + 2},
	/* 03 */ {252, 1 + 252},
	/* 04 */ {253, 1 + 2 + 253},
	/* 05 */ {0xffff, 1 + 2 + 0xffff},
	/* 06 */ {0x10000, 1 + 4 + 0x10000},
	/* 07 */ {0x10001, 1 + 4 + 0x10001},
}

func TestCompactLengthPrefixedLen(t *testing.T) {
	for i, tt := range compactLengthPrefixedLenTests {
		returnLength := CompactLengthPrefixedLen(tt.length)
		if returnLength != tt.returnLength {
			t.Errorf("TestCompactLengthPrefixedLen case %d: want: %v have %v",
				i, tt.returnLength, returnLength)
		}
	}
}

var writeCompactLengthPrefixedLenTests = []struct {
	argLen       int
	returnLength int
	header       []byte
}{
	/* 00 */ {0, 1, []byte{0}},
	/* 01 */ {1, 1, []byte{1}},
	/* 02 */ {2, 1, []byte{2}},
	/* 03 */ {252, 1, []byte{252}},
	/* 04 */ {253, 1 + 2, []byte{253, 253, 0}},
	/* 05 */ {254, 1 + 2, []byte{253, 254, 0}},
	/* 06 */ {0xffff, 1 + 2, []byte{253, 0xff, 0xff}},
	/* 07 */ {0x10000, 1 + 4, []byte{254, 0x00, 0x00, 0x01, 0x00}},
	/* 08 */ {0x10003, 1 + 4, []byte{254, 0x03, 0x00, 0x01, 0x00}},
}

func TestWriteCompactLengthPrefixedLen(t *testing.T) {
	for i, tt := range writeCompactLengthPrefixedLenTests {
		var b bytes.Buffer
		WriteCompactLengthPrefixedLen(&b, tt.argLen)
		if b.Len() != tt.returnLength {
			t.Fatalf("TestWriteCompactLengthPrefixedLen case %d: unexpected length", i)
		}
		r := make([]byte, len(tt.header))
		b.Read(r)
		if !bytes.Equal(r, tt.header) {
			t.Fatalf("TestWriteCompactLengthPrefixedLen case %d: incorrect header", i)
		}
	}
}
