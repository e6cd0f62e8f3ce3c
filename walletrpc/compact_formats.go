// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package walletrpc defines the CompactTxStreamer wire types and service
// surface. These types are hand-authored in the shape protoc-gen-go and
// protoc-gen-go-grpc produce, since running the code generator itself is
// outside this package's concerns; they implement the minimal legacy
// proto.Message interface rather than full protoreflect descriptors.
package walletrpc

// CompactBlock is a packaging of ONLY the data from a block that's needed
// to detect incoming payments to a light wallet client.
type CompactBlock struct {
	ProtoVersion  uint32
	Height        uint64
	Hash          []byte
	PrevHash      []byte
	Time          uint32
	Header        []byte
	Vtx           []*CompactTx
	ChainMetadata *ChainMetadata
}

func (m *CompactBlock) Reset()         { *m = CompactBlock{} }
func (m *CompactBlock) String() string { return protoTextString(m) }
func (*CompactBlock) ProtoMessage()    {}

// CompactTx is a compact transaction: enough to detect spends and
// outputs affecting a light wallet client, nothing more.
type CompactTx struct {
	Index   uint64
	Hash    []byte
	Fee     uint32
	Spends  []*CompactSpend
	Outputs []*CompactOutput
	Actions []*CompactOrchardAction
}

func (m *CompactTx) Reset()         { *m = CompactTx{} }
func (m *CompactTx) String() string { return protoTextString(m) }
func (*CompactTx) ProtoMessage()    {}

// CompactSpend is a Sapling nullifier reference, nothing more.
type CompactSpend struct {
	Nf []byte
}

func (m *CompactSpend) Reset()         { *m = CompactSpend{} }
func (m *CompactSpend) String() string { return protoTextString(m) }
func (*CompactSpend) ProtoMessage()    {}

// CompactOutput is the fields of a Sapling output needed for trial
// decryption and note-position tracking, and nothing more.
type CompactOutput struct {
	Cmu        []byte
	Epk        []byte
	Ciphertext []byte // first 52 bytes of the 580-byte output ciphertext
}

func (m *CompactOutput) Reset()         { *m = CompactOutput{} }
func (m *CompactOutput) String() string { return protoTextString(m) }
func (*CompactOutput) ProtoMessage()    {}

// CompactOrchardAction is the fields of an Orchard action needed for
// trial decryption and nullifier tracking, and nothing more.
type CompactOrchardAction struct {
	Nullifier    []byte
	Cmx          []byte
	EphemeralKey []byte
	Ciphertext   []byte // first 52 bytes of the 580-byte enc ciphertext
}

func (m *CompactOrchardAction) Reset()         { *m = CompactOrchardAction{} }
func (m *CompactOrchardAction) String() string { return protoTextString(m) }
func (*CompactOrchardAction) ProtoMessage()    {}

// ChainMetadata holds the note-commitment tree sizes as of this block, used
// by wallets to avoid walking the whole chain for position data.
type ChainMetadata struct {
	SaplingCommitmentTreeSize uint32
	OrchardCommitmentTreeSize uint32
}

func (m *ChainMetadata) Reset()         { *m = ChainMetadata{} }
func (m *ChainMetadata) String() string { return protoTextString(m) }
func (*ChainMetadata) ProtoMessage()    {}
