// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package walletrpc

// ChainSpec is a placeholder argument for calls that identify "the current
// chain" implicitly.
type ChainSpec struct{}

func (m *ChainSpec) Reset()         { *m = ChainSpec{} }
func (m *ChainSpec) String() string { return protoTextString(m) }
func (*ChainSpec) ProtoMessage()    {}

// BlockID identifies a block by height or by (big-endian) hash. A hash
// takes precedence when both are set; a height of 0 with no hash refers
// to the chain's genesis block only by convention of the caller.
type BlockID struct {
	Height uint64
	Hash   []byte
}

func (m *BlockID) Reset()         { *m = BlockID{} }
func (m *BlockID) String() string { return protoTextString(m) }
func (*BlockID) ProtoMessage()    {}

// BlockRange identifies an inclusive range of blocks by their BlockIDs.
type BlockRange struct {
	Start *BlockID
	End   *BlockID
}

func (m *BlockRange) Reset()         { *m = BlockRange{} }
func (m *BlockRange) String() string { return protoTextString(m) }
func (*BlockRange) ProtoMessage()    {}

// TxFilter identifies a single transaction, either by hash or by its
// position within a block.
type TxFilter struct {
	Block *BlockID
	Index uint64
	Hash  []byte
}

func (m *TxFilter) Reset()         { *m = TxFilter{} }
func (m *TxFilter) String() string { return protoTextString(m) }
func (*TxFilter) ProtoMessage()    {}

// RawTransaction is a transaction as received from the full node, tagged
// with its mined height (0 means mempool, max uint64 means a fork that's
// no longer on the main chain).
type RawTransaction struct {
	Data   []byte
	Height uint64
}

func (m *RawTransaction) Reset()         { *m = RawTransaction{} }
func (m *RawTransaction) String() string { return protoTextString(m) }
func (*RawTransaction) ProtoMessage()    {}

// SendResponse reports the outcome of submitting a raw transaction.
type SendResponse struct {
	ErrorCode    int32
	ErrorMessage string
}

func (m *SendResponse) Reset()         { *m = SendResponse{} }
func (m *SendResponse) String() string { return protoTextString(m) }
func (*SendResponse) ProtoMessage()    {}

// Empty carries no information.
type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return protoTextString(m) }
func (*Empty) ProtoMessage()    {}

// TransparentAddressBlockFilter scopes a transparent-address query to a
// block range.
type TransparentAddressBlockFilter struct {
	Address string
	Range   *BlockRange
}

func (m *TransparentAddressBlockFilter) Reset()         { *m = TransparentAddressBlockFilter{} }
func (m *TransparentAddressBlockFilter) String() string { return protoTextString(m) }
func (*TransparentAddressBlockFilter) ProtoMessage()    {}

// TreeState is a note-commitment tree snapshot at a given height.
type TreeState struct {
	Network     string
	Height      uint64
	Hash        string
	Time        uint32
	SaplingTree string
	OrchardTree string
}

func (m *TreeState) Reset()         { *m = TreeState{} }
func (m *TreeState) String() string { return protoTextString(m) }
func (*TreeState) ProtoMessage()    {}

// Duration carries a client-suggested interval, in microseconds.
type Duration struct {
	IntervalUs int64
}

func (m *Duration) Reset()         { *m = Duration{} }
func (m *Duration) String() string { return protoTextString(m) }
func (*Duration) ProtoMessage()    {}

// PingResponse echoes back timestamps bracketing the server's handling of
// a synthetic keepalive call.
type PingResponse struct {
	Entry int64
	Exit  int64
}

func (m *PingResponse) Reset()         { *m = PingResponse{} }
func (m *PingResponse) String() string { return protoTextString(m) }
func (*PingResponse) ProtoMessage()    {}

// Address is a single transparent or shielded address string.
type Address struct {
	Address string
}

func (m *Address) Reset()         { *m = Address{} }
func (m *Address) String() string { return protoTextString(m) }
func (*Address) ProtoMessage()    {}

// AddressList is a set of addresses to query together.
type AddressList struct {
	Addresses []string
}

func (m *AddressList) Reset()         { *m = AddressList{} }
func (m *AddressList) String() string { return protoTextString(m) }
func (*AddressList) ProtoMessage()    {}

// Balance reports a balance in zatoshis.
type Balance struct {
	ValueZat int64
}

func (m *Balance) Reset()         { *m = Balance{} }
func (m *Balance) String() string { return protoTextString(m) }
func (*Balance) ProtoMessage()    {}

// GetAddressUtxosArg bounds a UTXO lookup across one or more addresses.
type GetAddressUtxosArg struct {
	Addresses  []string
	StartHeight uint64
	MaxEntries  uint32
}

func (m *GetAddressUtxosArg) Reset()         { *m = GetAddressUtxosArg{} }
func (m *GetAddressUtxosArg) String() string { return protoTextString(m) }
func (*GetAddressUtxosArg) ProtoMessage()    {}

// GetAddressUtxosReply is a single unspent transparent output.
type GetAddressUtxosReply struct {
	Address  string
	Txid     []byte
	Index    int32
	Script   []byte
	ValueZat int64
	Height   uint64
}

func (m *GetAddressUtxosReply) Reset()         { *m = GetAddressUtxosReply{} }
func (m *GetAddressUtxosReply) String() string { return protoTextString(m) }
func (*GetAddressUtxosReply) ProtoMessage()    {}

// GetAddressUtxosReplyList batches GetAddressUtxosReply for the unary form
// of the call.
type GetAddressUtxosReplyList struct {
	AddressUtxos []*GetAddressUtxosReply
}

func (m *GetAddressUtxosReplyList) Reset()         { *m = GetAddressUtxosReplyList{} }
func (m *GetAddressUtxosReplyList) String() string { return protoTextString(m) }
func (*GetAddressUtxosReplyList) ProtoMessage()    {}

// LightdInfo reports the server's build and the backing node's chain state.
type LightdInfo struct {
	Version                 string
	Vendor                  string
	TaddrSupport            bool
	ChainName               string
	SaplingActivationHeight uint64
	ConsensusBranchId       string
	BlockHeight             uint64
	GitCommit               string
	Branch                  string
	BuildDate               string
	BuildUser               string
	EstimatedHeight         uint64
	ZcashdBuild             string
	ZcashdSubversion        string
	DonationAddress         string
}

func (m *LightdInfo) Reset()         { *m = LightdInfo{} }
func (m *LightdInfo) String() string { return protoTextString(m) }
func (*LightdInfo) ProtoMessage()    {}
