// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package service implements the CompactTxStreamer gRPC surface by
// composing the JSON-RPC client, the block/transaction parser, and a
// mempool tracker. Every method not named in the design is left to the
// embedded UnimplementedCompactTxStreamerServer, which is a contract,
// not an oversight.
package service

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zingolabs/zindexer/hash32"
	"github.com/zingolabs/zindexer/jsonrpc"
	"github.com/zingolabs/zindexer/mempool"
	"github.com/zingolabs/zindexer/parser"
	"github.com/zingolabs/zindexer/walletrpc"
)

// saplingConsensusBranchID is the consensus-branch-id hex key
// get_blockchain_info's upgrade map uses for Sapling activation height.
const saplingConsensusBranchID = "76b809bb"

const (
	blockRangeDeadline    = 120 * time.Second
	taddressTxidsDeadline = 30 * time.Second
	mempoolStreamDeadline = 30 * time.Second
	mempoolPollInterval   = 500 * time.Millisecond
	streamBufferCap       = 32
)

// BuildInfo carries version/commit metadata wired in at build time.
type BuildInfo struct {
	Version   string
	Vendor    string
	GitCommit string
	Branch    string
	BuildDate string
	BuildUser string
	Donation  string
}

// Streamer implements walletrpc.CompactTxStreamerServer.
type Streamer struct {
	walletrpc.UnimplementedCompactTxStreamerServer

	Node      *jsonrpc.Client
	ChainName string
	Build     BuildInfo
	Log       *logrus.Entry

	// AddressIndexEnabled reflects a startup probe of the node's
	// capabilities (see director.probeAddressIndex): true for zebrad,
	// and for zcashd only when -experimentalfeatures=insightexplorer or
	// lightwalletd is enabled. GetTaddressTxids and GetAddressUtxos
	// consult it to fail fast with a clear error instead of surfacing
	// an opaque "method not found" from the node.
	AddressIndexEnabled bool
}

// New constructs a Streamer bound to node.
func New(node *jsonrpc.Client, chainName string, build BuildInfo, log *logrus.Entry) *Streamer {
	return &Streamer{Node: node, ChainName: chainName, Build: build, Log: log}
}

// GetLatestBlock returns {height, hash} from get_blockchain_info.
func (s *Streamer) GetLatestBlock(ctx context.Context, _ *walletrpc.ChainSpec) (*walletrpc.BlockID, error) {
	info, err := s.Node.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "GetLatestBlock: %s", err.Error())
	}
	bigEndian, err := hash32.Decode(info.BestBlockHash)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetLatestBlock: decode hash %s: %s", info.BestBlockHash, err.Error())
	}
	return &walletrpc.BlockID{
		Height: uint64(info.Blocks),
		Hash:   hash32.ToSlice(hash32.Reverse(bigEndian)),
	}, nil
}

// fetchCompactBlock fetches and parses the block at height: a verbose
// getblock for its hash/txid list and tree sizes, then a raw getblock
// for the bytes.
func (s *Streamer) fetchCompactBlock(ctx context.Context, height int) (*walletrpc.CompactBlock, error) {
	var verbose jsonrpc.GetblockVerbose
	if err := s.Node.GetBlock(ctx, strconv.Itoa(height), 1, &verbose); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "GetBlockRange: getblock(%d,1): %s", height, err.Error())
	}

	var rawHex string
	if err := s.Node.GetBlock(ctx, verbose.Hash, 0, &rawHex); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "GetBlockRange: getblock(%s,0): %s", verbose.Hash, err.Error())
	}
	raw, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetBlockRange: decode block hex: %s", err.Error())
	}

	// zcashd's raw block bytes alone are not always enough to recover
	// the correct txid of a v5 (NU5/Orchard-era) transaction; the
	// verbose getblock reply's own txid list is authoritative, so it's
	// threaded into the parse instead of trusting the parser to
	// recompute every hash from bytes alone.
	expectedTxIDs := make([]hash32.T, len(verbose.Tx))
	for i, txid := range verbose.Tx {
		expectedTxIDs[i], err = hash32.Decode(txid)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "GetBlockRange: decode txid %s: %s", txid, err.Error())
		}
	}

	block := parser.NewBlock()
	rest, err := block.ParseFromSlice(raw, expectedTxIDs)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetBlockRange: parse block %d: %s", height, err.Error())
	}
	if len(rest) != 0 {
		return nil, status.Errorf(codes.Internal, "GetBlockRange: trailing bytes parsing block %d", height)
	}

	compact := block.ToCompact(verbose.Trees.Sapling.Size, verbose.Trees.Orchard.Size)
	return compact, nil
}

// GetBlockRange normalizes so start <= end, then emits blocks from end
// down to start (descending, per the open question in the design notes
// resolved in favor of descending emission) over a 120s-bounded stream.
func (s *Streamer) GetBlockRange(span *walletrpc.BlockRange, stream walletrpc.CompactTxStreamer_GetBlockRangeServer) error {
	if span.Start == nil || span.End == nil {
		return status.Error(codes.InvalidArgument, "GetBlockRange: must specify start and end heights")
	}
	start, end := int(span.Start.Height), int(span.End.Height)
	if start > end {
		start, end = end, start
	}

	ctx, cancel := context.WithTimeout(stream.Context(), blockRangeDeadline)
	defer cancel()

	for h := end; h >= start; h-- {
		select {
		case <-ctx.Done():
			return status.Error(codes.DeadlineExceeded, "GetBlockRange: operation timed out")
		default:
		}
		block, err := s.fetchCompactBlock(ctx, h)
		if err != nil {
			return err
		}
		if err := stream.Send(block); err != nil {
			return err
		}
	}
	return nil
}

// GetTransaction requires a 32-byte txid, reverses it to display order,
// and returns the raw transaction bytes plus mined height.
func (s *Streamer) GetTransaction(ctx context.Context, filter *walletrpc.TxFilter) (*walletrpc.RawTransaction, error) {
	if len(filter.Hash) != 32 {
		return nil, status.Errorf(codes.InvalidArgument, "GetTransaction: transaction ID has invalid length: %d", len(filter.Hash))
	}
	txidHex := hash32.Encode(hash32.Reverse(hash32.FromSlice(filter.Hash)))

	var verbose jsonrpc.RawTransactionVerbose
	if err := s.Node.GetRawTransaction(ctx, txidHex, true, &verbose); err != nil {
		return nil, status.Errorf(codes.NotFound, "GetTransaction: getrawtransaction %s: %s", txidHex, err.Error())
	}
	if verbose.Hex == "" {
		return nil, status.Errorf(codes.NotFound, "GetTransaction: %s not received", txidHex)
	}
	data, err := hex.DecodeString(verbose.Hex)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetTransaction: decode hex: %s", err.Error())
	}
	return &walletrpc.RawTransaction{Data: data, Height: uint64(verbose.Height)}, nil
}

// SendTransaction hex-encodes the raw bytes, forwards them, and maps the
// node's returned hash to {error_code:0, error_message:hash}.
func (s *Streamer) SendTransaction(ctx context.Context, rawtx *walletrpc.RawTransaction) (*walletrpc.SendResponse, error) {
	if rawtx == nil || rawtx.Data == nil {
		return nil, status.Error(codes.InvalidArgument, "SendTransaction: missing transaction data")
	}
	hash, err := s.Node.SendRawTransaction(ctx, hex.EncodeToString(rawtx.Data))
	if err != nil {
		if rpcErr, ok := err.(*jsonrpc.RPCError); ok {
			return &walletrpc.SendResponse{ErrorCode: int32(rpcErr.Code), ErrorMessage: rpcErr.Message}, nil
		}
		return nil, status.Errorf(codes.Unavailable, "SendTransaction: %s", err.Error())
	}
	return &walletrpc.SendResponse{ErrorCode: 0, ErrorMessage: hash}, nil
}

// GetTaddressTxids requires both ends of the range, fetches matching
// txids, and streams the corresponding raw transactions in the node's
// returned order, bounded by a 30s deadline.
func (s *Streamer) GetTaddressTxids(filter *walletrpc.TransparentAddressBlockFilter, stream walletrpc.CompactTxStreamer_GetTaddressTxidsServer) error {
	if !s.AddressIndexEnabled {
		return status.Error(codes.Unimplemented, "GetTaddressTxids: address index not enabled on this node")
	}
	if filter.Range == nil || filter.Range.Start == nil || filter.Range.End == nil {
		return status.Error(codes.InvalidArgument, "GetTaddressTxids: must specify a block range")
	}
	ctx, cancel := context.WithTimeout(stream.Context(), taddressTxidsDeadline)
	defer cancel()

	txids, err := s.Node.GetAddressTxids(ctx, []string{filter.Address}, filter.Range.Start.Height, filter.Range.End.Height)
	if err != nil {
		return status.Errorf(codes.Internal, "GetTaddressTxids: getaddresstxids: %s", err.Error())
	}

	for _, txid := range txids {
		select {
		case <-ctx.Done():
			return status.Error(codes.DeadlineExceeded, "GetTaddressTxids: operation timed out")
		default:
		}
		var verbose jsonrpc.RawTransactionVerbose
		if err := s.Node.GetRawTransaction(ctx, txid, true, &verbose); err != nil {
			return status.Errorf(codes.Internal, "GetTaddressTxids: getrawtransaction %s: %s", txid, err.Error())
		}
		data, err := hex.DecodeString(verbose.Hex)
		if err != nil {
			return status.Errorf(codes.Internal, "GetTaddressTxids: decode hex: %s", err.Error())
		}
		if err := stream.Send(&walletrpc.RawTransaction{Data: data, Height: uint64(verbose.Height)}); err != nil {
			return err
		}
	}
	return nil
}

// GetTaddressBalance forwards to getaddressbalance.
func (s *Streamer) GetTaddressBalance(ctx context.Context, addrs *walletrpc.AddressList) (*walletrpc.Balance, error) {
	bal, err := s.Node.GetAddressBalance(ctx, addrs.Addresses)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetTaddressBalance: %s", err.Error())
	}
	return &walletrpc.Balance{ValueZat: bal.Balance}, nil
}

// GetMempoolStream instantiates a fresh mempool tracker, does an initial
// update, then polls every 500ms streaming any newly observed txids
// until the tip changes or a 30s deadline expires.
func (s *Streamer) GetMempoolStream(_ *walletrpc.Empty, stream walletrpc.CompactTxStreamer_GetMempoolStreamServer) error {
	ctx, cancel := context.WithTimeout(stream.Context(), mempoolStreamDeadline)
	defer cancel()

	info, err := s.Node.GetBlockchainInfo(ctx)
	if err != nil {
		return status.Errorf(codes.Unavailable, "GetMempoolStream: %s", err.Error())
	}
	mempoolHeight := uint64(info.Blocks) + 1

	tracker := mempool.New(s.Node)
	if _, err := tracker.Update(ctx); err != nil {
		return status.Errorf(codes.Internal, "GetMempoolStream: initial update: %s", err.Error())
	}

	sent := 0
	ticker := time.NewTicker(mempoolPollInterval)
	defer ticker.Stop()
	for {
		txids := tracker.GetMempoolTxids()
		for ; sent < len(txids); sent++ {
			var verbose jsonrpc.RawTransactionVerbose
			if err := s.Node.GetRawTransaction(ctx, txids[sent], true, &verbose); err != nil {
				if s.Log != nil {
					s.Log.WithError(err).Warn("GetMempoolStream: getrawtransaction failed, skipping")
				}
				continue
			}
			data, err := hex.DecodeString(verbose.Hex)
			if err != nil {
				if s.Log != nil {
					s.Log.WithError(err).Warn("GetMempoolStream: decode hex failed, skipping")
				}
				continue
			}
			if err := stream.Send(&walletrpc.RawTransaction{Data: data, Height: mempoolHeight}); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		changed, err := tracker.Update(ctx)
		if err != nil {
			if s.Log != nil {
				s.Log.WithError(err).Warn("GetMempoolStream: update failed")
			}
			continue
		}
		if changed {
			return nil
		}
	}
}

// GetTreeState returns treestate for the given block, retrying with the
// node's skip-hash when the requested block predates the shielded pool
// this tracker type covers.
func (s *Streamer) GetTreeState(ctx context.Context, id *walletrpc.BlockID) (*walletrpc.TreeState, error) {
	if id.Height == 0 && id.Hash == nil {
		return nil, status.Error(codes.InvalidArgument, "GetTreeState: must specify a block height or hash")
	}
	hashOrHeight := strconv.Itoa(int(id.Height))
	if id.Height == 0 {
		hashOrHeight = hex.EncodeToString(id.Hash)
	}

	var reply *jsonrpc.Treestate
	for {
		var err error
		reply, err = s.Node.GetTreestate(ctx, hashOrHeight)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "GetTreeState: z_gettreestate: %s", err.Error())
		}
		if reply.Sapling.Commitments.FinalState != "" || reply.Sapling.SkipHash == "" {
			break
		}
		hashOrHeight = reply.Sapling.SkipHash
	}
	if reply.Sapling.Commitments.FinalState == "" {
		return nil, status.Error(codes.InvalidArgument, "GetTreeState: z_gettreestate did not return a treestate")
	}

	return &walletrpc.TreeState{
		Network:     s.ChainName,
		Height:      uint64(reply.Height),
		Hash:        reply.Hash,
		Time:        reply.Time,
		SaplingTree: reply.Sapling.Commitments.FinalState,
		OrchardTree: reply.Orchard.Commitments.FinalState,
	}, nil
}

// GetLatestTreeState resolves the current tip height and delegates to
// GetTreeState.
func (s *Streamer) GetLatestTreeState(ctx context.Context, _ *walletrpc.Empty) (*walletrpc.TreeState, error) {
	info, err := s.Node.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "GetLatestTreeState: %s", err.Error())
	}
	return s.GetTreeState(ctx, &walletrpc.BlockID{Height: uint64(info.Blocks)})
}

// GetLightdInfo combines node build info, chain info, and embedded build
// metadata into a LightdInfo message.
func (s *Streamer) GetLightdInfo(ctx context.Context, _ *walletrpc.Empty) (*walletrpc.LightdInfo, error) {
	info, err := s.Node.GetInfo(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetLightdInfo: getinfo: %s", err.Error())
	}
	chainInfo, err := s.Node.GetBlockchainInfo(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetLightdInfo: getblockchaininfo: %s", err.Error())
	}

	var saplingHeight int
	if upgrade, ok := chainInfo.Upgrades[saplingConsensusBranchID]; ok {
		saplingHeight = upgrade.ActivationHeight
	}

	return &walletrpc.LightdInfo{
		Version:                 s.Build.Version,
		Vendor:                  s.Build.Vendor,
		TaddrSupport:            true,
		ChainName:               chainInfo.Chain,
		SaplingActivationHeight: uint64(saplingHeight),
		ConsensusBranchId:       chainInfo.Consensus.Chaintip,
		BlockHeight:             uint64(chainInfo.Blocks),
		GitCommit:               s.Build.GitCommit,
		Branch:                  s.Build.Branch,
		BuildDate:               s.Build.BuildDate,
		BuildUser:               s.Build.BuildUser,
		EstimatedHeight:         uint64(chainInfo.EstimatedHeight),
		ZcashdBuild:             info.Build,
		ZcashdSubversion:        info.Subversion,
		DonationAddress:         s.Build.Donation,
	}, nil
}

// Ping echoes back entry/exit timestamps bracketing this call.
func (s *Streamer) Ping(ctx context.Context, in *walletrpc.Duration) (*walletrpc.PingResponse, error) {
	entry := time.Now().UnixMicro()
	if in.IntervalUs > 0 {
		select {
		case <-time.After(time.Duration(in.IntervalUs) * time.Microsecond):
		case <-ctx.Done():
		}
	}
	return &walletrpc.PingResponse{Entry: entry, Exit: time.Now().UnixMicro()}, nil
}

// GetAddressUtxos forwards to getaddressutxos.
func (s *Streamer) GetAddressUtxos(ctx context.Context, arg *walletrpc.GetAddressUtxosArg) (*walletrpc.GetAddressUtxosReplyList, error) {
	if !s.AddressIndexEnabled {
		return nil, status.Error(codes.Unimplemented, "GetAddressUtxos: address index not enabled on this node")
	}
	utxos, err := s.Node.GetAddressUtxos(ctx, arg.Addresses)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "GetAddressUtxos: %s", err.Error())
	}
	reply := &walletrpc.GetAddressUtxosReplyList{}
	for _, u := range utxos {
		if uint64(u.Height) < arg.StartHeight {
			continue
		}
		txidBytes, err := hex.DecodeString(u.Txid)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "GetAddressUtxos: decode txid: %s", err.Error())
		}
		scriptBytes, err := hex.DecodeString(u.Script)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "GetAddressUtxos: decode script: %s", err.Error())
		}
		reply.AddressUtxos = append(reply.AddressUtxos, &walletrpc.GetAddressUtxosReply{
			Address:  u.Address,
			Txid:     txidBytes,
			Index:    int32(u.OutputIndex),
			Script:   scriptBytes,
			ValueZat: int64(u.Satoshis),
			Height:   uint64(u.Height),
		})
		if arg.MaxEntries > 0 && uint32(len(reply.AddressUtxos)) >= arg.MaxEntries {
			break
		}
	}
	return reply, nil
}
