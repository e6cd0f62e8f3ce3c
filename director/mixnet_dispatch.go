// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package director

import (
	"context"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zingolabs/zindexer/service"
	"github.com/zingolabs/zindexer/walletrpc"
)

// dispatchMixnetMethod routes a mixnet request's method name to the
// matching unary streamer call. The mixnet transport carries no stream
// semantics, so only the service's unary methods are reachable this
// way; a wallet wanting GetBlockRange-style results over mixnet issues
// one GetLatestBlock/GetTreeState-style call per item instead.
//
// Request bodies arriving over mixnet are passed through as raw bytes:
// GetTransaction uses the body as the txid and SendTransaction as the
// raw transaction, and every other method ignores it. Replies are the
// result's fmt "%+v" text form, the same text the walletrpc types'
// String methods produce; no protobuf encoding is used.
func dispatchMixnetMethod(ctx context.Context, s *service.Streamer, method string, body []byte) ([]byte, error) {
	switch method {
	case "GetLatestBlock":
		r, err := s.GetLatestBlock(ctx, &walletrpc.ChainSpec{})
		return replyBytes(r, err)
	case "GetLatestTreeState":
		r, err := s.GetLatestTreeState(ctx, &walletrpc.Empty{})
		return replyBytes(r, err)
	case "GetLightdInfo":
		r, err := s.GetLightdInfo(ctx, &walletrpc.Empty{})
		return replyBytes(r, err)
	case "GetTransaction":
		r, err := s.GetTransaction(ctx, &walletrpc.TxFilter{Hash: body})
		return replyBytes(r, err)
	case "SendTransaction":
		r, err := s.SendTransaction(ctx, &walletrpc.RawTransaction{Data: body})
		return replyBytes(r, err)
	case "Ping":
		r, err := s.Ping(ctx, &walletrpc.Duration{})
		return replyBytes(r, err)
	default:
		return nil, status.Errorf(codes.Unimplemented, "mixnet dispatch: unsupported method %q", method)
	}
}

func replyBytes(m interface{}, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("%+v", m)), nil
}
