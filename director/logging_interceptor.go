// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package director

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
)

// loggingInterceptor logs each embedded per-connection call's method,
// duration, and outcome against the peer address, the way a TCP session
// would be attributed in the server's own logs.
func (d *Director) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if d.Log == nil {
		return handler(ctx, req)
	}
	entryLog := peerLogger(d.Log, ctx)
	start := time.Now()

	resp, err := handler(ctx, req)

	fields := entryLog.WithFields(logrus.Fields{
		"method":   info.FullMethod,
		"duration": time.Since(start),
	})
	if err != nil {
		fields.WithError(err).Debug("tcp call failed")
	} else {
		fields.Debug("tcp call served")
	}
	return resp, err
}

// TODO: anonymize the peer address (cryptopan?) before it reaches logs.
func peerLogger(log *logrus.Entry, ctx context.Context) *logrus.Entry {
	if peerInfo, ok := peer.FromContext(ctx); ok {
		return log.WithField("peer_addr", peerInfo.Addr)
	}
	return log.WithField("peer_addr", "unknown")
}
