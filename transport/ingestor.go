// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package transport

import (
	"context"
	"net"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/queue"
	"github.com/zingolabs/zindexer/status"
)

const heartbeat = 50 * time.Millisecond

// TCPIngestor binds a TCP listener and feeds accepted connections into a
// shared request queue as TCP-variant requests.
type TCPIngestor struct {
	Addr   string
	Queue  *queue.Queue
	Online *status.Online
	Status *status.Atomic
	Log    *logrus.Entry
}

// Run binds the listener and accepts connections until the online flag
// flips false or the status is driven to Closing from outside.
func (in *TCPIngestor) Run(ctx context.Context) error {
	in.Status.Store(status.Spawning)
	lc := net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", in.Addr)
	if err != nil {
		in.Status.Store(status.Error)
		return err
	}
	defer listener.Close()
	in.Status.Store(status.Listening)

	type acceptResult struct {
		conn net.Conn
		err  error
	}
	accepted := make(chan acceptResult, 1)
	go func() {
		for {
			conn, err := listener.Accept()
			accepted <- acceptResult{conn, err}
			if err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		if !in.Online.Get() || in.Status.Load().ShouldStop() {
			in.Status.Store(status.Closing)
			return nil
		}
		select {
		case res := <-accepted:
			if res.err != nil {
				in.Log.WithError(res.err).Warn("tcp ingestor: accept error")
				continue
			}
			req := NewTCPRequest(res.conn)
			if err := in.Queue.TrySend(req); err != nil {
				in.Log.WithError(err).Warn("tcp ingestor: queue rejected connection")
				res.conn.Close()
			}
		case <-ticker.C:
			continue
		case <-ctx.Done():
			in.Status.Store(status.Closing)
			return nil
		}
	}
}

// MixnetIngestor spawns a mixnet client and feeds incoming messages into
// the shared request queue. Replying is the Dispatcher's job: it owns a
// separate mixnet client so the ingestor and dispatcher never share one.
type MixnetIngestor struct {
	ConfPath  string
	NewClient func(subPath string) (nym.Client, error)
	RequestQ  *queue.Queue
	Online    *status.Online
	Status    *status.Atomic
	Log       *logrus.Entry
}

// Run drives the ingestor's receive loop until shutdown. It only
// produces onto RequestQ; replies are sent by the Dispatcher.
func (in *MixnetIngestor) Run(ctx context.Context) error {
	in.Status.Store(status.Spawning)
	client, err := in.NewClient(filepath.Join(in.ConfPath, "ingestor"))
	if err != nil {
		in.Status.Store(status.Error)
		return err
	}
	defer client.Close()
	in.Log.Infof("mixnet ingestor listening at %s", client.Address())
	in.Status.Store(status.Listening)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		if !in.Online.Get() || in.Status.Load().ShouldStop() {
			in.Status.Store(status.Closing)
			return nil
		}

		recvCtx, cancel := context.WithTimeout(ctx, heartbeat)
		msg, err := client.Recv(recvCtx)
		cancel()
		if err == nil {
			req, err := NewMixnetRequest(msg.Payload, msg.SenderTag)
			if err != nil {
				in.Log.WithError(err).Warn("mixnet ingestor: malformed request")
			} else if err := in.RequestQ.TrySend(req); err != nil {
				in.Log.WithError(err).Warn("mixnet ingestor: request queue rejected message")
			}
		} else if ctx.Err() != nil {
			in.Status.Store(status.Closing)
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			in.Status.Store(status.Closing)
			return nil
		}
	}
}
