// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package transport

import (
	"net"
	"sync"
)

// SingleConnListener adapts one already-accepted net.Conn into a
// net.Listener that yields it exactly once, so a fresh *grpc.Server can
// be bound to it with Serve; Serve returns once the listener is closed,
// which the server's Stop or GracefulStop does. This is how a worker services a TCP-variant
// request: one call over one accepted connection, then done.
type SingleConnListener struct {
	conn net.Conn
	addr net.Addr

	once   sync.Once
	served chan struct{}
}

// NewSingleConnListener wraps conn.
func NewSingleConnListener(conn net.Conn) *SingleConnListener {
	return &SingleConnListener{conn: conn, addr: conn.LocalAddr(), served: make(chan struct{})}
}

// Accept returns conn on the first call and blocks until Close on every
// call after, matching net.Listener's contract that Accept not return
// until either a connection or a listener-closed error is available.
func (l *SingleConnListener) Accept() (net.Conn, error) {
	var first bool
	l.once.Do(func() { first = true })
	if first {
		return l.conn, nil
	}
	<-l.served
	return nil, net.ErrClosed
}

// Close unblocks any pending Accept. It does not touch the wrapped
// connection: once handed to Accept, the connection's lifecycle
// belongs to whatever accepted it (the gRPC transport), which closes it
// as part of its own teardown.
func (l *SingleConnListener) Close() error {
	select {
	case <-l.served:
	default:
		close(l.served)
	}
	return nil
}

// Addr returns the wrapped connection's local address.
func (l *SingleConnListener) Addr() net.Addr {
	return l.addr
}
