// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package transport

import (
	"net"
	"testing"
	"time"
)

func TestSingleConnListenerYieldsConnOnce(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	lis := NewSingleConnListener(server)

	got, err := lis.Accept()
	if err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	if got != server {
		t.Fatal("first Accept did not return the wrapped connection")
	}

	done := make(chan error, 1)
	go func() {
		_, err := lis.Accept()
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("second Accept returned before Close")
	case <-time.After(20 * time.Millisecond):
	}

	lis.Close()

	select {
	case err := <-done:
		if err != net.ErrClosed {
			t.Fatalf("second Accept err = %v, want net.ErrClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("second Accept did not unblock after Close")
	}
}

func TestSingleConnListenerCloseDoesNotCloseConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	lis := NewSingleConnListener(server)

	if _, err := lis.Accept(); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	lis.Close()

	// The wrapped connection should still be usable; Close only
	// unblocks pending Accept calls.
	written := make(chan error, 1)
	go func() {
		_, err := server.Write([]byte("x"))
		written <- err
	}()
	buf := make([]byte, 1)
	if _, err := client.Read(buf); err != nil {
		t.Fatalf("read from still-open conn: %v", err)
	}
	if err := <-written; err != nil {
		t.Fatalf("write on still-open conn: %v", err)
	}
}

func TestSingleConnListenerAddr(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()
	lis := NewSingleConnListener(server)
	if lis.Addr() != server.LocalAddr() {
		t.Error("Addr() did not return the wrapped connection's local address")
	}
}
