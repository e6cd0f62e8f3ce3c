// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package director

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zingolabs/zindexer/config"
	"github.com/zingolabs/zindexer/jsonrpc"
	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/service"
	"github.com/zingolabs/zindexer/status"
)

func newTestNode(t *testing.T) *jsonrpc.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     uint64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		result, _ := json.Marshal(jsonrpc.BlockchainInfo{Chain: "test", Blocks: 1})
		json.NewEncoder(w).Encode(struct {
			ID     uint64          `json:"id"`
			Result json.RawMessage `json:"result"`
		}{ID: req.ID, Result: result})
	}))
	t.Cleanup(srv.Close)
	return jsonrpc.New(srv.URL, "", "", nil)
}

func TestStatusReflectsLeastReadyComponent(t *testing.T) {
	d := New(&config.Config{TCPActive: true, ListenPort: 0}, newTestNode(t), service.BuildInfo{}, nil, nil)
	d.tcpStatus.Store(status.Listening)
	d.mixnetStatus.Store(status.Offline)
	d.dispatchStatus.Store(status.Offline)
	d.poolStatus.Store(status.Working)

	if got := d.Status(); got != status.Listening {
		t.Errorf("Status() = %v, want Listening (the least-ready component)", got)
	}
}

func TestShutdownFlipsOnline(t *testing.T) {
	d := New(&config.Config{TCPActive: true, ListenPort: 0}, newTestNode(t), service.BuildInfo{}, nil, nil)
	if !d.Online.Get() {
		t.Fatal("expected a new Director to start online")
	}
	d.Shutdown()
	if d.Online.Get() {
		t.Error("Shutdown did not flip online false")
	}
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	d := New(&config.Config{TCPActive: true, ListenPort: 0}, newTestNode(t), service.BuildInfo{}, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// give the TCP ingestor a moment to bind before tearing down
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestForwardRequeuedMovesItemsToResponseQueue(t *testing.T) {
	d := New(&config.Config{NymActive: true, NymConfPath: "/tmp"}, newTestNode(t), service.BuildInfo{}, func(string) (nym.Client, error) {
		return nil, nil
	}, nil)

	if err := d.requeueQ.TrySend("payload"); err != nil {
		t.Fatalf("TrySend: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.forwardRequeued(ctx)
		close(done)
	}()
	<-done

	item, err := d.responseQ.TryRecv()
	if err != nil {
		t.Fatalf("expected a forwarded item on the response queue: %v", err)
	}
	if item.(string) != "payload" {
		t.Errorf("item = %v, want payload", item)
	}
}
