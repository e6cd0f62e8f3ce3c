// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/queue"
	"github.com/zingolabs/zindexer/status"
	"github.com/zingolabs/zindexer/transport"
)

func TestPoolServicesMixnetRequestsAndPushesReplies(t *testing.T) {
	reqQ := queue.New(8)
	respQ := queue.New(8)
	online := status.NewOnline()

	var handled int32
	p := &Pool{
		MaxSize:   2,
		IdleSize:  1,
		RequestQ:  reqQ,
		ResponseQ: respQ,
		Online:    online,
		Handle: func(ctx context.Context, req *transport.Request) ([]byte, error) {
			atomic.AddInt32(&handled, 1)
			return []byte("handled"), nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	req, err := transport.NewMixnetRequest(encodeTestRequest(t, 1, "ping", []byte("x")), nym.ReplyTag("tag"))
	if err != nil {
		t.Fatalf("NewMixnetRequest: %v", err)
	}
	if err := reqQ.TrySend(req); err != nil {
		t.Fatalf("TrySend: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&handled) == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the request to be handled")
		case <-time.After(10 * time.Millisecond):
		}
	}

	var reply interface{}
	for {
		item, err := respQ.TryRecv()
		if err == nil {
			reply = item
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for a reply on the response queue")
		case <-time.After(10 * time.Millisecond):
		}
	}
	r := reply.(transport.Reply)
	if string(r.Body) != "handled" || r.Tag != "tag" {
		t.Errorf("reply = %+v, want body=handled tag=tag", r)
	}

	online.Set(false)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not shut down")
	}
}

func encodeTestRequest(t *testing.T, id uint64, method string, body []byte) []byte {
	t.Helper()
	// Mirrors transport's own compact-size framing; duplicated here
	// rather than exported since it's wire-format detail, not API.
	var buf []byte
	buf = appendCompactSize(buf, int(id))
	buf = appendCompactSize(buf, len(method))
	buf = append(buf, method...)
	buf = appendCompactSize(buf, len(body))
	buf = append(buf, body...)
	return buf
}

func appendCompactSize(buf []byte, n int) []byte {
	switch {
	case n < 253:
		return append(buf, byte(n))
	default:
		// test helper only ever frames small values
		panic("unsupported length in test helper")
	}
}
