// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package mempool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/zingolabs/zindexer/jsonrpc"
)

type rpcStub struct {
	bestBlockHash string
	mempool       []string
}

func newStubServer(t *testing.T, stub *rpcStub) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     uint64 `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		var result interface{}
		switch req.Method {
		case "getblockchaininfo":
			result = map[string]interface{}{"bestblockhash": stub.bestBlockHash}
		case "getrawmempool":
			result = stub.mempool
		default:
			t.Fatalf("unexpected method %q", req.Method)
		}
		resultJSON, _ := json.Marshal(result)
		resp := map[string]json.RawMessage{"id": json.RawMessage("1"), "result": resultJSON}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestUpdateDetectsTipChangeAndDedupes(t *testing.T) {
	stub := &rpcStub{bestBlockHash: "aaaa", mempool: []string{"t1", "t2"}}
	srv := newStubServer(t, stub)
	defer srv.Close()

	tr := New(jsonrpc.New(srv.URL, "", "", nil))

	changed, err := tr.Update(context.Background())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !changed {
		t.Error("first Update: tip should be reported changed")
	}
	if got := tr.GetMempoolTxids(); !reflect.DeepEqual(got, []string{"t1", "t2"}) {
		t.Errorf("txids = %v, want [t1 t2]", got)
	}

	// Same tip, one new txid: no tip change, txids appended in order.
	stub.mempool = []string{"t1", "t2", "t3"}
	changed, err = tr.Update(context.Background())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if changed {
		t.Error("second Update: tip should not be reported changed")
	}
	if got := tr.GetMempoolTxids(); !reflect.DeepEqual(got, []string{"t1", "t2", "t3"}) {
		t.Errorf("txids = %v, want [t1 t2 t3]", got)
	}

	// Tip changes: txids reset.
	stub.bestBlockHash = "bbbb"
	stub.mempool = []string{"t4"}
	changed, err = tr.Update(context.Background())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !changed {
		t.Error("third Update: tip should be reported changed")
	}
	if got := tr.GetMempoolTxids(); !reflect.DeepEqual(got, []string{"t4"}) {
		t.Errorf("txids after reorg = %v, want [t4]", got)
	}
	if got := tr.GetBestBlockHash(); got != "bbbb" {
		t.Errorf("GetBestBlockHash = %q, want bbbb", got)
	}
}
