// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCallBasicAuthAndID(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	var gotID uint64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		gotID = req.ID
		w.Write([]byte(`{"id":1,"jsonrpc":"2.0","result":"regtest","error":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "alice", "hunter2", nil)
	var chain string
	if err := c.Call(context.Background(), "getblockchaininfo", nil, &chain); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if chain != "regtest" {
		t.Errorf("result = %q, want regtest", chain)
	}
	if !gotOK || gotUser != "alice" || gotPass != "hunter2" {
		t.Errorf("basic auth = (%q,%q,%v), want (alice,hunter2,true)", gotUser, gotPass, gotOK)
	}
	if gotID != 1 {
		t.Errorf("id = %d, want 1", gotID)
	}

	// A second call must use a higher id.
	gotID = 0
	if err := c.Call(context.Background(), "getblockchaininfo", nil, &chain); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if gotID != 2 {
		t.Errorf("second id = %d, want 2", gotID)
	}
}

func TestCallOverloadRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.Write([]byte(`Work queue depth exceeded`))
			return
		}
		w.Write([]byte(`{"id":1,"jsonrpc":"2.0","result":42,"error":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", nil)
	var height int
	if err := c.Call(context.Background(), "getblockcount", nil, &height); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if height != 42 {
		t.Errorf("result = %d, want 42", height)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestCallRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"jsonrpc":"2.0","result":null,"error":{"code":-5,"message":"No such transaction"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", nil)
	err := c.Call(context.Background(), "getrawtransaction", nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	rpcErr, ok := err.(*RPCError)
	if !ok {
		t.Fatalf("err = %T, want *RPCError", err)
	}
	if rpcErr.Code != -5 {
		t.Errorf("code = %d, want -5", rpcErr.Code)
	}
}
