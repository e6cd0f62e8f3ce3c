// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package mempool tracks a full node's mempool: tip changes and the
// current transaction-id set, in arrival order.
package mempool

import (
	"context"
	"sync"
	"time"

	"github.com/zingolabs/zindexer/jsonrpc"
)

// Tracker holds mempool state. Each field is independently lockable so
// concurrent readers never block on a writer refreshing an unrelated
// field; callers SHOULD still serialize Update calls per instance.
type Tracker struct {
	node *jsonrpc.Client

	tipMu sync.Mutex
	tip   string // best_block_hash; "" means unset

	txMu      sync.Mutex
	txids     []string
	seenTxids map[string]struct{}

	syncMu   sync.Mutex
	lastSync time.Time
}

// New constructs a tracker bound to node.
func New(node *jsonrpc.Client) *Tracker {
	return &Tracker{
		node:      node,
		seenTxids: make(map[string]struct{}),
	}
}

// Update refreshes last-sync time, detects a tip change (clearing the
// tracked txid set on change), and folds in any newly observed mempool
// txids. It returns true iff the tip changed since the previous Update.
func (t *Tracker) Update(ctx context.Context) (bool, error) {
	t.syncMu.Lock()
	t.lastSync = time.Now()
	t.syncMu.Unlock()

	info, err := t.node.GetBlockchainInfo(ctx)
	if err != nil {
		return false, err
	}

	t.tipMu.Lock()
	tipChanged := info.BestBlockHash != t.tip
	if tipChanged {
		t.tip = info.BestBlockHash
	}
	t.tipMu.Unlock()

	if tipChanged {
		t.txMu.Lock()
		t.txids = nil
		t.seenTxids = make(map[string]struct{})
		t.txMu.Unlock()
	}

	mempoolTxids, err := t.node.GetRawMempool(ctx)
	if err != nil {
		return tipChanged, err
	}

	t.txMu.Lock()
	for _, txid := range mempoolTxids {
		if _, ok := t.seenTxids[txid]; ok {
			continue
		}
		t.seenTxids[txid] = struct{}{}
		t.txids = append(t.txids, txid)
	}
	t.txMu.Unlock()

	return tipChanged, nil
}

// GetMempoolTxids returns a snapshot of the tracked txids in arrival
// order within the current tip epoch.
func (t *Tracker) GetMempoolTxids() []string {
	t.txMu.Lock()
	defer t.txMu.Unlock()
	out := make([]string, len(t.txids))
	copy(out, t.txids)
	return out
}

// GetBestBlockHash returns the last observed tip hash, or "" if none has
// been observed yet.
func (t *Tracker) GetBestBlockHash() string {
	t.tipMu.Lock()
	defer t.tipMu.Unlock()
	return t.tip
}

// LastSync returns the time of the most recent Update call.
func (t *Tracker) LastSync() time.Time {
	t.syncMu.Lock()
	defer t.syncMu.Unlock()
	return t.lastSync
}
