// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package jsonrpc

import (
	"context"
	"encoding/json"
)

// The following are JSON zcashd/zebrad rpc request/reply shapes. Only the
// fields the indexer needs are modeled; the rest of each reply is ignored.
type (
	Upgradeinfo struct {
		Name             string
		ActivationHeight int
		Status           string // "active" | "pending"
	}

	ConsensusInfo struct {
		Nextblock string
		Chaintip  string
	}

	BlockchainInfo struct {
		Chain           string
		Upgrades        map[string]Upgradeinfo
		Blocks          int
		BestBlockHash   string
		Consensus       ConsensusInfo
		EstimatedHeight int
	}

	Info struct {
		Build      string
		Subversion string
	}

	GetblockVerbose struct {
		Hash  string
		Tx    []string
		Trees struct {
			Sapling struct {
				Size uint32
			}
			Orchard struct {
				Size uint32
			}
		}
	}

	Treestate struct {
		Height  int
		Hash    string
		Time    uint32
		Sapling struct {
			Commitments struct {
				FinalState string
			}
			SkipHash string
		}
		Orchard struct {
			Commitments struct {
				FinalState string
			}
			SkipHash string
		}
	}

	RawTransactionVerbose struct {
		Hex    string
		Height int64
	}

	AddressBalance struct {
		Balance int64
	}

	AddressUtxo struct {
		Address     string
		Txid        string
		OutputIndex int64
		Script      string
		Satoshis    uint64
		Height      int
	}

	Subtree struct {
		Root       string
		EndHeight  int `json:"end_height"`
	}

	SubtreesByIndex struct {
		Pool        string
		StartIndex  int `json:"start_index"`
		Subtrees    []Subtree
	}
)

func raw(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err) // only ever called with trivially marshalable values
	}
	return b
}

func (c *Client) GetInfo(ctx context.Context) (*Info, error) {
	var out Info
	if err := c.Call(ctx, "getinfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetExperimentalFeatures returns zcashd's enabled -experimentalfeatures
// list. zebrad has no such RPC; callers should only invoke this after
// identifying a zcashd backend via Info.Subversion.
func (c *Client) GetExperimentalFeatures(ctx context.Context) ([]string, error) {
	var feats []string
	if err := c.Call(ctx, "getexperimentalfeatures", nil, &feats); err != nil {
		return nil, err
	}
	return feats, nil
}

func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	var out BlockchainInfo
	if err := c.Call(ctx, "getblockchaininfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBlock fetches a block by height or hash string, at the given
// verbosity (0 = raw hex, 1 = verbose JSON). out must match verbosity:
// *string for 0, *GetblockVerbose for 1.
func (c *Client) GetBlock(ctx context.Context, hashOrHeight string, verbosity int, out interface{}) error {
	params := []json.RawMessage{raw(hashOrHeight), raw(verbosity)}
	return c.Call(ctx, "getblock", params, out)
}

func (c *Client) GetBestBlockHash(ctx context.Context) (string, error) {
	var hash string
	if err := c.Call(ctx, "getbestblockhash", nil, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (c *Client) GetRawMempool(ctx context.Context) ([]string, error) {
	var txids []string
	if err := c.Call(ctx, "getrawmempool", nil, &txids); err != nil {
		return nil, err
	}
	return txids, nil
}

func (c *Client) GetTreestate(ctx context.Context, hashOrHeight string) (*Treestate, error) {
	var out Treestate
	params := []json.RawMessage{raw(hashOrHeight)}
	if err := c.Call(ctx, "z_gettreestate", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSubtreesByIndex(ctx context.Context, pool string, start int, limit int) (*SubtreesByIndex, error) {
	var out SubtreesByIndex
	params := []json.RawMessage{raw(pool), raw(start)}
	if limit > 0 {
		params = append(params, raw(limit))
	}
	if err := c.Call(ctx, "z_getsubtreesbyindex", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRawTransaction fetches a transaction by txid. When verbose is false,
// out must be *string (raw hex); when true, out must be
// *RawTransactionVerbose.
func (c *Client) GetRawTransaction(ctx context.Context, txid string, verbose bool, out interface{}) error {
	v := 0
	if verbose {
		v = 1
	}
	params := []json.RawMessage{raw(txid), raw(v)}
	return c.Call(ctx, "getrawtransaction", params, out)
}

func (c *Client) GetAddressTxids(ctx context.Context, addresses []string, start, end uint64) ([]string, error) {
	arg := struct {
		Addresses []string `json:"addresses"`
		Start     uint64   `json:"start"`
		End       uint64   `json:"end,omitempty"`
	}{Addresses: addresses, Start: start, End: end}
	var txids []string
	params := []json.RawMessage{raw(arg)}
	if err := c.Call(ctx, "getaddresstxids", params, &txids); err != nil {
		return nil, err
	}
	return txids, nil
}

func (c *Client) GetAddressBalance(ctx context.Context, addresses []string) (*AddressBalance, error) {
	arg := struct {
		Addresses []string `json:"addresses"`
	}{Addresses: addresses}
	var out AddressBalance
	params := []json.RawMessage{raw(arg)}
	if err := c.Call(ctx, "getaddressbalance", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAddressUtxos(ctx context.Context, addresses []string) ([]AddressUtxo, error) {
	arg := struct {
		Addresses []string `json:"addresses"`
	}{Addresses: addresses}
	var out []AddressUtxo
	params := []json.RawMessage{raw(arg)}
	if err := c.Call(ctx, "getaddressutxos", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SendRawTransaction(ctx context.Context, hexData string) (string, error) {
	var hash string
	params := []json.RawMessage{raw(hexData)}
	if err := c.Call(ctx, "sendrawtransaction", params, &hash); err != nil {
		return "", err
	}
	return hash, nil
}
