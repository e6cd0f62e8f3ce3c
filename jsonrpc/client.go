// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package jsonrpc implements a minimal JSON-RPC 2.0 client for talking to
// a Zcash-style full node (zcashd or zebrad): request-id generation,
// HTTP basic auth, retry on the node's overload sentinel, and
// IPv4/IPv6 endpoint probing.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// overloadSentinel is the substring a node's HTTP body carries when its
// work queue is full. Only this exact condition is retried; every other
// failure must surface so wallets can react.
const overloadSentinel = "Work queue depth exceeded"

const (
	overloadRetryDelay = 500 * time.Millisecond
	overloadMaxRetries = 5
)

// RPCError is the node's typed `error` field in a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// OverloadError reports that the node's work queue stayed full across
// every retry attempt.
type OverloadError struct {
	Attempts int
}

func (e *OverloadError) Error() string {
	return fmt.Sprintf("node work queue exceeded after %d attempts", e.Attempts)
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      uint64          `json:"id"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client is a JSON-RPC 2.0 client bound to a single node endpoint.
type Client struct {
	uri      string
	user     string
	password string
	httpC    *http.Client
	idSeq    uint64
	log      *logrus.Entry
}

// New constructs a client bound to uri (e.g. "http://127.0.0.1:8232").
// user/password may be empty, in which case no Authorization header is
// sent.
func New(uri, user, password string, log *logrus.Entry) *Client {
	return &Client{
		uri:      uri,
		user:     user,
		password: password,
		httpC:    &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}
}

// Call issues a single JSON-RPC request and decodes result into out (which
// should be a pointer, or nil to discard the result). It retries only on
// the node's overload sentinel, waiting overloadRetryDelay between
// attempts, up to overloadMaxRetries total attempts.
func (c *Client) Call(ctx context.Context, method string, params []json.RawMessage, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= overloadMaxRetries; attempt++ {
		body, err := c.do(ctx, method, params)
		if err != nil {
			if isOverload(err) {
				lastErr = err
				if c.log != nil {
					c.log.WithFields(logrus.Fields{"method": method, "attempt": attempt}).
						Warn("node work queue exceeded, retrying")
				}
				select {
				case <-time.After(overloadRetryDelay):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return err
		}
		var resp response
		if err := json.Unmarshal(body, &resp); err != nil {
			return errors.Wrapf(err, "decoding %s response", method)
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out != nil {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return errors.Wrapf(err, "decoding %s result", method)
			}
		}
		return nil
	}
	return &OverloadError{Attempts: overloadMaxRetries}
}

func isOverload(err error) bool {
	return strings.Contains(err.Error(), overloadSentinel)
}

func (c *Client) do(ctx context.Context, method string, params []json.RawMessage) ([]byte, error) {
	if params == nil {
		params = []json.RawMessage{}
	}
	req := request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddUint64(&c.idSeq, 1),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s request", method)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrapf(err, "building %s request", method)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.user != "" || c.password != "" {
		httpReq.SetBasicAuth(c.user, c.password)
	}
	resp, err := c.httpC.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "posting %s", method)
	}
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, errors.Wrapf(err, "reading %s response body", method)
	}
	if strings.Contains(buf.String(), overloadSentinel) {
		return nil, errors.New(overloadSentinel)
	}
	return buf.Bytes(), nil
}

const (
	probeTimeout  = 3 * time.Second
	probePollWait = 500 * time.Millisecond
	probeRounds   = 3
)

// TestNodeAndReturnURI probes both the IPv4 and IPv6 loopback forms of
// port with a short getinfo call, returning the first that responds.
// If neither answers within probeRounds polls, it returns an error; the
// caller is expected to abort startup.
func TestNodeAndReturnURI(ctx context.Context, port, user, password string, log *logrus.Entry) (string, error) {
	candidates := []string{
		fmt.Sprintf("http://127.0.0.1:%s", port),
		fmt.Sprintf("http://[::1]:%s", port),
	}
	for round := 0; round < probeRounds; round++ {
		for _, uri := range candidates {
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			c := New(uri, user, password, log)
			err := c.Call(probeCtx, "getinfo", nil, nil)
			cancel()
			if err == nil {
				return uri, nil
			}
		}
		select {
		case <-time.After(probePollWait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", errors.Errorf("no node responded on port %s (tried %s)", port, strings.Join(candidates, ", "))
}
