// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package transport implements the dual-transport request server: a TCP
// ingestor, a mixnet ingestor, and the mixnet reply dispatcher, all
// producing into and consuming from a shared queue.Queue.
package transport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/parser/internal/bytestring"
)

// QueueMeta carries queue-time diagnostics common to every request,
// regardless of transport.
type QueueMeta struct {
	ReceivedAt   time.Time
	RequeueCount int
}

// Duration reports how long this request has been alive since it was
// received.
func (m QueueMeta) Duration() time.Duration {
	return time.Since(m.ReceivedAt)
}

// Requeues reports how many times this request has been requeued.
func (m QueueMeta) Requeues() int {
	return m.RequeueCount
}

// Request is the unified envelope for TCP and mixnet ingress. Exactly
// one of TCP or Mixnet is populated, enforced by construction via
// NewTCPRequest/NewMixnetRequest rather than by exported fields a caller
// could mismatch.
type Request struct {
	Meta    QueueMeta
	tcp     *TCPSource
	mixnet  *MixnetSource
}

// TCPSource holds the accepted connection; the worker hands it to an
// embedded gRPC server to service exactly one connection.
type TCPSource struct {
	Conn net.Conn
}

// MixnetSource holds a decoded mixnet request.
type MixnetSource struct {
	ReplyTag   nym.ReplyTag
	RequestID  uint64
	MethodName string
	Body       []byte
}

// NewTCPRequest wraps an accepted TCP connection as a request envelope.
func NewTCPRequest(conn net.Conn) *Request {
	return &Request{
		Meta: QueueMeta{ReceivedAt: time.Now()},
		tcp:  &TCPSource{Conn: conn},
	}
}

// NewMixnetRequest decodes a mixnet wire payload into a request
// envelope. The payload is compact-size framed: a request id, a
// length-prefixed method name, then a length-prefixed body.
func NewMixnetRequest(payload []byte, tag nym.ReplyTag) (*Request, error) {
	if len(payload) == 0 {
		return nil, nym.ErrEmptyMessage
	}
	if !tag.Valid() {
		return nil, nym.ErrEmptyRecipientTag
	}

	s := bytestring.String(payload)
	var id int
	if !s.ReadCompactSize(&id) {
		return nil, errors.New("transport: could not read mixnet request id")
	}
	var method []byte
	if !s.ReadCompactLengthPrefixed((*bytestring.String)(&method)) {
		return nil, errors.New("transport: could not read mixnet method name")
	}
	var body []byte
	if !s.ReadCompactLengthPrefixed((*bytestring.String)(&body)) {
		return nil, errors.New("transport: could not read mixnet body")
	}

	return &Request{
		Meta: QueueMeta{ReceivedAt: time.Now()},
		mixnet: &MixnetSource{
			ReplyTag:   tag,
			RequestID:  uint64(id),
			MethodName: string(method),
			Body:       body,
		},
	}, nil
}

// TCP returns the TCP source and true iff this request arrived over TCP.
func (r *Request) TCP() (*TCPSource, bool) {
	return r.tcp, r.tcp != nil
}

// Mixnet returns the mixnet source and true iff this request arrived
// over the mixnet.
func (r *Request) Mixnet() (*MixnetSource, bool) {
	return r.mixnet, r.mixnet != nil
}

// Requeue returns a copy of the request with its requeue count
// incremented, for re-submission to the queue.
func (r *Request) Requeue() *Request {
	r2 := *r
	r2.Meta.RequeueCount++
	return &r2
}

// writeCompactSize writes length using the same compact-size encoding the
// parser package reads, mirroring its WriteCompactLengthPrefixedLen.
func writeCompactSize(buf *bytes.Buffer, length int) {
	switch {
	case length < 253:
		binary.Write(buf, binary.LittleEndian, uint8(length))
	case length <= 0xffff:
		binary.Write(buf, binary.LittleEndian, byte(253))
		binary.Write(buf, binary.LittleEndian, uint16(length))
	case length <= 0xffffffff:
		binary.Write(buf, binary.LittleEndian, byte(254))
		binary.Write(buf, binary.LittleEndian, uint32(length))
	default:
		binary.Write(buf, binary.LittleEndian, byte(255))
		binary.Write(buf, binary.LittleEndian, uint64(length))
	}
}

// EncodeMixnetReply frames a response body as a compact-size {id, body}
// payload so the client can correlate it back to its request.
func EncodeMixnetReply(id uint64, body []byte) []byte {
	buf := new(bytes.Buffer)
	writeCompactSize(buf, int(id))
	writeCompactSize(buf, len(body))
	buf.Write(body)
	return buf.Bytes()
}

// Reply is a response bound for the mixnet, carried from a worker to the
// dispatcher through the response queue.
type Reply struct {
	Body []byte
	Tag  nym.ReplyTag
}

func (r Reply) String() string {
	return fmt.Sprintf("Reply{%d bytes -> %s}", len(r.Body), r.Tag)
}
