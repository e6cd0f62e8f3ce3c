// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package nym models the boundary to an external mixnet SDK. No such SDK
// exists in this module's dependency set, so this package defines the
// narrow interface the rest of the indexer needs and nothing more;
// wiring a concrete implementation (e.g. a Nym client) means providing a
// Client that satisfies this interface.
package nym

import "context"

// IncomingMessage is a single message received from the mixnet, carrying
// the opaque payload and the tag the sender expects a reply addressed
// to.
type IncomingMessage struct {
	Payload   []byte
	SenderTag ReplyTag
}

// ReplyTag is a one-shot address used to reply to a mixnet request
// without revealing the original sender. An empty tag is invalid.
type ReplyTag string

// Valid reports whether the tag is non-empty.
func (t ReplyTag) Valid() bool {
	return t != ""
}

// ErrEmptyMessage is returned by transport.NewMixnetRequest when a
// received message carried no payload.
var ErrEmptyMessage = clientError("nym: empty message payload")

// ErrEmptyRecipientTag is returned by transport.NewMixnetRequest when a
// received message carried no sender reply tag.
var ErrEmptyRecipientTag = clientError("nym: empty recipient tag")

type clientError string

func (e clientError) Error() string { return string(e) }

// Client is the subset of an external mixnet SDK's client this indexer
// depends on: a single bidirectional channel addressed by reply tags.
type Client interface {
	// Address returns this client's own mixnet address, suitable for
	// logging so operators can tell wallet clients where to connect.
	Address() string

	// Recv blocks until the next incoming message arrives or ctx is
	// cancelled.
	Recv(ctx context.Context) (*IncomingMessage, error)

	// Send addresses bytes to tag.
	Send(ctx context.Context, tag ReplyTag, payload []byte) error

	// Close releases the underlying mixnet connection.
	Close() error
}
