// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package transport

import (
	"bytes"
	"testing"

	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/parser/internal/bytestring"
)

func encodeMixnetRequest(id uint64, method string, body []byte) []byte {
	buf := new(bytes.Buffer)
	writeCompactSize(buf, int(id))
	writeCompactSize(buf, len(method))
	buf.WriteString(method)
	writeCompactSize(buf, len(body))
	buf.Write(body)
	return buf.Bytes()
}

func TestNewMixnetRequestRoundTrip(t *testing.T) {
	payload := encodeMixnetRequest(7, "getlatestblock", []byte("body-bytes"))
	req, err := NewMixnetRequest(payload, nym.ReplyTag("tag-1"))
	if err != nil {
		t.Fatalf("NewMixnetRequest: %v", err)
	}
	m, ok := req.Mixnet()
	if !ok {
		t.Fatal("expected a mixnet source")
	}
	if m.RequestID != 7 || m.MethodName != "getlatestblock" || string(m.Body) != "body-bytes" {
		t.Errorf("decoded = %+v, want id=7 method=getlatestblock body=body-bytes", m)
	}
	if m.ReplyTag != "tag-1" {
		t.Errorf("ReplyTag = %q, want tag-1", m.ReplyTag)
	}
	if _, ok := req.TCP(); ok {
		t.Error("a mixnet request must not report a TCP source")
	}
}

func TestNewMixnetRequestRejectsEmptyPayloadOrTag(t *testing.T) {
	if _, err := NewMixnetRequest(nil, nym.ReplyTag("tag")); err != nym.ErrEmptyMessage {
		t.Errorf("empty payload: err = %v, want ErrEmptyMessage", err)
	}
	payload := encodeMixnetRequest(1, "m", []byte("b"))
	if _, err := NewMixnetRequest(payload, nym.ReplyTag("")); err != nym.ErrEmptyRecipientTag {
		t.Errorf("empty tag: err = %v, want ErrEmptyRecipientTag", err)
	}
}

func TestRequeueIncrementsCount(t *testing.T) {
	req := NewTCPRequest(nil)
	req2 := req.Requeue()
	if req2.Meta.Requeues() != 1 {
		t.Errorf("Requeues() = %d, want 1", req2.Meta.Requeues())
	}
	if req.Meta.Requeues() != 0 {
		t.Error("Requeue must not mutate the original envelope")
	}
}

func TestEncodeMixnetReplyFramesIDAndBody(t *testing.T) {
	encoded := EncodeMixnetReply(9, []byte("reply-body"))

	s := bytestring.String(encoded)
	var id int
	if !s.ReadCompactSize(&id) {
		t.Fatal("could not read reply id")
	}
	var body bytestring.String
	if !s.ReadCompactLengthPrefixed(&body) {
		t.Fatal("could not read reply body")
	}
	if id != 9 || string(body) != "reply-body" {
		t.Errorf("decoded reply = (id=%d, body=%q), want (9, reply-body)", id, body)
	}
	if !s.Empty() {
		t.Error("unexpected trailing bytes after decoding reply")
	}
}
