// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package queue

import "testing"

func TestTrySendTryRecvLen(t *testing.T) {
	q := New(2)
	if err := q.TrySend("a"); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if err := q.TrySend("b"); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if q.Len() != 2 {
		t.Errorf("Len = %d, want 2", q.Len())
	}
	if err := q.TrySend("c"); err != ErrFull {
		t.Errorf("TrySend on full queue: err = %v, want ErrFull", err)
	}

	item, err := q.TryRecv()
	if err != nil || item != "a" {
		t.Errorf("TryRecv = (%v, %v), want (a, nil)", item, err)
	}
	if q.Len() != 1 {
		t.Errorf("Len = %d, want 1", q.Len())
	}

	if _, err := q.TryRecv(); err != nil {
		t.Fatalf("TryRecv: %v", err)
	}
	if _, err := q.TryRecv(); err != ErrEmpty {
		t.Errorf("TryRecv on empty queue: err = %v, want ErrEmpty", err)
	}
}

func TestCloseDrainsThenCloses(t *testing.T) {
	q := New(2)
	q.TrySend("a")
	q.Close()

	if err := q.TrySend("b"); err != ErrClosed {
		t.Errorf("TrySend after Close: err = %v, want ErrClosed", err)
	}

	item, err := q.TryRecv()
	if err != nil || item != "a" {
		t.Errorf("TryRecv after Close: (%v, %v), want (a, nil)", item, err)
	}

	if _, err := q.TryRecv(); err != ErrClosed {
		t.Errorf("TryRecv once drained: err = %v, want ErrClosed", err)
	}
}

func TestListenReceivesWhenAvailable(t *testing.T) {
	q := New(1)
	q.TrySend("x")
	stop := make(chan struct{})
	item, err := q.Listen(stop)
	if err != nil || item != "x" {
		t.Errorf("Listen = (%v, %v), want (x, nil)", item, err)
	}
}

func TestListenStopsOnClose(t *testing.T) {
	q := New(1)
	q.Close()
	stop := make(chan struct{})
	_, err := q.Listen(stop)
	if err != ErrClosed {
		t.Errorf("Listen on closed empty queue: err = %v, want ErrClosed", err)
	}
}
