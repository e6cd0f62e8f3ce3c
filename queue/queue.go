// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package queue implements a fixed-capacity MPMC queue with an atomic
// length counter, used both for inbound requests and for outbound
// mixnet replies.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrFull is returned by TrySend when the queue is at capacity.
var ErrFull = errors.New("queue: full")

// ErrClosed is returned by TrySend/TryRecv once Close has been called
// and, for TryRecv, once every buffered item has been drained.
var ErrClosed = errors.New("queue: closed")

// ErrEmpty is returned by TryRecv when no item is currently available.
var ErrEmpty = errors.New("queue: empty")

const listenPoll = 50 * time.Millisecond

// Queue is a fixed-capacity multi-producer multi-consumer channel with
// an O(1) length counter, so load-shedding decisions and tests never
// need to probe the underlying channel.
type Queue struct {
	ch       chan interface{}
	length   int64
	closeMu  sync.Mutex
	closed   bool
}

// New constructs a queue with the given capacity.
func New(capacity int) *Queue {
	return &Queue{ch: make(chan interface{}, capacity)}
}

// Len returns the current length: sends minus receives, observed
// atomically at every point any goroutine calls Len.
func (q *Queue) Len() int {
	return int(atomic.LoadInt64(&q.length))
}

// TrySend enqueues item without blocking. It fails with ErrFull when at
// capacity, ErrClosed once Close has been called.
func (q *Queue) TrySend(item interface{}) error {
	q.closeMu.Lock()
	closed := q.closed
	q.closeMu.Unlock()
	if closed {
		return ErrClosed
	}
	select {
	case q.ch <- item:
		atomic.AddInt64(&q.length, 1)
		return nil
	default:
		return ErrFull
	}
}

// TryRecv dequeues an item without blocking. It fails with ErrEmpty when
// nothing is available, ErrClosed once the queue is closed and drained.
func (q *Queue) TryRecv() (interface{}, error) {
	select {
	case item, ok := <-q.ch:
		if !ok {
			return nil, ErrClosed
		}
		atomic.AddInt64(&q.length, -1)
		return item, nil
	default:
		q.closeMu.Lock()
		closed := q.closed
		q.closeMu.Unlock()
		if closed {
			return nil, ErrClosed
		}
		return nil, ErrEmpty
	}
}

// Listen polls TryRecv at a fixed interval until an item is available,
// the queue closes, or stop is closed (which also reports ErrClosed).
func (q *Queue) Listen(stop <-chan struct{}) (interface{}, error) {
	ticker := time.NewTicker(listenPoll)
	defer ticker.Stop()
	for {
		item, err := q.TryRecv()
		switch err {
		case nil:
			return item, nil
		case ErrClosed:
			return nil, ErrClosed
		}
		select {
		case <-ticker.C:
			continue
		case <-stop:
			return nil, ErrClosed
		}
	}
}

// Close marks the queue closed. Buffered items remain receivable via
// TryRecv/Listen until drained, after which they report ErrClosed.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
