// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package workerpool runs a pool of workers that consume the shared
// request queue and service each request, either directly over an
// accepted TCP connection or by dispatching to the service layer and
// pushing a mixnet reply.
package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zingolabs/zindexer/queue"
	"github.com/zingolabs/zindexer/status"
	"github.com/zingolabs/zindexer/transport"
)

// WorkerStatus is Spawning/Working/Standby/Closing with a timestamp of
// when the worker entered that state, so the pool can identify idle
// workers eligible for retirement.
type WorkerStatus struct {
	State     status.Status
	Since     time.Time
}

// Handler services a single request. A TCP request is expected to drive
// the accepted connection to completion and close it; a mixnet request
// is expected to return the reply bytes to push to the response queue.
type Handler func(ctx context.Context, req *transport.Request) (replyBody []byte, err error)

const (
	// Standby is a workerpool-local extension of status.Status, reusing
	// its numeric space above the shared terminal values so a worker
	// idling between requests doesn't read as "stopped" to the rest of
	// the system.
	Standby status.Status = 100

	pollInterval      = 50 * time.Millisecond
	defaultIdleRetire = 30 * time.Second
	maxRequeueCount   = 3
)

// Pool runs between IdleSize and MaxSize workers, retiring idle workers
// down to IdleSize but never below it, and never spawning past MaxSize.
type Pool struct {
	MaxSize  int
	IdleSize int

	RequestQ  *queue.Queue
	ResponseQ *queue.Queue
	Handle    Handler
	Online    *status.Online
	Log       *logrus.Entry

	// IdleRetireAfter bounds how long a worker may sit in Standby before
	// it retires, once the pool is above IdleSize. Zero selects
	// defaultIdleRetire.
	IdleRetireAfter time.Duration

	mu      sync.Mutex
	workers map[int]*worker
	nextID  int
}

type worker struct {
	id     int
	status WorkerStatus
	cancel context.CancelFunc
}

// Run spawns IdleSize workers and keeps the pool elastic between
// IdleSize and MaxSize until ctx is cancelled or the online flag flips
// false, at which point every worker is signaled to close and Run
// returns once they've all exited.
func (p *Pool) Run(ctx context.Context) {
	p.workers = make(map[int]*worker)
	if p.IdleRetireAfter == 0 {
		p.IdleRetireAfter = defaultIdleRetire
	}

	var wg sync.WaitGroup
	for i := 0; i < p.IdleSize; i++ {
		p.spawn(ctx, &wg)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if !p.Online.Get() {
			p.closeAll()
			wg.Wait()
			return
		}
		select {
		case <-ticker.C:
			p.scale(ctx, &wg)
		case <-ctx.Done():
			p.closeAll()
			wg.Wait()
			return
		}
	}
}

// scale grows the pool toward MaxSize when the queue is non-empty and no
// worker is idle, and retires workers that have sat in Standby past
// IdleRetireAfter, down to IdleSize.
func (p *Pool) scale(ctx context.Context, wg *sync.WaitGroup) {
	p.mu.Lock()
	n := len(p.workers)
	idleCount := 0
	var retireCandidate *worker
	for _, w := range p.workers {
		if w.status.State == Standby {
			idleCount++
			if time.Since(w.status.Since) > p.IdleRetireAfter {
				retireCandidate = w
			}
		}
	}
	needsGrowth := idleCount == 0 && n < p.MaxSize && p.RequestQ.Len() > 0
	canRetire := retireCandidate != nil && n > p.IdleSize
	var toRetire *worker
	if canRetire {
		toRetire = retireCandidate
		delete(p.workers, toRetire.id)
	}
	p.mu.Unlock()

	if toRetire != nil {
		toRetire.cancel()
	}
	if needsGrowth {
		p.spawn(ctx, wg)
	}
}

func (p *Pool) spawn(ctx context.Context, wg *sync.WaitGroup) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	workerCtx, cancel := context.WithCancel(ctx)
	w := &worker{id: id, status: WorkerStatus{State: status.Spawning, Since: time.Now()}, cancel: cancel}
	p.workers[id] = w
	p.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.serve(workerCtx, w)
	}()
}

func (p *Pool) setState(w *worker, s status.Status) {
	p.mu.Lock()
	w.status = WorkerStatus{State: s, Since: time.Now()}
	p.mu.Unlock()
}

func (p *Pool) serve(ctx context.Context, w *worker) {
	for {
		p.setState(w, Standby)
		item, err := p.RequestQ.Listen(ctx.Done())
		if err != nil {
			p.setState(w, status.Closing)
			return
		}
		req := item.(*transport.Request)
		p.setState(w, status.Working)

		replyBody, err := p.Handle(ctx, req)
		if err != nil {
			if req.Meta.Requeues() < maxRequeueCount {
				if reErr := p.RequestQ.TrySend(req.Requeue()); reErr != nil && p.Log != nil {
					p.Log.WithError(reErr).Warn("workerpool: requeue failed, dropping request")
				}
			} else if p.Log != nil {
				p.Log.WithError(err).Warn("workerpool: request exceeded requeue limit, dropping")
			}
			continue
		}

		if mixnet, ok := req.Mixnet(); ok && replyBody != nil {
			reply := transport.Reply{Body: replyBody, Tag: mixnet.ReplyTag}
			if err := p.ResponseQ.TrySend(reply); err != nil && p.Log != nil {
				p.Log.WithError(err).Warn("workerpool: response queue rejected reply")
			}
		}

		select {
		case <-ctx.Done():
			p.setState(w, status.Closing)
			return
		default:
		}
	}
}

func (p *Pool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range p.workers {
		w.cancel()
	}
}
