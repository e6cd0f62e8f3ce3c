// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

package transport

import (
	"context"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/queue"
	"github.com/zingolabs/zindexer/status"
)

// Dispatcher consumes mixnet replies from the response queue and sends
// them via its own, exclusively-owned mixnet client. A send failure gets
// one requeue attempt; if that also fails the dispatcher transitions to
// Error and exits.
type Dispatcher struct {
	ConfPath  string
	NewClient func(subPath string) (nym.Client, error)
	ResponseQ *queue.Queue
	RequeueQ  *queue.Queue
	Online    *status.Online
	Status    *status.Atomic
	Log       *logrus.Entry
}

// Run drives the dispatcher's send loop until shutdown or a terminal
// requeue failure.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.Status.Store(status.Spawning)
	client, err := d.NewClient(filepath.Join(d.ConfPath, "dispatcher"))
	if err != nil {
		d.Status.Store(status.Error)
		return err
	}
	defer client.Close()
	d.Status.Store(status.Working)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		if !d.Online.Get() || d.Status.Load() == status.Closing {
			d.Status.Store(status.Closing)
			return nil
		}

		processed := false
		for {
			item, err := d.ResponseQ.TryRecv()
			if err != nil {
				break
			}
			processed = true
			reply := item.(Reply)
			if sendErr := client.Send(ctx, reply.Tag, reply.Body); sendErr != nil {
				d.Log.WithError(sendErr).Warn("dispatcher: send failed, requeuing once")
				if reqErr := d.RequeueQ.TrySend(reply); reqErr != nil {
					d.Log.WithError(reqErr).Error("dispatcher: requeue failed, transitioning to Error")
					d.Status.Store(status.Error)
					return reqErr
				}
			}
		}
		if processed {
			continue
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			d.Status.Store(status.Closing)
			return nil
		}
	}
}
