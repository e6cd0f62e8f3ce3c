// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package director owns the indexer's lifecycle: it probes the node,
// wires the queue/transport/workerpool components together, and drives
// them from Spawning through Offline on shutdown. It does not validate
// the Config it is given; config.Load does that when the file is loaded.
package director

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/zingolabs/zindexer/config"
	"github.com/zingolabs/zindexer/jsonrpc"
	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/queue"
	"github.com/zingolabs/zindexer/service"
	"github.com/zingolabs/zindexer/status"
	"github.com/zingolabs/zindexer/transport"
	"github.com/zingolabs/zindexer/walletrpc"
	"github.com/zingolabs/zindexer/workerpool"
)

// defaultQueueSize, defaultIdlePool and defaultMaxPool apply when the config leaves the
// corresponding field at zero.
const (
	defaultQueueSize = 256
	defaultIdlePool  = 2
	defaultMaxPool   = 16
)

// Director composes the indexer's components and owns their shared
// lifecycle signals.
type Director struct {
	Cfg   *config.Config
	Node  *jsonrpc.Client
	Build service.BuildInfo
	Log   *logrus.Entry

	// NewMixnetClient constructs a nym client rooted at a config
	// subdirectory; nil when nym transport is disabled.
	NewMixnetClient func(subPath string) (nym.Client, error)

	Online *status.Online

	requestQ  *queue.Queue
	responseQ *queue.Queue
	requeueQ  *queue.Queue

	tcpStatus      *status.Atomic
	mixnetStatus   *status.Atomic
	dispatchStatus *status.Atomic
	poolStatus     *status.Atomic

	metricsOnce sync.Once
}

// New constructs a Director ready to Run. Node must already be
// reachable; Director does not itself probe or retry node connectivity
// beyond what jsonrpc.TestNodeAndReturnURI already performed.
func New(cfg *config.Config, node *jsonrpc.Client, build service.BuildInfo, newMixnetClient func(string) (nym.Client, error), log *logrus.Entry) *Director {
	queueSize := int(cfg.MaxQueueSize)
	if queueSize == 0 {
		queueSize = defaultQueueSize
	}
	return &Director{
		Cfg:             cfg,
		Node:            node,
		Build:           build,
		Log:             log,
		NewMixnetClient: newMixnetClient,
		Online:          status.NewOnline(),
		requestQ:        queue.New(queueSize),
		responseQ:       queue.New(queueSize),
		requeueQ:        queue.New(queueSize),
		tcpStatus:       status.NewAtomic(),
		mixnetStatus:    status.NewAtomic(),
		dispatchStatus:  status.NewAtomic(),
		poolStatus:      status.NewAtomic(),
	}
}

// Run wires and starts every configured component and blocks until ctx
// is cancelled or the online flag is cleared (by Shutdown or a signal
// handler installed by the caller), then waits for every component to
// exit before returning.
func (d *Director) Run(ctx context.Context) error {
	chainInfo, err := d.Node.GetBlockchainInfo(ctx)
	if err != nil {
		return err
	}

	streamer := service.New(d.Node, chainInfo.Chain, d.Build, d.Log)
	streamer.AddressIndexEnabled = probeAddressIndex(ctx, d.Node, d.Log)

	idle := int(d.Cfg.IdleWorkerPoolSize)
	if idle == 0 {
		idle = defaultIdlePool
	}
	maxSize := int(d.Cfg.MaxWorkerPoolSize)
	if maxSize == 0 {
		maxSize = defaultMaxPool
	}

	pool := &workerpool.Pool{
		MaxSize:   maxSize,
		IdleSize:  idle,
		RequestQ:  d.requestQ,
		ResponseQ: d.responseQ,
		Handle:    d.handle(streamer),
		Online:    d.Online,
		Log:       d.Log,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.poolStatus.Store(status.Listening)
		pool.Run(ctx)
		d.poolStatus.Store(status.Offline)
	}()

	if d.Cfg.TCPActive {
		ingestor := &transport.TCPIngestor{
			Addr:   listenAddr(d.Cfg.ListenPort),
			Queue:  d.requestQ,
			Online: d.Online,
			Status: d.tcpStatus,
			Log:    d.Log,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ingestor.Run(ctx); err != nil && d.Log != nil {
				d.Log.WithError(err).Error("tcp ingestor exited")
			}
		}()
	} else {
		d.tcpStatus.Store(status.Offline)
	}

	if d.Cfg.NymActive {
		mixIngestor := &transport.MixnetIngestor{
			ConfPath:  d.Cfg.NymConfPath,
			NewClient: d.NewMixnetClient,
			RequestQ:  d.requestQ,
			Online:    d.Online,
			Status:    d.mixnetStatus,
			Log:       d.Log,
		}
		dispatcher := &transport.Dispatcher{
			ConfPath:  d.Cfg.NymConfPath,
			NewClient: d.NewMixnetClient,
			ResponseQ: d.responseQ,
			RequeueQ:  d.requeueQ,
			Online:    d.Online,
			Status:    d.dispatchStatus,
			Log:       d.Log,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := mixIngestor.Run(ctx); err != nil && d.Log != nil {
				d.Log.WithError(err).Error("mixnet ingestor exited")
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := dispatcher.Run(ctx); err != nil && d.Log != nil {
				d.Log.WithError(err).Error("dispatcher exited")
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.forwardRequeued(ctx)
		}()
	} else {
		d.mixnetStatus.Store(status.Offline)
		d.dispatchStatus.Store(status.Offline)
	}

	<-ctx.Done()
	d.Shutdown()
	wg.Wait()
	return nil
}

// requeueForwardInterval decouples a requeued reply's retry from the
// dispatcher's own drain pass, so a send failure's single requeue
// doesn't get immediately re-read and re-attempted in the same pass.
const requeueForwardInterval = 50 * time.Millisecond

// forwardRequeued moves replies the dispatcher gave up retrying
// directly back onto the response queue for a later pass, once per
// tick rather than inline with the failure that produced them.
func (d *Director) forwardRequeued(ctx context.Context) {
	ticker := time.NewTicker(requeueForwardInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !d.Online.Get() {
				return
			}
			for {
				item, err := d.requeueQ.TryRecv()
				if err != nil {
					break
				}
				if sendErr := d.responseQ.TrySend(item); sendErr != nil && d.Log != nil {
					d.Log.WithError(sendErr).Warn("director: response queue rejected a requeued reply, dropping")
				}
			}
		}
	}
}

// handle adapts the service layer into a workerpool.Handler: a TCP
// request gets a fresh gRPC server embedded on its single accepted
// connection, serving exactly one CompactTxStreamer call before
// closing; a mixnet request is routed to the streamer's unary handlers
// by method name, since the mixnet transport carries no stream
// semantics.
func (d *Director) handle(streamer *service.Streamer) workerpool.Handler {
	return func(ctx context.Context, req *transport.Request) ([]byte, error) {
		if tcp, ok := req.TCP(); ok {
			d.serveOneTCPCall(streamer, tcp.Conn)
			return nil, nil
		}
		mix, ok := req.Mixnet()
		if !ok {
			return nil, nil
		}
		return dispatchMixnetMethod(ctx, streamer, mix.MethodName, mix.Body)
	}
}

// serveOneTCPCall binds a fresh gRPC server to conn via a listener that
// yields it exactly once, and blocks until that single call has been
// served and the connection torn down.
func (d *Director) serveOneTCPCall(streamer *service.Streamer, conn net.Conn) {
	lis := transport.NewSingleConnListener(conn)
	defer lis.Close()

	server := d.newGRPCServer(streamer)
	if err := server.Serve(lis); err != nil && d.Log != nil {
		d.Log.WithError(err).Debug("tcp request: grpc session ended")
	}
}

// Status reports the aggregate lifecycle state across every wired
// component: the least-advanced (numerically smallest) status among
// active components, since the whole system is only as "up" as its
// least-ready part.
func (d *Director) Status() status.Status {
	worst := status.Offline
	for _, s := range []*status.Atomic{d.tcpStatus, d.mixnetStatus, d.dispatchStatus, d.poolStatus} {
		v := s.Load()
		if v < worst {
			worst = v
		}
	}
	return worst
}

// Shutdown flips the online flag false, signaling every component to
// drain and exit; Run's caller should still wait for Run to return
// before assuming teardown is complete.
func (d *Director) Shutdown() {
	d.Online.Set(false)
}

// newGRPCServer builds a fresh per-connection server with the metrics
// interceptors wired in, plus one that ends this connection's
// single-call session once the call in flight returns. GracefulStop
// drains the in-flight response before tearing the connection down, so
// it's triggered asynchronously rather than closing the raw socket
// out from under an unsent reply. grpc_prometheus's collectors are
// process-global, so they're registered once, on the first server
// built; every later server reuses the same interceptor functions
// against them.
func (d *Director) newGRPCServer(streamer *service.Streamer) *grpc.Server {
	var server *grpc.Server
	endSessionAfterCall := func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		go server.GracefulStop()
		return resp, err
	}
	endSessionAfterStream := func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		err := handler(srv, ss)
		go server.GracefulStop()
		return err
	}

	server = grpc.NewServer(
		grpc.StatsHandler(&connStatsHandler{}),
		grpc.StreamInterceptor(grpc_middleware.ChainStreamServer(
			grpc_prometheus.StreamServerInterceptor, endSessionAfterStream,
		)),
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(
			grpc_prometheus.UnaryServerInterceptor, d.loggingInterceptor, endSessionAfterCall,
		)),
	)
	walletrpc.RegisterCompactTxStreamerServer(server, streamer)
	d.metricsOnce.Do(func() {
		grpc_prometheus.EnableHandlingTimeHistogram()
		grpc_prometheus.Register(server)
	})
	return server
}

func listenAddr(port uint16) string {
	return "0.0.0.0:" + strconv.Itoa(int(port))
}

// probeAddressIndex sniffs the node's subversion string to decide whether
// the address-index RPC family (getaddresstxids/getaddressutxos) is
// available: zebrad always indexes addresses, while zcashd only does so
// with -experimentalfeatures=insightexplorer or =lightwalletd enabled. An
// unrecognized subversion or a failed probe disables the address index
// rather than aborting startup, since every other RPC still works without it.
func probeAddressIndex(ctx context.Context, node *jsonrpc.Client, log *logrus.Entry) bool {
	info, err := node.GetInfo(ctx)
	if err != nil {
		log.WithError(err).Warn("could not probe node capabilities; disabling address-index RPCs")
		return false
	}

	switch {
	case strings.Contains(info.Subversion, "/Zebra:"):
		return true

	case strings.Contains(info.Subversion, "/MagicBean:"):
		feats, err := node.GetExperimentalFeatures(ctx)
		if err != nil {
			log.WithError(err).Warn("zcashd backend detected but getexperimentalfeatures failed; disabling address-index RPCs")
			return false
		}
		for _, f := range feats {
			if f == "insightexplorer" || f == "lightwalletd" {
				return true
			}
		}
		log.Warn("zcashd is running without -experimentalfeatures=insightexplorer or =lightwalletd; disabling address-index RPCs")
		return false

	default:
		log.WithField("subversion", info.Subversion).Warn("unrecognized node subversion; disabling address-index RPCs")
		return false
	}
}
