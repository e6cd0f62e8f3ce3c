// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Command zindexer runs the indexer: it loads a TOML config, probes the
// configured node over JSON-RPC, and hands off to the director for the
// life of the process.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zingolabs/zindexer/config"
	"github.com/zingolabs/zindexer/director"
	"github.com/zingolabs/zindexer/jsonrpc"
	"github.com/zingolabs/zindexer/nym"
	"github.com/zingolabs/zindexer/service"
)

// Build-info strings, wired at build time via -ldflags. In a plain
// `go build` they are blank, except Version, which defaults to v0.1.0.
var (
	GitCommit = ""
	GitBranch = ""
	BuildDate = ""
	BuildUser = ""
	Version   = "v0.1.0"
)

var (
	cfgPath       string
	zcashConfPath string
	metricsAddr   string
	logLevel      uint32
)

var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "zindexer",
	Short: "zindexer is a backend indexer for Zcash light wallets",
	Long: `zindexer combines a JSON-RPC client to a full node with local
compact-block parsing, a mempool tracker, and a dual-transport
(TCP and mixnet) request server behind the CompactTxStreamer service.`,
	RunE: run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zindexer %s (commit %s, branch %s, built %s by %s)\n",
			Version, GitCommit, GitBranch, BuildDate, BuildUser)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "./zindexer.toml", "path to the TOML config file")
	rootCmd.Flags().StringVar(&zcashConfPath, "zcash-conf-path", "", "optional zcash.conf to pull RPC credentials from when the config omits them")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "127.0.0.1:9068", "address to serve /metrics on")
	rootCmd.Flags().Uint32Var(&logLevel, "log-level", uint32(logrus.InfoLevel), "log level (logrus 1-7)")
	rootCmd.AddCommand(versionCmd)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger.SetLevel(logrus.Level(logLevel))
	log := logger.WithFields(logrus.Fields{"app": "zindexer"})

	log.WithFields(logrus.Fields{
		"gitCommit": GitCommit,
		"gitBranch": GitBranch,
		"buildDate": BuildDate,
		"buildUser": BuildUser,
	}).Infof("starting zindexer %s", Version)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if zcashConfPath != "" {
		if err := config.LoadNodeCredentialsFromZcashConf(cfg, zcashConfPath); err != nil {
			log.WithError(err).Fatal("reading zcash.conf")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nodeURI, err := jsonrpc.TestNodeAndReturnURI(ctx, strconv.Itoa(int(cfg.ZebradPort)), cfg.NodeUser, cfg.NodePassword, log)
	if err != nil {
		log.WithError(err).Fatal("could not reach the configured node")
	}
	node := jsonrpc.New(nodeURI, cfg.NodeUser, cfg.NodePassword, log)

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(metricsAddr, nil); err != nil && log != nil {
			log.WithError(err).Warn("metrics server exited")
		}
	}()

	build := service.BuildInfo{
		GitCommit: GitCommit,
		Branch:    GitBranch,
		BuildDate: BuildDate,
		BuildUser: BuildUser,
		Version:   Version,
	}

	d := director.New(cfg, node, build, newMixnetClient, log)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-signals
		log.WithField("signal", s.String()).Info("caught signal, shutting down")
		d.Shutdown()
		cancel()
	}()

	if err := d.Run(ctx); err != nil {
		log.WithError(err).Fatal("director exited with error")
	}
	log.Info("zindexer stopped")
	return nil
}

// newMixnetClient is the nym.Client constructor wired into the
// director when nym_active is set. No mixnet SDK exists in this
// module's dependency set (see the nym package doc comment), so this
// reports a clear startup error rather than leaving nym_active
// configs to fail with a nil-pointer panic once a real SDK is chosen.
func newMixnetClient(subPath string) (nym.Client, error) {
	return nil, fmt.Errorf("nym_active is set but no mixnet client implementation is wired into this build (subpath %q)", subPath)
}
