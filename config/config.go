// Copyright (c) 2019-2020 The Zcash developers
// Distributed under the MIT software license, see the accompanying
// file COPYING or https://www.opensource.org/licenses/mit-license.php .

// Package config loads and validates the indexer's TOML configuration
// file, with an optional fallback to a node's zcash.conf for RPC
// credentials.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

// Config is the recognized set of TOML options.
type Config struct {
	TCPActive bool   `toml:"tcp_active"`
	ListenPort uint16 `toml:"listen_port"`

	NymActive   bool   `toml:"nym_active"`
	NymConfPath string `toml:"nym_conf_path"`

	LightwalletdPort uint16 `toml:"lightwalletd_port"`
	ZebradPort       uint16 `toml:"zebrad_port"`

	NodeUser     string `toml:"node_user"`
	NodePassword string `toml:"node_password"`

	MaxQueueSize       uint16 `toml:"max_queue_size"`
	MaxWorkerPoolSize  uint16 `toml:"max_worker_pool_size"`
	IdleWorkerPoolSize uint16 `toml:"idle_worker_pool_size"`
}

// ErrConfig reports a configuration that failed validation; the process
// must abort on this error.
type ErrConfig struct {
	Reason string
}

func (e *ErrConfig) Error() string {
	return "config: " + e.Reason
}

// Load decodes the TOML file at path into a Config and validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decoding config file %s", path)
	}
	if err := Check(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Check validates a Config per the invariant: at least one of
// tcp_active/nym_active must be set, and each active ingestor's
// location must be provided.
func Check(cfg *Config) error {
	if !cfg.TCPActive && !cfg.NymActive {
		return &ErrConfig{Reason: "at least one of tcp_active or nym_active must be true"}
	}
	if cfg.TCPActive && cfg.ListenPort == 0 {
		return &ErrConfig{Reason: "listen_port is required when tcp_active is true"}
	}
	if cfg.NymActive && cfg.NymConfPath == "" {
		return &ErrConfig{Reason: "nym_conf_path is required when nym_active is true"}
	}
	return nil
}

// LoadNodeCredentialsFromZcashConf fills in NodeUser/NodePassword from a
// node's zcash.conf when the TOML config left them blank, following the
// same rpcuser/rpcpassword keys zcashd itself reads. Other zcash.conf
// keys, such as rpcport or rpcbind, are not read.
func LoadNodeCredentialsFromZcashConf(cfg *Config, zcashConfPath string) error {
	if cfg.NodeUser != "" && cfg.NodePassword != "" {
		return nil
	}
	f, err := ini.Load(zcashConfPath)
	if err != nil {
		return errors.Wrapf(err, "reading zcash.conf at %s", zcashConfPath)
	}
	section := f.Section("")
	if cfg.NodeUser == "" {
		cfg.NodeUser = section.Key("rpcuser").String()
	}
	if cfg.NodePassword == "" {
		cfg.NodePassword = section.Key("rpcpassword").String()
	}
	return nil
}
