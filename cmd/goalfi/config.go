// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"
)

// Config mirrors the command line flags. Values set by flags win over the
// config file.
type Config struct {
	DataDir        string `yaml:"dataDir"`
	Owner          string `yaml:"owner"`
	Genesis        string `yaml:"genesis"`
	APIAddr        string `yaml:"apiAddr"`
	APICors        string `yaml:"apiCors"`
	APIEventsLimit uint64 `yaml:"apiEventsLimit"`
	EnableAPILogs  bool   `yaml:"enableAPILogs"`
	Pprof          bool   `yaml:"pprof"`
	EnableMetrics  bool   `yaml:"enableMetrics"`
	MetricsAddr    string `yaml:"metricsAddr"`
	Mem            bool   `yaml:"mem"`
}

func loadConfig(ctx *cli.Context) (*Config, error) {
	config := Config{
		DataDir:        dataDirFlag.Value,
		APIAddr:        apiAddrFlag.Value,
		APIEventsLimit: apiEventsLimitFlag.Value,
		MetricsAddr:    metricsAddrFlag.Value,
	}
	if path := ctx.String(configFlag.Name); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WithMessage(err, "read config file")
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.WithMessage(err, "parse config file")
		}
	}

	if ctx.IsSet(dataDirFlag.Name) {
		config.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(ownerFlag.Name) {
		config.Owner = ctx.String(ownerFlag.Name)
	}
	if ctx.IsSet(genesisFlag.Name) {
		config.Genesis = ctx.String(genesisFlag.Name)
	}
	if ctx.IsSet(apiAddrFlag.Name) {
		config.APIAddr = ctx.String(apiAddrFlag.Name)
	}
	if ctx.IsSet(apiCorsFlag.Name) {
		config.APICors = ctx.String(apiCorsFlag.Name)
	}
	if ctx.IsSet(apiEventsLimitFlag.Name) {
		config.APIEventsLimit = ctx.Uint64(apiEventsLimitFlag.Name)
	}
	if ctx.Bool(enableAPILogsFlag.Name) {
		config.EnableAPILogs = true
	}
	if ctx.Bool(pprofFlag.Name) {
		config.Pprof = true
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		config.EnableMetrics = true
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		config.MetricsAddr = ctx.String(metricsAddrFlag.Name)
	}
	if ctx.Bool(memFlag.Name) {
		config.Mem = true
	}
	return &config, nil
}
