// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/sg-milad/GoalFi-Tracker/api"
	"github.com/sg-milad/GoalFi-Tracker/goalfi"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
	"github.com/sg-milad/GoalFi-Tracker/log"
	"github.com/sg-milad/GoalFi-Tracker/state"
	"github.com/sg-milad/GoalFi-Tracker/token"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "GoalFi",
		Usage:     "Commitment ledger node",
		Copyright: "2026 The GoalFi developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			ownerFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			memFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if !config.Mem {
		makeDataDir(config)
	}

	mainDB := openMainDB(config)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(config)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	st := state.New(mainDB)
	tok := token.NewStateToken(goalfi.TokenAddress, st)
	ldgr := ledger.New(goalfi.CustodyAddress, st, tok.Binding(goalfi.CustodyAddress))

	owner, err := ldgr.Owner()
	if err != nil {
		return err
	}
	if owner.IsZero() {
		parsed, err := goalfi.ParseAddress(config.Owner)
		if err != nil {
			return fmt.Errorf("owner address required on first start: %v", err)
		}
		if err := ldgr.Initialize(*parsed); err != nil {
			return err
		}
		owner = *parsed
		logger.Info("ledger initialized", "owner", owner)

		if config.Genesis != "" {
			gene, err := loadGenesis(config.Genesis)
			if err != nil {
				return err
			}
			if err := applyGenesis(gene, tok, goalfi.CustodyAddress); err != nil {
				return err
			}
			if err := st.Commit(); err != nil {
				return err
			}
			logger.Info("genesis allocations funded", "count", len(gene.Allocations))
		}
	}

	if config.EnableMetrics {
		metricsSrv := startMetricsServer(config.MetricsAddr)
		defer func() { logger.Info("stopping metrics server..."); shutdownServer(metricsSrv) }()
	}

	apiHandler := api.New(ldgr, eventDB, api.Options{
		AllowedOrigins:  config.APICors,
		PprofOn:         config.Pprof,
		EnableReqLogger: config.EnableAPILogs,
		EnableMetrics:   config.EnableMetrics,
		EventsLimit:     config.APIEventsLimit,
	})
	apiSrv, apiURL := startAPIServer(apiHandler, config.APIAddr)
	defer func() { logger.Info("stopping API server..."); shutdownServer(apiSrv) }()

	printStartupMessage(config, owner, apiURL)

	<-handleExitSignal().Done()
	return nil
}

func printStartupMessage(config *Config, owner goalfi.Address, apiURL string) {
	dataDir := config.DataDir
	if config.Mem {
		dataDir = "Memory"
	}
	fmt.Printf(`Starting %v
    Version     %v
    Data dir    %v
    Owner       %v
    API portal  %v
`,
		"GoalFi",
		fullVersion(),
		dataDir,
		owner,
		apiURL)
}
