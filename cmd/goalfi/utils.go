// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	isatty "github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/sg-milad/GoalFi-Tracker/eventdb"
	"github.com/sg-milad/GoalFi-Tracker/log"
	"github.com/sg-milad/GoalFi-Tracker/lvldb"
	"github.com/sg-milad/GoalFi-Tracker/metrics"
)

func initLogger(ctx *cli.Context) {
	level := log.FromVerbosity(ctx.Int(verbosityFlag.Name))
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	// structured output when piped, human readable on a terminal
	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) || !isatty.IsTerminal(os.Stderr.Fd()) {
		handler = log.JSONHandler(os.Stderr, levelVar)
	} else {
		handler = log.LogfmtHandler(os.Stderr, levelVar)
	}
	log.SetDefault(log.NewLogger(handler))
}

func makeDataDir(config *Config) string {
	if config.DataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name))
	}
	if err := os.MkdirAll(config.DataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir at '%v': %v", config.DataDir, err))
	}
	return config.DataDir
}

func openMainDB(config *Config) *lvldb.LevelDB {
	if config.Mem {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open in-memory main database: %v", err))
		}
		return db
	}
	dir := filepath.Join(config.DataDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{})
	if err != nil {
		fatal(fmt.Sprintf("open main database at '%v': %v", dir, err))
	}
	return db
}

func openEventDB(config *Config) *eventdb.EventDB {
	if config.Mem {
		db, err := eventdb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open in-memory event database: %v", err))
		}
		return db
	}
	path := filepath.Join(config.DataDir, "event.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database at '%v': %v", path, err))
	}
	return db
}

func startAPIServer(handler http.HandlerFunc, addr string) (*http.Server, string) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr '%v': %v", addr, err))
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("API server stopped", "err", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

func startMetricsServer(addr string) *http.Server {
	metrics.InitializePrometheusMetrics()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics addr '%v': %v", addr, err))
	}
	router := http.NewServeMux()
	router.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: router}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("metrics server started", "addr", "http://"+listener.Addr().String()+"/metrics")
	return srv
}

func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func fatal(args ...interface{}) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "GoalFi")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "GoalFi")
		}
		return filepath.Join(home, ".goalfi")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
