// Copyright (c) 2026 The GoalFi developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sg-milad/GoalFi-Tracker/api/accounts"
	"github.com/sg-milad/GoalFi-Tracker/api/events"
	"github.com/sg-milad/GoalFi-Tracker/api/info"
	"github.com/sg-milad/GoalFi-Tracker/api/tasks"
	"github.com/sg-milad/GoalFi-Tracker/eventdb"
	"github.com/sg-milad/GoalFi-Tracker/ledger"
	"github.com/sg-milad/GoalFi-Tracker/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
	EventsLimit     uint64
	Now             func() uint64
}

// New returns the api handler.
func New(
	ldgr *ledger.Ledger,
	eventDB *eventdb.EventDB,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	now := opts.Now
	if now == nil {
		now = func() uint64 { return uint64(time.Now().Unix()) }
	}
	eventsLimit := opts.EventsLimit
	if eventsLimit == 0 {
		eventsLimit = 1000
	}

	router := mux.NewRouter()

	accounts.New(ldgr, eventDB, now).
		Mount(router, "/accounts")
	tasks.New(ldgr, eventDB, now).
		Mount(router, "/tasks")
	info.New(ldgr, eventDB, now).
		Mount(router, "/ledger")
	if eventDB != nil {
		events.New(eventDB, eventsLimit).
			Mount(router, "/events")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsHandler)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLoggerHandler(handler)
	}

	return handler.ServeHTTP
}

// requestLoggerHandler logs method, path and duration of each request.
func requestLoggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		h.ServeHTTP(w, r)
		logger.Info("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(started),
		)
	})
}
