// Package server exposes manual trigger endpoints for the brief cadences.
package server

import (
	"encoding/json"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/engine"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

// NewHTTPServer builds the trigger server. Each /run endpoint executes one
// cadence synchronously and returns the submitted report identity.
func NewHTTPServer(c config.ServerConfig, eng *engine.Engine, monthlyDays int, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Addr != "" {
		opts = append(opts, http.Address(c.Addr))
	}
	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	helper := log.NewHelper(logger)

	srv.HandleFunc("/healthz", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	srv.HandleFunc("/run/daily", runHandler(helper, func(r *nethttp.Request) (model.RunResult, error) {
		return eng.RunDaily(r.Context())
	}))
	srv.HandleFunc("/run/weekly", runHandler(helper, func(r *nethttp.Request) (model.RunResult, error) {
		return eng.RunWeekly(r.Context())
	}))
	srv.HandleFunc("/run/monthly", runHandler(helper, func(r *nethttp.Request) (model.RunResult, error) {
		days := monthlyDays
		if v := r.URL.Query().Get("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				days = n
			}
		}
		return eng.RunMonthly(r.Context(), days)
	}))

	return srv
}

func runHandler(helper *log.Helper, run func(*nethttp.Request) (model.RunResult, error)) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}

		res, err := run(r)
		if err != nil {
			helper.Errorf("manual run failed: %v", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(nethttp.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"report_id": res.ReportID,
			"name":      res.Name,
		})
	}
}
