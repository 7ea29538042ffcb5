// Package metrics holds the prometheus instrumentation of the tool server.
package metrics

import (
	"database/sql"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PayRam/go-dbquery/queryerr"
)

// MustRegister will register all tool metrics on the given registry.
// If metrics with the same name already exist on the registry this function will panic.
func MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(toolCalls, toolDuration, buildInfo)
}

// MustRegisterDB exposes the sql.DBStats of the pool as go_sql_* metrics
// labelled with dbName.
func MustRegisterDB(registry *prometheus.Registry, dbName string, db *sql.DB) {
	registry.MustRegister(collectors.NewDBStatsCollector(db, dbName))
}

// Handler serves the registry in the prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Status is the status label of a finished tool call: "ok", or the
// lowercased error kind, or "error" for an unclassified failure.
func Status(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := queryerr.KindOf(err); kind != "" {
		return strings.ToLower(string(kind))
	}
	return "error"
}

// SampleToolCall records one tool invocation.
func SampleToolCall(tool string, elapsed time.Duration, err error) {
	labels := prometheus.Labels{
		"tool":   tool,
		"status": Status(err),
	}
	toolCalls.With(labels).Inc()
	toolDuration.With(labels).Observe(elapsed.Seconds())
}

// SampleBuildInfo sets the dbquery_build_info gauge once on startup.
func SampleBuildInfo() {
	goVersion := "undefined"
	revision := "undefined"

	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				revision = setting.Value
			}
		}
	}
	buildInfo.With(prometheus.Labels{"goversion": goVersion, "revision": revision}).Set(1)
}

var (
	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbquery_tool_calls_total",
			Help: "Count of tool invocations",
		},
		[]string{"tool", "status"},
	)
	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbquery_tool_duration_seconds",
			Help:    "Duration of tool invocations, including database round trips",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"tool", "status"},
	)
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dbquery_build_info",
			Help: "Build information of the server",
		},
		[]string{"revision", "goversion"},
	)
)
