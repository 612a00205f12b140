// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics provides Prometheus metrics for the tree mirror server
// and client agent.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-tree-mirror/models"
)

const namespace = "tree_mirror"

// Metrics owns a private registry so that several instances can coexist
// in one process (tests, the server next to a client agent).
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	changesAppliedTotal *prometheus.CounterVec
	changeSetsTotal     *prometheus.CounterVec
	applyDuration       prometheus.Histogram
	treeNodes           *prometheus.GaugeVec

	syncRunsTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		changesAppliedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "changes_applied_total",
				Help:      "Change records applied, by change type",
			},
			[]string{"change_type"},
		),
		changeSetsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "change_sets_total",
				Help:      "Change sets received, by result",
			},
			[]string{"result"},
		),
		applyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "change_set_apply_duration_seconds",
				Help:      "Time to patch the snapshot and reconcile the store",
				Buckets:   prometheus.DefBuckets,
			},
		),
		treeNodes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tree_nodes",
				Help:      "Nodes in the last known tree, by kind",
			},
			[]string{"kind"},
		),

		syncRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "client_sync_runs_total",
				Help:      "Client sync runs, by result",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordChangeSet counts a received change set. Summary counts are only
// added when err is nil.
func (m *Metrics) RecordChangeSet(summary models.Summary, duration time.Duration, err error) {
	if err != nil {
		m.changeSetsTotal.WithLabelValues("error").Inc()
		return
	}

	m.changeSetsTotal.WithLabelValues("ok").Inc()
	m.applyDuration.Observe(duration.Seconds())

	m.changesAppliedTotal.WithLabelValues(string(models.ChangeAdded)).Add(float64(summary.Added))
	m.changesAppliedTotal.WithLabelValues(string(models.ChangeRemoved)).Add(float64(summary.Removed))
	m.changesAppliedTotal.WithLabelValues(string(models.ChangeModified)).Add(float64(summary.Modified))
	m.changesAppliedTotal.WithLabelValues(string(models.ChangeUnchanged)).Add(float64(summary.Unchanged))
}

func (m *Metrics) SetTreeSize(folders, files int) {
	m.treeNodes.WithLabelValues(string(models.NodeTypeFolder)).Set(float64(folders))
	m.treeNodes.WithLabelValues(string(models.NodeTypeFile)).Set(float64(files))
}

func (m *Metrics) RecordSync(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.syncRunsTotal.WithLabelValues(result).Inc()
}
