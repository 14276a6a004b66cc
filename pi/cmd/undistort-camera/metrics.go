/*
DESCRIPTION
  metrics.go provides Prometheus metrics for the frame loop.

AUTHORS
  AusOcean developers

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt.  If not, see http://www.gnu.org/licenses.
*/

package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Failure stages.
const (
	stageCapture = "capture"
	stageRectify = "rectify"
	stageWrite   = "write"
)

type metrics struct {
	captured prometheus.Counter
	written  prometheus.Counter
	failures *prometheus.CounterVec
	latency  prometheus.Histogram
	gatherer prometheus.Gatherer
}

// newMetrics returns metrics registered with, and served from, reg.
func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		captured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "undistort_frames_captured_total",
			Help: "Total frames captured.",
		}),
		written: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "undistort_frames_written_total",
			Help: "Total undistorted frames written.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "undistort_failures_total",
			Help: "Total failures by stage.",
		}, []string{"stage"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "undistort_seconds",
			Help:    "Time to undistort a frame.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.captured, m.written, m.failures, m.latency)
	return m
}

// handler returns an HTTP handler serving the registered metrics.
func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
