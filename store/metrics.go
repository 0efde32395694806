/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	writesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "s2geo",
		Subsystem: "store",
		Name:      "writes_total",
		Help:      "Geometries added or deleted, by operation.",
	}, []string{"op"})
	queryLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "s2geo",
		Subsystem: "store",
		Name:      "query_latency_seconds",
		Help:      "Latency of index queries, by query type.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type"})
	queryCandidates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s2geo",
		Subsystem: "store",
		Name:      "query_candidates_total",
		Help:      "Documents fetched by term lookup before exact filtering.",
	})
	queryMatches = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s2geo",
		Subsystem: "store",
		Name:      "query_matches_total",
		Help:      "Documents that passed exact filtering.",
	})
)

func init() {
	prometheus.MustRegister(writesTotal, queryLatency, queryCandidates, queryMatches)
}
