/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	coveringCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s2geo",
		Subsystem: "geo",
		Name:      "covering_cache_hits_total",
		Help:      "Coverings served from the covering cache.",
	})
	coveringCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "s2geo",
		Subsystem: "geo",
		Name:      "covering_cache_misses_total",
		Help:      "Coverings computed because the cache had no entry.",
	})
	coveringCells = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "s2geo",
		Subsystem: "geo",
		Name:      "covering_cells",
		Help:      "Number of cells in computed coverings.",
		Buckets:   prometheus.LinearBuckets(0, 4, 10),
	})
)

func init() {
	prometheus.MustRegister(coveringCacheHits, coveringCacheMisses, coveringCells)
}
