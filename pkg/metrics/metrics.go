/*
 * Copyright (c) 2025, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Command intake metrics
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "commands_total",
			Help:      "Chat commands received, labeled by parsed action",
		},
		[]string{"action"},
	)

	QuotaRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "quota_rejections_total",
			Help:      "EXECUTE commands rejected because the free tier budget was spent",
		},
	)

	// Scheduler metrics
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatbot",
			Name:      "queue_depth",
			Help:      "Commands currently waiting for the worker",
		},
	)

	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "executions_total",
			Help:      "Finished executions, labeled by result status",
		},
		[]string{"status"},
	)

	ExecutionDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chatbot",
			Name:      "execution_duration_seconds",
			Help:      "Wall time of one execution including verification",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Journal metrics
	JournalDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatbot",
			Name:      "journal_dropped_total",
			Help:      "Journal entries that missed the log sink because the buffer was full",
		},
	)
)
