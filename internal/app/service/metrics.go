package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reviewMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmomguide",
			Subsystem: "review",
			Name:      "mutations_total",
			Help:      "Review create/update/delete operations that committed, by category.",
		},
		[]string{"operation", "category"},
	)

	followUpResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmomguide",
			Subsystem: "review",
			Name:      "followup_results_total",
			Help:      "Additional review append attempts by outcome.",
		},
		[]string{"result"},
	)

	reactionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmomguide",
			Subsystem: "review",
			Name:      "reaction_events_total",
			Help:      "Like, unlike and report events by action.",
		},
		[]string{"action"},
	)

	imageUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmomguide",
			Subsystem: "review",
			Name:      "image_uploads_total",
			Help:      "Review image uploads to object storage by result.",
		},
		[]string{"result"},
	)
)
