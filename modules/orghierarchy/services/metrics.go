package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	permCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "permissions",
		Name:      "cache_lookups_total",
		Help:      "Permission cache lookups broken down by result.",
	}, []string{"result"})

	orgSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "tree",
		Name:      "saves_total",
		Help:      "Organization saves broken down by result.",
	}, []string{"result"})

	cycleRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "tree",
		Name:      "cycle_rejections_total",
		Help:      "Saves rejected because they would create a cycle, by kind.",
	}, []string{"kind"})

	guardedDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "org",
		Subsystem: "tree",
		Name:      "guarded_deletes_total",
		Help:      "Delete attempts stopped by the succession/deletion guard.",
	}, []string{"reason"})
)
