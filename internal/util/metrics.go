package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingsActivatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "listings_activated_total",
		Help: "Total number of listings promoted to active auctions",
	})

	AuctionsEndedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auctions_ended_total",
		Help: "Total number of auctions resolved, by outcome",
	}, []string{"outcome"})

	TransitionConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_transition_conflicts_total",
		Help: "Conditional status updates lost to a concurrent transition",
	}, []string{"job"})

	ListingProcessFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_process_failures_total",
		Help: "Per-listing processing failures inside a job run",
	}, []string{"job"})

	SchedulerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total number of job runs, by job and result",
	}, []string{"job", "result"})

	SchedulerRunsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_skipped_total",
		Help: "Job ticks skipped because a previous run was still in flight",
	}, []string{"job", "reason"})

	SchedulerRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Duration of job runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	NotificationsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Total number of notification records created, by type",
	}, []string{"type"})

	NotificationDeliveryFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_delivery_failed_total",
		Help: "Total number of failed best-effort message deliveries",
	})

	NotificationsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_purged_total",
		Help: "Total number of stale read notifications deleted",
	})

	EventsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_events_published_total",
		Help: "Total number of auction events published to the broker",
	})

	EventPublishFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_event_publish_failed_total",
		Help: "Total number of failed auction event publishes",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
