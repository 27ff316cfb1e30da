// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var SyncZoomOAuthConnectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "attendee_task_sync_zoom_oauth_connection_duration_seconds",
	Help:    "Duration of a single zoom oauth connection sync in seconds",
	Buckets: prometheus.DefBuckets,
})

var ValidateZoomOAuthConnectionsDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "attendee_task_validate_zoom_oauth_connections_duration_seconds",
	Help:    "Duration of a zoom oauth connection validation sweep in seconds",
	Buckets: prometheus.DefBuckets,
})

var DeliverWebhookDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "attendee_task_deliver_webhook_duration_seconds",
	Help:    "Duration of a single webhook delivery in seconds",
	Buckets: prometheus.DefBuckets,
})

var TaskSucceededAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_task_succeeded_amount",
	Help: "The total number of background tasks that succeeded",
})

var TaskFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_task_failed_amount",
	Help: "The total number of background tasks that exhausted their attempts",
})

var SyncEnqueuedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_daemon_sync_enqueued_amount",
	Help: "The total number of zoom oauth connection syncs enqueued by the scheduler",
})

var WebhookDeliverySucceededAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_webhook_delivery_succeeded_amount",
	Help: "The total number of webhook deliveries answered with a 2xx status",
})

var WebhookDeliveryFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_webhook_delivery_failed_amount",
	Help: "The total number of webhook delivery attempts that failed",
})

var ZoomAPIRequestAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_zoom_api_request_amount",
	Help: "The total number of requests sent to the Zoom API",
})

var ZoomAPIRequestFailedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "attendee_zoom_api_request_failed_amount",
	Help: "The total number of Zoom API requests that failed",
})
