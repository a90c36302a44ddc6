package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total failed emails",
		},
	)

	EmailsEnqueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_enqueued_total",
			Help: "Total emails accepted by the dispatch queue",
		},
	)

	EmailsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_dropped_total",
			Help: "Total queued emails dropped after retry exhaustion",
		},
	)

	CampaignsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaigns_sent_total",
			Help: "Total campaigns that reached the sent state",
		},
	)

	CampaignsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "campaigns_failed_total",
			Help: "Total campaigns that reached the failed state",
		},
	)
)

func Init() {
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(EmailFailures)
	prometheus.MustRegister(EmailsEnqueued)
	prometheus.MustRegister(EmailsDropped)
	prometheus.MustRegister(CampaignsSent)
	prometheus.MustRegister(CampaignsFailed)
}
