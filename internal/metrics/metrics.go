// Package metrics holds the application-level Prometheus counters. HTTP and
// database metrics live with the middleware and repositories that observe them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"status"})

	InterviewsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interviews_created_total",
		Help: "Interviews started, by kind (job or general).",
	}, []string{"kind"})

	InterviewMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_messages_total",
		Help: "Candidate messages exchanged across all interviews.",
	})

	InterviewFeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_feedback_total",
		Help: "Final feedback reports generated, by format (structured or text).",
	}, []string{"format"})
)
