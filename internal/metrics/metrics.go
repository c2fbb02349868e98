package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes recorded against BookingsTotal and EnrollmentsTotal.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_bookings_total",
			Help: "Class and PT session booking attempts by outcome",
		},
		[]string{"kind", "outcome"},
	)

	BookingRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_booking_rejections_total",
			Help: "Rejected scheduling operations by reason",
		},
		[]string{"reason"},
	)

	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_enrollments_total",
			Help: "Class enrollment attempts by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_notifications_sent_total",
			Help: "Notification attempts by outcome",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitclub_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	InvoicesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_invoices_total",
			Help: "Invoice lifecycle events",
		},
		[]string{"event"},
	)

	InvoicePaidCents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_invoice_paid_cents_total",
			Help: "Sum of paid invoice amounts in cents",
		},
	)

	MembersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_members_registered_total",
			Help: "Total number of member registrations",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(kind, outcome string) {
	BookingsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordRejection(reason string) {
	BookingRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordEnrollment(outcome string) {
	EnrollmentsTotal.WithLabelValues(outcome).Inc()
}

func RecordNotification(notificationType, status string) {
	NotificationsSentTotal.WithLabelValues(notificationType, status).Inc()
}

func SetNotificationQueueLength(n int64) {
	NotificationQueueLength.Set(float64(n))
}

func RecordInvoiceCreated() {
	InvoicesTotal.WithLabelValues("created").Inc()
}

func RecordInvoicePaid(amountCents int64) {
	InvoicesTotal.WithLabelValues("paid").Inc()
	InvoicePaidCents.Add(float64(amountCents))
}

func RecordMemberRegistered() {
	MembersRegisteredTotal.Inc()
}
