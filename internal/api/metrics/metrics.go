// Package metrics defines the custom Prometheus metrics of the students API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Build one Metrics per process with New and hand it to the handlers. A nil
// *Metrics records nothing, which keeps handler tests free of registries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "students_api"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type Metrics struct {
	// AuthRequestsTotal counts auth operations.
	// Labels:
	//   - operation: "login", "register" or "logout"
	//   - result: "success" or "failure"
	AuthRequestsTotal *prometheus.CounterVec

	// StudentOperationsTotal counts student operations.
	// Labels:
	//   - operation: "list", "create", "get", "update" or "delete"
	//   - result: "success" or "failure"
	StudentOperationsTotal *prometheus.CounterVec

	// StudentListPageSize observes how many items a list call returned.
	StudentListPageSize prometheus.Histogram
}

// New registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AuthRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_requests_total",
				Help:      "Total number of auth operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
		StudentOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "student_operations_total",
				Help:      "Total number of student operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
		StudentListPageSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "student_list_page_size",
				Help:      "Number of students returned per list call.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
	}
}

func (m *Metrics) ObserveAuth(operation string, err error) {
	if m == nil {
		return
	}
	m.AuthRequestsTotal.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) ObserveStudent(operation string, err error) {
	if m == nil {
		return
	}
	m.StudentOperationsTotal.WithLabelValues(operation, result(err)).Inc()
}

func (m *Metrics) ObservePageSize(n int) {
	if m == nil {
		return
	}
	m.StudentListPageSize.Observe(float64(n))
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
