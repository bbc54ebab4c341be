package stats

import (
	"bufio"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const namespace = "escrow"

// Metrics counts the outcome of the escrow operations. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	released   prometheus.Counter
}

// NewMetrics creates the escrow counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of escrow operations completed, by type.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Number of escrow operations rejected, by type and reason.",
		}, []string{"operation", "reason"}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "released_units_total",
			Help:      "Base units of asset A released out of vaults.",
		}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.failures, m.released} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Completed records a successful operation that released amount units out
// of a vault.
func (m *Metrics) Completed(operation string, amount uint64) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation).Inc()
	m.released.Add(float64(amount))
}

// Failed records a rejected operation.
func (m *Metrics) Failed(operation, reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(operation, reason).Inc()
}

// DumpPrometheus appends the metrics gathered by g to the file at path.
func DumpPrometheus(path string, g prometheus.Gatherer) error {
	file, err := os.OpenFile(
		path,
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	metricFamily, err := g.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		_, err := writer.WriteString(v.String() + "\n")
		if err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	log.Debugf("dumped %d metric families to %s", len(metricFamily), path)
	return nil
}
