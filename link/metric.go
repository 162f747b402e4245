package link

import "sync/atomic"

// LinkMetrics contains atomic metrics for link establishment.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type LinkMetrics struct {
	// ReadCount indicates the number of transport reads issued.
	ReadCount atomic.Uint64
	// ShortReadCount indicates the number of reads that returned fewer bytes than a frame.
	ShortReadCount atomic.Uint64
	// InvalidFrameCount indicates the number of full-length reads that failed validation.
	InvalidFrameCount atomic.Uint64
	// ValidFrameCount indicates the number of valid frames received.
	ValidFrameCount atomic.Uint64
	// AttemptCount indicates the number of alarm expirations.
	AttemptCount atomic.Uint64
}

func (m *LinkMetrics) incReadCount() {
	m.ReadCount.Add(1)
}

func (m *LinkMetrics) incShortReadCount() {
	m.ShortReadCount.Add(1)
}

func (m *LinkMetrics) incInvalidFrameCount() {
	m.InvalidFrameCount.Add(1)
}

func (m *LinkMetrics) incValidFrameCount() {
	m.ValidFrameCount.Add(1)
}

func (m *LinkMetrics) incAttemptCount() {
	m.AttemptCount.Add(1)
}
