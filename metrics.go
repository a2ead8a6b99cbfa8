package idfkit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    queryCounter   prometheus.Counter
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordQuery(matched int, duration time.Duration, err error) {
//	    p.queryCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordQuery is called after each query operation.
	// matched is the number of records selected, duration is the time taken,
	// err is nil if successful.
	RecordQuery(matched int, duration time.Duration, err error)

	// RecordGetField is called after each field read operation.
	RecordGetField(duration time.Duration, err error)

	// RecordSetField is called after each field write operation.
	// count is the number of records written.
	RecordSetField(count int, duration time.Duration, err error)

	// RecordCreate is called after each object creation.
	RecordCreate(duration time.Duration, err error)

	// RecordDelete is called after each deletion.
	// count is the number of records removed.
	RecordDelete(count int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordGetField(time.Duration, error)      {}
func (NoopMetricsCollector) RecordSetField(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCreate(time.Duration, error)        {}
func (NoopMetricsCollector) RecordDelete(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryMatched    atomic.Int64
	QueryTotalNanos atomic.Int64
	GetFieldCount   atomic.Int64
	GetFieldErrors  atomic.Int64
	SetFieldCount   atomic.Int64
	SetFieldErrors  atomic.Int64
	SetFieldRecords atomic.Int64
	CreateCount     atomic.Int64
	CreateErrors    atomic.Int64
	DeleteCount     atomic.Int64
	DeleteErrors    atomic.Int64
	DeleteRecords   atomic.Int64
	SnapshotCount   atomic.Int64
	SnapshotErrors  atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(matched int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	} else {
		b.QueryMatched.Add(int64(matched))
	}
}

// RecordGetField implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGetField(duration time.Duration, err error) {
	b.GetFieldCount.Add(1)
	if err != nil {
		b.GetFieldErrors.Add(1)
	}
}

// RecordSetField implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSetField(count int, duration time.Duration, err error) {
	b.SetFieldCount.Add(1)
	if err != nil {
		b.SetFieldErrors.Add(1)
	} else {
		b.SetFieldRecords.Add(int64(count))
	}
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(duration time.Duration, err error) {
	b.CreateCount.Add(1)
	if err != nil {
		b.CreateErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(count int, duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	} else {
		b.DeleteRecords.Add(int64(count))
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryMatched:    b.QueryMatched.Load(),
		QueryAvgNanos:   b.getAvgQueryNanos(),
		GetFieldCount:   b.GetFieldCount.Load(),
		GetFieldErrors:  b.GetFieldErrors.Load(),
		SetFieldCount:   b.SetFieldCount.Load(),
		SetFieldErrors:  b.SetFieldErrors.Load(),
		SetFieldRecords: b.SetFieldRecords.Load(),
		CreateCount:     b.CreateCount.Load(),
		CreateErrors:    b.CreateErrors.Load(),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		DeleteRecords:   b.DeleteRecords.Load(),
		SnapshotCount:   b.SnapshotCount.Load(),
		SnapshotErrors:  b.SnapshotErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount      int64
	QueryErrors     int64
	QueryMatched    int64
	QueryAvgNanos   int64
	GetFieldCount   int64
	GetFieldErrors  int64
	SetFieldCount   int64
	SetFieldErrors  int64
	SetFieldRecords int64
	CreateCount     int64
	CreateErrors    int64
	DeleteCount     int64
	DeleteErrors    int64
	DeleteRecords   int64
	SnapshotCount   int64
	SnapshotErrors  int64
}
