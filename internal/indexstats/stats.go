// Package indexstats holds the lightweight counters surfaced by the
// health endpoint: documents ingested, ingest failures, and bytes read.
package indexstats

import "sync/atomic"

// Stats is a set of atomic counters safe for concurrent use by the
// watcher's ingest workers and the HTTP health handler.
type Stats struct {
	documentsIngested int64
	ingestFailures    int64
	bytesRead         int64
}

// New creates a zeroed Stats.
func New() *Stats {
	return &Stats{}
}

// RecordIngested increments the ingested-document counter and adds n
// bytes to the bytes-read total.
func (s *Stats) RecordIngested(n int) {
	atomic.AddInt64(&s.documentsIngested, 1)
	atomic.AddInt64(&s.bytesRead, int64(n))
}

// RecordFailure increments the ingest-failure counter.
func (s *Stats) RecordFailure() {
	atomic.AddInt64(&s.ingestFailures, 1)
}

// Snapshot is a point-in-time, non-atomic-as-a-whole copy of the counters.
type Snapshot struct {
	DocumentsIngested int64 `json:"documents_ingested"`
	IngestFailures    int64 `json:"ingest_failures"`
	BytesRead         int64 `json:"bytes_read"`
}

// Snapshot reads the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		DocumentsIngested: atomic.LoadInt64(&s.documentsIngested),
		IngestFailures:    atomic.LoadInt64(&s.ingestFailures),
		BytesRead:         atomic.LoadInt64(&s.bytesRead),
	}
}
