// Package sink provides the shared accumulator data collectors write
// telemetry into, keyed by test case identifier.
//
// The sink is the only cross-cutting mutable state in the collection
// subsystem: collectors write into it from whatever goroutine raises the
// lifecycle event, and the result merger drains it exactly once per test
// case. Both operations are safe under concurrent callers.
package sink

import (
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testhost/datacollect/metrics"
)

// Writer is the write-only view of the sink handed to data collectors at
// load time. It is the only write-capable operation collectors see.
type Writer interface {
	// Write records a key/value pair for the given test case. The entry is
	// created lazily on first write; last write wins when the same key is
	// written twice for the same test case.
	Write(testCaseID, key, value string)
}

// DataSink accumulates per-test-case key/value data concurrently with test
// execution. Entries are removed exactly once, by TakeAll, which bounds sink
// memory to in-flight test cases.
type DataSink struct {
	log log.Logger

	mu       sync.Mutex
	entries  map[string]map[string]string
	consumed map[string]struct{}
}

var _ Writer = (*DataSink)(nil)

// NewDataSink creates an empty sink.
func NewDataSink(logger log.Logger) *DataSink {
	if logger == nil {
		logger = log.New()
	}
	return &DataSink{
		log:      logger,
		entries:  make(map[string]map[string]string),
		consumed: make(map[string]struct{}),
	}
}

// Write implements Writer. A write arriving after TakeAll already consumed
// the test case's entry is dropped and logged rather than resurrecting the
// entry; it can never corrupt state.
func (s *DataSink) Write(testCaseID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.consumed[testCaseID]; taken {
		s.log.Warn("Dropping sink write for already-merged test case",
			"testCaseID", testCaseID, "key", key)
		metrics.RecordSinkDroppedWrite()
		return
	}

	entry, ok := s.entries[testCaseID]
	if !ok {
		entry = make(map[string]string)
		s.entries[testCaseID] = entry
		metrics.SetSinkEntries(len(s.entries))
	}
	entry[key] = value
}

// TakeAll atomically reads and removes the entry for testCaseID. It returns
// an empty map when no collector wrote anything for that test case; it never
// fails. This is the only way data leaves the sink, which guarantees
// exactly-once delivery to the result merger.
func (s *DataSink) TakeAll(testCaseID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[testCaseID]
	delete(s.entries, testCaseID)
	s.consumed[testCaseID] = struct{}{}
	metrics.SetSinkEntries(len(s.entries))

	if entry == nil {
		return map[string]string{}
	}
	return entry
}

// Writer returns the write-only view handed to collectors via their one-time
// load hook.
func (s *DataSink) Writer() Writer {
	return s
}

// Len reports the number of in-flight test case entries.
func (s *DataSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
