// Package merge attaches harvested collection data to produced test results.
package merge

import (
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testhost/datacollect/metrics"
	"github.com/testhost/datacollect/sink"
	"github.com/testhost/datacollect/types"
)

// Config holds configuration for creating a new merger
type Config struct {
	Log  log.Logger
	Sink *sink.DataSink
}

// Merger moves accumulated sink data onto produced test results as named
// string properties, exactly once per test case. Property identities are
// derived deterministically from the collection keys, so repeated keys
// across runs produce stable properties.
type Merger struct {
	log  log.Logger
	sink *sink.DataSink

	merged atomic.Int64
}

// New creates a merger draining the given sink.
func New(cfg Config) (*Merger, error) {
	if cfg.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	return &Merger{
		log:  cfg.Log,
		sink: cfg.Sink,
	}, nil
}

// MergeInto drains all accumulated data for the result's test case and
// attaches it to the result. The sink entry is evicted as part of the read,
// so a repeated call for the same test case adds nothing.
func (m *Merger) MergeInto(result *types.TestResult) {
	if result == nil {
		return
	}

	data := m.sink.TakeAll(result.TestCaseID)
	if len(data) == 0 {
		return
	}

	for key, value := range data {
		result.AttachProperty(types.NewPropertyDescriptor(key), value)
	}

	m.merged.Add(int64(len(data)))
	metrics.RecordPropertiesMerged(result.TestCaseID, len(data))
	m.log.Debug("Merged collection data into test result",
		"testCaseID", result.TestCaseID, "properties", len(data))
}

// MergedTotal returns the number of data items merged so far.
func (m *Merger) MergedTotal() int64 {
	return m.merged.Load()
}
