// Package collector defines the capability contract implemented by every
// in-process data collector and the handle the subsystem uses to invoke one.
package collector

import (
	"github.com/testhost/datacollect/sink"
	"github.com/testhost/datacollect/types"
)

// Lifecycle method names accepted by Handle.Invoke. These are the four fixed
// callbacks of the collector contract.
const (
	MethodSessionStart  = "TestSessionStart"
	MethodSessionEnd    = "TestSessionEnd"
	MethodTestCaseStart = "TestCaseStart"
	MethodTestCaseEnd   = "TestCaseEnd"
)

// Collector is implemented by every in-process data collector variant.
//
// Load is called exactly once, before any lifecycle dispatch, handing the
// collector its write-only view of the shared collection sink. The lifecycle
// callbacks run synchronously on whatever goroutine raises the event; a slow
// collector serializes with the event that invoked it.
type Collector interface {
	// Identity returns the opaque, globally unique string the collector is
	// registered under.
	Identity() string

	// Load is the one-time initialization hook.
	Load(sink sink.Writer) error

	TestSessionStart(args types.SessionStartArgs) error
	TestSessionEnd(args types.SessionEndArgs) error
	TestCaseStart(args types.TestCaseStartArgs) error
	TestCaseEnd(args types.TestCaseEndArgs) error
}

// LoaderFunc instantiates a collector implementation from its resolved
// settings. The loading mechanism itself (resolving and constructing an
// instance from a load path) is owned by the caller; the registry only
// consumes the factory.
type LoaderFunc func(settings types.CollectorSettings) (Collector, error)
