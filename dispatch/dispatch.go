// Package dispatch fans session and test-case lifecycle events out to every
// registered data collector.
package dispatch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/testhost/datacollect/collector"
	"github.com/testhost/datacollect/events"
	"github.com/testhost/datacollect/metrics"
	"github.com/testhost/datacollect/registry"
	"github.com/testhost/datacollect/types"
)

// SessionState tracks where the dispatcher is in the run lifecycle.
type SessionState int32

const (
	StateIdle SessionState = iota
	StateSessionActive
	StateSessionEnded
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSessionActive:
		return "session-active"
	case StateSessionEnded:
		return "session-ended"
	default:
		return "unknown"
	}
}

// ResultHandler receives produced test results. The result merger implements
// it; the dispatcher only routes the event.
type ResultHandler interface {
	MergeInto(result *types.TestResult)
}

// Config holds configuration for creating a new dispatcher
type Config struct {
	Log      log.Logger
	Registry *registry.Registry
	Source   *events.Source
	Results  ResultHandler
}

// Dispatcher translates engine lifecycle events into collector invocations,
// in registration order. All five subscriptions are registered at
// construction, and only when collection is enabled; a disabled dispatcher
// subscribes to nothing and is inert.
//
// Invocation failures are isolated per collector: an error or panic from one
// collector is logged and counted, and dispatch continues with the next
// collector for the same event.
type Dispatcher struct {
	log     log.Logger
	reg     *registry.Registry
	results ResultHandler
	tracer  trace.Tracer

	state     atomic.Int32
	sessionID string
}

// New creates a dispatcher and subscribes it to the event source when
// collection is enabled.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("event source is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	d := &Dispatcher{
		log:     cfg.Log,
		reg:     cfg.Registry,
		results: cfg.Results,
		tracer:  otel.Tracer("lifecycle dispatcher"),
	}

	if !cfg.Registry.IsEnabled() {
		cfg.Log.Debug("In-process data collection disabled, dispatcher is inert")
		return d, nil
	}

	cfg.Source.SubscribeSessionStart(d.onSessionStart)
	cfg.Source.SubscribeTestCaseStart(d.onTestCaseStart)
	cfg.Source.SubscribeTestCaseEnd(d.onTestCaseEnd)
	cfg.Source.SubscribeSessionEnd(d.onSessionEnd)
	cfg.Source.SubscribeResult(d.onResult)

	cfg.Log.Debug("Lifecycle dispatcher subscribed",
		"collectors", len(cfg.Registry.Handles()))
	return d, nil
}

// State returns the current session state.
func (d *Dispatcher) State() SessionState {
	return SessionState(d.state.Load())
}

// SessionID returns the identifier assigned at session start, or empty
// before the first session start event.
func (d *Dispatcher) SessionID() string {
	return d.sessionID
}

func (d *Dispatcher) onSessionStart(evt types.SessionStartEvent) {
	_, span := d.tracer.Start(context.Background(), "session start dispatch")
	defer span.End()

	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateSessionActive)) {
		d.log.Warn("Session start received in unexpected state", "state", d.State())
		d.state.Store(int32(StateSessionActive))
	}
	d.sessionID = uuid.New().String()

	// The property map always carries at least the test sources.
	props := make(map[string]string, 1)
	if len(evt.TestSources) > 0 {
		props[types.PropertyTestSources] = joinSources(evt.TestSources)
	}

	d.invokeAll(collector.MethodSessionStart, types.SessionStartArgs{
		SessionID:   d.sessionID,
		TestSources: evt.TestSources,
		Properties:  props,
	})
}

func (d *Dispatcher) onSessionEnd(types.SessionEndEvent) {
	_, span := d.tracer.Start(context.Background(), "session end dispatch")
	defer span.End()

	if !d.state.CompareAndSwap(int32(StateSessionActive), int32(StateSessionEnded)) {
		d.log.Warn("Session end received in unexpected state", "state", d.State())
		d.state.Store(int32(StateSessionEnded))
	}

	d.invokeAll(collector.MethodSessionEnd, types.SessionEndArgs{})
}

func (d *Dispatcher) onTestCaseStart(evt types.TestCaseStartEvent) {
	_, span := d.tracer.Start(context.Background(), fmt.Sprintf("case start %s", evt.Element.DisplayName))
	defer span.End()

	if d.State() != StateSessionActive {
		// The engine owns event ordering; dispatch regardless, but leave a trace.
		d.log.Warn("Test case start outside an active session",
			"testCaseID", evt.Element.ID, "state", d.State())
	}

	d.invokeAll(collector.MethodTestCaseStart, types.TestCaseStartArgs{
		Element: evt.Element,
	})
}

func (d *Dispatcher) onTestCaseEnd(evt types.TestCaseEndEvent) {
	_, span := d.tracer.Start(context.Background(), fmt.Sprintf("case end %s", evt.Element.DisplayName))
	defer span.End()

	d.invokeAll(collector.MethodTestCaseEnd, types.TestCaseEndArgs{
		Context: types.DataCollectionContext{TestCase: evt.Element},
		Outcome: evt.Outcome,
	})
}

func (d *Dispatcher) onResult(evt types.ResultEvent) {
	if d.results == nil || evt.Result == nil {
		return
	}
	d.results.MergeInto(evt.Result)
}

// invokeAll calls the named lifecycle method on every registered collector
// in registration order. A failing collector never suppresses the ones
// registered after it.
func (d *Dispatcher) invokeAll(method string, args any) {
	for _, h := range d.reg.Handles() {
		if err := h.Invoke(method, args); err != nil {
			d.log.Error("Data collector callback failed",
				"identity", h.Identity(), "method", method, "error", err)
			metrics.RecordCollectorError(h.Identity(), method)
		}
	}
	metrics.RecordDispatch(method)
}

func joinSources(sources []string) string {
	joined := sources[0]
	for _, s := range sources[1:] {
		joined += ";" + s
	}
	return joined
}
