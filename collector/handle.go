package collector

import (
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testhost/datacollect/types"
)

// Handle wraps one loaded collector instance behind a single
// invoke-by-method-name operation, isolating failures (errors and panics) of
// one collector from the rest of the subsystem.
type Handle struct {
	collector Collector
	loadPath  string
	log       log.Logger

	invocations atomic.Int64
	failures    atomic.Int64
}

// NewHandle wraps a loaded collector. loadPath is the resolved path the
// collector was instantiated from, kept for diagnostics.
func NewHandle(c Collector, loadPath string, logger log.Logger) *Handle {
	if logger == nil {
		logger = log.New()
	}
	return &Handle{
		collector: c,
		loadPath:  loadPath,
		log:       logger,
	}
}

// Identity returns the identity the handle's collector is registered under.
func (h *Handle) Identity() string {
	return h.collector.Identity()
}

// LoadPath returns the resolved path the collector was loaded from.
func (h *Handle) LoadPath() string {
	return h.loadPath
}

// Invocations returns the number of lifecycle invocations so far.
func (h *Handle) Invocations() int64 {
	return h.invocations.Load()
}

// Failures returns the number of invocations that ended in an error or panic.
func (h *Handle) Failures() int64 {
	return h.failures.Load()
}

// Invoke dispatches method to the collector's matching typed lifecycle
// callback. Panics raised by collector code are recovered and returned as
// errors so one misbehaving collector cannot take down the calling thread.
// An unknown method name is a programming error; it is returned as an error
// for the caller to log, never a crash.
func (h *Handle) Invoke(method string, args any) (err error) {
	h.invocations.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collector %q panicked in %s: %v", h.Identity(), method, r)
		}
		if err != nil {
			h.failures.Add(1)
		}
	}()

	switch method {
	case MethodSessionStart:
		a, ok := args.(types.SessionStartArgs)
		if !ok {
			return fmt.Errorf("%s expects SessionStartArgs, got %T", method, args)
		}
		return h.collector.TestSessionStart(a)

	case MethodSessionEnd:
		a, ok := args.(types.SessionEndArgs)
		if !ok {
			return fmt.Errorf("%s expects SessionEndArgs, got %T", method, args)
		}
		return h.collector.TestSessionEnd(a)

	case MethodTestCaseStart:
		a, ok := args.(types.TestCaseStartArgs)
		if !ok {
			return fmt.Errorf("%s expects TestCaseStartArgs, got %T", method, args)
		}
		return h.collector.TestCaseStart(a)

	case MethodTestCaseEnd:
		a, ok := args.(types.TestCaseEndArgs)
		if !ok {
			return fmt.Errorf("%s expects TestCaseEndArgs, got %T", method, args)
		}
		return h.collector.TestCaseEnd(a)

	default:
		return fmt.Errorf("unknown lifecycle method %q", method)
	}
}
