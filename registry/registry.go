// Package registry owns the set of loaded data collector handles for the
// lifetime of the test host process.
package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/testhost/datacollect/collector"
	"github.com/testhost/datacollect/metrics"
	"github.com/testhost/datacollect/sink"
	"github.com/testhost/datacollect/types"
)

// Registry manages loaded data collectors and their handles. It is populated
// once by Initialize, before any dispatch begins, and is read-only
// thereafter; the read path takes no locks.
type Registry struct {
	config  Config
	handles []*collector.Handle
	index   map[string]int // identity -> position in handles
}

// Config contains registry configuration
type Config struct {
	Log             log.Logger
	Loader          collector.LoaderFunc // External collector instantiation factory
	DefaultLoadPath string               // Directory relative load paths resolve against
}

// NewRegistry creates a new registry instance
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Loader == nil {
		return nil, fmt.Errorf("collector loader is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}

	return &Registry{
		config: cfg,
		index:  make(map[string]int),
	}, nil
}

// Initialize loads every configured collector and registers its handle under
// the collector's identity, handing each collector the shared sink through
// its one-time load hook.
//
// Any failure while resolving, instantiating or initializing a collector is
// logged and skipped; collectors registered before the failure stay
// registered and test execution is never aborted. Returns IsEnabled().
func (r *Registry) Initialize(settings types.RunSettings, dataSink *sink.DataSink) bool {
	if !settings.CollectionConfigured() {
		r.config.Log.Debug("In-process data collection disabled",
			"enabled", settings.Enabled, "collectors", len(settings.Collectors))
		return false
	}

	for _, cs := range settings.Collectors {
		if err := r.loadCollector(cs, dataSink); err != nil {
			r.config.Log.Error("Failed to load data collector",
				"identity", cs.Identity, "loadPath", cs.LoadPath, "error", err)
			metrics.RecordCollectorErrorDetails(cs.Identity, "load", err)
		}
	}

	r.config.Log.Debug("Registry initialized", "len(handles)", len(r.handles))
	return r.IsEnabled()
}

// loadCollector resolves, instantiates and initializes a single collector
func (r *Registry) loadCollector(cs types.CollectorSettings, dataSink *sink.DataSink) error {
	cs.LoadPath = cs.ResolveLoadPath(r.config.DefaultLoadPath)

	col, err := r.config.Loader(cs)
	if err != nil {
		return fmt.Errorf("instantiating collector: %w", err)
	}

	if err := col.Load(dataSink.Writer()); err != nil {
		return fmt.Errorf("initializing collector: %w", err)
	}

	h := collector.NewHandle(col, cs.LoadPath, r.config.Log)
	if pos, exists := r.index[h.Identity()]; exists {
		// Last-registered wins; the original dispatch position is kept so
		// ordering stays deterministic for a given configuration.
		r.config.Log.Warn("Duplicate collector identity, replacing prior registration",
			"identity", h.Identity())
		r.handles[pos] = h
	} else {
		r.index[h.Identity()] = len(r.handles)
		r.handles = append(r.handles, h)
	}

	metrics.RecordCollectorLoaded(h.Identity())
	r.config.Log.Debug("Registered data collector",
		"identity", h.Identity(), "loadPath", cs.LoadPath)
	return nil
}

// IsEnabled reports whether at least one collector is registered. All
// downstream dispatch is skipped entirely when false, so runs without
// in-process collection pay no overhead beyond this check.
func (r *Registry) IsEnabled() bool {
	return len(r.handles) > 0
}

// Handles returns all registered handles in registration order
func (r *Registry) Handles() []*collector.Handle {
	return r.handles
}

// Handle returns the handle registered under identity, if any
func (r *Registry) Handle(identity string) (*collector.Handle, bool) {
	pos, ok := r.index[identity]
	if !ok {
		return nil, false
	}
	return r.handles[pos], true
}

// GetConfig returns the registry configuration
func (r *Registry) GetConfig() Config {
	return r.config
}
