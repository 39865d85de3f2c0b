// Package datacollect implements the in-process data collection subsystem of
// a test execution engine.
//
// It loads pluggable data collectors that run in the same process as the
// tests, fans session and test-case lifecycle events out to them, and
// harvests the key/value telemetry they produce so it can be attached to the
// corresponding test result exactly once.
//
// The main components are:
//   - registry.Registry: one-time collector loading and identity-keyed registration
//   - dispatch.Dispatcher: lifecycle event fan-out with per-collector isolation
//   - sink.DataSink: the concurrent per-test-case telemetry accumulator
//   - merge.Merger: exactly-once attachment of sink data to produced results
//
// Manager wires these together from a Config.
package datacollect

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/testhost/datacollect/dispatch"
	"github.com/testhost/datacollect/merge"
	"github.com/testhost/datacollect/registry"
	"github.com/testhost/datacollect/sink"
)

// Manager owns the collection subsystem for one test host process.
type Manager struct {
	config     *Config
	sink       *sink.DataSink
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	merger     *merge.Merger
}

// New builds the subsystem: loads run settings, initializes the registry,
// and subscribes the dispatcher and merger to the event source. When the
// settings disable collection (or every collector fails to load) the manager
// is inert and the run proceeds with zero extra properties on results.
func New(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	settings, err := resolveSettings(cfg)
	if err != nil {
		// Settings failures degrade to disabled collection; they never abort
		// the run.
		cfg.Log.Error("Failed to load run settings, collection disabled", "error", err)
	}

	dataSink := sink.NewDataSink(cfg.Log)

	reg, err := registry.NewRegistry(registry.Config{
		Log:             cfg.Log,
		Loader:          cfg.Loader,
		DefaultLoadPath: cfg.DefaultLoadPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}
	enabled := reg.Initialize(settings, dataSink)

	merger, err := merge.New(merge.Config{
		Log:  cfg.Log,
		Sink: dataSink,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create merger: %w", err)
	}

	dispatcher, err := dispatch.New(dispatch.Config{
		Log:      cfg.Log,
		Registry: reg,
		Source:   cfg.Source,
		Results:  merger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	cfg.Log.Debug("datacollect.New: created registry and dispatcher",
		"enabled", enabled, "collectors", len(reg.Handles()))

	return &Manager{
		config:     cfg,
		sink:       dataSink,
		registry:   reg,
		dispatcher: dispatcher,
		merger:     merger,
	}, nil
}

// Enabled reports whether at least one collector is loaded.
func (m *Manager) Enabled() bool {
	return m.registry.IsEnabled()
}

// Registry returns the collector registry.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Sink returns the shared collection sink.
func (m *Manager) Sink() *sink.DataSink {
	return m.sink
}

// Dispatcher returns the lifecycle dispatcher.
func (m *Manager) Dispatcher() *dispatch.Dispatcher {
	return m.dispatcher
}

// PrintSummary renders a per-collector summary table to w: identity, load
// path, invocation and failure counts, with the merged data item total in
// the footer.
func (m *Manager) PrintSummary(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("In-Process Data Collection Summary")

	t.AppendHeader(table.Row{"Identity", "Load Path", "Invocations", "Failures"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Identity", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Load Path", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Invocations", Align: text.AlignRight},
		{Name: "Failures", Align: text.AlignRight},
	})

	var invocations, failures int64
	for _, h := range m.registry.Handles() {
		t.AppendRow(table.Row{h.Identity(), h.LoadPath(), h.Invocations(), h.Failures()})
		invocations += h.Invocations()
		failures += h.Failures()
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("TOTAL (%d merged)", m.merger.MergedTotal()),
		"",
		invocations,
		failures,
	})

	if failures > 0 {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
	t.Render()
}
