package datacollect

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testhost/datacollect/collector"
	"github.com/testhost/datacollect/events"
	"github.com/testhost/datacollect/sink"
	"github.com/testhost/datacollect/types"
)

// telemetryCollector writes one key into the sink on case start and one on
// case end, the way a real in-process collector would.
type telemetryCollector struct {
	identity string
	startKey string
	endKey   string
	writer   sink.Writer
}

func (c *telemetryCollector) Identity() string { return c.identity }

func (c *telemetryCollector) Load(w sink.Writer) error {
	c.writer = w
	return nil
}

func (c *telemetryCollector) TestSessionStart(types.SessionStartArgs) error { return nil }
func (c *telemetryCollector) TestSessionEnd(types.SessionEndArgs) error     { return nil }

func (c *telemetryCollector) TestCaseStart(args types.TestCaseStartArgs) error {
	c.writer.Write(args.Element.ID, c.startKey, "started")
	return nil
}

func (c *telemetryCollector) TestCaseEnd(args types.TestCaseEndArgs) error {
	c.writer.Write(args.Context.TestCase.ID, c.endKey, string(args.Outcome))
	return nil
}

func loaderFor(collectors map[string]collector.Collector) collector.LoaderFunc {
	return func(cs types.CollectorSettings) (collector.Collector, error) {
		c, ok := collectors[cs.Identity]
		if !ok {
			return nil, fmt.Errorf("unknown collector %q", cs.Identity)
		}
		return c, nil
	}
}

func TestEndToEndCollection(t *testing.T) {
	first := &telemetryCollector{identity: "first", startKey: "first.start", endKey: "first.end"}
	second := &telemetryCollector{identity: "second", startKey: "second.start", endKey: "second.end"}

	src := events.NewSource()
	mgr, err := New(&Config{
		Settings: &types.RunSettings{
			Enabled: true,
			Collectors: []types.CollectorSettings{
				{Identity: "first", LoadPath: "first.so"},
				{Identity: "second", LoadPath: "second.so"},
			},
		},
		Loader: loaderFor(map[string]collector.Collector{"first": first, "second": second}),
		Source: src,
	})
	require.NoError(t, err)
	require.True(t, mgr.Enabled())

	element := types.TestElement{ID: "tc42", DisplayName: "TestFortyTwo"}

	src.PublishSessionStart(types.SessionStartEvent{TestSources: []string{"suite.dll"}})
	src.PublishTestCaseStart(types.TestCaseStartEvent{Element: element})
	src.PublishTestCaseEnd(types.TestCaseEndEvent{Element: element, Outcome: types.OutcomePass})

	result := &types.TestResult{TestCaseID: "tc42", Element: element, Outcome: types.OutcomePass}
	src.PublishResult(types.ResultEvent{Result: result})

	// The result carries exactly the four written keys with their values.
	require.Len(t, result.Properties, 4)
	assert.Equal(t, "started", result.Properties["first.start"].Value)
	assert.Equal(t, "started", result.Properties["second.start"].Value)
	assert.Equal(t, "pass", result.Properties["first.end"].Value)
	assert.Equal(t, "pass", result.Properties["second.end"].Value)

	// A repeated merge attempt for the same test case adds nothing.
	repeat := &types.TestResult{TestCaseID: "tc42", Element: element}
	src.PublishResult(types.ResultEvent{Result: repeat})
	assert.Empty(t, repeat.Properties)

	src.PublishSessionEnd(types.SessionEndEvent{})
	assert.Equal(t, 0, mgr.Sink().Len())
}

func TestDisabledCollectionIsSilent(t *testing.T) {
	src := events.NewSource()
	mgr, err := New(&Config{
		Loader: loaderFor(nil),
		Source: src,
	})
	require.NoError(t, err)

	assert.False(t, mgr.Enabled())
	assert.Equal(t, 0, src.SubscriberCount())

	// The run proceeds with zero extra properties on results.
	result := &types.TestResult{TestCaseID: types.NewTestCaseID()}
	src.PublishResult(types.ResultEvent{Result: result})
	assert.Empty(t, result.Properties)
}

func TestNewFromRunSettingsFile(t *testing.T) {
	tmpDir := t.TempDir()
	settingsPath := filepath.Join(tmpDir, "runsettings.yaml")

	runSettings := `
enabled: true
collectors:
  - identity: "file-configured"
    loadPath: telemetry.so
`
	require.NoError(t, os.WriteFile(settingsPath, []byte(runSettings), 0644))

	c := &telemetryCollector{identity: "file-configured", startKey: "s", endKey: "e"}
	mgr, err := New(&Config{
		RunSettingsFile: settingsPath,
		DefaultLoadPath: tmpDir,
		Loader:          loaderFor(map[string]collector.Collector{"file-configured": c}),
		Source:          events.NewSource(),
	})
	require.NoError(t, err)
	require.True(t, mgr.Enabled())

	handles := mgr.Registry().Handles()
	require.Len(t, handles, 1)
	assert.Equal(t, filepath.Join(tmpDir, "telemetry.so"), handles[0].LoadPath())
}

func TestNewMissingRunSettingsFileDisablesCollection(t *testing.T) {
	mgr, err := New(&Config{
		RunSettingsFile: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
		Loader:          loaderFor(nil),
		Source:          events.NewSource(),
	})
	require.NoError(t, err)
	assert.False(t, mgr.Enabled())
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(&Config{Source: events.NewSource()})
	require.Error(t, err, "loader is required")

	_, err = New(&Config{Loader: loaderFor(nil)})
	require.Error(t, err, "event source is required")
}

func TestPrintSummary(t *testing.T) {
	c := &telemetryCollector{identity: "summarized", startKey: "s", endKey: "e"}

	src := events.NewSource()
	mgr, err := New(&Config{
		Settings: &types.RunSettings{
			Enabled:    true,
			Collectors: []types.CollectorSettings{{Identity: "summarized", LoadPath: "/abs/t.so"}},
		},
		Loader: loaderFor(map[string]collector.Collector{"summarized": c}),
		Source: src,
	})
	require.NoError(t, err)

	element := types.TestElement{ID: types.NewTestCaseID()}
	src.PublishTestCaseStart(types.TestCaseStartEvent{Element: element})

	var buf bytes.Buffer
	mgr.PrintSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "summarized")
	assert.Contains(t, out, "/abs/t.so")
	assert.Contains(t, out, "TOTAL")
}
