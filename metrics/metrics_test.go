package metrics

import (
	"errors"
	"regexp"
	"testing"
)

func TestErrToLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name: "simple error",
			err:  errors.New("load error"),
		},
		{
			name: "error with special chars",
			err:  errors.New("load@error#123"),
		},
		{
			name: "error with multiple spaces",
			err:  errors.New("load   error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := errToLabel(tt.err)
			validLabelRegex := regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
			if !validLabelRegex.MatchString(result) {
				t.Errorf("errToLabel() = %v, is not a valid Prometheus label", result)
			}
		})
	}
}

func TestRecordCollectorLoaded(t *testing.T) {
	// just test that it doesn't panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("RecordCollectorLoaded panic'd")
		}
	}()

	RecordCollectorLoaded("Example.Collector, example")
}

func TestRecordCollectorError(t *testing.T) {
	RecordCollectorError("Example.Collector, example", "TestCaseStart")
	RecordCollectorError("", "load")
}

func TestRecordCollectorErrorDetails(t *testing.T) {
	// Test with nil error
	RecordCollectorErrorDetails("c", "load", nil)

	// Test with actual error
	RecordCollectorErrorDetails("c", "load", errors.New("sample error"))
}

func TestRecordDispatch(t *testing.T) {
	RecordDispatch("TestSessionStart")
	RecordDispatch("TestCaseEnd")
}

func TestRecordPropertiesMerged(t *testing.T) {
	RecordPropertiesMerged("tc42", 2)
	RecordPropertiesMerged("tc42", 0)
	RecordPropertiesMerged("", -1)
}

func TestSinkMetrics(t *testing.T) {
	RecordSinkDroppedWrite()
	SetSinkEntries(3)
	SetSinkEntries(0)
}
