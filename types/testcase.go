package types

import (
	"time"

	"github.com/google/uuid"
)

// TestOutcome represents the terminal outcome of a test case
type TestOutcome string

const (
	OutcomePass  TestOutcome = "pass"
	OutcomeFail  TestOutcome = "fail"
	OutcomeSkip  TestOutcome = "skip"
	OutcomeError TestOutcome = "error"
	OutcomeNone  TestOutcome = "none"
)

// TestElement identifies a single test case known to the engine
type TestElement struct {
	ID                 string // GUID-like test case identifier
	DisplayName        string
	FullyQualifiedName string
	Source             string // Container the test was discovered in
}

// TestResult is the engine-owned result object produced after a test case
// finishes. The merger is its only writer within this subsystem; it attaches
// harvested collection data as named string properties.
type TestResult struct {
	TestCaseID string
	Element    TestElement
	Outcome    TestOutcome
	Duration   time.Duration
	Properties map[string]TestProperty
}

// AttachProperty registers the descriptor on the result and sets its string
// value. Attaching the same descriptor twice overwrites the previous value.
func (r *TestResult) AttachProperty(desc PropertyDescriptor, value string) {
	if r.Properties == nil {
		r.Properties = make(map[string]TestProperty)
	}
	r.Properties[desc.ID] = TestProperty{Descriptor: desc, Value: value}
}

// NewTestCaseID returns a fresh GUID-style test case identifier
func NewTestCaseID() string {
	return uuid.New().String()
}
