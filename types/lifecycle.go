package types

// Engine-side lifecycle event payloads. These are what the external test
// engine publishes; the dispatcher translates them into collector arguments.
// Payloads are immutable once constructed and passed by value.

// SessionStartEvent announces the start of a test session.
type SessionStartEvent struct {
	TestSources []string
}

// SessionEndEvent announces the end of a test session.
type SessionEndEvent struct{}

// TestCaseStartEvent announces that a test case is about to execute.
type TestCaseStartEvent struct {
	Element TestElement
}

// TestCaseEndEvent announces that a test case finished with an outcome.
type TestCaseEndEvent struct {
	Element TestElement
	Outcome TestOutcome
}

// ResultEvent carries a produced test result, raised after the test case end
// event for the same test case identifier.
type ResultEvent struct {
	Result *TestResult
}

// Collector-side lifecycle arguments. One argument struct per callback,
// constructed by the dispatcher for each event and shared by every collector
// invocation of that event.

// PropertyTestSources is the session property key carrying the test sources.
const PropertyTestSources = "TestSources"

// SessionStartArgs is passed to every collector's TestSessionStart callback.
// Properties always carries at least the test sources list.
type SessionStartArgs struct {
	SessionID   string
	TestSources []string
	Properties  map[string]string
}

// SessionEndArgs is passed to every collector's TestSessionEnd callback.
type SessionEndArgs struct{}

// TestCaseStartArgs is passed to every collector's TestCaseStart callback.
type TestCaseStartArgs struct {
	Element TestElement
}

// DataCollectionContext scopes a collection callback to one test case.
type DataCollectionContext struct {
	TestCase TestElement
}

// TestCaseEndArgs is passed to every collector's TestCaseEnd callback.
type TestCaseEndArgs struct {
	Context DataCollectionContext
	Outcome TestOutcome
}
