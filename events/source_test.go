package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testhost/datacollect/types"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	src := NewSource()

	var order []string
	src.SubscribeTestCaseStart(func(types.TestCaseStartEvent) { order = append(order, "first") })
	src.SubscribeTestCaseStart(func(types.TestCaseStartEvent) { order = append(order, "second") })

	src.PublishTestCaseStart(types.TestCaseStartEvent{})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishCarriesPayload(t *testing.T) {
	src := NewSource()

	var got types.TestCaseEndEvent
	src.SubscribeTestCaseEnd(func(evt types.TestCaseEndEvent) { got = evt })

	element := types.TestElement{ID: types.NewTestCaseID(), DisplayName: "TestFoo"}
	src.PublishTestCaseEnd(types.TestCaseEndEvent{Element: element, Outcome: types.OutcomeFail})

	assert.Equal(t, element, got.Element)
	assert.Equal(t, types.OutcomeFail, got.Outcome)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	src := NewSource()

	// Publishing with no subscribers is a no-op, never a panic.
	src.PublishSessionStart(types.SessionStartEvent{TestSources: []string{"a.dll"}})
	src.PublishSessionEnd(types.SessionEndEvent{})
	src.PublishTestCaseStart(types.TestCaseStartEvent{})
	src.PublishTestCaseEnd(types.TestCaseEndEvent{})
	src.PublishResult(types.ResultEvent{})
}

func TestSubscriberCount(t *testing.T) {
	src := NewSource()
	require.Equal(t, 0, src.SubscriberCount())

	src.SubscribeSessionStart(func(types.SessionStartEvent) {})
	src.SubscribeSessionEnd(func(types.SessionEndEvent) {})
	src.SubscribeTestCaseStart(func(types.TestCaseStartEvent) {})
	src.SubscribeTestCaseEnd(func(types.TestCaseEndEvent) {})
	src.SubscribeResult(func(types.ResultEvent) {})

	assert.Equal(t, 5, src.SubscriberCount())
}
