// Package events provides the typed event source the test engine raises
// session and test-case lifecycle events on.
//
// The source is owned by the engine and passed to the collection subsystem
// at construction; there is no ambient global bus. Subscribers run
// synchronously on the publishing goroutine, in subscription order.
package events

import (
	"sync"

	"github.com/testhost/datacollect/types"
)

// Source is a typed publish/subscribe point for the five lifecycle events:
// session start, session end, test case start, test case end and
// result produced.
type Source struct {
	mu           sync.Mutex
	sessionStart []func(types.SessionStartEvent)
	sessionEnd   []func(types.SessionEndEvent)
	caseStart    []func(types.TestCaseStartEvent)
	caseEnd      []func(types.TestCaseEndEvent)
	result       []func(types.ResultEvent)
}

// NewSource creates an event source with no subscribers.
func NewSource() *Source {
	return &Source{}
}

func (s *Source) SubscribeSessionStart(fn func(types.SessionStartEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionStart = append(s.sessionStart, fn)
}

func (s *Source) SubscribeSessionEnd(fn func(types.SessionEndEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionEnd = append(s.sessionEnd, fn)
}

func (s *Source) SubscribeTestCaseStart(fn func(types.TestCaseStartEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseStart = append(s.caseStart, fn)
}

func (s *Source) SubscribeTestCaseEnd(fn func(types.TestCaseEndEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caseEnd = append(s.caseEnd, fn)
}

func (s *Source) SubscribeResult(fn func(types.ResultEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = append(s.result, fn)
}

// PublishSessionStart delivers the event to every subscriber in subscription
// order, synchronously on the calling goroutine.
func (s *Source) PublishSessionStart(evt types.SessionStartEvent) {
	s.mu.Lock()
	subs := s.sessionStart
	s.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

func (s *Source) PublishSessionEnd(evt types.SessionEndEvent) {
	s.mu.Lock()
	subs := s.sessionEnd
	s.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

func (s *Source) PublishTestCaseStart(evt types.TestCaseStartEvent) {
	s.mu.Lock()
	subs := s.caseStart
	s.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

func (s *Source) PublishTestCaseEnd(evt types.TestCaseEndEvent) {
	s.mu.Lock()
	subs := s.caseEnd
	s.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

func (s *Source) PublishResult(evt types.ResultEvent) {
	s.mu.Lock()
	subs := s.result
	s.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}

// SubscriberCount reports the total number of registered subscribers across
// all five events.
func (s *Source) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessionStart) + len(s.sessionEnd) +
		len(s.caseStart) + len(s.caseEnd) + len(s.result)
}
