package events

import (
	"context"
	"sync"
)

// PublishedEvent is one recorded Publish call.
type PublishedEvent struct {
	Subject string
	Event   any
}

// MockPublisher records published events for test assertions.
type MockPublisher struct {
	// PublishFunc allows customizing publish behavior.
	PublishFunc func(ctx context.Context, subject string, event any) error

	mu        sync.Mutex
	Published []PublishedEvent
}

// NewMockPublisher creates a new recording publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, event any) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, subject, event)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishedEvent{Subject: subject, Event: event})
	return nil
}

func (m *MockPublisher) Close() {}

// BySubject returns the recorded events for one subject.
func (m *MockPublisher) BySubject(subject string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PublishedEvent
	for _, e := range m.Published {
		if e.Subject == subject {
			out = append(out, e)
		}
	}
	return out
}
