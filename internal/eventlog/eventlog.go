// Package eventlog keeps a bounded in-memory diagnostic trace per session.
// It exists for debugging only: events are never persisted and die with the
// session.
package eventlog

import (
	"sync"
	"time"
)

// EventType represents the type of session event.
type EventType string

const (
	EventSessionCreated     EventType = "session_created"
	EventModeChanged        EventType = "mode_changed"
	EventSourceChanged      EventType = "source_changed"
	EventSampleSet          EventType = "sample_set"
	EventSampleCleared      EventType = "sample_cleared"
	EventRecordingStarted   EventType = "recording_started"
	EventRecordingStopped   EventType = "recording_stopped"
	EventLiveStarted        EventType = "live_started"
	EventLiveStopped        EventType = "live_stopped"
	EventLiveError          EventType = "live_error"
	EventResumeExtracted    EventType = "resume_extracted"
	EventExtractionFailed   EventType = "extraction_failed"
	EventQuestionsGenerated EventType = "questions_generated"
	EventGenerationFailed   EventType = "generation_failed"
	EventQuestionSelected   EventType = "question_selected"
	EventAnalysisStarted    EventType = "analysis_started"
	EventAnalysisCompleted  EventType = "analysis_completed"
	EventAnalysisFailed     EventType = "analysis_failed"
	EventReportExported     EventType = "report_exported"
)

// Event is one diagnostic trace entry.
type Event struct {
	At   time.Time      `json:"at"`
	Type EventType      `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// DefaultCapacity bounds the number of events kept per session.
const DefaultCapacity = 200

// Logger records per-session events in bounded in-memory buffers.
type Logger struct {
	mu       sync.Mutex
	capacity int
	events   map[string][]Event
}

// New creates an event logger. capacity <= 0 uses DefaultCapacity.
func New(capacity int) *Logger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Logger{
		capacity: capacity,
		events:   make(map[string][]Event),
	}
}

// Log appends an event to the session's trace, dropping the oldest entry
// when the buffer is full. Empty session IDs are silently skipped.
func (l *Logger) Log(sessionID string, eventType EventType, data map[string]any) {
	if l == nil || sessionID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	evs := append(l.events[sessionID], Event{
		At:   time.Now().UTC(),
		Type: eventType,
		Data: data,
	})
	if len(evs) > l.capacity {
		evs = evs[len(evs)-l.capacity:]
	}
	l.events[sessionID] = evs
}

// Events returns a copy of the session's trace in insertion order.
func (l *Logger) Events(sessionID string) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	evs := l.events[sessionID]
	out := make([]Event, len(evs))
	copy(out, evs)
	return out
}

// Drop discards the trace of a session.
func (l *Logger) Drop(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.events, sessionID)
}
