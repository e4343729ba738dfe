// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package jobs

import (
	"sync"
	"time"
)

// EventType classifies notifications emitted during job execution.
type EventType string

const (
	EventProgress  EventType = "progress"
	EventHeartbeat EventType = "heartbeat"
	EventCompleted EventType = "completed"
	EventCancelled EventType = "cancelled"
	EventFailed    EventType = "failed"
)

// Terminal reports whether the event ends its job. Exactly one terminal
// event is published per job, always last.
func (t EventType) Terminal() bool {
	return t == EventCompleted || t == EventCancelled || t == EventFailed
}

// Event is a sequenced payload consumed by polling clients.
type Event struct {
	Seq        int64     `json:"seq"`
	Timestamp  time.Time `json:"timestamp"`
	JobID      string    `json:"job_id"`
	Type       EventType `json:"type"`
	Percent    int       `json:"percent,omitempty"`
	OutputPath string    `json:"output_path,omitempty"`
	Message    string    `json:"message,omitempty"`
}

// EventBus stores recent events for one job and provides incremental
// reads. Publishing never blocks on consumers.
type EventBus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
}

// NewEventBus creates a bounded in-memory event buffer.
func NewEventBus(maxEvents int) *EventBus {
	if maxEvents <= 0 {
		maxEvents = 500
	}
	return &EventBus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Publish appends one event and assigns sequence and timestamp.
func (b *EventBus) Publish(event Event) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *EventBus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}

// busSink bridges supervisor/probe callbacks onto a job's event buffer.
type busSink struct {
	bus   *EventBus
	jobID string
}

func (s *busSink) OnProgress(percent int) {
	s.bus.Publish(Event{JobID: s.jobID, Type: EventProgress, Percent: percent})
}

func (s *busSink) OnHeartbeat() {
	s.bus.Publish(Event{JobID: s.jobID, Type: EventHeartbeat})
}

func (s *busSink) OnCompleted(outputPath string) {
	s.bus.Publish(Event{JobID: s.jobID, Type: EventCompleted, Percent: 100, OutputPath: outputPath})
}

func (s *busSink) OnCancelled() {
	s.bus.Publish(Event{JobID: s.jobID, Type: EventCancelled})
}

func (s *busSink) OnFailed(err error) {
	s.bus.Publish(Event{JobID: s.jobID, Type: EventFailed, Message: err.Error()})
}
