// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具
//
// Package jobs tracks trim jobs and loudness probes in memory.

package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZSC714725/cliptrim/internal/logger"
	"github.com/ZSC714725/cliptrim/internal/probe"
	"github.com/ZSC714725/cliptrim/internal/trim"

	"github.com/lithammer/shortuuid/v4"
)

// Kind distinguishes supervised trim jobs from loudness probes.
type Kind string

const (
	KindTrim  Kind = "trim"
	KindProbe Kind = "probe"
)

// Job is one tracked unit of work with its own event buffer.
type Job struct {
	ID        string
	Kind      Kind
	Input     string
	CreatedAt int64

	bus *EventBus
	sup *trim.Supervisor

	mu          sync.Mutex
	probeState  trim.State
	loudness    probe.LoudnessResult
	cancelProbe context.CancelFunc
}

// State returns the job's lifecycle state.
func (j *Job) State() trim.State {
	if j.Kind == KindTrim {
		return j.sup.State()
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.probeState
}

// Progress returns the last emitted percentage for trim jobs. Probes
// have no derivable percentage and always report 0.
func (j *Job) Progress() int {
	if j.Kind == KindTrim {
		return j.sup.LastProgress()
	}
	return 0
}

// OutputPath returns the clip path for trim jobs.
func (j *Job) OutputPath() string {
	if j.Kind == KindTrim {
		return j.sup.OutputPath()
	}
	return ""
}

// Usage returns CPU percent and RSS of the child process for trim jobs.
func (j *Job) Usage() (cpu float64, memory uint64) {
	if j.Kind == KindTrim {
		return j.sup.Usage()
	}
	return 0, 0
}

// Tail returns the captured diagnostic tail for trim jobs.
func (j *Job) Tail() []string {
	if j.Kind == KindTrim {
		return j.sup.Tail()
	}
	return nil
}

// Loudness returns the probe result once a probe job completed.
func (j *Job) Loudness() (probe.LoudnessResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.loudness, j.probeState == trim.StateCompleted
}

// Events returns the job's events with sequence greater than seq.
func (j *Job) Events(seq int64) []Event {
	return j.bus.Since(seq)
}

// Config for a Store
type Config struct {
	FFmpeg      string
	Prober      *probe.Probe
	Logger      logger.Logger
	MaxLogLines int
	MaxEvents   int
}

// Store manages jobs in memory, keyed by short UUID.
type Store struct {
	ffmpeg      string
	prober      *probe.Probe
	logger      logger.Logger
	maxLogLines int
	maxEvents   int

	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewStore creates a job store
func NewStore(config Config) *Store {
	s := &Store{
		ffmpeg:      config.FFmpeg,
		prober:      config.Prober,
		logger:      config.Logger,
		maxLogLines: config.MaxLogLines,
		maxEvents:   config.MaxEvents,
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	s.jobs = make(map[string]*Job)
	return s
}

// Trim creates and starts a supervised trim job for a validated request.
// A spawn failure is returned once; the job is not registered.
func (s *Store) Trim(req trim.Request) (*Job, error) {
	id := shortuuid.New()
	bus := NewEventBus(s.maxEvents)

	sup := trim.New(trim.Config{
		Binary:         s.ffmpeg,
		Args:           req.Command(),
		SegmentSeconds: req.SegmentSeconds(),
		OutputPath:     req.OutputPath(),
		Sink:           &busSink{bus: bus, jobID: id},
		Logger:         s.logger,
		MaxLogLines:    s.maxLogLines,
	})

	if err := sup.Start(); err != nil {
		return nil, err
	}

	job := &Job{
		ID:        id,
		Kind:      KindTrim,
		Input:     req.Input,
		CreatedAt: time.Now().Unix(),
		bus:       bus,
		sup:       sup,
	}

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	s.logger.Info("trim job %s: %s -> %s", id, req.Input, req.OutputPath())
	return job, nil
}

// ProbeLoudness starts an asynchronous loudness scan. The scan emits
// heartbeat events while running and exactly one terminal event.
func (s *Store) ProbeLoudness(path string) *Job {
	id := shortuuid.New()
	bus := NewEventBus(s.maxEvents)
	ctx, cancel := context.WithCancel(context.Background())

	job := &Job{
		ID:          id,
		Kind:        KindProbe,
		Input:       path,
		CreatedAt:   time.Now().Unix(),
		bus:         bus,
		probeState:  trim.StateRunning,
		cancelProbe: cancel,
	}

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	sink := &busSink{bus: bus, jobID: id}
	go func() {
		defer cancel()
		result, err := s.prober.Loudness(ctx, path, sink.OnHeartbeat)

		job.mu.Lock()
		switch {
		case errors.Is(err, context.Canceled):
			job.probeState = trim.StateCancelled
			job.mu.Unlock()
			sink.OnCancelled()
		case err != nil:
			job.probeState = trim.StateFailed
			job.mu.Unlock()
			sink.OnFailed(err)
		default:
			job.loudness = result
			job.probeState = trim.StateCompleted
			job.mu.Unlock()
			bus.Publish(Event{
				JobID:   id,
				Type:    EventCompleted,
				Message: loudnessMessage(result),
			})
		}
	}()

	s.logger.Info("loudness probe %s: %s", id, path)
	return job
}

func loudnessMessage(result probe.LoudnessResult) string {
	if !result.Detected {
		return "mean volume not detected"
	}
	return fmt.Sprintf("mean_volume: %.1f dB", result.MeanVolumeDb)
}

// Get returns a job by ID.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j, nil
}

// List returns all tracked jobs.
func (s *Store) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out
}

// Cancel requests cancellation of a job. Idempotent; a no-op for jobs
// already in a terminal state.
func (s *Store) Cancel(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}

	if j.Kind == KindTrim {
		j.sup.Cancel()
		return nil
	}

	j.mu.Lock()
	cancel := j.cancelProbe
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Delete removes a terminal job from the store.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if !j.State().Terminal() {
		return ErrJobRunning
	}
	delete(s.jobs, id)
	return nil
}
