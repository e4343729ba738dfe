// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package trim

import (
	"container/ring"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/cliptrim/internal/ffmpeg"
	"github.com/ZSC714725/cliptrim/internal/logger"
)

var (
	// ErrNotIdle is returned when Start is called on a supervisor that
	// has already run. One job per instance; make a fresh one.
	ErrNotIdle = errors.New("supervisor is not idle")
	// ErrSpawnFailed wraps process startup failures.
	ErrSpawnFailed = errors.New("process spawn failed")
)

// State is the lifecycle state of a supervised job.
type State string

const (
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateCancelling State = "cancelling"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// ExitError reports a non-zero transcoder exit with the captured
// diagnostic tail.
type ExitError struct {
	Code int
	Tail []string
}

func (e *ExitError) Error() string {
	if len(e.Tail) == 0 {
		return fmt.Sprintf("transcoder exited with status %d", e.Code)
	}
	return fmt.Sprintf("transcoder exited with status %d: %s", e.Code, e.Tail[len(e.Tail)-1])
}

// Config for a Supervisor
type Config struct {
	Binary         string
	Args           []string
	SegmentSeconds int
	OutputPath     string
	Sink           EventSink
	Logger         logger.Logger
	MaxLogLines    int
}

// Supervisor owns the lifecycle of one transcode job: spawn, stream-parse
// progress, cancel, finalize. The worker goroutine owns the process
// handle exclusively; all interaction goes through Start and Cancel.
type Supervisor struct {
	binary     string
	args       []string
	outputPath string
	tracker    *progressTracker
	sink       EventSink
	logger     logger.Logger
	monitor    usageMonitor
	done       chan struct{}

	mu        sync.Mutex
	state     State
	cancelled bool
	cmd       *exec.Cmd
	killTimer *time.Timer
	tail      *ring.Ring
	tailLines int
}

// New creates an idle Supervisor
func New(config Config) *Supervisor {
	s := &Supervisor{
		binary:     config.Binary,
		args:       config.Args,
		outputPath: config.OutputPath,
		tracker:    newProgressTracker(config.SegmentSeconds),
		sink:       config.Sink,
		logger:     config.Logger,
		done:       make(chan struct{}),
		state:      StateIdle,
		tailLines:  config.MaxLogLines,
	}
	if s.sink == nil {
		s.sink = NopSink{}
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.tailLines <= 0 {
		s.tailLines = 100
	}
	s.tail = ring.New(s.tailLines)
	return s
}

// Start spawns the transcoder and begins reading its merged output
// stream on a worker goroutine. It never blocks on process I/O. A spawn
// failure is reported synchronously, once, and is not retried.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}

	cmd := exec.Command(s.binary, s.args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		s.state = StateFailed
		s.mu.Unlock()
		close(s.done)
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}
	cmd.Stderr = cmd.Stdout // 合并诊断输出

	if err := cmd.Start(); err != nil {
		s.state = StateFailed
		s.mu.Unlock()
		close(s.done)
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	s.cmd = cmd
	s.state = StateRunning
	s.mu.Unlock()

	if err := s.monitor.Start(cmd.Process.Pid); err != nil {
		s.logger.Debug("usage monitor: %v", err)
	}
	s.logger.Info("job started: %s %s", s.binary, strings.Join(s.args, " "))

	go s.reader(out)
	return nil
}

// Cancel requests termination of the running job. It is idempotent:
// after a terminal state, or before Start, it is a no-op. The terminal
// Cancelled event is emitted by the worker once the process is reaped.
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.state = StateCancelling
	cmd := s.cmd
	s.killTimer = time.AfterFunc(5*time.Second, func() {
		cmd.Process.Kill()
	})
	s.mu.Unlock()

	s.logger.Info("job cancel requested")
	if runtime.GOOS == "windows" {
		cmd.Process.Kill()
		return
	}
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}
}

// Wait blocks until the job reaches a terminal state and its terminal
// event has been delivered. It returns immediately for idle supervisors
// that failed to spawn.
func (s *Supervisor) Wait() {
	<-s.done
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastProgress returns the last emitted percentage.
func (s *Supervisor) LastProgress() int {
	return s.tracker.Last()
}

// OutputPath returns the clip path the job writes to.
func (s *Supervisor) OutputPath() string {
	return s.outputPath
}

// Usage returns current CPU percent and RSS of the child process.
func (s *Supervisor) Usage() (cpu float64, memory uint64) {
	return s.monitor.Current()
}

// Tail returns the captured tail of diagnostic output.
func (s *Supervisor) Tail() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tailLocked()
}

func (s *Supervisor) tailLocked() []string {
	var out []string
	s.tail.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(string))
		}
	})
	return out
}

func (s *Supervisor) reader(out io.Reader) {
	scanner := ffmpeg.NewLineScanner(out)
	for scanner.Scan() {
		line := scanner.Text()

		s.mu.Lock()
		s.tail.Value = line
		s.tail = s.tail.Next()
		cancelled := s.cancelled
		s.mu.Unlock()

		// 取消后继续读空流但不再上报进度
		if cancelled {
			continue
		}
		if percent, ok := s.tracker.Scan(line); ok {
			s.sink.OnProgress(percent)
		}
	}

	s.waiter()
}

// waiter reaps the process and emits exactly one terminal event. It
// always runs, including on cancellation, so no process handle leaks.
func (s *Supervisor) waiter() {
	err := s.cmd.Wait()
	s.monitor.Stop()

	s.mu.Lock()
	if s.killTimer != nil {
		s.killTimer.Stop()
		s.killTimer = nil
	}

	var terminal func()
	switch {
	case s.cancelled:
		s.state = StateCancelled
		terminal = s.sink.OnCancelled
	case err == nil:
		s.state = StateCompleted
		output := s.outputPath
		terminal = func() { s.sink.OnCompleted(output) }
	default:
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		exit := &ExitError{Code: code, Tail: s.tailLocked()}
		s.state = StateFailed
		terminal = func() { s.sink.OnFailed(exit) }
	}
	state := s.state
	s.mu.Unlock()

	s.logger.Info("job finished: %s", state)
	terminal()
	close(s.done)
}
