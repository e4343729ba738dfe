// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具
//
// Package probe inspects media files with ffprobe and ffmpeg.

package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"github.com/ZSC714725/cliptrim/internal/ffmpeg"
	"github.com/ZSC714725/cliptrim/internal/logger"
)

var (
	// ErrNotFound is returned when the duration field is absent or the
	// file cannot be read by the inspection tool.
	ErrNotFound = errors.New("duration not found")
	// ErrUnparseable is returned when the inspection output cannot be decoded.
	ErrUnparseable = errors.New("probe output unparseable")
)

// mean_volume 行形如: [Parsed_volumedetect_0 @ 0x...] mean_volume: -23.5 dB
var meanVolumeRe = regexp.MustCompile(`mean_volume:\s*(-?[0-9]+(?:\.[0-9]+)?)\s*dB`)

// LoudnessResult is the outcome of a loudness scan. Detected is false
// when the tool produced no mean volume line, a legitimate unknown.
type LoudnessResult struct {
	MeanVolumeDb float64
	Detected     bool
}

// Runner abstracts one-shot command execution for testability.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Config for a Probe
type Config struct {
	FFmpeg            string
	FFprobe           string
	Runner            Runner
	Logger            logger.Logger
	HeartbeatInterval time.Duration
}

// Probe runs external inspection commands against media files.
type Probe struct {
	ffmpeg    string
	ffprobe   string
	runner    Runner
	logger    logger.Logger
	heartbeat time.Duration
}

// New creates a Probe
func New(config Config) *Probe {
	p := &Probe{
		ffmpeg:    config.FFmpeg,
		ffprobe:   config.FFprobe,
		runner:    config.Runner,
		logger:    config.Logger,
		heartbeat: config.HeartbeatInterval,
	}
	if p.runner == nil {
		p.runner = &execRunner{}
	}
	if p.logger == nil {
		p.logger = logger.Nop()
	}
	if p.heartbeat <= 0 {
		p.heartbeat = 500 * time.Millisecond
	}
	return p
}

// Duration returns the container duration of path in whole seconds.
func (p *Probe) Duration(ctx context.Context, path string) (int, error) {
	stdout, _, err := p.runner.Run(ctx, p.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return parseDuration(stdout)
}

func parseDuration(data []byte) (int, error) {
	var out struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if out.Format.Duration == "" {
		return 0, ErrNotFound
	}
	seconds, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("%w: duration %q", ErrUnparseable, out.Format.Duration)
	}
	return int(seconds), nil
}

// Loudness scans the file with the volumedetect filter and returns the
// mean audio volume. The scan reads the tool's diagnostic stream line by
// line; onHeartbeat is invoked periodically since no percentage can be
// derived from a single pass over undifferentiated log lines. The scan
// is cancelled through ctx.
func (p *Probe) Loudness(ctx context.Context, path string, onHeartbeat func()) (LoudnessResult, error) {
	cmd := exec.CommandContext(ctx, p.ffmpeg,
		"-i", path,
		"-af", "volumedetect",
		"-f", "null", "-")
	cmd.Stdout = io.Discard

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return LoudnessResult{}, fmt.Errorf("loudness probe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return LoudnessResult{}, fmt.Errorf("loudness probe: %w", err)
	}

	result := p.scanMeanVolume(stderr, onHeartbeat)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return LoudnessResult{}, ctx.Err()
		}
		// 工具失败但没有 mean_volume 行时按未检测处理
		p.logger.Debug("volumedetect exited: %v", err)
	}

	return result, nil
}

// scanMeanVolume reads diagnostic lines until EOF. The first mean volume
// marker wins; unrelated noise lines are skipped.
func (p *Probe) scanMeanVolume(r io.Reader, onHeartbeat func()) LoudnessResult {
	result := LoudnessResult{}
	lastBeat := time.Time{}

	scanner := ffmpeg.NewLineScanner(r)
	for scanner.Scan() {
		if onHeartbeat != nil && time.Since(lastBeat) >= p.heartbeat {
			lastBeat = time.Now()
			onHeartbeat()
		}
		if result.Detected {
			continue
		}
		if m := meanVolumeRe.FindStringSubmatch(scanner.Text()); m != nil {
			if db, err := strconv.ParseFloat(m[1], 64); err == nil {
				result.MeanVolumeDb = db
				result.Detected = true
			}
		}
	}
	return result
}
