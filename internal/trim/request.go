// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具
//
// Package trim turns validated trim requests into supervised FFmpeg jobs.

package trim

import (
	"errors"
	"fmt"

	"github.com/ZSC714725/cliptrim/internal/timecode"
)

var (
	// ErrInvalidLevel rejects loudness targets outside the allowed set.
	ErrInvalidLevel = errors.New("invalid loudness level")
	// ErrInvalidRange rejects windows with start >= end or end beyond the
	// probed source duration.
	ErrInvalidRange = errors.New("invalid time range")
)

// Level is a loudness normalization target in dB. The zero value skips
// normalization entirely.
type Level int

// LevelSkip disables loudness normalization.
const LevelSkip Level = 0

// 与原始工具一致的归一化档位
var allowedLevels = map[Level]bool{-1: true, -3: true, -5: true}

// ParseLevel converts user input into a Level. "skip" and the empty
// string map to LevelSkip; anything outside the allowed set is a
// construction-time error.
func ParseLevel(text string) (Level, error) {
	switch text {
	case "", "skip", "Skip":
		return LevelSkip, nil
	case "-1":
		return Level(-1), nil
	case "-3":
		return Level(-3), nil
	case "-5":
		return Level(-5), nil
	default:
		return LevelSkip, fmt.Errorf("%w: %q", ErrInvalidLevel, text)
	}
}

// Skip reports whether normalization is disabled.
func (l Level) Skip() bool {
	return l == LevelSkip
}

// Tag returns the output file name fragment for the level.
func (l Level) Tag() string {
	if l.Skip() {
		return "skip"
	}
	return fmt.Sprintf("%ddb", int(l))
}

// Request is an immutable, validated trim request. Build one with
// NewRequest; it is consumed once to start a job and never mutated.
type Request struct {
	Input     string
	Start     timecode.TimeCode
	End       timecode.TimeCode
	OutputDir string
	Level     Level
}

// NewRequest validates the trim window against the probed source
// duration. Validation happens here, before any process is spawned.
func NewRequest(input string, start, end timecode.TimeCode, outputDir string, level Level, durationSeconds int) (Request, error) {
	if !level.Skip() && !allowedLevels[level] {
		return Request{}, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	if !start.Before(end) {
		return Request{}, fmt.Errorf("%w: start %s >= end %s", ErrInvalidRange, start, end)
	}
	if end.Seconds() > durationSeconds {
		return Request{}, fmt.Errorf("%w: end %s beyond source duration %s",
			ErrInvalidRange, end, timecode.FromSeconds(durationSeconds))
	}

	return Request{
		Input:     input,
		Start:     start,
		End:       end,
		OutputDir: outputDir,
		Level:     level,
	}, nil
}

// SegmentSeconds returns the length of the trim window.
func (r Request) SegmentSeconds() int {
	return r.End.Seconds() - r.Start.Seconds()
}
