// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具
//
// Package ffmpeg resolves and describes the external FFmpeg toolchain.

package ffmpeg

import (
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// ErrToolNotFound is returned when an external binary cannot be resolved.
var ErrToolNotFound = errors.New("external tool not found")

// Config for the toolchain
type Config struct {
	FFmpegPath  string
	FFprobePath string
}

// Tools holds resolved binary paths for the external toolchain.
type Tools struct {
	FFmpeg  string
	FFprobe string

	caps     Capabilities
	capsLock sync.RWMutex
}

// New resolves the configured binaries and probes their capabilities.
// A missing binary is a startup error, reported once and never retried.
func New(config Config) (*Tools, error) {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.FFprobePath == "" {
		config.FFprobePath = "ffprobe"
	}

	ffmpeg, err := exec.LookPath(config.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, config.FFmpegPath)
	}
	ffprobe, err := exec.LookPath(config.FFprobePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, config.FFprobePath)
	}

	t := &Tools{
		FFmpeg:  ffmpeg,
		FFprobe: ffprobe,
	}
	t.caps = detectCapabilities(ffmpeg)

	return t, nil
}

// Capabilities returns the last detected toolchain capabilities.
func (t *Tools) Capabilities() Capabilities {
	t.capsLock.RLock()
	defer t.capsLock.RUnlock()
	return t.caps
}

// ReloadCapabilities re-probes the binary, e.g. after an upgrade.
func (t *Tools) ReloadCapabilities() Capabilities {
	caps := detectCapabilities(t.FFmpeg)
	t.capsLock.Lock()
	t.caps = caps
	t.capsLock.Unlock()
	return caps
}
