// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package api

// TrimRequest creates a trim job
type TrimRequest struct {
	Input     string `json:"input" binding:"required"`
	Start     string `json:"start" binding:"required"`
	End       string `json:"end" binding:"required"`
	OutputDir string `json:"output_dir" binding:"required"`
	Level     string `json:"level"`
}

// ProbeRequest targets a media file
type ProbeRequest struct {
	Path string `json:"path" binding:"required"`
}

// JobView is a job in API responses
type JobView struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Input      string   `json:"input"`
	State      string   `json:"state"`
	Progress   int      `json:"progress"`
	OutputPath string   `json:"output_path,omitempty"`
	CreatedAt  int64    `json:"created_at"`
	CPU        float64  `json:"cpu_usage"`
	Memory     uint64   `json:"memory_bytes"`
	LogTail    []string `json:"log_tail,omitempty"`

	Loudness *LoudnessView `json:"loudness,omitempty"`
}

// DurationResponse for the duration probe
type DurationResponse struct {
	Seconds int    `json:"duration_seconds"`
	Text    string `json:"duration"`
}

// LoudnessView reports a finished loudness probe
type LoudnessView struct {
	MeanVolumeDb float64 `json:"mean_volume_db"`
	Detected     bool    `json:"detected"`
}

// CapabilitiesView summarizes toolchain support relevant to trimming
type CapabilitiesView struct {
	AAC      bool `json:"aac"`
	Loudnorm bool `json:"loudnorm"`
	Encoders int  `json:"encoders"`
	Filters  int  `json:"filters"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
