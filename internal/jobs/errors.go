// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package jobs

import "errors"

var (
	ErrNotFound   = errors.New("job not found")
	ErrJobRunning = errors.New("job is still running")
)
