// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package trim

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 输出统一封装为 mp4，与原始工具一致
const outputExt = ".mp4"

// OutputPath returns the deterministic clip path:
// <dir>/clip_<start>_<end>_<tag>.mp4 with ':' replaced by '-'.
func (r Request) OutputPath() string {
	name := fmt.Sprintf("clip_%s_%s_%s%s",
		dashed(r.Start.String()),
		dashed(r.End.String()),
		r.Level.Tag(),
		outputExt)
	return filepath.Join(r.OutputDir, name)
}

// Command builds the complete FFmpeg argument list for the request.
// Pure string assembly: no I/O, no side effects. Video is stream-copied
// and audio re-encoded to AAC so the loudness filter can apply.
func (r Request) Command() []string {
	cmd := []string{
		"-y",
		"-i", r.Input,
		"-ss", r.Start.String(),
		"-to", r.End.String(),
		"-c:v", "copy",
		"-c:a", "aac",
	}

	if !r.Level.Skip() {
		cmd = append(cmd, "-af", fmt.Sprintf("loudnorm=I=%d", int(r.Level)))
	}

	cmd = append(cmd, r.OutputPath())
	return cmd
}

func dashed(tc string) string {
	return strings.ReplaceAll(tc, ":", "-")
}
