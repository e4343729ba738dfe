// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package ffmpeg

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// NewLineScanner returns a scanner that splits FFmpeg diagnostic output
// on both \n and \r. FFmpeg rewrites its progress line with carriage
// returns, so a plain line scanner would buffer it until process exit.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Split(ScanLine)
	return scanner
}

// ScanLine is a bufio.SplitFunc treating \r and \n as line terminators.
func ScanLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += w
	}

	for i := start; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + w, data[start:i], nil
		}
		i += w
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
