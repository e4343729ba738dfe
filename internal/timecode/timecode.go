// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具
//
// Package timecode provides the hh:mm:ss value type used for trim windows.

package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidFormat is returned when a string is not a valid hh:mm:ss time code.
var ErrInvalidFormat = errors.New("invalid time format, expected hh:mm:ss")

// 小时不设上限，分钟和秒必须在 00-59
var pattern = regexp.MustCompile(`^([0-9]+):([0-5][0-9]):([0-5][0-9])$`)

// TimeCode wraps a non-negative number of whole seconds.
type TimeCode struct {
	seconds int
}

// Parse converts a strict hh:mm:ss string into a TimeCode.
func Parse(text string) (TimeCode, error) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return TimeCode{}, ErrInvalidFormat
	}

	h, err := strconv.Atoi(m[1])
	if err != nil {
		return TimeCode{}, ErrInvalidFormat
	}
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])

	return TimeCode{seconds: h*3600 + mm*60 + ss}, nil
}

// FromSeconds builds a TimeCode from whole seconds, clamping negatives to zero.
func FromSeconds(n int) TimeCode {
	if n < 0 {
		n = 0
	}
	return TimeCode{seconds: n}
}

// Seconds returns the total number of whole seconds.
func (t TimeCode) Seconds() int {
	return t.seconds
}

// String formats the time code as hh:mm:ss with zero-padded fields.
// It is the inverse of Parse for canonical two-digit-hour inputs.
func (t TimeCode) String() string {
	h := t.seconds / 3600
	m := (t.seconds % 3600) / 60
	s := t.seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Before reports whether t is strictly earlier than other.
func (t TimeCode) Before(other TimeCode) bool {
	return t.seconds < other.seconds
}
