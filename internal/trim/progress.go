// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package trim

import (
	"regexp"
	"strconv"
	"sync"
)

// 支持 .0 .00 .000 等小数部分，忽略之
var timeRe = regexp.MustCompile(`time=\s*([0-9]+):([0-9]{2}):([0-9]{2})(?:\.[0-9]+)?`)

// progressTracker converts FFmpeg time= diagnostic lines into a
// monotonically non-decreasing percentage of the trim segment. The
// invocation built by Command seeks on the output side, so the reported
// time is segment-relative (starts near zero).
type progressTracker struct {
	segmentSeconds int

	mu   sync.Mutex
	last int
}

func newProgressTracker(segmentSeconds int) *progressTracker {
	return &progressTracker{segmentSeconds: segmentSeconds}
}

// Scan extracts the elapsed time from one diagnostic line. Lines without
// a parsable marker yield ok=false; progress is best effort. Values that
// would regress are clamped to the last emitted percentage so consumers
// never observe a decrease.
func (p *progressTracker) Scan(line string) (percent int, ok bool) {
	m := timeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}

	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])
	elapsed := h*3600 + mm*60 + ss

	percent = 0
	if p.segmentSeconds > 0 {
		percent = (elapsed*100 + p.segmentSeconds/2) / p.segmentSeconds
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if percent < p.last {
		percent = p.last
	}
	p.last = percent
	return percent, true
}

// Last returns the last emitted percentage.
func (p *progressTracker) Last() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
