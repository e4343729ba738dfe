// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package trim

import "testing"

// TestProgressScan verifies the segment-relative percent computation.
// A 30s segment with elapsed 00:00:15 is half done. The invocation seeks
// on the output side, so FFmpeg reports time relative to the segment.
func TestProgressScan(t *testing.T) {
	p := newProgressTracker(30)

	percent, ok := p.Scan("frame=  360 fps=120 q=-1.0 size=    2048kB time=00:00:15.04 bitrate=1117.5kbits/s speed=5.1x")
	if !ok {
		t.Fatal("expected progress")
	}
	if percent != 50 {
		t.Fatalf("percent = %d, want 50", percent)
	}
}

// TestProgressMonotonic verifies jittery input never regresses.
func TestProgressMonotonic(t *testing.T) {
	p := newProgressTracker(100)
	lines := []string{
		"time=00:00:10.00",
		"time=00:00:40.00",
		"time=00:00:30.00", // 乱序
		"time=00:00:40.00",
		"time=00:01:50.00", // 超出段长
	}
	want := []int{10, 40, 40, 40, 100}

	for i, line := range lines {
		percent, ok := p.Scan(line)
		if !ok {
			t.Fatalf("line %d: expected progress", i)
		}
		if percent != want[i] {
			t.Fatalf("line %d: percent = %d, want %d", i, percent, want[i])
		}
	}
	if p.Last() != 100 {
		t.Fatalf("Last = %d, want 100", p.Last())
	}
}

// TestProgressNoise verifies unparsable lines yield no update, not an error.
func TestProgressNoise(t *testing.T) {
	p := newProgressTracker(30)
	for _, line := range []string{
		"",
		"Stream mapping:",
		"Press [q] to stop, [?] for help",
		"time=garbage",
		"time=00:00", // 不完整
	} {
		if _, ok := p.Scan(line); ok {
			t.Fatalf("line %q: unexpected progress", line)
		}
	}
	if p.Last() != 0 {
		t.Fatalf("Last = %d, want 0", p.Last())
	}
}

// TestProgressClamped verifies the 0..100 clamp.
func TestProgressClamped(t *testing.T) {
	p := newProgressTracker(10)
	percent, ok := p.Scan("time=01:00:00.00")
	if !ok || percent != 100 {
		t.Fatalf("percent = %d ok=%v, want 100", percent, ok)
	}

	zero := newProgressTracker(0)
	percent, ok = zero.Scan("time=00:00:05.00")
	if !ok || percent != 0 {
		t.Fatalf("zero segment percent = %d ok=%v, want 0", percent, ok)
	}
}
