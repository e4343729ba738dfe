// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package timecode

import "testing"

// TestParseValid verifies accepted time codes and their second values.
func TestParseValid(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"00:00:59", 59},
		{"00:01:00", 60},
		{"01:02:03", 3723},
		{"99:00:00", 356400},
		{"123:00:01", 442801},
	}

	for _, c := range cases {
		tc, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if tc.Seconds() != c.want {
			t.Fatalf("Parse(%q).Seconds() = %d, want %d", c.in, tc.Seconds(), c.want)
		}
	}
}

// TestParseInvalid verifies rejected inputs fail with ErrInvalidFormat.
func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"00:00",
		"00:60:00",
		"00:00:60",
		"1:2:3",
		"-1:00:00",
		"00:00:00.5",
		"aa:bb:cc",
		" 00:00:01",
		"00:00:01 ",
	}

	for _, c := range cases {
		if _, err := Parse(c); err != ErrInvalidFormat {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidFormat", c, err)
		}
	}
}

// TestRoundTrip verifies format(parse(s)) == s for canonical inputs.
func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00:00", "00:10:42", "01:59:59", "27:00:30"} {
		tc, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := tc.String(); got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	}
}

// TestFromSeconds verifies formatting and the non-negative invariant.
func TestFromSeconds(t *testing.T) {
	if got := FromSeconds(3723).String(); got != "01:02:03" {
		t.Fatalf("FromSeconds(3723) = %q, want 01:02:03", got)
	}
	if got := FromSeconds(-5).Seconds(); got != 0 {
		t.Fatalf("FromSeconds(-5).Seconds() = %d, want 0", got)
	}

	for _, n := range []int{0, 1, 59, 60, 3600, 86399, 360000} {
		tc, err := Parse(FromSeconds(n).String())
		if err != nil {
			t.Fatalf("Parse(FromSeconds(%d)): %v", n, err)
		}
		if tc.Seconds() != n {
			t.Fatalf("seconds round trip %d -> %d", n, tc.Seconds())
		}
	}
}

// TestBefore verifies strict ordering.
func TestBefore(t *testing.T) {
	a := FromSeconds(10)
	b := FromSeconds(20)
	if !a.Before(b) || b.Before(a) || a.Before(a) {
		t.Fatal("Before ordering broken")
	}
}
