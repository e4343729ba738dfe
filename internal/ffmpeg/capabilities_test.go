// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package ffmpeg

import (
	"sort"
	"testing"
)

var encodersFixture = []byte(`Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC (codec h264)
 V..... mpeg4                MPEG-4 part 2
 A....D aac                  AAC (Advanced Audio Coding)
 A....D ac3                  ATSC A/52A (AC-3)
 S..... srt                  SubRip subtitle
`)

var filtersFixture = []byte(`Filters:
  T.. = Timeline support
  .S. = Slice threading
  ..C = Command support
 ... abench            A->A       Benchmark part of a filtergraph.
 ..C loudnorm          A->A       EBU R128 loudness normalization
 TSC volume            A->A       Change input volume.
 ... volumedetect      A->A       Detect audio volume.
`)

// TestParseEncoders verifies encoder names are extracted from -encoders output.
func TestParseEncoders(t *testing.T) {
	encoders := parseEncoders(encodersFixture)
	want := []string{"libx264", "mpeg4", "aac", "ac3", "srt"}
	if len(encoders) != len(want) {
		t.Fatalf("encoders = %v, want %v", encoders, want)
	}
	for i := range want {
		if encoders[i] != want[i] {
			t.Fatalf("encoders[%d] = %q, want %q", i, encoders[i], want[i])
		}
	}
}

// TestParseFilters verifies filter names are extracted from -filters output.
func TestParseFilters(t *testing.T) {
	filters := parseFilters(filtersFixture)
	want := []string{"abench", "loudnorm", "volume", "volumedetect"}
	if len(filters) != len(want) {
		t.Fatalf("filters = %v, want %v", filters, want)
	}
	for i := range want {
		if filters[i] != want[i] {
			t.Fatalf("filters[%d] = %q, want %q", i, filters[i], want[i])
		}
	}
}

// TestCapabilitiesLookup verifies HasEncoder and HasFilter on sorted lists.
func TestCapabilitiesLookup(t *testing.T) {
	c := Capabilities{
		Encoders: parseEncoders(encodersFixture),
		Filters:  parseFilters(filtersFixture),
	}
	sort.Strings(c.Encoders)
	sort.Strings(c.Filters)

	if !c.HasEncoder("aac") {
		t.Fatal("expected aac encoder")
	}
	if c.HasEncoder("opus") {
		t.Fatal("unexpected opus encoder")
	}
	if !c.HasFilter("loudnorm") {
		t.Fatal("expected loudnorm filter")
	}
	if c.HasFilter("scale") {
		t.Fatal("unexpected scale filter")
	}
}
