// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

type fakeRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.gotName = name
	r.gotArgs = args
	return r.stdout, r.stderr, r.err
}

// TestDuration verifies ffprobe JSON output is decoded into whole seconds.
func TestDuration(t *testing.T) {
	runner := &fakeRunner{stdout: []byte(`{"format":{"duration":"60.043000"}}`)}
	p := New(Config{FFprobe: "ffprobe", Runner: runner})

	seconds, err := p.Duration(context.Background(), "/videos/in.mp4")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if seconds != 60 {
		t.Fatalf("seconds = %d, want 60", seconds)
	}
	if runner.gotName != "ffprobe" {
		t.Fatalf("ran %q, want ffprobe", runner.gotName)
	}
	want := []string{"-v", "error", "-show_entries", "format=duration", "-of", "json", "/videos/in.mp4"}
	if len(runner.gotArgs) != len(want) {
		t.Fatalf("args = %v, want %v", runner.gotArgs, want)
	}
	for i := range want {
		if runner.gotArgs[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q", i, runner.gotArgs[i], want[i])
		}
	}
}

// TestDurationMissingField verifies ErrNotFound when the field is absent.
func TestDurationMissingField(t *testing.T) {
	runner := &fakeRunner{stdout: []byte(`{"format":{}}`)}
	p := New(Config{Runner: runner})

	if _, err := p.Duration(context.Background(), "in.mp4"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

// TestDurationUnreadableFile verifies ErrNotFound when the tool fails.
func TestDurationUnreadableFile(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1")}
	p := New(Config{Runner: runner})

	if _, err := p.Duration(context.Background(), "missing.mp4"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

// TestDurationUnparseable verifies ErrUnparseable on undecodable output.
func TestDurationUnparseable(t *testing.T) {
	for _, out := range []string{"not json", `{"format":{"duration":"abc"}}`} {
		runner := &fakeRunner{stdout: []byte(out)}
		p := New(Config{Runner: runner})
		if _, err := p.Duration(context.Background(), "in.mp4"); !errors.Is(err, ErrUnparseable) {
			t.Fatalf("output %q: error = %v, want ErrUnparseable", out, err)
		}
	}
}

// TestScanMeanVolume verifies the first marker wins and noise is skipped.
func TestScanMeanVolume(t *testing.T) {
	p := New(Config{HeartbeatInterval: time.Nanosecond})
	lines := strings.Join([]string{
		"Input #0, mov,mp4,m4a, from 'in.mp4':",
		"  Duration: 00:01:00.04, start: 0.000000",
		"[Parsed_volumedetect_0 @ 0x5571] mean_volume: -23.4 dB",
		"[Parsed_volumedetect_0 @ 0x5571] mean_volume: -99.0 dB",
		"[Parsed_volumedetect_0 @ 0x5571] max_volume: -4.0 dB",
	}, "\n")

	beats := 0
	result := p.scanMeanVolume(strings.NewReader(lines), func() { beats++ })

	if !result.Detected {
		t.Fatal("expected detection")
	}
	if result.MeanVolumeDb != -23.4 {
		t.Fatalf("mean volume = %v, want -23.4", result.MeanVolumeDb)
	}
	if beats == 0 {
		t.Fatal("expected heartbeats during scan")
	}
}

// TestScanMeanVolumeNotDetected verifies a clean miss is not an error.
func TestScanMeanVolumeNotDetected(t *testing.T) {
	p := New(Config{})
	result := p.scanMeanVolume(strings.NewReader("no markers here\nat all\n"), nil)
	if result.Detected {
		t.Fatal("unexpected detection")
	}
}

// TestLoudness runs the scan against a stub tool writing diagnostics.
func TestLoudness(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts need /bin/sh")
	}
	script := filepath.Join(t.TempDir(), "ffmpeg")
	body := "#!/bin/sh\n" +
		"echo 'Stream mapping:' >&2\n" +
		"echo '[Parsed_volumedetect_0 @ 0x1] mean_volume: -17.2 dB' >&2\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	p := New(Config{FFmpeg: script, HeartbeatInterval: time.Nanosecond})
	result, err := p.Loudness(context.Background(), "in.mp4", nil)
	if err != nil {
		t.Fatalf("Loudness: %v", err)
	}
	if !result.Detected || result.MeanVolumeDb != -17.2 {
		t.Fatalf("result = %+v, want detected -17.2", result)
	}
}

// TestLoudnessCancelled verifies context cancellation surfaces as the
// context error, not a tool failure.
func TestLoudnessCancelled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub scripts need /bin/sh")
	}
	script := filepath.Join(t.TempDir(), "ffmpeg")
	body := "#!/bin/sh\nexec sleep 10\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	p := New(Config{FFmpeg: script})
	if _, err := p.Loudness(ctx, "in.mp4", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
