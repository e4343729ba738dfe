// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package trim

// EventSink receives job notifications. Implementations must not block:
// the supervisor calls into the sink from its worker goroutine. Exactly
// one of OnCompleted/OnCancelled/OnFailed fires per job, exactly once,
// and always after the last progress event. OnHeartbeat is only used by
// loudness probes, where no percentage can be derived.
type EventSink interface {
	OnProgress(percent int)
	OnHeartbeat()
	OnCompleted(outputPath string)
	OnCancelled()
	OnFailed(err error)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnProgress(percent int)        {}
func (NopSink) OnHeartbeat()                  {}
func (NopSink) OnCompleted(outputPath string) {}
func (NopSink) OnCancelled()                  {}
func (NopSink) OnFailed(err error)            {}
