// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具
//
// Package api exposes the trim core over HTTP. It is the caller of the
// core: it validates paths and time codes, probes durations, and turns
// requests into store jobs.

package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZSC714725/cliptrim/internal/ffmpeg"
	"github.com/ZSC714725/cliptrim/internal/jobs"
	"github.com/ZSC714725/cliptrim/internal/probe"
	"github.com/ZSC714725/cliptrim/internal/timecode"
	"github.com/ZSC714725/cliptrim/internal/trim"
)

// Handler holds dependencies
type Handler struct {
	store        *jobs.Store
	prober       *probe.Probe
	tools        *ffmpeg.Tools
	validatorIn  ffmpeg.Validator
	validatorOut ffmpeg.Validator
}

// Config for a Handler
type Config struct {
	Store        *jobs.Store
	Prober       *probe.Probe
	Tools        *ffmpeg.Tools
	ValidatorIn  ffmpeg.Validator
	ValidatorOut ffmpeg.Validator
}

// NewHandler creates the API handler
func NewHandler(config Config) *Handler {
	h := &Handler{
		store:        config.Store,
		prober:       config.Prober,
		tools:        config.Tools,
		validatorIn:  config.ValidatorIn,
		validatorOut: config.ValidatorOut,
	}
	if h.validatorIn == nil {
		h.validatorIn, _ = ffmpeg.NewValidator(nil, nil)
	}
	if h.validatorOut == nil {
		h.validatorOut, _ = ffmpeg.NewValidator(nil, nil)
	}
	return h
}

// Register mounts all routes on the group
func (h *Handler) Register(g *gin.RouterGroup) {
	g.POST("/trim", h.Trim)
	g.GET("/jobs", h.ListJobs)
	g.GET("/jobs/:id", h.GetJob)
	g.GET("/jobs/:id/events", h.JobEvents)
	g.POST("/jobs/:id/cancel", h.CancelJob)
	g.DELETE("/jobs/:id", h.DeleteJob)
	g.POST("/probe/duration", h.ProbeDuration)
	g.POST("/probe/loudness", h.ProbeLoudness)
	g.GET("/capabilities", h.Capabilities)
	g.POST("/capabilities/reload", h.ReloadCapabilities)
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

// Trim POST /api/v1/trim
func (h *Handler) Trim(c *gin.Context) {
	var req TrimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	if !h.validatorIn.IsValid(req.Input) {
		errResp(c, http.StatusBadRequest, "Input path not allowed", req.Input)
		return
	}
	if !h.validatorOut.IsValid(req.OutputDir) {
		errResp(c, http.StatusBadRequest, "Output path not allowed", req.OutputDir)
		return
	}

	start, err := timecode.Parse(req.Start)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid start time", err.Error())
		return
	}
	end, err := timecode.Parse(req.End)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid end time", err.Error())
		return
	}
	level, err := trim.ParseLevel(req.Level)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid loudness level", err.Error())
		return
	}

	info, err := os.Stat(req.OutputDir)
	if err != nil || !info.IsDir() {
		errResp(c, http.StatusBadRequest, "Output directory does not exist", req.OutputDir)
		return
	}

	duration, err := h.prober.Duration(c.Request.Context(), req.Input)
	if err != nil {
		errResp(c, http.StatusUnprocessableEntity, "Cannot probe source duration", err.Error())
		return
	}

	trimReq, err := trim.NewRequest(req.Input, start, end, req.OutputDir, level, duration)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid trim range", err.Error())
		return
	}

	job, err := h.store.Trim(trimReq)
	if err != nil {
		errResp(c, http.StatusInternalServerError, "Cannot start job", err.Error())
		return
	}

	c.JSON(http.StatusOK, jobToView(job, false))
}

// ListJobs GET /api/v1/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	list := h.store.List()
	views := make([]JobView, 0, len(list))
	for _, j := range list {
		views = append(views, jobToView(j, false))
	}
	c.JSON(http.StatusOK, views)
}

// GetJob GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, jobToView(j, true))
}

// JobEvents GET /api/v1/jobs/:id/events?since=N
func (h *Handler) JobEvents(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}

	since, err := strconv.ParseInt(c.DefaultQuery("since", "0"), 10, 64)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid since parameter", err.Error())
		return
	}

	events := j.Events(since)
	if events == nil {
		events = []jobs.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// CancelJob POST /api/v1/jobs/:id/cancel
func (h *Handler) CancelJob(c *gin.Context) {
	if err := h.store.Cancel(c.Param("id")); err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// DeleteJob DELETE /api/v1/jobs/:id
func (h *Handler) DeleteJob(c *gin.Context) {
	err := h.store.Delete(c.Param("id"))
	switch {
	case errors.Is(err, jobs.ErrNotFound):
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
	case errors.Is(err, jobs.ErrJobRunning):
		errResp(c, http.StatusConflict, "Job is still running", err.Error())
	case err != nil:
		errResp(c, http.StatusInternalServerError, "Delete failed", err.Error())
	default:
		c.JSON(http.StatusOK, "OK")
	}
}

// ProbeDuration POST /api/v1/probe/duration
func (h *Handler) ProbeDuration(c *gin.Context) {
	var req ProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if !h.validatorIn.IsValid(req.Path) {
		errResp(c, http.StatusBadRequest, "Input path not allowed", req.Path)
		return
	}

	seconds, err := h.prober.Duration(c.Request.Context(), req.Path)
	if err != nil {
		if errors.Is(err, probe.ErrUnparseable) {
			errResp(c, http.StatusUnprocessableEntity, "Probe output unparseable", err.Error())
			return
		}
		errResp(c, http.StatusNotFound, "Duration not found", err.Error())
		return
	}

	c.JSON(http.StatusOK, DurationResponse{
		Seconds: seconds,
		Text:    timecode.FromSeconds(seconds).String(),
	})
}

// ProbeLoudness POST /api/v1/probe/loudness
func (h *Handler) ProbeLoudness(c *gin.Context) {
	var req ProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if !h.validatorIn.IsValid(req.Path) {
		errResp(c, http.StatusBadRequest, "Input path not allowed", req.Path)
		return
	}

	// 扫描可能耗时数秒，作为带心跳事件的异步任务执行
	job := h.store.ProbeLoudness(req.Path)
	c.JSON(http.StatusAccepted, jobToView(job, false))
}

// Capabilities GET /api/v1/capabilities
func (h *Handler) Capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, capabilitiesToView(h.tools.Capabilities()))
}

// ReloadCapabilities POST /api/v1/capabilities/reload
func (h *Handler) ReloadCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, capabilitiesToView(h.tools.ReloadCapabilities()))
}

func capabilitiesToView(caps ffmpeg.Capabilities) CapabilitiesView {
	return CapabilitiesView{
		AAC:      caps.HasEncoder("aac"),
		Loudnorm: caps.HasFilter("loudnorm"),
		Encoders: len(caps.Encoders),
		Filters:  len(caps.Filters),
	}
}

func jobToView(j *jobs.Job, withTail bool) JobView {
	cpu, memory := j.Usage()
	v := JobView{
		ID:         j.ID,
		Kind:       string(j.Kind),
		Input:      j.Input,
		State:      string(j.State()),
		Progress:   j.Progress(),
		OutputPath: j.OutputPath(),
		CreatedAt:  j.CreatedAt,
		CPU:        cpu,
		Memory:     memory,
	}
	if withTail {
		v.LogTail = j.Tail()
	}
	if result, ok := j.Loudness(); ok {
		v.Loudness = &LoudnessView{MeanVolumeDb: result.MeanVolumeDb, Detected: result.Detected}
	}
	return v
}
