// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ZSC714725/cliptrim/internal/api"
	"github.com/ZSC714725/cliptrim/internal/config"
	"github.com/ZSC714725/cliptrim/internal/ffmpeg"
	"github.com/ZSC714725/cliptrim/internal/jobs"
	"github.com/ZSC714725/cliptrim/internal/logger"
	"github.com/ZSC714725/cliptrim/internal/probe"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	bind := flag.String("bind", "", "Bind address (overrides config)")
	ffmpegBin := flag.String("ffmpeg", "", "FFmpeg binary path (overrides config)")
	ffprobeBin := flag.String("ffprobe", "", "FFprobe binary path (overrides config)")
	flag.Parse()

	// .env 可选，用于部署环境覆盖
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}

	bindAddr := cfg.Server.Bind
	if *bind != "" {
		bindAddr = *bind
	}
	if *ffmpegBin != "" {
		cfg.FFmpeg.Path = *ffmpegBin
	}
	if *ffprobeBin != "" {
		cfg.FFmpeg.ProbePath = *ffprobeBin
	}

	logger := logger.New("cliptrim ")

	tools, err := ffmpeg.New(ffmpeg.Config{
		FFmpegPath:  cfg.FFmpeg.Path,
		FFprobePath: cfg.FFmpeg.ProbePath,
	})
	if err != nil {
		log.Fatalf("Toolchain init: %v", err)
	}

	caps := tools.Capabilities()
	if !caps.HasEncoder("aac") {
		logger.Error("ffmpeg has no aac encoder, trims will fail")
	}
	if !caps.HasFilter("loudnorm") {
		logger.Error("ffmpeg has no loudnorm filter, normalization will fail")
	}

	validatorIn, err := ffmpeg.NewValidator(cfg.Paths.InputAllow, cfg.Paths.InputBlock)
	if err != nil {
		log.Fatalf("Input validator: %v", err)
	}
	validatorOut, err := ffmpeg.NewValidator(cfg.Paths.OutputAllow, cfg.Paths.OutputBlock)
	if err != nil {
		log.Fatalf("Output validator: %v", err)
	}

	prober := probe.New(probe.Config{
		FFmpeg:  tools.FFmpeg,
		FFprobe: tools.FFprobe,
		Logger:  logger,
	})

	store := jobs.NewStore(jobs.Config{
		FFmpeg:      tools.FFmpeg,
		Prober:      prober,
		Logger:      logger,
		MaxLogLines: cfg.FFmpeg.MaxLogLines,
	})

	handler := api.NewHandler(api.Config{
		Store:        store,
		Prober:       prober,
		Tools:        tools,
		ValidatorIn:  validatorIn,
		ValidatorOut: validatorOut,
	})

	r := gin.Default()
	r.Use(gin.Recovery(), cors.Default())

	handler.Register(r.Group("/api/v1"))

	log.Printf("ClipTrim listening on %s", bindAddr)
	if err := r.Run(bindAddr); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
