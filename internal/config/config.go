// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Paths  PathsConfig  `yaml:"paths"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Bind string `yaml:"bind"`
}

// FFmpegConfig 外部工具配置
type FFmpegConfig struct {
	Path        string `yaml:"path"`
	ProbePath   string `yaml:"probe_path"`
	MaxLogLines int    `yaml:"max_log_lines"`
}

// PathsConfig 输入/输出路径过滤规则
type PathsConfig struct {
	InputAllow  []string `yaml:"input_allow"`
	InputBlock  []string `yaml:"input_block"`
	OutputAllow []string `yaml:"output_allow"`
	OutputBlock []string `yaml:"output_block"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Bind: ":8080"},
		FFmpeg: FFmpegConfig{
			Path:        "ffmpeg",
			ProbePath:   "ffprobe",
			MaxLogLines: 100,
		},
	}
}

// Load 从 YAML 文件加载配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// 填充空值
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = ":8080"
	}
	if cfg.FFmpeg.Path == "" {
		cfg.FFmpeg.Path = "ffmpeg"
	}
	if cfg.FFmpeg.ProbePath == "" {
		cfg.FFmpeg.ProbePath = "ffprobe"
	}
	if cfg.FFmpeg.MaxLogLines <= 0 {
		cfg.FFmpeg.MaxLogLines = 100
	}

	return cfg, nil
}
