// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// ClipTrim - FFmpeg 视频剪辑工具

package ffmpeg

import (
	"bufio"
	"bytes"
	"os/exec"
	"regexp"
	"sort"
)

// Capabilities are the detected encoders and filters of the FFmpeg binary.
// Trimming only needs the aac encoder and the loudnorm filter, but the
// full lists are kept for the capabilities endpoint.
type Capabilities struct {
	Encoders []string
	Filters  []string
}

// HasEncoder reports whether the binary provides the named encoder.
func (c Capabilities) HasEncoder(name string) bool {
	return contains(c.Encoders, name)
}

// HasFilter reports whether the binary provides the named filter.
func (c Capabilities) HasFilter(name string) bool {
	return contains(c.Filters, name)
}

func contains(sorted []string, name string) bool {
	i := sort.SearchStrings(sorted, name)
	return i < len(sorted) && sorted[i] == name
}

func detectCapabilities(binary string) Capabilities {
	c := Capabilities{
		Encoders: getEncoders(binary),
		Filters:  getFilters(binary),
	}
	sort.Strings(c.Encoders)
	sort.Strings(c.Filters)
	return c
}

func getEncoders(binary string) []string {
	cmd := exec.Command(binary, "-hide_banner", "-encoders")
	cmd.Env = []string{}
	stdout, _ := cmd.Output()
	return parseEncoders(stdout)
}

func parseEncoders(data []byte) []string {
	var encoders []string
	re := regexp.MustCompile(`^\s([VAS])[F.][S.][X.][B.][D.] ([0-9A-Za-z_]+)\s+`)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if m := re.FindStringSubmatch(scanner.Text()); m != nil {
			encoders = append(encoders, m[2])
		}
	}
	return encoders
}

func getFilters(binary string) []string {
	cmd := exec.Command(binary, "-hide_banner", "-filters")
	cmd.Env = []string{}
	stdout, _ := cmd.Output()
	return parseFilters(stdout)
}

func parseFilters(data []byte) []string {
	var filters []string
	re := regexp.MustCompile(`^\s[TSC.]{3} ([0-9A-Za-z_]+)\s+`)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if m := re.FindStringSubmatch(scanner.Text()); m != nil {
			filters = append(filters, m[1])
		}
	}
	return filters
}
