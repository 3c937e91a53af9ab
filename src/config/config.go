// MIT License
//
// Copyright (c) 2024 sphinx-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/config/config.go
//
// YAML configuration loading for the façade's code-generation parameters
// and supported chain set (spec §6 configuration surface). Sensitive or
// environment-specific overrides go through ACTIONCODES_-prefixed
// environment variables, applied after the YAML is parsed.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/actioncodes/protocol/src/model"
)

// File is the on-disk shape of the configuration YAML.
type File struct {
	CodeLength      int      `yaml:"codeLength"`
	TTLMs           int64    `yaml:"ttlMs"`
	ClockSkewMs     int64    `yaml:"clockSkewMs"`
	SupportedChains []string `yaml:"supportedChains"`
}

// defaultFile mirrors the spec's configuration defaults.
func defaultFile() File {
	return File{
		CodeLength:      8,
		TTLMs:           120_000,
		ClockSkewMs:     0,
		SupportedChains: []string{"solana"},
	}
}

// Load reads a YAML configuration file at path, falling back to the
// protocol's defaults for any field the file omits, then applies
// environment overrides. A non-positive ttlMs is rejected.
func Load(path string) (File, error) {
	f := defaultFile()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return File{}, fmt.Errorf("config load: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config unmarshal: %w", err)
	}
	applyEnvOverrides(&f)
	if f.TTLMs <= 0 {
		return File{}, fmt.Errorf("config: ttlMs must be positive, got %d", f.TTLMs)
	}
	return f, nil
}

// applyEnvOverrides lets deployment-specific values override the file
// without editing it, matching how the rest of the pack layers env
// overrides on top of a YAML base.
func applyEnvOverrides(f *File) {
	if v := os.Getenv("ACTIONCODES_CODE_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.CodeLength = n
		}
	}
	if v := os.Getenv("ACTIONCODES_TTL_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.TTLMs = n
		}
	}
	if v := os.Getenv("ACTIONCODES_CLOCK_SKEW_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.ClockSkewMs = n
		}
	}
}

// CodeGenerationConfig converts the loaded file into the model type the
// strategies and façade consume.
func (f File) CodeGenerationConfig() model.CodeGenerationConfig {
	return model.CodeGenerationConfig{
		CodeLength:  f.CodeLength,
		TTLMs:       f.TTLMs,
		ClockSkewMs: f.ClockSkewMs,
	}.Normalize()
}
