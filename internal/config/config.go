// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides functionality for working with the
// .autocxxgen.toml configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the tool-level configuration: everything about the build
// environment, as opposed to the per-block include_cpp! directives.
type Config struct {
	General GeneralConfig `toml:"general"`
}

// GeneralConfig holds the parser-related paths and flags and the output
// settings. The tool reads an already produced parser document and does not
// run the parser itself, so the parser settings are stored, not passed on.
type GeneralConfig struct {
	// IncludeDirs are the C++ include directories. They are not passed to
	// any parser; gen --watch watches them for header changes.
	IncludeDirs []string `toml:"incdirs,omitempty"`
	// ClangArgs are extra parser arguments. They are stored only and not
	// passed to any parser.
	ClangArgs []string `toml:"clang-args,omitempty"`
	// OutDir is where generated files land.
	OutDir string `toml:"outdir,omitempty"`
	// CxxImplAnnotations is read from the configuration file; the
	// generated C++ does not use it.
	CxxImplAnnotations string `toml:"cxx-impl-annotations,omitempty"`
	// SuppressSystemHeaders leaves <memory> and friends out of the
	// generated header.
	SuppressSystemHeaders bool `toml:"suppress-system-headers,omitempty"`
	// FixRsIncludeName names generated .rs files include_N.rs for build
	// systems which require it.
	FixRsIncludeName bool `toml:"fix-rs-include-name,omitempty"`
}

// DefaultConfigFile is looked for in the working directory.
const DefaultConfigFile = ".autocxxgen.toml"

// Load reads the configuration file, falling back to defaults when the file
// does not exist.
func Load(filename string) (*Config, error) {
	if filename == "" {
		filename = DefaultConfigFile
	}
	cfg := &Config{General: GeneralConfig{OutDir: "gen"}}
	contents, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", filename, err)
	}
	if cfg.General.OutDir == "" {
		cfg.General.OutDir = "gen"
	}
	return cfg, nil
}

// Merge overlays command-line values onto the file configuration; non-empty
// arguments win.
func (c *Config) Merge(incDirs, clangArgs []string, outDir string, suppressSystemHeaders bool) {
	if len(incDirs) > 0 {
		c.General.IncludeDirs = incDirs
	}
	if len(clangArgs) > 0 {
		c.General.ClangArgs = clangArgs
	}
	if outDir != "" {
		c.General.OutDir = outDir
	}
	if suppressSystemHeaders {
		c.General.SuppressSystemHeaders = true
	}
}
