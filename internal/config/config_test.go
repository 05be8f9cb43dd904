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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.General.OutDir)
	assert.Empty(t, cfg.General.IncludeDirs)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".autocxxgen.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[general]
incdirs = ["include", "third_party"]
clang-args = ["-std=c++17"]
outdir = "build/gen"
suppress-system-headers = true
`), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"include", "third_party"}, cfg.General.IncludeDirs)
	assert.Equal(t, []string{"-std=c++17"}, cfg.General.ClangArgs)
	assert.Equal(t, "build/gen", cfg.General.OutDir)
	assert.True(t, cfg.General.SuppressSystemHeaders)
}

func TestLoadRejectsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[general\nbroken"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := &Config{General: GeneralConfig{OutDir: "gen", IncludeDirs: []string{"a"}}}
	cfg.Merge([]string{"b"}, []string{"-x"}, "out", true)
	assert.Equal(t, []string{"b"}, cfg.General.IncludeDirs)
	assert.Equal(t, []string{"-x"}, cfg.General.ClangArgs)
	assert.Equal(t, "out", cfg.General.OutDir)
	assert.True(t, cfg.General.SuppressSystemHeaders)
}
