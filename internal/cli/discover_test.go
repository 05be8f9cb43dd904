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

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindIncludeCppBlocks(t *testing.T) {
	source := `
use autocxx::prelude::*;

include_cpp! {
    #include "math.h"
    generate!("DoMath")
    safety!(unsafe_ffi)
}

fn main() {}

include_cpp! (
    #include "other.h"
    generate!("Other")
)
`
	blocks, err := FindIncludeCppBlocks(source)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], `generate!("DoMath")`)
	assert.Contains(t, blocks[1], `generate!("Other")`)
}

func TestFindIncludeCppBlocksNestedBraces(t *testing.T) {
	source := `include_cpp! {
		generate!("A")
		name!(foo)
		block!("weird}name")
	}`
	blocks, err := FindIncludeCppBlocks(source)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], `block!("weird}name")`)
}

func TestFindIncludeCppBlocksUnterminated(t *testing.T) {
	_, err := FindIncludeCppBlocks(`include_cpp! { generate!("A")`)
	assert.Error(t, err)
}

func TestExpandSourceGlobs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	for _, name := range []string{"a.rs", "b.rs", "ignore.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(sub, name), []byte("x"), 0o644))
	}
	files, err := expandSourceGlobs([]string{filepath.Join(dir, "**", "*.rs")})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(sub, "a.rs"), files[0])
}
