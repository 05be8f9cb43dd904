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

package fun

import (
	"fmt"
	"strings"

	"github.com/google/autocxx-sub001/internal/names"
)

// BridgeNameTracker generates unique names for entries in the bridge mod,
// which has a flat namespace. The first claimant of any base name gets it
// unadorned; later claimants are qualified with namespace and type segments
// joined by underscores, and numbered beyond that. It doesn't hugely matter what these
// names are, since Rust-side rebinding hides them, but stable, predictable
// names keep stack traces readable.
type BridgeNameTracker struct {
	nextNameForPrefix map[string]int
}

// NewBridgeNameTracker returns an empty tracker; use one per pipeline run.
func NewBridgeNameTracker() *BridgeNameTracker {
	return &BridgeNameTracker{nextNameForPrefix: make(map[string]int)}
}

// GetUniqueCxxBridgeName picks the least confusing unique name for a
// function in the bridge mod. typeName is empty for free functions. The
// identifier `new` always becomes new_autocxx: it collides with the Rust
// constructor convention.
func (t *BridgeNameTracker) GetUniqueCxxBridgeName(typeName, foundName string, ns names.Namespace) string {
	if foundName == "new" {
		foundName = "new_autocxx"
	}
	if t.nextNameForPrefix[foundName] == 0 {
		// Oh good, the name is usable as-is.
		t.nextNameForPrefix[foundName] = 1
		return foundName
	}
	var segs []string
	segs = append(segs, ns.Segments()...)
	if typeName != "" {
		segs = append(segs, typeName)
	}
	segs = append(segs, foundName)
	prefix := strings.Join(segs, "_")
	prefixCount := t.nextNameForPrefix[prefix]
	t.nextNameForPrefix[prefix] = prefixCount + 1
	if prefixCount == 0 {
		return prefix
	}
	return fmt.Sprintf("%s_autocxx%d", prefix, prefixCount)
}
