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

package convert

import (
	"fmt"
	"strings"

	"github.com/google/autocxx-sub001/internal/knowntypes"
	"github.com/google/autocxx-sub001/internal/ty"
)

// CppSpelling renders the C++ spelling of a bridge-shaped type: UniquePtr
// becomes std::unique_ptr, root:: prefixes drop away, references regain
// their ampersands.
func CppSpelling(t *ty.Type) string {
	if t.IsUnit() {
		return "void"
	}
	switch t.Kind {
	case ty.PathKind:
		// Pin<&mut T> crosses the boundary as a plain T&.
		if isPin(t) && len(t.Args) == 1 {
			return CppSpelling(t.Args[0])
		}
		base := knowntypes.DB().CppNameFor(t.QualifiedName())
		if len(t.Args) == 0 {
			return base
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = CppSpelling(a)
		}
		return fmt.Sprintf("%s<%s>", base, strings.Join(args, ", "))
	case ty.ReferenceKind:
		if t.Mutable {
			return CppSpelling(t.Inner) + "&"
		}
		return "const " + CppSpelling(t.Inner) + "&"
	case ty.PointerKind:
		if t.Mutable {
			return CppSpelling(t.Inner) + "*"
		}
		return "const " + CppSpelling(t.Inner) + "*"
	case ty.RValueReferenceKind:
		return CppSpelling(t.Inner) + "&&"
	case ty.ArrayKind:
		return fmt.Sprintf("%s[%d]", CppSpelling(t.Inner), t.Len)
	case ty.FnPointerKind:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = CppSpelling(p)
		}
		return fmt.Sprintf("%s (*)(%s)", CppSpelling(t.Ret), strings.Join(params, ", "))
	}
	return "void"
}

func isPin(t *ty.Type) bool {
	if t.Kind != ty.PathKind || len(t.Segments) == 0 {
		return false
	}
	return t.Segments[len(t.Segments)-1] == "Pin"
}
