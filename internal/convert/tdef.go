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
	"github.com/google/autocxx-sub001/internal/api"
)

// ResolveTypedefs is the typedef-resolution pass: it determines each
// typedef's ultimate target, records it in the converter's global typedef
// table, and attaches the analysis to the API. Typedefs whose targets cannot
// be expressed degrade to ignored stubs.
func ResolveTypedefs(apis *api.ApiVec, tc *TypeConverter) {
	// First register every raw target so chains resolve regardless of
	// declaration order.
	for _, a := range apis.Iter() {
		if a.Kind == api.TypedefKind && a.Typedef != nil {
			tc.RegisterTypedefTarget(a.QName(), a.Typedef.Target)
		}
	}
	apis.Replace(func(a *api.Api) []*api.Api {
		if a.Kind != api.TypedefKind {
			return []*api.Api{a}
		}
		conv, err := tc.ConvertType(a.Typedef.Target, a.QName().Namespace(), OuterContext(AsPointer))
		if err != nil {
			return []*api.Api{a.Ignored(err, nil)}
		}
		a.TypedefAnalysis = &api.TypedefAnalysis{Target: conv.Type, Deps: conv.Deps}
		tc.RegisterTypedefTarget(a.QName(), conv.Type)
		out := []*api.Api{a}
		return append(out, conv.ExtraApis...)
	})
}
