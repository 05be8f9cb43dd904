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

package pod

import (
	"fmt"
	"strings"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/convert"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/names"
)

// Analyze is the POD analysis stage: it attaches a [api.PodAnalysis] to
// every struct, converting field types along the way. A failed generate_pod!
// request is a pipeline error; field conversion failures degrade the
// affected struct to an ignored stub.
func Analyze(apis *api.ApiVec, cfg *directive.IncludeCppConfig, tc *convert.TypeConverter) error {
	bvc, err := FromApis(apis, cfg)
	if err != nil {
		return fmt.Errorf("POD analysis: %w", err)
	}
	apis.Replace(func(a *api.Api) []*api.Api {
		if a.Kind != api.StructKind {
			return []*api.Api{a}
		}
		analysis, extras, cerr := analyzeStruct(a, bvc, cfg, tc)
		if cerr != nil {
			return []*api.Api{a.Ignored(cerr, nil)}
		}
		a.PodAnalysis = analysis
		return append([]*api.Api{a}, extras...)
	})
	return nil
}

// baseFieldPrefix is the parser's layout-preserving convention: base classes
// appear as leading fields named _base, _base1, ...
const baseFieldPrefix = "_base"

func analyzeStruct(a *api.Api, bvc *ByValueChecker, cfg *directive.IncludeCppConfig, tc *convert.TypeConverter) (*api.PodAnalysis, []*api.Api, *api.ConvertError) {
	details := a.Struct
	analysis := &api.PodAnalysis{
		Kind:      api.NonPod,
		Movable:   !details.HasRValueReferenceFields,
		IsGeneric: details.IsGeneric,
	}
	if bvc.IsPod(a.QName()) {
		analysis.Kind = api.Pod
	}
	var extras []*api.Api
	seen := map[string]bool{}
	for _, f := range details.Fields {
		if f.Name == "vtable_" {
			continue
		}
		if isBaseField(f.Name) {
			base := f.Type.QualifiedName()
			analysis.Bases = append(analysis.Bases, base)
			if cfg.IsAllowlisted(base.ToCppName()) {
				analysis.CastableBases = append(analysis.CastableBases, base)
			}
			continue
		}
		conv, cerr := tc.ConvertType(f.Type, a.QName().Namespace(), convert.OuterContext(convert.AsPointer))
		if cerr != nil {
			return nil, nil, cerr
		}
		extras = append(extras, conv.ExtraApis...)
		for _, dep := range conv.Deps {
			if !seen[dep.ToCppName()] {
				seen[dep.ToCppName()] = true
				analysis.FieldDeps = append(analysis.FieldDeps, dep)
			}
		}
	}
	return analysis, extras, nil
}

func isBaseField(name string) bool {
	if !strings.HasPrefix(name, baseFieldPrefix) {
		return false
	}
	rest := name[len(baseFieldPrefix):]
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// BasesOf is a convenience for later stages: the base classes recorded for a
// struct, or nil.
func BasesOf(a *api.Api) []names.QualifiedName {
	if a.Kind != api.StructKind || a.PodAnalysis == nil {
		return nil
	}
	return a.PodAnalysis.Bases
}
