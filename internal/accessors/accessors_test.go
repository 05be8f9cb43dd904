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

package accessors

import (
	"testing"

	"github.com/google/autocxx-sub001/internal/api"
	"github.com/google/autocxx-sub001/internal/convert"
	"github.com/google/autocxx-sub001/internal/directive"
	"github.com/google/autocxx-sub001/internal/fun"
	"github.com/google/autocxx-sub001/internal/names"
	"github.com/google/autocxx-sub001/internal/ty"
)

func TestSynthesizeGetters(t *testing.T) {
	cfg, err := directive.Parse(`generate!("Widget")`)
	if err != nil {
		t.Fatal(err)
	}
	v := api.NewApiVec()
	v.Push(&api.Api{
		Kind: api.StructKind,
		Name: names.NewApiName(names.QualifiedNameFromCppName("Widget")),
		Struct: &api.StructDetails{
			Fields: []api.Field{
				{Name: "count", Type: ty.MustParse("i32")},
				{Name: "s", Type: ty.MustParse("cxx::CxxString")},
				{Name: "hidden", Type: ty.MustParse("i32"), Visibility: api.Private},
				{Name: "vtable_", Type: ty.MustParse("*const i32")},
			},
		},
		PodAnalysis: &api.PodAnalysis{Kind: api.NonPod, Movable: true},
	})
	analyzer := fun.NewAnalyzer(v, cfg, convert.NewTypeConverter(v, cfg))
	Synthesize(v, cfg, analyzer)

	var getters []*api.Api
	for _, a := range v.Iter() {
		if a.Kind == api.FunctionKind && a.FnAnalysis != nil && a.FnAnalysis.FieldAccess != "" {
			getters = append(getters, a)
		}
	}
	if len(getters) != 1 {
		t.Fatalf("got %d getters, want 1 (count only)", len(getters))
	}
	g := getters[0]
	if g.FnAnalysis.RustName != "get_count" || g.FnAnalysis.FieldAccess != "count" {
		t.Errorf("getter = %+v", g.FnAnalysis)
	}
	if !g.FnAnalysis.CppWrapper || !g.FnAnalysis.RustWrapper {
		t.Error("getters always need both wrappers")
	}
}

func TestPodStructsGetNoGetters(t *testing.T) {
	cfg, err := directive.Parse(`generate_pod!("Point")`)
	if err != nil {
		t.Fatal(err)
	}
	v := api.NewApiVec()
	v.Push(&api.Api{
		Kind: api.StructKind,
		Name: names.NewApiName(names.QualifiedNameFromCppName("Point")),
		Struct: &api.StructDetails{
			Fields: []api.Field{{Name: "x", Type: ty.MustParse("i32")}},
		},
		PodAnalysis: &api.PodAnalysis{Kind: api.Pod, Movable: true},
	})
	analyzer := fun.NewAnalyzer(v, cfg, convert.NewTypeConverter(v, cfg))
	Synthesize(v, cfg, analyzer)
	for _, a := range v.Iter() {
		if a.Kind == api.FunctionKind {
			t.Error("POD fields are directly visible; no getters expected")
		}
	}
}
