// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"errors"
	"slices"
	"testing"
)

const testVertex = "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0, 0.0, 0.0, 1.0); }\n"

const testFragment = "@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0, 1.0, 1.0, 1.0); }\n"

func TestCompileWGSLRejectsInvalidSource(t *testing.T) {
	for _, src := range []string{
		"@compute @workgroup_size(8, 8, 1)\nfn main( {\n",
		"@compute @workgroup_size(1) fn main() { let x = undefined_value; }",
	} {
		if _, err := CompileWGSL(src); err == nil {
			t.Errorf("CompileWGSL(%q) accepted invalid source", src)
		}
	}
}

func TestShaderInfoWorkgroupSize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [3]uint32
	}{
		{"no compute", testFragment, [3]uint32{1, 1, 1}},
		{"one dim", "@compute @workgroup_size(64) fn main() {}", [3]uint32{64, 1, 1}},
		{"two dims", "@compute @workgroup_size(8, 8) fn main() {}", [3]uint32{8, 8, 1}},
		{"three dims", "@compute @workgroup_size(4, 2, 2) fn main() {}", [3]uint32{4, 2, 2}},
		{"constant", "const WG: u32 = 16u;\n@compute @workgroup_size(WG, WG) fn main() {}", [3]uint32{16, 16, 1}},
		{"commented attribute", "// @compute @workgroup_size(32, 32)\n@compute @workgroup_size(8, 8, 1) fn main() {}", [3]uint32{8, 8, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := CompileWGSL(tt.source)
			if err != nil {
				t.Fatalf("CompileWGSL: %v", err)
			}
			if got := info.WorkgroupSize(); got != tt.want {
				t.Errorf("WorkgroupSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShaderInfoMissingEntryPoints(t *testing.T) {
	tests := []struct {
		name   string
		kind   PipelineKind
		source string
		want   []string
	}{
		{"compute ok", PipelineCompute, "@compute @workgroup_size(1) fn main() {}", nil},
		{"compute renamed", PipelineCompute, "@compute @workgroup_size(1) fn run() {}", []string{"main"}},
		{"compute wrong stage", PipelineCompute, "@fragment fn main() -> @location(0) vec4<f32> { return vec4<f32>(1.0, 1.0, 1.0, 1.0); }", []string{"main"}},
		{"render ok", PipelineRender, testVertex + testFragment, nil},
		{"render no fragment", PipelineRender, testVertex, []string{"fs_main"}},
		{"render fragment commented out", PipelineRender, testVertex + "// " + testFragment, []string{"fs_main"}},
		{"helper is not an entry point", PipelineCompute, "fn main() {}", []string{"main"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := CompileWGSL(tt.source)
			if err != nil {
				t.Fatalf("CompileWGSL: %v", err)
			}
			if got := info.MissingEntryPoints(tt.kind); !slices.Equal(got, tt.want) {
				t.Errorf("MissingEntryPoints() = %v, want %v", got, tt.want)
			}
			err = info.Require(tt.kind)
			if (err != nil) != (len(tt.want) > 0) {
				t.Errorf("Require() = %v", err)
			}
			if err != nil && !errors.Is(err, ErrMissingEntryPoint) {
				t.Errorf("Require() = %v, want ErrMissingEntryPoint", err)
			}
		})
	}
}

func TestShaderInfoStages(t *testing.T) {
	info, err := CompileWGSL(testVertex + testFragment)
	if err != nil {
		t.Fatal(err)
	}
	vs, ok := info.Lookup("vs_main")
	if !ok || vs.Stage != ShaderStageVertex {
		t.Errorf("vs_main = %+v, %v", vs, ok)
	}
	fs, ok := info.Lookup("fs_main")
	if !ok || fs.Stage != ShaderStageFragment {
		t.Errorf("fs_main = %+v, %v", fs, ok)
	}
	if _, ok := info.Lookup("main"); ok {
		t.Error("Lookup(main) found an entry point that does not exist")
	}
}

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		w, h    uint32
		size    [3]uint32
		x, y, z uint32
	}{
		{800, 600, [3]uint32{8, 8, 1}, 100, 75, 1},
		{801, 601, [3]uint32{8, 8, 1}, 101, 76, 1},
		{1024, 768, [3]uint32{16, 16, 1}, 64, 48, 1},
		{800, 600, [3]uint32{1, 1, 1}, 800, 600, 1},
		{7, 3, [3]uint32{0, 0, 1}, 7, 3, 1},
	}
	for _, tt := range tests {
		x, y, z := WorkgroupCount(tt.w, tt.h, tt.size)
		if x != tt.x || y != tt.y || z != tt.z {
			t.Errorf("WorkgroupCount(%d, %d, %v) = (%d, %d, %d), want (%d, %d, %d)",
				tt.w, tt.h, tt.size, x, y, z, tt.x, tt.y, tt.z)
		}
	}
}
