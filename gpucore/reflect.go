// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpucore

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// EntryPoint is a shader entry point declared by a WGSL source.
type EntryPoint struct {
	Name  string
	Stage ShaderStage

	// Workgroup is the @workgroup_size of a compute entry point.
	Workgroup [3]uint32
}

// ShaderInfo describes a validated WGSL source.
type ShaderInfo struct {
	EntryPoints []EntryPoint
}

// CompileWGSL parses, lowers and validates a WGSL source with naga and
// reflects its entry points from the IR. It does not generate backend code.
func CompileWGSL(source string) (*ShaderInfo, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, err
	}
	problems, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("validation failed: %w", problems[0])
	}

	info := &ShaderInfo{EntryPoints: make([]EntryPoint, 0, len(module.EntryPoints))}
	for _, ep := range module.EntryPoints {
		info.EntryPoints = append(info.EntryPoints, EntryPoint{
			Name:      ep.Name,
			Stage:     stageFromIR(ep.Stage),
			Workgroup: ep.Workgroup,
		})
	}
	return info, nil
}

func stageFromIR(s ir.ShaderStage) ShaderStage {
	switch s {
	case ir.StageVertex:
		return ShaderStageVertex
	case ir.StageFragment:
		return ShaderStageFragment
	case ir.StageCompute:
		return ShaderStageCompute
	default:
		return 0
	}
}

// Lookup returns the entry point called name.
func (s *ShaderInfo) Lookup(name string) (EntryPoint, bool) {
	for _, ep := range s.EntryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// WorkgroupSize returns the workgroup size of the compute entry point.
// Unset dimensions are 1; a shader without one yields (1, 1, 1).
func (s *ShaderInfo) WorkgroupSize() [3]uint32 {
	size := [3]uint32{1, 1, 1}
	ep, ok := s.Lookup(ComputeEntryPoint)
	if !ok || ep.Stage != ShaderStageCompute {
		return size
	}
	for i, v := range ep.Workgroup {
		if v > 0 {
			size[i] = v
		}
	}
	return size
}

// MissingEntryPoints returns the entry points a pipeline of the given kind
// needs that the shader does not declare with the right stage.
func (s *ShaderInfo) MissingEntryPoints(kind PipelineKind) []string {
	want := []EntryPoint{{Name: ComputeEntryPoint, Stage: ShaderStageCompute}}
	if kind == PipelineRender {
		want = []EntryPoint{
			{Name: VertexEntryPoint, Stage: ShaderStageVertex},
			{Name: FragmentEntryPoint, Stage: ShaderStageFragment},
		}
	}
	var missing []string
	for _, w := range want {
		if ep, ok := s.Lookup(w.Name); !ok || ep.Stage != w.Stage {
			missing = append(missing, w.Name)
		}
	}
	return missing
}

// Require returns an error wrapping ErrMissingEntryPoint when the shader
// cannot back a pipeline of the given kind.
func (s *ShaderInfo) Require(kind PipelineKind) error {
	missing := s.MissingEntryPoints(kind)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingEntryPoint, strings.Join(missing, ", "))
}

// WorkgroupCount returns the dispatch grid covering a width x height image
// with workgroups of the given size.
func WorkgroupCount(width, height uint32, size [3]uint32) (x, y, z uint32) {
	return ceilDiv(width, size[0]), ceilDiv(height, size[1]), 1
}

func ceilDiv(n, d uint32) uint32 {
	if d == 0 {
		d = 1
	}
	return (n + d - 1) / d
}
