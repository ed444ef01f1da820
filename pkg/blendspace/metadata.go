package blendspace

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// LocomotionType 混合空间的坐标方案
type LocomotionType string

const (
	// LocomotionSpeedBased 坐标为速度（单位/秒）
	LocomotionSpeedBased LocomotionType = "SpeedBased"
	// LocomotionGaitBased 坐标为方向 × 步态索引
	LocomotionGaitBased LocomotionType = "GaitBased"
)

// Thresholds 步态切换的速度阈值（单位/秒）
type Thresholds struct {
	IdleToWalk float64 `yaml:"idle_to_walk"`
	WalkToRun  float64 `yaml:"walk_to_run"`
}

// OriginalSample 步态转换前的样本速度与推断出的角色
type OriginalSample struct {
	Clip     skeletal.ClipRef     `yaml:"clip"`
	Speed    mgl64.Vec2           `yaml:"speed"`
	Role     types.LocomotionRole `yaml:"role"`
	Position mgl64.Vec2           `yaml:"gait_position"`
}

// Metadata 混合空间附带的构建信息
type Metadata struct {
	LocomotionType LocomotionType     `yaml:"locomotion_type,omitempty"`
	AnalysisType   types.AnalysisType `yaml:"analysis_type"`

	// SampleRoles 动画路径 -> 构建时分配的角色
	SampleRoles map[string]types.LocomotionRole `yaml:"sample_roles,omitempty"`

	Converted       bool             `yaml:"converted,omitempty"`
	OriginalAxisX   *Axis            `yaml:"original_axis_x,omitempty"`
	OriginalAxisY   *Axis            `yaml:"original_axis_y,omitempty"`
	OriginalSamples []OriginalSample `yaml:"original_samples,omitempty"`
	Thresholds      *Thresholds      `yaml:"thresholds,omitempty"`
}

// IsGaitBased 元数据是否标记为步态型
func (m Metadata) IsGaitBased() bool {
	return m.LocomotionType == LocomotionGaitBased
}

func (m Metadata) clone() Metadata {
	c := m
	if m.SampleRoles != nil {
		c.SampleRoles = make(map[string]types.LocomotionRole, len(m.SampleRoles))
		for k, v := range m.SampleRoles {
			c.SampleRoles[k] = v
		}
	}
	if m.OriginalAxisX != nil {
		a := *m.OriginalAxisX
		c.OriginalAxisX = &a
	}
	if m.OriginalAxisY != nil {
		a := *m.OriginalAxisY
		c.OriginalAxisY = &a
	}
	if m.OriginalSamples != nil {
		c.OriginalSamples = append([]OriginalSample(nil), m.OriginalSamples...)
	}
	if m.Thresholds != nil {
		t := *m.Thresholds
		c.Thresholds = &t
	}
	return c
}
