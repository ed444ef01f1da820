package blendspace

import (
	"errors"
	"fmt"
	"path"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/classify"
	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// BuildConfig 一次混合空间构建的全部参数
type BuildConfig struct {
	SkeletonPath string

	// 输出资源
	Name string
	Path string

	// 轴参数，AutoRange 为 true 时 Min/Max 由分析结果计算
	AxisX          Axis
	AxisY          Axis
	AutoRange      bool
	UseNiceNumbers bool

	// Selection 角色 -> 选中的动画
	Selection map[types.LocomotionRole]skeletal.ClipRef

	// CustomPositions 为 RoleCustom 或需要手动放置的角色指定坐标，优先级最高
	CustomPositions map[types.LocomotionRole]mgl64.Vec2

	// 分析参数
	Analysis      AnalysisParams
	ApplyAnalysis bool

	// AnalyzedPositions 预先计算好的 动画路径 -> (right, forward, 0)
	// ApplyAnalysis 为 true 且此项为空时由工厂自行分析
	AnalyzedPositions map[string]mgl64.Vec3
}

// AnalysisParams 构建时使用的分析参数，脚骨骼为空时按配置的匹配模式查找
type AnalysisParams struct {
	Type             types.AnalysisType
	LeftFoot         string
	RightFoot        string
	StrideMultiplier float64
}

// NewBuildConfig 由构建器配置生成构建参数
//
// 参数:
//   - cfg: 构建器配置
//   - skeletonPath: 目标骨架路径
//   - name: 混合空间名称，为空时由骨架名加 OutputSuffix 组成
//   - dir: 输出目录
//
// 返回:
//   - BuildConfig: 未选择任何动画的构建参数
func NewBuildConfig(cfg config.BuilderConfig, skeletonPath, name, dir string) BuildConfig {
	if name == "" {
		name = path.Base(skeletonPath) + cfg.OutputSuffix
	}
	grid := cfg.Axis.GridDivisions
	return BuildConfig{
		SkeletonPath: skeletonPath,
		Name:         name,
		Path:         joinAssetPath(dir, name),
		AxisX: Axis{
			Name:          cfg.Axis.XAxisName,
			Min:           cfg.Axis.DefaultMinSpeed,
			Max:           cfg.Axis.DefaultMaxSpeed,
			GridDivisions: grid,
			SnapToGrid:    cfg.Axis.SnapToGrid,
		},
		AxisY: Axis{
			Name:          cfg.Axis.YAxisName,
			Min:           cfg.Axis.DefaultMinSpeed,
			Max:           cfg.Axis.DefaultMaxSpeed,
			GridDivisions: grid,
			SnapToGrid:    cfg.Axis.SnapToGrid,
		},
		UseNiceNumbers: cfg.Axis.UseNiceNumbers,
		Selection:      make(map[types.LocomotionRole]skeletal.ClipRef),
		Analysis: AnalysisParams{
			Type:             cfg.Analysis.Type,
			StrideMultiplier: cfg.Analysis.StrideMultiplier,
		},
		ApplyAnalysis: true,
	}
}

// SetAnalysis 设置分析方式与脚骨骼
func (c *BuildConfig) SetAnalysis(t types.AnalysisType, leftFoot, rightFoot string) {
	c.Analysis.Type = t
	c.Analysis.LeftFoot = leftFoot
	c.Analysis.RightFoot = rightFoot
}

// Select 为角色选择动画，空引用取消选择（同时清除该角色的手动坐标）
func (c *BuildConfig) Select(role types.LocomotionRole, clip skeletal.ClipRef) {
	if c.Selection == nil {
		c.Selection = make(map[types.LocomotionRole]skeletal.ClipRef)
	}
	if clip.IsZero() {
		delete(c.Selection, role)
		delete(c.CustomPositions, role)
		return
	}
	c.Selection[role] = clip
}

// SelectClassified 选择归类结果中的动画
//
// Custom 角色的规则坐标写入 CustomPositions，构建时原样使用。
func (c *BuildConfig) SelectClassified(ca classify.ClassifiedAnimation) {
	c.Select(ca.Role, ca.Clip)
	if ca.Role != types.RoleCustom || ca.Clip.IsZero() {
		return
	}
	if c.CustomPositions == nil {
		c.CustomPositions = make(map[types.LocomotionRole]mgl64.Vec2)
	}
	c.CustomPositions[ca.Role] = ca.Position
}

// Validate 检查构建参数
func (c BuildConfig) Validate() error {
	var errs []error
	if c.Name == "" {
		errs = append(errs, errors.New("blend space name is empty"))
	}
	if c.SkeletonPath == "" {
		errs = append(errs, errors.New("skeleton path is empty"))
	}
	if len(c.Selection) == 0 {
		errs = append(errs, errors.New("no animations selected"))
	}
	for role, clip := range c.Selection {
		if !role.IsValid() {
			errs = append(errs, fmt.Errorf("invalid role %d", int(role)))
		}
		if clip.IsZero() {
			errs = append(errs, fmt.Errorf("role %s has an empty clip reference", role))
		}
	}
	if c.AxisX.GridDivisions < 1 || c.AxisY.GridDivisions < 1 {
		errs = append(errs, errors.New("grid divisions must be >= 1"))
	}
	if !c.AutoRange {
		if err := c.AxisX.Validate(); err != nil {
			errs = append(errs, err)
		}
		if err := c.AxisY.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func joinAssetPath(dir, name string) string {
	return path.Join("/", dir, name)
}
