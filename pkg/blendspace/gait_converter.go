package blendspace

import (
	"errors"
	"fmt"
	"log"
	"path"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/gait"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// speedRangeThreshold 任一轴跨度超过此值才视为速度型
const speedRangeThreshold = 5.0

// ErrNotSpeedBased 混合空间已经是步态型或无法识别
var ErrNotSpeedBased = errors.New("blend space is not speed based")

// SampleMapping 单个样本的转换结果
type SampleMapping struct {
	Clip         skeletal.ClipRef
	Speed        mgl64.Vec2
	Role         types.LocomotionRole
	GaitPosition mgl64.Vec2
}

// ConversionAnalysis 转换前的分析结果
type ConversionAnalysis struct {
	OriginalX Axis
	OriginalY Axis
	Extents   gait.Extents
	Samples   []SampleMapping

	// 按推断角色统计的最大平面速度，冲刺计入跑步
	MaxWalkSpeed float64
	MaxRunSpeed  float64
}

// RecommendedThresholds 推荐的步态切换阈值
//
// IdleToWalk = 步行速度 × 0.1，WalkToRun = 步行与跑步速度的平均值。
func (a ConversionAnalysis) RecommendedThresholds() Thresholds {
	return Thresholds{
		IdleToWalk: a.MaxWalkSpeed * 0.1,
		WalkToRun:  (a.MaxWalkSpeed + a.MaxRunSpeed) * 0.5,
	}
}

// GaitConverter 把速度型混合空间转换为步态型
type GaitConverter struct {
	cfg   config.GaitConfig
	store Saver
}

// NewGaitConverter 创建转换器，store 可为 nil
func NewGaitConverter(cfg config.GaitConfig, store Saver) *GaitConverter {
	return &GaitConverter{cfg: cfg, store: store}
}

// Config 返回转换配置
func (c *GaitConverter) Config() config.GaitConfig {
	return c.cfg
}

// IsSpeedBased 判断混合空间是否为速度型
//
// 元数据标记为步态型、或两个轴都已是步态范围时返回 false；
// 否则任一轴跨度大于 5 即视为速度型。
func IsSpeedBased(bs *BlendSpace) bool {
	if bs == nil || bs.Metadata.IsGaitBased() {
		return false
	}
	x, y := bs.Axis(AxisX), bs.Axis(AxisY)
	if gait.IsGaitRange(x.Min, x.Max, y.Min, y.Max) {
		return false
	}
	return x.Max-x.Min > speedRangeThreshold || y.Max-y.Min > speedRangeThreshold
}

// Analyze 推断每个样本的角色与步态坐标，不修改混合空间
func (c *GaitConverter) Analyze(bs *BlendSpace) (ConversionAnalysis, error) {
	if bs == nil {
		return ConversionAnalysis{}, errors.New("blend space is nil")
	}
	if !IsSpeedBased(bs) {
		return ConversionAnalysis{}, fmt.Errorf("%w: '%s'", ErrNotSpeedBased, bs.Path)
	}

	x, y := bs.Axis(AxisX), bs.Axis(AxisY)
	result := ConversionAnalysis{
		OriginalX: x,
		OriginalY: y,
		Extents:   gait.ExtentsFromRange(x.Min, x.Max, y.Min, y.Max),
	}

	for _, s := range bs.Samples() {
		role := gait.PositionToRole(s.Position, result.Extents, c.cfg)
		result.Samples = append(result.Samples, SampleMapping{
			Clip:         s.Clip,
			Speed:        s.Position,
			Role:         role,
			GaitPosition: gait.GaitPosition(role),
		})

		speed := s.Position.Len()
		switch role.Tier() {
		case types.TierWalk:
			if speed > result.MaxWalkSpeed {
				result.MaxWalkSpeed = speed
			}
		case types.TierRun, types.TierSprint:
			if speed > result.MaxRunSpeed {
				result.MaxRunSpeed = speed
			}
		}
	}
	return result, nil
}

// Convert 转换混合空间
//
// CreateCopy 为 true 时在原资源旁创建名为 原名+OutputSuffix 的副本并保存，原资源不变；
// 否则原地修改。多个样本落在同一步态坐标时只保留第一个，其余的仍记录在元数据中。
func (c *GaitConverter) Convert(bs *BlendSpace) (*BlendSpace, ConversionAnalysis, error) {
	result, err := c.Analyze(bs)
	if err != nil {
		return nil, result, err
	}

	target := bs
	if c.cfg.CreateCopy {
		name := bs.Name + c.cfg.OutputSuffix
		target = bs.Clone(name, path.Join(path.Dir(bs.Path), name))
	}

	target.ClearSamples()
	if err := target.SetAxis(AxisX, Axis{
		Name: gait.DirectionAxisName, Min: gait.DirectionMin, Max: gait.DirectionMax,
		GridDivisions: gait.DirectionGrid, SnapToGrid: true,
	}); err != nil {
		return nil, result, err
	}
	if err := target.SetAxis(AxisY, Axis{
		Name: gait.GaitIndexAxisName, Min: gait.GaitIndexMin, Max: gait.GaitIndexMax,
		GridDivisions: gait.GaitIndexGrid, SnapToGrid: true,
	}); err != nil {
		return nil, result, err
	}

	original := make([]OriginalSample, 0, len(result.Samples))
	roles := make(map[string]types.LocomotionRole, len(result.Samples))
	for _, m := range result.Samples {
		original = append(original, OriginalSample{
			Clip:     m.Clip,
			Speed:    m.Speed,
			Role:     m.Role,
			Position: m.GaitPosition,
		})
		if err := target.AddSample(m.Clip, m.GaitPosition); err != nil {
			if errors.Is(err, ErrDuplicateSample) {
				log.Printf("[GaitConverter] Warning: %s (%s) dropped: %v", m.Clip.Name, m.Role, err)
				continue
			}
			return nil, result, fmt.Errorf("failed to place %s: %w", m.Clip.Name, err)
		}
		roles[m.Clip.Path] = m.Role
	}

	thresholds := result.RecommendedThresholds()
	origX, origY := result.OriginalX, result.OriginalY
	target.Metadata.LocomotionType = LocomotionGaitBased
	target.Metadata.Converted = true
	target.Metadata.OriginalAxisX = &origX
	target.Metadata.OriginalAxisY = &origY
	target.Metadata.OriginalSamples = original
	target.Metadata.SampleRoles = roles
	target.Metadata.Thresholds = &thresholds

	if c.cfg.CreateCopy && c.store != nil {
		if err := c.store.Save(target); err != nil {
			return nil, result, fmt.Errorf("failed to save '%s': %w", target.Path, err)
		}
	}

	log.Printf("[GaitConverter] Converted '%s' -> '%s' (walk %.0f, run %.0f, %d samples)",
		bs.Path, target.Path, result.MaxWalkSpeed, result.MaxRunSpeed, target.SampleCount())
	return target, result, nil
}
