// Package gait 在移动角色与混合空间坐标之间双向映射
//
// 两种坐标方案：
//   - 速度型：方向模板 × 档位比例 × 轴最大值，坐标单位为 单位/秒
//   - 步态型：固定的离散网格，X 为方向 (-1 左 / 0 中 / 1 右)，Y 为步态索引 (-2..2)
package gait

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// 速度型坐标中各档位占轴最大值的比例
const (
	WalkFraction   = 0.4
	RunFraction    = 0.8
	SprintFraction = 1.0
)

// 步态型混合空间的轴参数
const (
	DirectionAxisName = "Direction"
	GaitIndexAxisName = "GaitIndex"

	DirectionMin  = -1.0
	DirectionMax  = 1.0
	DirectionGrid = 2

	GaitIndexMin  = -2.0
	GaitIndexMax  = 2.0
	GaitIndexGrid = 4
)

// SpeedPosition 速度型默认坐标
//
// 方向模板分量取 -1 / 0 / 1（斜向不归一化），乘以档位比例与 axisMax。Idle 与 Custom 返回 (0, 0)。
func SpeedPosition(role types.LocomotionRole, axisMax float64) mgl64.Vec2 {
	right, forward := role.Direction()

	var fraction float64
	switch role.Tier() {
	case types.TierWalk:
		fraction = WalkFraction
	case types.TierRun:
		fraction = RunFraction
	case types.TierSprint:
		fraction = SprintFraction
	default:
		return mgl64.Vec2{}
	}

	scale := axisMax * fraction
	return mgl64.Vec2{right * scale, forward * scale}
}

// GaitPosition 步态型坐标
//
// 步行行 Y=±1，跑步与冲刺行 Y=±2；左右与斜向共享 X=±1，横移放在前进行上。
func GaitPosition(role types.LocomotionRole) mgl64.Vec2 {
	right, forward := role.Direction()

	var row float64
	switch role.Tier() {
	case types.TierWalk:
		row = 1
	case types.TierRun, types.TierSprint:
		row = 2
	default:
		return mgl64.Vec2{}
	}

	// 纯横移没有前后分量，归入前进行
	if forward < 0 {
		row = -row
	}
	return mgl64.Vec2{right, row}
}

// Sector 平面方向的 8 个扇区
type Sector int

const (
	SectorForward Sector = iota
	SectorForwardLeft
	SectorLeft
	SectorBackwardLeft
	SectorBackward
	SectorBackwardRight
	SectorRight
	SectorForwardRight
)

// String 返回扇区名
func (s Sector) String() string {
	switch s {
	case SectorForward:
		return "Forward"
	case SectorForwardLeft:
		return "ForwardLeft"
	case SectorLeft:
		return "Left"
	case SectorBackwardLeft:
		return "BackwardLeft"
	case SectorBackward:
		return "Backward"
	case SectorBackwardRight:
		return "BackwardRight"
	case SectorRight:
		return "Right"
	case SectorForwardRight:
		return "ForwardRight"
	default:
		return "Unknown"
	}
}

// SectorForAngle 按角度（度，atan2(forward, right)）归入扇区，每个扇区宽 45 度
//
// 0 度为右，90 度为前，180 度为左，-90 度为后。
func SectorForAngle(deg float64) Sector {
	switch {
	case deg >= 67.5 && deg < 112.5:
		return SectorForward
	case deg >= 112.5 && deg < 157.5:
		return SectorForwardLeft
	case deg >= 157.5 || deg < -157.5:
		return SectorLeft
	case deg >= -157.5 && deg < -112.5:
		return SectorBackwardLeft
	case deg >= -112.5 && deg < -67.5:
		return SectorBackward
	case deg >= -67.5 && deg < -22.5:
		return SectorBackwardRight
	case deg >= -22.5 && deg < 22.5:
		return SectorRight
	default:
		return SectorForwardRight
	}
}

var walkRoles = [...]types.LocomotionRole{
	SectorForward:       types.RoleWalkForward,
	SectorForwardLeft:   types.RoleWalkForwardLeft,
	SectorLeft:          types.RoleWalkLeft,
	SectorBackwardLeft:  types.RoleWalkBackwardLeft,
	SectorBackward:      types.RoleWalkBackward,
	SectorBackwardRight: types.RoleWalkBackwardRight,
	SectorRight:         types.RoleWalkRight,
	SectorForwardRight:  types.RoleWalkForwardRight,
}

var runRoles = [...]types.LocomotionRole{
	SectorForward:       types.RoleRunForward,
	SectorForwardLeft:   types.RoleRunForwardLeft,
	SectorLeft:          types.RoleRunLeft,
	SectorBackwardLeft:  types.RoleRunBackwardLeft,
	SectorBackward:      types.RoleRunBackward,
	SectorBackwardRight: types.RoleRunBackwardRight,
	SectorRight:         types.RoleRunRight,
	SectorForwardRight:  types.RoleRunForwardRight,
}

// RoleForSector 组合扇区与档位
func RoleForSector(s Sector, run bool) types.LocomotionRole {
	if s < SectorForward || s > SectorForwardRight {
		return types.RoleIdle
	}
	if run {
		return runRoles[s]
	}
	return walkRoles[s]
}

// Extents 速度型混合空间在四个方向上的最大速度（均为非负值）
type Extents struct {
	MaxForward  float64
	MaxBackward float64
	MaxRight    float64
	MaxLeft     float64
}

// ExtentsFromRange 由轴范围得到四个方向的最大速度
func ExtentsFromRange(minX, maxX, minY, maxY float64) Extents {
	return Extents{
		MaxForward:  math.Max(maxY, 0),
		MaxBackward: math.Max(-minY, 0),
		MaxRight:    math.Max(maxX, 0),
		MaxLeft:     math.Max(-minX, 0),
	}
}

// Largest 返回四个方向中最大的速度
func (e Extents) Largest() float64 {
	return math.Max(math.Max(e.MaxForward, e.MaxBackward), math.Max(e.MaxRight, e.MaxLeft))
}

// NormalizedSpeed 按主导分量所在方向的最大速度归一化
//
// |forward| >= |right| 时使用前/后最大速度，否则使用右/左最大速度。该方向最大速度为 0 时
// 退回到四个方向中的最大值；全部为 0 时返回 0。
func (e Extents) NormalizedSpeed(pos mgl64.Vec2) float64 {
	right, forward := pos.X(), pos.Y()

	var max float64
	if math.Abs(forward) >= math.Abs(right) {
		if forward >= 0 {
			max = e.MaxForward
		} else {
			max = e.MaxBackward
		}
	} else {
		if right >= 0 {
			max = e.MaxRight
		} else {
			max = e.MaxLeft
		}
	}
	if max <= 0 {
		max = e.Largest()
	}
	if max <= 0 {
		return 0
	}
	return pos.Len() / max
}

// PositionToRole 由速度型坐标反推角色
//
// 平面速度低于 IdleSpeedThreshold 为 Idle；否则按 atan2(forward, right) 归入 8 个扇区，
// 归一化速度不小于 WalkToRunRatio 为跑步，否则为步行。
func PositionToRole(pos mgl64.Vec2, ext Extents, cfg config.GaitConfig) types.LocomotionRole {
	if pos.Len() < cfg.IdleSpeedThreshold {
		return types.RoleIdle
	}

	deg := mgl64.RadToDeg(math.Atan2(pos.Y(), pos.X()))
	run := ext.NormalizedSpeed(pos) >= cfg.WalkToRunRatio
	return RoleForSector(SectorForAngle(deg), run)
}

// IsGaitRange 判断轴范围是否已经是步态型（X≈±1，Y≈±2，容差 0.1）
func IsGaitRange(minX, maxX, minY, maxY float64) bool {
	const tol = 0.1
	return math.Abs(minX-DirectionMin) < tol && math.Abs(maxX-DirectionMax) < tol &&
		math.Abs(minY-GaitIndexMin) < tol && math.Abs(maxY-GaitIndexMax) < tol
}
