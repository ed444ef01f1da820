// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MinAxisExtent 轴范围的最小半宽
// 所有动画都接近静止时避免得到退化的极小范围
const MinAxisExtent = 100.0

// niceMultipliers "好看"的步长序列 {1, 2, 2.5, 5, 10} × 10^n
var niceMultipliers = [...]float64{1, 2, 2.5, 5, 10}

// AxisRange 对称的混合空间轴范围
type AxisRange struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Step 返回两个轴上每个网格格子的步长
func (r AxisRange) Step(gridDivisions int) (stepX, stepY float64) {
	if gridDivisions < 1 {
		gridDivisions = 1
	}
	g := float64(gridDivisions)
	return (r.MaxX - r.MinX) / g, (r.MaxY - r.MinY) / g
}

// ComputeAxisRange 根据分析得到的位置计算对称轴范围
//
// 每个轴取所有位置绝对值的最大值，除以 gridDivisions/2 得到原始步长；
// useNiceNumbers 为 true 时向上取到 {1,2,2.5,5,10}×10^n 序列中最小的不小于原始步长的值，
// 否则向上取整。轴半宽 = 步长 × gridDivisions/2，最小为 MinAxisExtent，最小值始终为 -最大值。
//
// 参数:
//   - positions: 平面位置 (right, forward)
//   - gridDivisions: 网格划分数，小于 1 按 1 处理
//   - useNiceNumbers: 是否使用"好看"的步长
//
// 返回:
//   - AxisRange: 对称轴范围
func ComputeAxisRange(positions []mgl64.Vec2, gridDivisions int, useNiceNumbers bool) AxisRange {
	if gridDivisions < 1 {
		gridDivisions = 1
	}
	half := float64(gridDivisions) / 2

	var maxX, maxY float64
	for _, p := range positions {
		maxX = math.Max(maxX, math.Abs(p.X()))
		maxY = math.Max(maxY, math.Abs(p.Y()))
	}

	extentX := axisExtent(maxX, half, useNiceNumbers)
	extentY := axisExtent(maxY, half, useNiceNumbers)

	return AxisRange{
		MinX: -extentX, MaxX: extentX,
		MinY: -extentY, MaxY: extentY,
	}
}

// PlanarPositions 把 动画路径 -> (right, forward, 0) 的分析结果转换为平面位置列表，顺序不固定
func PlanarPositions(analyzed map[string]mgl64.Vec3) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, len(analyzed))
	for _, v := range analyzed {
		out = append(out, v.Vec2())
	}
	return out
}

func axisExtent(maxAbs, half float64, useNiceNumbers bool) float64 {
	raw := maxAbs / half

	var step float64
	switch {
	case raw <= 0:
		step = 0
	case useNiceNumbers:
		step = NiceStep(raw)
	default:
		step = math.Ceil(raw)
	}

	return math.Max(step*half, MinAxisExtent)
}

// NiceStep 返回 {1,2,2.5,5,10}×10^n 序列中最小的不小于 raw 的值
//
// raw <= 0 时返回 0。
func NiceStep(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	base := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range niceMultipliers {
		// 容忍浮点误差，避免 100 被取到 200
		if c := m * base; c >= raw*(1-1e-12) {
			return c
		}
	}
	return 10 * base
}

// SnapToGrid 把 v 吸附到 [min, max] 上 gridDivisions 等分的最近网格点
//
// 超出范围的值先被截断到范围内；max <= min 时原样返回 v。
func SnapToGrid(v, min, max float64, gridDivisions int) float64 {
	if max <= min {
		return v
	}
	v = math.Max(min, math.Min(max, v))
	if gridDivisions < 1 {
		return v
	}
	step := (max - min) / float64(gridDivisions)
	return min + math.Round((v-min)/step)*step
}

// SnapPosition 在两个轴上分别吸附
func SnapPosition(p mgl64.Vec2, r AxisRange, gridDivisions int) mgl64.Vec2 {
	return mgl64.Vec2{
		SnapToGrid(p.X(), r.MinX, r.MaxX, gridDivisions),
		SnapToGrid(p.Y(), r.MinY, r.MaxY, gridDivisions),
	}
}
