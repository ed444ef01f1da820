package analysis

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

const (
	// lengthEpsilon 时长小于该值的动画视为退化
	lengthEpsilon = 1e-4
	// zeroTolerance 双脚合并时小于该长度的速度视为无信号
	zeroTolerance = 1e-4
	// contactEpsilon 防止着地权重除零
	contactEpsilon = 1e-4
)

// Analyzer 速度分析器
//
// 所有方法对退化输入（骨骼缺失、骨架无法解析、时长为 0、采样键不足）返回零向量而不是错误，
// 调用方应把零向量理解为"没有可用信号"，不一定是静止。
type Analyzer struct {
	cfg config.AnalysisConfig
}

// NewAnalyzer 创建速度分析器
func NewAnalyzer(cfg config.AnalysisConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Config 返回分析器配置
func (a *Analyzer) Config() config.AnalysisConfig {
	return a.cfg
}

// RootMotionVelocity 根运动速度
//
// 取整段动画的根位移除以时长，再乘以播放速率。平面速度低于 MinRootMotionSpeed 时视为
// 原地动画返回零。结果为 (X, Y) = (right, forward)，不做额外旋转。
func (a *Analyzer) RootMotionVelocity(clip skeletal.Clip) mgl64.Vec2 {
	if clip == nil {
		return mgl64.Vec2{}
	}
	length := clip.PlayLength()
	if length <= lengthEpsilon {
		return mgl64.Vec2{}
	}

	motion := clip.ExtractRootMotion(0, length)
	v := motion.Translation.Mul(clip.RateScale() / length)
	planar := mgl64.Vec2{v.X(), v.Y()}

	if planar.Len() < a.cfg.MinRootMotionSpeed {
		return mgl64.Vec2{}
	}
	return planar
}

// FootVelocitySimple 单脚速度平均
//
// 相邻采样键做前向差分（最后一个键沿用倒数第二个速度，不回绕），取平均后取反并乘以播放速率：
// 着地的脚相对角色向后移动，角色本身向前。
func (a *Analyzer) FootVelocitySimple(clip skeletal.Clip, bone string) mgl64.Vec2 {
	s, ok := sampleFoot(clip, bone)
	if !ok {
		return mgl64.Vec2{}
	}

	n := len(s.positions)
	vx := make([]float64, n)
	vy := make([]float64, n)
	for k := 0; k < n-1; k++ {
		d := s.positions[k+1].Sub(s.positions[k]).Mul(1 / s.dt)
		vx[k], vy[k] = d.X(), d.Y()
	}
	vx[n-1], vy[n-1] = vx[n-2], vy[n-2]

	return mgl64.Vec2{stat.Mean(vx, nil), stat.Mean(vy, nil)}.Mul(-s.rate)
}

// FootStride 单脚步幅速度
//
// 每个平面轴上位置范围 (max - min) 视为一个完整步态周期的步幅，除以时长乘以播放速率。
// 结果两个分量都不为负。
func (a *Analyzer) FootStride(clip skeletal.Clip, bone string) mgl64.Vec2 {
	s, ok := sampleFoot(clip, bone)
	if !ok {
		return mgl64.Vec2{}
	}

	xs, ys := s.axis(0), s.axis(1)
	scale := s.rate / s.length
	return mgl64.Vec2{
		(floats.Max(xs) - floats.Min(xs)) * scale,
		(floats.Max(ys) - floats.Min(ys)) * scale,
	}
}

// StrideCombined 方向取双脚速度平均，大小取左右步幅之和乘以补偿系数
//
// multiplier <= 0 时使用配置中的 StrideMultiplier。
func (a *Analyzer) StrideCombined(clip skeletal.Clip, leftBone, rightBone string, multiplier float64) mgl64.Vec2 {
	if multiplier <= 0 {
		multiplier = a.cfg.StrideMultiplier
	}

	dir := CombineFeet(a.FootVelocitySimple(clip, leftBone), a.FootVelocitySimple(clip, rightBone))
	if dir.Len() < zeroTolerance {
		return mgl64.Vec2{}
	}

	stride := a.FootStride(clip, leftBone).Add(a.FootStride(clip, rightBone))
	return dir.Normalize().Mul(stride.Len() * multiplier)
}

// FootContactVelocity 着地加权的单脚速度
//
// 各采样键用中心差分（首尾回绕）求速度，以脚的高度加权：最低点（着地）权重为 1，
// 最高点接近 0。加权平均后取反并乘以播放速率。脚没有竖直运动时返回零。
func (a *Analyzer) FootContactVelocity(clip skeletal.Clip, bone string) mgl64.Vec2 {
	s, ok := sampleFoot(clip, bone)
	if !ok {
		return mgl64.Vec2{}
	}

	heights := s.axis(2)
	minH, maxH := floats.Min(heights), floats.Max(heights)
	if maxH-minH < contactEpsilon {
		return mgl64.Vec2{}
	}

	n := len(s.positions)
	vx := make([]float64, n)
	vy := make([]float64, n)
	weights := make([]float64, n)
	for k := 0; k < n; k++ {
		next := s.positions[(k+1)%n]
		prev := s.positions[(k-1+n)%n]
		d := next.Sub(prev).Mul(1 / (2 * s.dt))
		vx[k], vy[k] = d.X(), d.Y()
		weights[k] = 1 - (heights[k]-minH)/(maxH-minH+contactEpsilon)
	}

	return mgl64.Vec2{stat.Mean(vx, weights), stat.Mean(vy, weights)}.Mul(-s.rate)
}

// CombineFeet 合并左右脚速度
//
// 只平均非零的一方：一只脚没有检测到运动时不把结果拉向零。两只都为零时返回零。
func CombineFeet(left, right mgl64.Vec2) mgl64.Vec2 {
	hasLeft := left.Len() >= zeroTolerance
	hasRight := right.Len() >= zeroTolerance

	switch {
	case hasLeft && hasRight:
		return left.Add(right).Mul(0.5)
	case hasLeft:
		return left
	case hasRight:
		return right
	default:
		return mgl64.Vec2{}
	}
}
