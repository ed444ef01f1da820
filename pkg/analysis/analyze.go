package analysis

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// AnalysisOptions 一次批量分析的参数
type AnalysisOptions struct {
	Type types.AnalysisType

	// LeftFoot / RightFoot 为空时按 FootPatterns 从骨架中查找
	LeftFoot  string
	RightFoot string

	LeftFootPatterns  []string
	RightFootPatterns []string

	// StrideMultiplier <= 0 时使用分析器配置
	StrideMultiplier float64
}

// OptionsFromConfig 根据构建器配置生成默认分析参数
func OptionsFromConfig(cfg config.BuilderConfig) AnalysisOptions {
	return AnalysisOptions{
		Type:              cfg.Analysis.Type,
		LeftFootPatterns:  cfg.LeftFootPatterns,
		RightFootPatterns: cfg.RightFootPatterns,
		StrideMultiplier:  cfg.Analysis.StrideMultiplier,
	}
}

// FootBones 返回分析使用的左右脚骨骼名
//
// 显式指定的名称优先，否则按匹配模式在骨架中查找（跳过 IK 骨骼）。
func (o AnalysisOptions) FootBones(skeleton skeletal.Skeleton) (left, right string) {
	left, right = o.LeftFoot, o.RightFoot
	if left == "" {
		left = skeletal.FindFootBone(skeleton, o.LeftFootPatterns)
	}
	if right == "" {
		right = skeletal.FindFootBone(skeleton, o.RightFootPatterns)
	}
	return left, right
}

// AnalyzeClip 按分析方式计算单个动画的速度 (right, forward)
//
// 结果已除以 ScaleDivisor。
func (a *Analyzer) AnalyzeClip(clip skeletal.Clip, opts AnalysisOptions) mgl64.Vec2 {
	if clip == nil {
		return mgl64.Vec2{}
	}

	var v mgl64.Vec2
	if opts.Type == types.AnalysisRootMotion {
		v = a.RootMotionVelocity(clip)
	} else {
		left, right := opts.FootBones(clip.Skeleton())
		if left == "" && right == "" {
			log.Printf("[Analyzer] Warning: no foot bones found for '%s'", clip.Name())
			return mgl64.Vec2{}
		}

		switch opts.Type {
		case types.AnalysisLocomotionSimple:
			v = CombineFeet(a.FootVelocitySimple(clip, left), a.FootVelocitySimple(clip, right))
		case types.AnalysisLocomotionStride:
			v = a.StrideCombined(clip, left, right, opts.StrideMultiplier)
		case types.AnalysisLocomotionContact:
			v = CombineFeet(a.FootContactVelocity(clip, left), a.FootContactVelocity(clip, right))
		default:
			log.Printf("[Analyzer] Warning: unknown analysis type %d", int(opts.Type))
			return mgl64.Vec2{}
		}
	}

	if div := a.cfg.ScaleDivisor; div > 0 && div != 1 {
		v = v.Mul(1 / div)
	}
	return v
}

// Analyze 批量分析动画，返回 动画路径 -> (right, forward, 0)
//
// 无法解析的弱引用会被跳过；单个动画分析失败（零向量）不会中断其他动画的分析。
func (a *Analyzer) Analyze(refs []skeletal.ClipRef, resolver skeletal.ClipResolver, opts AnalysisOptions) map[string]mgl64.Vec3 {
	out := make(map[string]mgl64.Vec3, len(refs))
	for _, ref := range refs {
		if _, done := out[ref.Path]; done {
			continue
		}
		clip, ok := ref.Resolve(resolver)
		if !ok {
			log.Printf("[Analyzer] Warning: clip '%s' no longer exists, skipped", ref.Path)
			continue
		}

		v := a.AnalyzeClip(clip, opts)
		if v.Len() == 0 {
			log.Printf("[Analyzer] Warning: no usable %s signal in '%s'", opts.Type, ref.Name)
		}
		out[ref.Path] = mgl64.Vec3{v.X(), v.Y(), 0}
	}
	return out
}
