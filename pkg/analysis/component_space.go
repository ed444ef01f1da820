// Package analysis 从动画片段估算混合空间坐标 (right, forward) 速度
package analysis

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

// ComponentSpaceTransform 计算骨骼在 t 时刻相对骨架根的变换
//
// 从根到叶依次组合局部变换：T_component = T_parent_component * T_local。
// skeleton 为 nil 或 bone 无效时返回单位变换。
func ComponentSpaceTransform(clip skeletal.Clip, skeleton skeletal.Skeleton, bone int, t float64) skeletal.Transform {
	chain := skeletal.ChainToRoot(skeleton, bone)
	result := skeletal.IdentityTransform()
	for i := len(chain) - 1; i >= 0; i-- {
		result = result.Mul(clip.BoneLocalTransform(chain[i], t))
	}
	return result
}

// footSamples 是脚骨骼在各采样键上的组件空间位置
type footSamples struct {
	positions []mgl64.Vec3
	dt        float64
	length    float64
	rate      float64
}

// sampleFoot 在 N 个均匀时间点 t_k = k * (len / N) 采样骨骼位置
//
// 骨骼不存在、骨架无法解析、采样键少于 2 或时长接近 0 时返回 false。
func sampleFoot(clip skeletal.Clip, boneName string) (footSamples, bool) {
	if clip == nil || boneName == "" {
		return footSamples{}, false
	}
	skeleton := clip.Skeleton()
	if skeleton == nil {
		return footSamples{}, false
	}
	bone := skeleton.FindBoneIndex(boneName)
	if bone == skeletal.IndexNone {
		return footSamples{}, false
	}

	n := clip.SampledKeyCount()
	length := clip.PlayLength()
	if n < 2 || length <= lengthEpsilon {
		return footSamples{}, false
	}

	dt := length / float64(n)
	positions := make([]mgl64.Vec3, n)
	for k := range positions {
		positions[k] = ComponentSpaceTransform(clip, skeleton, bone, float64(k)*dt).Translation
	}

	return footSamples{positions: positions, dt: dt, length: length, rate: clip.RateScale()}, true
}

// axis 提取所有采样在某一轴上的分量
func (s footSamples) axis(i int) []float64 {
	out := make([]float64, len(s.positions))
	for k, p := range s.positions {
		out[k] = p[i]
	}
	return out
}
