package skeletal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform 骨骼变换：先缩放，再旋转，最后平移
type Transform struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
}

// IdentityTransform 返回单位变换
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// TranslationOnly 返回平移到 v 的单位变换
func TranslationOnly(v mgl64.Vec3) Transform {
	t := IdentityTransform()
	t.Translation = v
	return t
}

// Mul 组合父变换 t 与子变换 child（T_parent * T_child），结果位于 t 所在的空间
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Translation: t.TransformPoint(child.Translation),
		Rotation:    t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:       mulElem(t.Scale, child.Scale),
	}
}

// TransformPoint 把点从 t 的局部空间变换到父空间
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(mulElem(t.Scale, p)).Add(t.Translation)
}

// InverseTransformVector 把方向从父空间变换到 t 的局部空间，忽略平移
func (t Transform) InverseTransformVector(v mgl64.Vec3) mgl64.Vec3 {
	local := t.Rotation.Inverse().Rotate(v)
	for i := range local {
		if t.Scale[i] != 0 {
			local[i] /= t.Scale[i]
		}
	}
	return local
}

// ApproxEqual 逐分量比较平移、缩放（绝对误差 eps）与朝向
func (t Transform) ApproxEqual(other Transform, eps float64) bool {
	return Vec3Near(t.Translation, other.Translation, eps) &&
		Vec3Near(t.Scale, other.Scale, eps) &&
		t.Rotation.OrientationEqualThreshold(other.Rotation, eps)
}

// Vec3Near 判断两个向量每个分量的绝对误差都小于 eps
//
// mgl64 的 ApproxEqualThreshold 在一侧为 0 时使用 eps 的平方作为阈值，
// 不适合比较带浮点噪声的坐标。
func Vec3Near(a, b mgl64.Vec3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) >= eps {
			return false
		}
	}
	return true
}

func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
