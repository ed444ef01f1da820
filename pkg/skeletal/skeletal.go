// Package skeletal 混合空间构建器依赖的外部接口：列出动画片段的资源注册表，
// 以及回答"时间 t 时骨骼的局部变换"这类查询的骨骼采样运行时。
//
// 全模块使用的坐标约定：X = 右，Y = 前，Z = 上。
package skeletal

// IndexNone 骨骼查找失败时的返回值，也是根骨骼的父索引
const IndexNone = -1

// Skeleton 参考骨架：扁平的骨骼列表，除根骨骼外每根骨骼以索引指向父骨骼
type Skeleton interface {
	Name() string
	Path() string
	BoneCount() int
	BoneName(index int) string
	// ParentIndex 根骨骼或无效索引返回 IndexNone
	ParentIndex(index int) int
	// FindBoneIndex 骨骼不存在时返回 IndexNone
	FindBoneIndex(name string) int
}

// Clip 绑定到骨架的已采样动画序列
type Clip interface {
	Name() string
	Path() string
	// Skeleton 骨架资源无法解析时可能返回 nil
	Skeleton() Skeleton
	// PlayLength 动画时长（秒）
	PlayLength() float64
	SampledKeyCount() int
	RateScale() float64
	RootMotionEnabled() bool
	// BoneLocalTransform 采样时间 t 时骨骼相对父骨骼的变换
	BoneLocalTransform(bone int, t float64) Transform
	// ExtractRootMotion 返回 [start, end] 区间内累计的根位移
	ExtractRootMotion(start, end float64) Transform
}

// AssetData 注册表中的动画资源信息，无需加载动画即可筛选和归类
type AssetData struct {
	Path         string
	Name         string
	SkeletonPath string
	RootMotion   bool
}

// Ref 返回指向该资源的弱引用
func (a AssetData) Ref() ClipRef {
	return ClipRef{Path: a.Path, Name: a.Name}
}

// ClipRef 动画的弱引用
//
// 引用的动画可能已被删除，使用前需通过 ClipResolver 解析。
type ClipRef struct {
	Path string
	Name string
}

// IsZero 判断是否为空引用
func (r ClipRef) IsZero() bool {
	return r.Path == ""
}

// Resolve 通过 resolver 解析动画，悬空引用或 resolver 为 nil 时 ok 为 false
func (r ClipRef) Resolve(resolver ClipResolver) (clip Clip, ok bool) {
	if r.IsZero() || resolver == nil {
		return nil, false
	}
	return resolver.ResolveClip(r.Path)
}

// AssetRegistry 列出宿主已知的动画资源
type AssetRegistry interface {
	ListClipAssets() []AssetData
}

// ClipResolver 按资源路径加载动画
type ClipResolver interface {
	ResolveClip(path string) (Clip, bool)
}

// SkeletonResolver 按资源路径加载骨架
type SkeletonResolver interface {
	ResolveSkeleton(path string) (Skeleton, bool)
}
