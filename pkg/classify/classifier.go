package classify

import (
	"log"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// ClassifiedAnimation 一个已归类的动画片段
//
// Clip 是弱引用，使用前需通过 skeletal.ClipResolver 解析。
type ClassifiedAnimation struct {
	Clip          skeletal.ClipRef
	Role          types.LocomotionRole
	Position      mgl64.Vec2
	HasRootMotion bool
	MatchPriority int
}

// RoleCandidates 某个角色的全部候选动画（已排序）
type RoleCandidates struct {
	Role       types.LocomotionRole
	Candidates []ClassifiedAnimation
}

// Recommended 返回推荐候选
//
// preferRootMotion 为 true 时返回第一个根运动候选；否则（或没有根运动候选时）返回优先级最高者。
func (rc *RoleCandidates) Recommended(preferRootMotion bool) (ClassifiedAnimation, bool) {
	if rc == nil || len(rc.Candidates) == 0 {
		return ClassifiedAnimation{}, false
	}
	if preferRootMotion {
		for _, c := range rc.Candidates {
			if c.HasRootMotion {
				return c, true
			}
		}
	}
	best := rc.Candidates[0]
	for _, c := range rc.Candidates[1:] {
		if c.MatchPriority > best.MatchPriority {
			best = c
		}
	}
	return best, true
}

// Result 归类结果
type Result struct {
	ByRole       map[types.LocomotionRole]*RoleCandidates
	Unclassified []skeletal.ClipRef
}

// Roles 按枚举顺序返回有候选的角色
func (r Result) Roles() []types.LocomotionRole {
	roles := make([]types.LocomotionRole, 0, len(r.ByRole))
	for role := range r.ByRole {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// ClassifiedCount 返回已归类的动画数量
func (r Result) ClassifiedCount() int {
	n := 0
	for _, rc := range r.ByRole {
		n += len(rc.Candidates)
	}
	return n
}

// Classifier 动画归类器
type Classifier struct {
	rules            *RuleSet
	preferRootMotion bool
}

// NewClassifier 根据配置创建归类器
func NewClassifier(cfg config.BuilderConfig) *Classifier {
	return &Classifier{
		rules:            NewRuleSet(cfg),
		preferRootMotion: cfg.PreferRootMotion,
	}
}

// Rules 返回归类器使用的规则集
func (c *Classifier) Rules() *RuleSet {
	return c.rules
}

// FindCandidates 查询与骨骼兼容的动画资源
//
// 资源的骨骼路径与 skeleton 路径相同，或包含骨骼名称时视为兼容。
// skeleton 为 nil 时返回空结果。结果按路径排序。
func FindCandidates(registry skeletal.AssetRegistry, skeleton skeletal.Skeleton) []skeletal.AssetData {
	if registry == nil || skeleton == nil {
		return nil
	}

	path := skeleton.Path()
	name := skeleton.Name()

	var out []skeletal.AssetData
	for _, asset := range registry.ListClipAssets() {
		if asset.SkeletonPath == path || (name != "" && strings.Contains(asset.SkeletonPath, name)) {
			out = append(out, asset)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Classify 对资源列表逐个归类
//
// 未命中任何规则的资源进入 Unclassified，不视为错误。
func (c *Classifier) Classify(assets []skeletal.AssetData) Result {
	result := Result{ByRole: make(map[types.LocomotionRole]*RoleCandidates)}

	for _, asset := range assets {
		m, ok := c.rules.Match(asset.Name)
		if !ok {
			result.Unclassified = append(result.Unclassified, asset.Ref())
			continue
		}

		rc := result.ByRole[m.Role]
		if rc == nil {
			rc = &RoleCandidates{Role: m.Role}
			result.ByRole[m.Role] = rc
		}
		rc.Candidates = append(rc.Candidates, ClassifiedAnimation{
			Clip:          asset.Ref(),
			Role:          m.Role,
			Position:      m.Position,
			HasRootMotion: asset.RootMotion,
			MatchPriority: m.Priority,
		})
	}

	for _, rc := range result.ByRole {
		c.rank(rc)
	}
	return result
}

// ClassifySkeleton 查询骨骼的动画并归类
func (c *Classifier) ClassifySkeleton(registry skeletal.AssetRegistry, skeleton skeletal.Skeleton) Result {
	assets := FindCandidates(registry, skeleton)
	result := c.Classify(assets)
	if skeleton != nil {
		log.Printf("[Classifier] %s: %d clips, %d classified into %d roles, %d unclassified",
			skeleton.Name(), len(assets), result.ClassifiedCount(), len(result.ByRole), len(result.Unclassified))
	}
	return result
}

// rank 根运动优先（启用时），其次按优先级降序，稳定排序
func (c *Classifier) rank(rc *RoleCandidates) {
	prefer := c.preferRootMotion
	sort.SliceStable(rc.Candidates, func(i, j int) bool {
		a, b := rc.Candidates[i], rc.Candidates[j]
		if prefer && a.HasRootMotion != b.HasRootMotion {
			return a.HasRootMotion
		}
		return a.MatchPriority > b.MatchPriority
	})
}

// DefaultSelection 为每个角色选出推荐动画，保留归类时计算的坐标（Custom 角色需要）
func DefaultSelection(result Result, preferRootMotion bool) map[types.LocomotionRole]ClassifiedAnimation {
	selection := make(map[types.LocomotionRole]ClassifiedAnimation, len(result.ByRole))
	for role, rc := range result.ByRole {
		if best, ok := rc.Recommended(preferRootMotion); ok {
			selection[role] = best
		}
	}
	return selection
}
