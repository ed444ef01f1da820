package classify

import (
	"log"
	"regexp"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/types"
)

// Match 单个动画名的匹配结果
type Match struct {
	Role     types.LocomotionRole
	Position mgl64.Vec2 // (right, forward)
	Priority int
	Pattern  string
}

type compiledRule struct {
	re   *regexp.Regexp
	rule config.PatternRule
}

// RuleSet 编译后的匹配规则集
//
// 规则按优先级降序排列，优先级相同时保持声明顺序。创建后只读。
type RuleSet struct {
	rules      []compiledRule
	normalizer *NameNormalizer
	speedTiers []config.SpeedTier
}

// NewRuleSet 根据配置编译规则集
//
// 无法编译的规则会被跳过并记录警告，完整的错误列表由 config.BuilderConfig.Validate 返回。
func NewRuleSet(cfg config.BuilderConfig) *RuleSet {
	rs := &RuleSet{
		rules:      make([]compiledRule, 0, len(cfg.Patterns)),
		normalizer: NewNameNormalizer(cfg.IgnorableSuffixes),
		speedTiers: cfg.SpeedTiers,
	}

	for _, p := range cfg.Patterns {
		re, err := config.CompilePattern(p)
		if err != nil {
			log.Printf("[Classifier] Warning: skipping rule for %s: %v", p.Role, err)
			continue
		}
		rs.rules = append(rs.rules, compiledRule{re: re, rule: p})
	}

	sort.SliceStable(rs.rules, func(i, j int) bool {
		return rs.rules[i].rule.Priority > rs.rules[j].rule.Priority
	})
	return rs
}

// Len 返回有效规则数量
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Normalize 使用规则集的后缀配置规范化名称
func (rs *RuleSet) Normalize(name string) string {
	return rs.normalizer.Normalize(name)
}

// Match 对动画名执行匹配
//
// 参数:
//   - name: 动画显示名（未规范化）
//
// 返回:
//   - Match: 第一条命中规则对应的角色、默认位置与优先级
//   - bool: 没有规则命中时返回 false
func (rs *RuleSet) Match(name string) (Match, bool) {
	normalized := rs.normalizer.Normalize(name)
	for _, cr := range rs.rules {
		if !cr.re.MatchString(normalized) {
			continue
		}
		m := Match{
			Role:     cr.rule.Role,
			Priority: cr.rule.Priority,
			Pattern:  cr.rule.Pattern,
		}
		if cr.rule.Role == types.RoleCustom {
			m.Position = mgl64.Vec2{cr.rule.CustomPosition[0], cr.rule.CustomPosition[1]}
		} else {
			m.Position = rs.RolePosition(cr.rule.Role)
		}
		return m, true
	}
	return Match{}, false
}

// RolePosition 返回角色的默认混合位置：方向模板乘以对应速度档位
//
// Idle 与 Custom 返回 (0, 0)。
func (rs *RuleSet) RolePosition(role types.LocomotionRole) mgl64.Vec2 {
	right, forward := role.Direction()
	if right == 0 && forward == 0 {
		return mgl64.Vec2{}
	}
	speed := config.TierSpeed(rs.speedTiers, role.Tier())
	return mgl64.Vec2{right * speed, forward * speed}
}
