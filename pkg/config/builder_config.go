package config

import (
	"strings"

	"github.com/decker502/blendspace-builder/pkg/types"
)

// FallbackTierSpeed 未配置的速度档位使用的速度（单位/秒）
const FallbackTierSpeed = 300.0

// BuilderConfig 混合空间构建器的完整配置
//
// 该结构在构建开始前一次性加载，之后作为只读值传入分类器、分析器与转换器，
// 不存在全局单例。
type BuilderConfig struct {
	Axis              AxisConfig     `yaml:"axis"`
	PreferRootMotion  bool           `yaml:"prefer_root_motion"`  // 同一角色有多个候选时优先根运动动画
	OutputSuffix      string         `yaml:"output_suffix"`       // 生成资源名后缀
	LeftFootPatterns  []string       `yaml:"left_foot_patterns"`  // 左脚骨骼名匹配（忽略大小写的包含匹配）
	RightFootPatterns []string       `yaml:"right_foot_patterns"` // 右脚骨骼名匹配
	IgnorableSuffixes []string       `yaml:"ignorable_suffixes"`  // 匹配前剥离的后缀（根运动/原地标记等）
	SpeedTiers        []SpeedTier    `yaml:"speed_tiers"`
	Patterns          []PatternRule  `yaml:"patterns"`
	Analysis          AnalysisConfig `yaml:"analysis"`
	Gait              GaitConfig     `yaml:"gait"`
}

// AxisConfig 混合空间坐标轴默认值
type AxisConfig struct {
	DefaultMinSpeed float64 `yaml:"default_min_speed"`
	DefaultMaxSpeed float64 `yaml:"default_max_speed"`
	XAxisName       string  `yaml:"x_axis_name"`
	YAxisName       string  `yaml:"y_axis_name"`
	GridDivisions   int     `yaml:"grid_divisions"`
	UseNiceNumbers  bool    `yaml:"use_nice_numbers"`
	SnapToGrid      bool    `yaml:"snap_to_grid"`
}

// SpeedTier 命名速度档位，如 Walk=200
type SpeedTier struct {
	Name  string  `yaml:"name"`
	Speed float64 `yaml:"speed"`
}

// PatternRule 动画名匹配规则
//
// 规则按 Priority 降序匹配，第一条命中的规则生效，规则之间不合并。
type PatternRule struct {
	Pattern         string               `yaml:"pattern"`
	CaseInsensitive bool                 `yaml:"case_insensitive"`
	Role            types.LocomotionRole `yaml:"role"`
	CustomPosition  [2]float64           `yaml:"custom_position,omitempty"` // 仅 Role=Custom 时使用 (right, forward)
	Priority        int                  `yaml:"priority"`
}

// AnalysisConfig 速度分析参数
type AnalysisConfig struct {
	Type               types.AnalysisType `yaml:"type"`
	MinRootMotionSpeed float64            `yaml:"min_root_motion_speed"` // 低于该平面速度的根运动视为静止
	StrideMultiplier   float64            `yaml:"stride_multiplier"`     // 步幅分析的补偿系数
	ScaleDivisor       float64            `yaml:"scale_divisor"`         // 骨骼缩放归一化除数，1 表示不缩放
}

// GaitConfig 速度型混合空间转换为步态型时的参数
type GaitConfig struct {
	IdleSpeedThreshold float64 `yaml:"idle_speed_threshold"` // 低于该速度视为待机
	WalkToRunRatio     float64 `yaml:"walk_to_run_ratio"`    // 归一化速度达到该比例视为跑步
	CreateCopy         bool    `yaml:"create_copy"`
	OutputSuffix       string  `yaml:"output_suffix"`
}

// SpeedForTier 按名称查找速度档位（忽略大小写），未找到时返回 FallbackTierSpeed
func (c BuilderConfig) SpeedForTier(name string) float64 {
	return TierSpeed(c.SpeedTiers, name)
}

// TierSpeed 在档位列表中按名称查找速度（忽略大小写），未找到时返回 FallbackTierSpeed
func TierSpeed(tiers []SpeedTier, name string) float64 {
	for _, tier := range tiers {
		if strings.EqualFold(tier.Name, name) {
			return tier.Speed
		}
	}
	return FallbackTierSpeed
}

// DefaultBuilderConfig 返回默认配置
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Axis: AxisConfig{
			DefaultMinSpeed: -500,
			DefaultMaxSpeed: 500,
			XAxisName:       "RightVelocity",
			YAxisName:       "ForwardVelocity",
			GridDivisions:   4,
			UseNiceNumbers:  false,
			SnapToGrid:      true,
		},
		PreferRootMotion:  true,
		OutputSuffix:      "_Locomotion",
		LeftFootPatterns:  DefaultLeftFootPatterns(),
		RightFootPatterns: DefaultRightFootPatterns(),
		IgnorableSuffixes: DefaultIgnorableSuffixes(),
		SpeedTiers:        DefaultSpeedTiers(),
		Patterns:          DefaultPatterns(),
		Analysis: AnalysisConfig{
			Type:               types.AnalysisRootMotion,
			MinRootMotionSpeed: 1.0,
			StrideMultiplier:   1.0,
			ScaleDivisor:       1.0,
		},
		Gait: GaitConfig{
			IdleSpeedThreshold: 25,
			WalkToRunRatio:     0.6,
			CreateCopy:         true,
			OutputSuffix:       "_Gait",
		},
	}
}

// DefaultSpeedTiers 返回默认速度档位
func DefaultSpeedTiers() []SpeedTier {
	return []SpeedTier{
		{Name: types.TierWalk, Speed: 200},
		{Name: types.TierRun, Speed: 400},
		{Name: types.TierSprint, Speed: 600},
	}
}

// DefaultIgnorableSuffixes 返回默认可忽略后缀
func DefaultIgnorableSuffixes() []string {
	return []string{
		// 根运动
		"_RootMotion", "_root_motion", "_RM",
		// 原地
		"_InPlace", "_inplace", "_in_place", "_IP",
		// 其他
		"_NEW",
	}
}

// DefaultLeftFootPatterns 返回默认左脚骨骼名匹配
func DefaultLeftFootPatterns() []string {
	return []string{"foot_l", "Foot_L", "LeftFoot", "Left_Foot", "l_foot", "L_Foot"}
}

// DefaultRightFootPatterns 返回默认右脚骨骼名匹配
func DefaultRightFootPatterns() []string {
	return []string{"foot_r", "Foot_R", "RightFoot", "Right_Foot", "r_foot", "R_Foot"}
}

// DefaultPatterns 返回默认匹配规则
//
// 优先级约定：
//   - 100: Idle
//   - 95:  斜向（FrontL / _FL / F_L_ ...）
//   - 90-92: 正向（_L_90 / _F_0 / forward / left ...）
//   - 88:  Strafe
//   - 85:  单独的 front / back，避免误匹配 frontL、backR
//   - 50 及以下: 无方向的 walk / run，视为前进
func DefaultPatterns() []PatternRule {
	rules := []PatternRule{
		rule("idle", types.RoleIdle, 100),
	}

	gaits := []struct {
		prefix                string
		fwd, bwd, left, right types.LocomotionRole
		fl, fr, bl, br        types.LocomotionRole
	}{
		{"walk",
			types.RoleWalkForward, types.RoleWalkBackward, types.RoleWalkLeft, types.RoleWalkRight,
			types.RoleWalkForwardLeft, types.RoleWalkForwardRight, types.RoleWalkBackwardLeft, types.RoleWalkBackwardRight},
		{"run",
			types.RoleRunForward, types.RoleRunBackward, types.RoleRunLeft, types.RoleRunRight,
			types.RoleRunForwardLeft, types.RoleRunForwardRight, types.RoleRunBackwardLeft, types.RoleRunBackwardRight},
	}

	for _, g := range gaits {
		p := g.prefix
		rules = append(rules,
			// 斜向
			rule(p+".*(frontL|FrontL|FrontLeft|_FL$|_FL_|F_L_|_F_L_$)", g.fl, 95),
			rule(p+".*(frontR|FrontR|FrontRight|_FR$|_FR_|F_R_|_F_R_$)", g.fr, 95),
			rule(p+".*(backL|BackL|BackLeft|_BL$|_BL_|B_L_|_B_L_$)", g.bl, 95),
			rule(p+".*(backR|BackR|BackRight|_BR$|_BR_|B_R_|_B_R_$)", g.br, 95),
			// 角度标记
			rule(p+".*(_L_90|_F_L_90|_L_$)", g.left, 92),
			rule(p+".*(_R_90|_F_R_90|_R_$)", g.right, 92),
			rule(p+".*(_B_180|_B_$)", g.bwd, 92),
			rule(p+".*(_F_0|_F_$)", g.fwd, 91),
			// 正向
			rule(p+".*(forward|fwd|_F$)", g.fwd, 90),
			rule(p+".*(backward|backwards|_B$)", g.bwd, 90),
			rule(p+".*(left|_L$)", g.left, 90),
			rule(p+".*(right|_R$)", g.right, 90),
			rule(p+".*front$", g.fwd, 85),
			rule(p+".*back$", g.bwd, 85),
		)
	}

	rules = append(rules,
		rule("sprint.*(forward|_F$)", types.RoleSprintForward, 90),
		rule("sprint.*(front$|$)", types.RoleSprintForward, 85),

		rule("StrafeL", types.RoleWalkLeft, 88),
		rule("StrafeR", types.RoleWalkRight, 88),

		rule("_walk$", types.RoleWalkForward, 50),
		rule("_run$", types.RoleRunForward, 50),
		rule("walking", types.RoleWalkForward, 50),
		rule("running", types.RoleRunForward, 50),

		rule("Anim.*walk$", types.RoleWalkForward, 40),
		rule("Anim.*run$", types.RoleRunForward, 40),

		rule("^walk$", types.RoleWalkForward, 30),
		rule("^run$", types.RoleRunForward, 30),

		rule("walk$", types.RoleWalkForward, 25),
		rule("run$", types.RoleRunForward, 25),
	)

	return rules
}

func rule(pattern string, role types.LocomotionRole, priority int) PatternRule {
	return PatternRule{Pattern: pattern, CaseInsensitive: true, Role: role, Priority: priority}
}
