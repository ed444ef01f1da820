package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// LoadBuilderConfig 从 YAML 文件加载构建器配置
//
// 文件中未出现的字段保留默认值；出现的列表（patterns、speed_tiers 等）整体替换默认列表。
//
// 参数:
//   - path: 配置文件路径
//
// 返回:
//   - BuilderConfig: 合并默认值后的配置
//   - error: 读取或解析失败时返回错误
func LoadBuilderConfig(path string) (BuilderConfig, error) {
	cfg := DefaultBuilderConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultBuilderConfig(), fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadBuilderConfigOrDefault 加载配置，失败时记录警告并返回默认配置
//
// path 为空时直接返回默认配置。
func LoadBuilderConfigOrDefault(path string) BuilderConfig {
	if path == "" {
		return DefaultBuilderConfig()
	}
	cfg, err := LoadBuilderConfig(path)
	if err != nil {
		log.Printf("[BuilderConfig] Warning: %v", err)
		log.Printf("[BuilderConfig] Will use default builder config")
		return DefaultBuilderConfig()
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[BuilderConfig] Warning: config '%s' has invalid entries: %v", path, err)
	}
	log.Printf("[BuilderConfig] Loaded builder config (patterns=%d, tiers=%d)", len(cfg.Patterns), len(cfg.SpeedTiers))
	return cfg
}

// applyDefaults 修正 YAML 中显式写为零值、会导致计算无意义的字段
func (c *BuilderConfig) applyDefaults() {
	def := DefaultBuilderConfig()
	if c.Axis.GridDivisions < 1 {
		c.Axis.GridDivisions = def.Axis.GridDivisions
	}
	if c.Axis.XAxisName == "" {
		c.Axis.XAxisName = def.Axis.XAxisName
	}
	if c.Axis.YAxisName == "" {
		c.Axis.YAxisName = def.Axis.YAxisName
	}
	if c.Analysis.StrideMultiplier <= 0 {
		c.Analysis.StrideMultiplier = def.Analysis.StrideMultiplier
	}
	if c.Analysis.ScaleDivisor <= 0 {
		c.Analysis.ScaleDivisor = def.Analysis.ScaleDivisor
	}
	if c.Gait.OutputSuffix == "" {
		c.Gait.OutputSuffix = def.Gait.OutputSuffix
	}
}

// Validate 检查配置，返回所有问题的合并错误
//
// 无效的正则表达式在此报告；分类时这些规则会被跳过而不会中断分类。
func (c BuilderConfig) Validate() error {
	var errs []error

	if c.Axis.DefaultMinSpeed >= c.Axis.DefaultMaxSpeed {
		errs = append(errs, fmt.Errorf("axis: default_min_speed (%.1f) must be less than default_max_speed (%.1f)",
			c.Axis.DefaultMinSpeed, c.Axis.DefaultMaxSpeed))
	}
	if c.Axis.GridDivisions < 1 {
		errs = append(errs, fmt.Errorf("axis: grid_divisions must be at least 1, got %d", c.Axis.GridDivisions))
	}

	for i, p := range c.Patterns {
		if !p.Role.IsValid() {
			errs = append(errs, fmt.Errorf("patterns[%d] %q: invalid role", i, p.Pattern))
		}
		if _, err := CompilePattern(p); err != nil {
			errs = append(errs, fmt.Errorf("patterns[%d]: %w", i, err))
		}
	}

	seen := make(map[string]bool, len(c.SpeedTiers))
	for i, tier := range c.SpeedTiers {
		if tier.Name == "" {
			errs = append(errs, fmt.Errorf("speed_tiers[%d]: empty name", i))
		}
		if tier.Speed < 0 {
			errs = append(errs, fmt.Errorf("speed_tiers[%d] %s: negative speed %.1f", i, tier.Name, tier.Speed))
		}
		if seen[tier.Name] {
			errs = append(errs, fmt.Errorf("speed_tiers[%d]: duplicate tier %s", i, tier.Name))
		}
		seen[tier.Name] = true
	}

	if c.Analysis.MinRootMotionSpeed < 0 {
		errs = append(errs, errors.New("analysis: min_root_motion_speed must not be negative"))
	}
	if c.Gait.WalkToRunRatio <= 0 || c.Gait.WalkToRunRatio > 1 {
		errs = append(errs, fmt.Errorf("gait: walk_to_run_ratio must be in (0, 1], got %.2f", c.Gait.WalkToRunRatio))
	}
	if c.Gait.IdleSpeedThreshold < 0 {
		errs = append(errs, errors.New("gait: idle_speed_threshold must not be negative"))
	}

	return errors.Join(errs...)
}

// CompilePattern 编译匹配规则的正则表达式
//
// CaseInsensitive 为 true 时添加 (?i) 标志。
func CompilePattern(p PatternRule) (*regexp.Regexp, error) {
	expr := p.Pattern
	if p.CaseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", p.Pattern, err)
	}
	return re, nil
}
