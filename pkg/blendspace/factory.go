package blendspace

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/analysis"
	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/gait"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
	"github.com/decker502/blendspace-builder/pkg/utils"
)

// Saver 混合空间的持久化后端
type Saver interface {
	Save(bs *BlendSpace) error
}

// Factory 根据构建参数创建移动混合空间
type Factory struct {
	cfg      config.BuilderConfig
	analyzer *analysis.Analyzer
	resolver skeletal.ClipResolver
	store    Saver
}

// NewFactory 创建工厂
//
// 参数:
//   - cfg: 构建器配置（脚骨骼匹配模式与分析参数）
//   - resolver: 动画解析器，为 nil 时不检查弱引用也不做分析
//   - store: 持久化后端，可为 nil（只在内存中创建）
func NewFactory(cfg config.BuilderConfig, resolver skeletal.ClipResolver, store Saver) *Factory {
	return &Factory{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(cfg.Analysis),
		resolver: resolver,
		store:    store,
	}
}

// CreateLocomotionBlendSpace 创建移动混合空间
//
// 样本坐标的来源依次为：CustomPositions、分析结果、角色默认速度坐标。
// CustomPositions 中的坐标原样使用（超出轴范围时截断），不吸附到网格。
// 非 Idle 角色的分析结果为零向量时视为没有信号，退回到默认坐标。
// 吸附到网格后与已有样本重合的角色会被跳过并记录警告。
func (f *Factory) CreateLocomotionBlendSpace(bc BuildConfig) (*BlendSpace, error) {
	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build config: %w", err)
	}

	roles := selectedRoles(bc.Selection, f.resolver)
	if len(roles) == 0 {
		return nil, fmt.Errorf("none of the selected animations for '%s' can be resolved", bc.Name)
	}

	var analyzed map[string]mgl64.Vec3
	if bc.ApplyAnalysis {
		analyzed = bc.AnalyzedPositions
		if len(analyzed) == 0 && f.resolver != nil {
			analyzed = f.analyze(bc, roles)
		}
	}

	axisX, axisY := bc.AxisX, bc.AxisY
	if bc.AutoRange {
		axisX, axisY = f.autoRange(bc, roles, analyzed)
	}

	bs := New(bc.Name, bc.Path, bc.SkeletonPath)
	if err := bs.SetAxis(AxisX, axisX); err != nil {
		return nil, fmt.Errorf("failed to set X axis: %w", err)
	}
	if err := bs.SetAxis(AxisY, axisY); err != nil {
		return nil, fmt.Errorf("failed to set Y axis: %w", err)
	}

	bs.Metadata = Metadata{
		LocomotionType: LocomotionSpeedBased,
		AnalysisType:   bc.Analysis.Type,
		SampleRoles:    make(map[string]types.LocomotionRole, len(roles)),
	}

	for _, role := range roles {
		clip := bc.Selection[role]
		pos := f.samplePosition(bc, role, clip, analyzed, axisY.Max)
		_, manual := bc.CustomPositions[role]
		pos = mgl64.Vec2{
			placeOnAxis(pos.X(), axisX, manual),
			placeOnAxis(pos.Y(), axisY, manual),
		}

		if err := bs.AddSample(clip, pos); err != nil {
			if errors.Is(err, ErrDuplicateSample) {
				log.Printf("[BlendSpaceFactory] Warning: %s skipped: %v", role, err)
				continue
			}
			return nil, fmt.Errorf("failed to add %s sample: %w", role, err)
		}
		bs.Metadata.SampleRoles[clip.Path] = role
	}

	if f.store != nil {
		if err := f.store.Save(bs); err != nil {
			return nil, fmt.Errorf("failed to save blend space '%s': %w", bs.Path, err)
		}
	}

	log.Printf("[BlendSpaceFactory] Created '%s' with %d samples (X [%.0f, %.0f], Y [%.0f, %.0f])",
		bs.Path, bs.SampleCount(), axisX.Min, axisX.Max, axisY.Min, axisY.Max)
	return bs, nil
}

// selectedRoles 按角色顺序返回可解析的角色；resolver 为 nil 时不做检查
func selectedRoles(selection map[types.LocomotionRole]skeletal.ClipRef, resolver skeletal.ClipResolver) []types.LocomotionRole {
	roles := make([]types.LocomotionRole, 0, len(selection))
	for role, clip := range selection {
		if resolver != nil {
			if _, ok := clip.Resolve(resolver); !ok {
				log.Printf("[BlendSpaceFactory] Warning: %s clip '%s' no longer exists, skipped", role, clip.Path)
				continue
			}
		}
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (f *Factory) analyze(bc BuildConfig, roles []types.LocomotionRole) map[string]mgl64.Vec3 {
	opts := analysis.OptionsFromConfig(f.cfg)
	opts.Type = bc.Analysis.Type
	opts.LeftFoot = bc.Analysis.LeftFoot
	opts.RightFoot = bc.Analysis.RightFoot
	if bc.Analysis.StrideMultiplier > 0 {
		opts.StrideMultiplier = bc.Analysis.StrideMultiplier
	}

	refs := make([]skeletal.ClipRef, 0, len(roles))
	for _, role := range roles {
		refs = append(refs, bc.Selection[role])
	}
	return f.analyzer.Analyze(refs, f.resolver, opts)
}

// autoRange 由选中动画的分析结果与手动坐标计算对称轴范围
func (f *Factory) autoRange(bc BuildConfig, roles []types.LocomotionRole, analyzed map[string]mgl64.Vec3) (Axis, Axis) {
	var positions []mgl64.Vec2
	for _, role := range roles {
		if p, ok := bc.CustomPositions[role]; ok {
			positions = append(positions, p)
			continue
		}
		if v, ok := analyzed[bc.Selection[role].Path]; ok {
			positions = append(positions, v.Vec2())
		}
	}

	axisX, axisY := bc.AxisX, bc.AxisY
	if len(positions) == 0 {
		log.Printf("[BlendSpaceFactory] Warning: no analyzed positions for '%s', keeping configured axis range", bc.Name)
		return axisX, axisY
	}

	// 每个轴使用自己的网格数
	rx := utils.ComputeAxisRange(positions, axisX.GridDivisions, bc.UseNiceNumbers)
	ry := utils.ComputeAxisRange(positions, axisY.GridDivisions, bc.UseNiceNumbers)
	axisX.Min, axisX.Max = rx.MinX, rx.MaxX
	axisY.Min, axisY.Max = ry.MinY, ry.MaxY
	return axisX, axisY
}

func (f *Factory) samplePosition(bc BuildConfig, role types.LocomotionRole, clip skeletal.ClipRef, analyzed map[string]mgl64.Vec3, axisMax float64) mgl64.Vec2 {
	if p, ok := bc.CustomPositions[role]; ok {
		return p
	}
	if v, ok := analyzed[clip.Path]; ok {
		p := v.Vec2()
		if role == types.RoleIdle || p.Len() > 0 {
			return p
		}
		log.Printf("[BlendSpaceFactory] Warning: no motion detected in '%s', using default %s position", clip.Name, role)
	}
	return gait.SpeedPosition(role, axisMax)
}

// placeOnAxis 吸附到网格或截断到轴范围内，手动坐标只截断不吸附
func placeOnAxis(v float64, a Axis, manual bool) float64 {
	grid := a.GridDivisions
	if !a.SnapToGrid || manual {
		grid = 0
	}
	return utils.SnapToGrid(v, a.Min, a.Max, grid)
}
