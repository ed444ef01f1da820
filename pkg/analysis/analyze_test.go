package analysis

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/internal/animdata"
	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

type mapResolver map[string]skeletal.Clip

func (m mapResolver) ResolveClip(path string) (skeletal.Clip, bool) {
	c, ok := m[path]
	return c, ok
}

func TestAnalyzer_Analyze(t *testing.T) {
	walk := walkingClip()
	rm := &testClip{name: "Walk_Fwd_RM", skel: feetSkeleton(), length: 2, keys: 30, rate: 1, root: mgl64.Vec3{0, 200, 0}}
	resolver := mapResolver{walk.Path(): walk, rm.Path(): rm}

	refs := []skeletal.ClipRef{
		{Path: walk.Path(), Name: walk.Name()},
		{Path: rm.Path(), Name: rm.Name()},
		{Path: "/Game/Test/Deleted", Name: "Deleted"},
	}

	cfg := config.DefaultBuilderConfig()

	tests := []struct {
		name     string
		opts     func() AnalysisOptions
		divisor  float64
		wantWalk mgl64.Vec3
		wantRM   mgl64.Vec3
	}{
		{
			name:     "根运动",
			opts:     func() AnalysisOptions { return OptionsFromConfig(cfg) },
			divisor:  1,
			wantWalk: mgl64.Vec3{0, 0, 0},
			wantRM:   mgl64.Vec3{0, 100, 0},
		},
		{
			name: "脚速度平均（自动查找脚骨骼）",
			opts: func() AnalysisOptions {
				o := OptionsFromConfig(cfg)
				o.Type = types.AnalysisLocomotionSimple
				return o
			},
			divisor:  1,
			wantWalk: mgl64.Vec3{0, 80, 0},
			wantRM:   mgl64.Vec3{0, 0, 0},
		},
		{
			name: "步幅（显式脚骨骼）",
			opts: func() AnalysisOptions {
				return AnalysisOptions{
					Type:             types.AnalysisLocomotionStride,
					LeftFoot:         "foot_l",
					RightFoot:        "foot_r",
					StrideMultiplier: 1.4,
				}
			},
			divisor:  1,
			wantWalk: mgl64.Vec3{0, 168, 0},
			wantRM:   mgl64.Vec3{0, 0, 0},
		},
		{
			name:     "缩放归一化",
			opts:     func() AnalysisOptions { return OptionsFromConfig(cfg) },
			divisor:  2,
			wantWalk: mgl64.Vec3{0, 0, 0},
			wantRM:   mgl64.Vec3{0, 50, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acfg := cfg.Analysis
			acfg.ScaleDivisor = tt.divisor
			got := NewAnalyzer(acfg).Analyze(refs, resolver, tt.opts())

			if len(got) != 2 {
				t.Fatalf("期望 2 个结果（跳过已删除的动画），实际为 %d", len(got))
			}
			if _, ok := got["/Game/Test/Deleted"]; ok {
				t.Error("已删除的动画不应出现在结果中")
			}
			if w := got[walk.Path()]; !skeletal.Vec3Near(w, tt.wantWalk, 0.001) {
				t.Errorf("%s = %v, want %v", walk.Name(), w, tt.wantWalk)
			}
			if r := got[rm.Path()]; !skeletal.Vec3Near(r, tt.wantRM, 0.001) {
				t.Errorf("%s = %v, want %v", rm.Name(), r, tt.wantRM)
			}
		})
	}
}

func TestAnalysisOptions_FootBones(t *testing.T) {
	opts := OptionsFromConfig(config.DefaultBuilderConfig())
	left, right := opts.FootBones(feetSkeleton())
	if left != "foot_l" || right != "foot_r" {
		t.Errorf("期望 foot_l / foot_r（跳过 IK 骨骼），实际为 %s / %s", left, right)
	}

	opts.LeftFoot = "custom_l"
	left, _ = opts.FootBones(feetSkeleton())
	if left != "custom_l" {
		t.Errorf("显式指定的骨骼名应优先，实际为 %s", left)
	}

	left, right = OptionsFromConfig(config.DefaultBuilderConfig()).FootBones(nil)
	if left != "" || right != "" {
		t.Error("骨架为 nil 时不应找到脚骨骼")
	}
}

func TestAnalyzer_AnimLibrary(t *testing.T) {
	lib, err := animdata.LoadLibrary("../../data/anims")
	if err != nil {
		t.Fatalf("加载动画库失败: %v", err)
	}

	cfg := config.DefaultBuilderConfig()
	a := NewAnalyzer(cfg.Analysis)

	rmOpts := OptionsFromConfig(cfg)
	footOpts := OptionsFromConfig(cfg)
	footOpts.Type = types.AnalysisLocomotionSimple

	tests := []struct {
		path string
		opts AnalysisOptions
		want mgl64.Vec2
	}{
		{"/Game/Hero/Anims/Walk_Fwd_RM", rmOpts, mgl64.Vec2{0, 100}},
		{"/Game/Hero/Anims/Walk_Backward_RM", rmOpts, mgl64.Vec2{0, -180}},
		{"/Game/Hero/Anims/Walk_Left_RM", rmOpts, mgl64.Vec2{-200, 0}},
		{"/Game/Hero/Anims/Run_Fwd_RM", rmOpts, mgl64.Vec2{0, 400}},
		{"/Game/Hero/Anims/Idle", rmOpts, mgl64.Vec2{0, 0}},
		{"/Game/Hero/Anims/Walk_Fwd_InPlace", footOpts, mgl64.Vec2{0, 80}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			clip, ok := lib.ResolveClip(tt.path)
			if !ok {
				t.Fatalf("动画不存在: %s", tt.path)
			}
			if got := a.AnalyzeClip(clip, tt.opts); !vecNear(got, tt.want, 0.001) {
				t.Errorf("AnalyzeClip = %v, want %v", got, tt.want)
			}
		})
	}
}
