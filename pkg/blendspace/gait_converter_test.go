package blendspace

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/gait"
	"github.com/decker502/blendspace-builder/pkg/types"
)

func speedBasedHero(t *testing.T) *BlendSpace {
	t.Helper()
	bs := newSpeedBlendSpace(t, 400)
	samples := []struct {
		name string
		pos  mgl64.Vec2
	}{
		{"Idle", mgl64.Vec2{0, 0}},
		{"Walk_Fwd", mgl64.Vec2{0, 200}},
		{"Run_Fwd", mgl64.Vec2{0, 400}},
		{"Walk_Bwd", mgl64.Vec2{0, -200}},
		{"Walk_Left", mgl64.Vec2{-200, 0}},
		{"Run_Right", mgl64.Vec2{400, 0}},
	}
	for _, s := range samples {
		if err := bs.AddSample(ref(s.name), s.pos); err != nil {
			t.Fatalf("AddSample %s: %v", s.name, err)
		}
	}
	bs.Metadata.LocomotionType = LocomotionSpeedBased
	return bs
}

func TestIsSpeedBased(t *testing.T) {
	gaitBS := New("BS_Gait", "/Game/BS_Gait", "")
	_ = gaitBS.SetAxis(AxisX, Axis{Name: gait.DirectionAxisName, Min: -1, Max: 1, GridDivisions: 2})
	_ = gaitBS.SetAxis(AxisY, Axis{Name: gait.GaitIndexAxisName, Min: -2, Max: 2, GridDivisions: 4})

	tagged := newSpeedBlendSpace(t, 400)
	tagged.Metadata.LocomotionType = LocomotionGaitBased

	wideX := New("BS_WideX", "/Game/BS_WideX", "")
	_ = wideX.SetAxis(AxisX, Axis{Name: "X", Min: -5, Max: 5, GridDivisions: 4})

	tests := []struct {
		name string
		bs   *BlendSpace
		want bool
	}{
		{"速度型", newSpeedBlendSpace(t, 400), true},
		{"步态型范围", gaitBS, false},
		{"元数据标记为步态型", tagged, false},
		{"默认小范围", New("BS_Small", "/Game/BS_Small", ""), false},
		{"X 跨度大于 5", wideX, true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSpeedBased(tt.bs); got != tt.want {
				t.Errorf("IsSpeedBased() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGaitConverter_Analyze(t *testing.T) {
	bs := speedBasedHero(t)
	conv := NewGaitConverter(config.DefaultBuilderConfig().Gait, nil)

	result, err := conv.Analyze(bs)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	wantRoles := map[string]types.LocomotionRole{
		"Idle":      types.RoleIdle,
		"Walk_Fwd":  types.RoleWalkForward,
		"Run_Fwd":   types.RoleRunForward,
		"Walk_Bwd":  types.RoleWalkBackward,
		"Walk_Left": types.RoleWalkLeft,
		"Run_Right": types.RoleRunRight,
	}
	if len(result.Samples) != len(wantRoles) {
		t.Fatalf("Samples = %d, want %d", len(result.Samples), len(wantRoles))
	}
	for _, m := range result.Samples {
		if m.Role != wantRoles[m.Clip.Name] {
			t.Errorf("%s: role %s, want %s", m.Clip.Name, m.Role, wantRoles[m.Clip.Name])
		}
		if m.GaitPosition != gait.GaitPosition(m.Role) {
			t.Errorf("%s: gait position %v", m.Clip.Name, m.GaitPosition)
		}
	}

	if result.MaxWalkSpeed != 200 || result.MaxRunSpeed != 400 {
		t.Errorf("walk/run = %v/%v, want 200/400", result.MaxWalkSpeed, result.MaxRunSpeed)
	}
	th := result.RecommendedThresholds()
	if math.Abs(th.IdleToWalk-20) > 1e-9 || math.Abs(th.WalkToRun-300) > 1e-9 {
		t.Errorf("thresholds = %+v, want {20 300}", th)
	}
	if bs.Axis(AxisY).Max != 400 || bs.SampleCount() != 6 {
		t.Error("Analyze 不应修改混合空间")
	}
}

func TestGaitConverter_ConvertCopy(t *testing.T) {
	bs := speedBasedHero(t)
	saver := &recordingSaver{}
	conv := NewGaitConverter(config.DefaultBuilderConfig().Gait, saver)

	out, _, err := conv.Convert(bs)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	if out == bs {
		t.Fatal("CreateCopy 时应返回新的混合空间")
	}
	if out.Name != "BS_Test_Gait" || out.Path != "/Game/Hero/BS_Test_Gait" {
		t.Errorf("副本 = %s (%s)", out.Name, out.Path)
	}
	if len(saver.saved) != 1 || saver.saved[0] != out {
		t.Error("副本应被保存一次")
	}

	x, y := out.Axis(AxisX), out.Axis(AxisY)
	if x.Name != gait.DirectionAxisName || x.Min != -1 || x.Max != 1 || x.GridDivisions != 2 {
		t.Errorf("AxisX = %+v", x)
	}
	if y.Name != gait.GaitIndexAxisName || y.Min != -2 || y.Max != 2 || y.GridDivisions != 4 {
		t.Errorf("AxisY = %+v", y)
	}

	want := map[string]mgl64.Vec2{
		"Idle":      {0, 0},
		"Walk_Fwd":  {0, 1},
		"Run_Fwd":   {0, 2},
		"Walk_Bwd":  {0, -1},
		"Walk_Left": {-1, 1},
		"Run_Right": {1, 2},
	}
	got := positionsByName(out)
	for name, w := range want {
		if got[name] != w {
			t.Errorf("%s = %v, want %v", name, got[name], w)
		}
	}

	md := out.Metadata
	if !md.Converted || !md.IsGaitBased() {
		t.Error("元数据应标记为已转换的步态型")
	}
	if md.OriginalAxisY == nil || md.OriginalAxisY.Max != 400 || md.OriginalAxisX.Name != "RightVelocity" {
		t.Errorf("原始轴未记录: %+v", md.OriginalAxisY)
	}
	if len(md.OriginalSamples) != 6 {
		t.Errorf("OriginalSamples = %d, want 6", len(md.OriginalSamples))
	}
	for _, o := range md.OriginalSamples {
		if o.Clip.Name == "Run_Right" && (o.Speed != mgl64.Vec2{400, 0} || o.Role != types.RoleRunRight) {
			t.Errorf("Run_Right 原始数据 = %+v", o)
		}
	}
	if md.Thresholds == nil || md.Thresholds.WalkToRun != 300 {
		t.Errorf("Thresholds = %+v", md.Thresholds)
	}

	// 原资源保持不变
	if !IsSpeedBased(bs) || bs.Axis(AxisY).Max != 400 || positionsByName(bs)["Run_Fwd"] != (mgl64.Vec2{0, 400}) {
		t.Error("CreateCopy 时原混合空间不应被修改")
	}

	if IsSpeedBased(out) {
		t.Error("转换结果不应再被识别为速度型")
	}
	if _, _, err := conv.Convert(out); !errors.Is(err, ErrNotSpeedBased) {
		t.Errorf("重复转换期望 ErrNotSpeedBased，实际为 %v", err)
	}
}

func TestGaitConverter_ConvertInPlace(t *testing.T) {
	bs := speedBasedHero(t)
	cfg := config.DefaultBuilderConfig().Gait
	cfg.CreateCopy = false
	saver := &recordingSaver{}

	out, _, err := NewGaitConverter(cfg, saver).Convert(bs)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if out != bs {
		t.Error("原地转换应返回原混合空间")
	}
	if bs.Axis(AxisX).Name != gait.DirectionAxisName || bs.Name != "BS_Test" {
		t.Errorf("原地转换结果错误: %s %s", bs.Name, bs.Axis(AxisX).Name)
	}
	if len(saver.saved) != 0 {
		t.Error("原地转换不应自动保存")
	}
}

func TestGaitConverter_DuplicateGaitPosition(t *testing.T) {
	bs := speedBasedHero(t)
	// 左前斜向步行与左移步行共享 (-1, 1)
	if err := bs.AddSample(ref("Walk_FL"), mgl64.Vec2{-150, 150}); err != nil {
		t.Fatalf("AddSample: %v", err)
	}

	out, result, err := NewGaitConverter(config.DefaultBuilderConfig().Gait, nil).Convert(bs)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if out.SampleCount() != 6 {
		t.Errorf("SampleCount = %d, want 6", out.SampleCount())
	}
	if out.FindSample(ref("Walk_FL").Path) != -1 {
		t.Error("后出现的重复样本应被丢弃")
	}
	if len(out.Metadata.OriginalSamples) != 7 {
		t.Errorf("被丢弃的样本仍应记录在元数据中，实际为 %d", len(out.Metadata.OriginalSamples))
	}
	if math.Abs(result.MaxWalkSpeed-150*math.Sqrt2) > 1e-9 {
		t.Errorf("MaxWalkSpeed = %v, want %v", result.MaxWalkSpeed, 150*math.Sqrt2)
	}
}

func TestGaitConverter_AnalyzeErrors(t *testing.T) {
	conv := NewGaitConverter(config.DefaultBuilderConfig().Gait, nil)
	if _, err := conv.Analyze(nil); err == nil {
		t.Error("nil 应返回错误")
	}
	if _, err := conv.Analyze(New("BS", "/Game/BS", "")); !errors.Is(err, ErrNotSpeedBased) {
		t.Errorf("期望 ErrNotSpeedBased，实际为 %v", err)
	}
}
