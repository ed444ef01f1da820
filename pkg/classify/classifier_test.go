package classify

import (
	"reflect"
	"testing"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/skeletal"
	"github.com/decker502/blendspace-builder/pkg/types"
)

type fakeRegistry []skeletal.AssetData

func (r fakeRegistry) ListClipAssets() []skeletal.AssetData { return r }

type fakeSkeleton struct {
	name, path string
}

func (s fakeSkeleton) Name() string             { return s.name }
func (s fakeSkeleton) Path() string             { return s.path }
func (s fakeSkeleton) BoneCount() int           { return 0 }
func (s fakeSkeleton) BoneName(int) string      { return "" }
func (s fakeSkeleton) ParentIndex(int) int      { return skeletal.IndexNone }
func (s fakeSkeleton) FindBoneIndex(string) int { return skeletal.IndexNone }

func asset(name string, rootMotion bool) skeletal.AssetData {
	return skeletal.AssetData{
		Path:         "/Game/Hero/Anims/" + name,
		Name:         name,
		SkeletonPath: "/Game/Hero/SK_Hero",
		RootMotion:   rootMotion,
	}
}

func TestFindCandidates(t *testing.T) {
	registry := fakeRegistry{
		{Path: "/Game/B", Name: "B", SkeletonPath: "/Game/Hero/SK_Hero"},
		{Path: "/Game/A", Name: "A", SkeletonPath: "/Game/Shared/SK_Hero_Retarget"},
		{Path: "/Game/C", Name: "C", SkeletonPath: "/Game/Villain/SK_Villain"},
	}
	skeleton := fakeSkeleton{name: "SK_Hero", path: "/Game/Hero/SK_Hero"}

	t.Run("按路径或名称过滤", func(t *testing.T) {
		got := FindCandidates(registry, skeleton)
		if len(got) != 2 {
			t.Fatalf("期望 2 个候选，实际为 %d", len(got))
		}
		if got[0].Name != "A" || got[1].Name != "B" {
			t.Errorf("候选应按路径排序，实际为 %s, %s", got[0].Name, got[1].Name)
		}
	})

	t.Run("骨骼为空", func(t *testing.T) {
		if got := FindCandidates(registry, nil); len(got) != 0 {
			t.Errorf("骨骼为 nil 时应返回空结果，实际为 %d", len(got))
		}
	})

	t.Run("注册表为空", func(t *testing.T) {
		if got := FindCandidates(nil, skeleton); len(got) != 0 {
			t.Errorf("注册表为 nil 时应返回空结果，实际为 %d", len(got))
		}
	})
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(config.DefaultBuilderConfig())

	result := c.Classify([]skeletal.AssetData{
		asset("Idle", false),
		asset("Walk_Fwd", false),
		asset("Walk_FrontL45_02", false),
		asset("Run_Fwd_RM", true),
		asset("Crouch", false),
		asset("Jump_Start", false),
	})

	if n := result.ClassifiedCount(); n != 4 {
		t.Errorf("期望 4 个已归类动画，实际为 %d", n)
	}
	if len(result.Unclassified) != 2 {
		t.Fatalf("期望 2 个未归类动画，实际为 %d", len(result.Unclassified))
	}
	if result.Unclassified[0].Name != "Crouch" || result.Unclassified[1].Name != "Jump_Start" {
		t.Errorf("未归类列表应保持输入顺序，实际为 %v", result.Unclassified)
	}

	wantRoles := []types.LocomotionRole{
		types.RoleIdle, types.RoleWalkForward, types.RoleWalkForwardLeft, types.RoleRunForward,
	}
	if got := result.Roles(); !reflect.DeepEqual(got, wantRoles) {
		t.Errorf("Roles() = %v, want %v", got, wantRoles)
	}

	run := result.ByRole[types.RoleRunForward].Candidates[0]
	if !run.HasRootMotion {
		t.Error("Run_Fwd_RM 应标记为根运动")
	}
	if run.Clip.Path != "/Game/Hero/Anims/Run_Fwd_RM" {
		t.Errorf("动画引用路径错误: %s", run.Clip.Path)
	}
}

func TestClassifier_Ranking(t *testing.T) {
	assets := []skeletal.AssetData{
		asset("Walk_Fwd", false),   // 90
		asset("MM_Walk", true),     // 50
		asset("Walk_Fwd_RM", true), // 90
	}

	tests := []struct {
		name   string
		prefer bool
		want   []string
		best   string
	}{
		{"优先根运动", true, []string{"Walk_Fwd_RM", "MM_Walk", "Walk_Fwd"}, "Walk_Fwd_RM"},
		{"仅按优先级", false, []string{"Walk_Fwd", "Walk_Fwd_RM", "MM_Walk"}, "Walk_Fwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultBuilderConfig()
			cfg.PreferRootMotion = tt.prefer
			result := NewClassifier(cfg).Classify(assets)

			rc := result.ByRole[types.RoleWalkForward]
			if rc == nil {
				t.Fatal("WalkForward 没有候选")
			}
			var got []string
			for _, c := range rc.Candidates {
				got = append(got, c.Clip.Name)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("排序结果 = %v, want %v", got, tt.want)
			}

			best, ok := rc.Recommended(tt.prefer)
			if !ok || best.Clip.Name != tt.best {
				t.Errorf("推荐候选 = %s, want %s", best.Clip.Name, tt.best)
			}

			sel := DefaultSelection(result, tt.prefer)
			if sel[types.RoleWalkForward].Clip.Name != tt.best {
				t.Errorf("DefaultSelection = %s, want %s", sel[types.RoleWalkForward].Clip.Name, tt.best)
			}
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(config.DefaultBuilderConfig())
	assets := []skeletal.AssetData{
		asset("Walk_Fwd", false), asset("Walk_Forward_RM", true), asset("Walk_F", false),
		asset("Run_Left", false), asset("Run_L", true), asset("Strafe_L_Walk", false),
		asset("Sprint", true), asset("Idle_01", false), asset("Idle_02", false),
	}

	first := c.Classify(assets)
	for i := 0; i < 10; i++ {
		again := c.Classify(assets)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("第 %d 次归类结果不一致", i)
		}
	}
}

func TestClassifier_ClassifySkeleton(t *testing.T) {
	c := NewClassifier(config.DefaultBuilderConfig())
	registry := fakeRegistry{asset("Idle", false), asset("Walk_Fwd", false)}

	result := c.ClassifySkeleton(registry, nil)
	if result.ClassifiedCount() != 0 || len(result.Unclassified) != 0 {
		t.Error("骨骼为 nil 时应返回空结果")
	}

	result = c.ClassifySkeleton(registry, fakeSkeleton{name: "SK_Hero", path: "/Game/Hero/SK_Hero"})
	if result.ClassifiedCount() != 2 {
		t.Errorf("期望 2 个已归类动画，实际为 %d", result.ClassifiedCount())
	}
}

func TestRoleCandidates_RecommendedEmpty(t *testing.T) {
	var rc *RoleCandidates
	if _, ok := rc.Recommended(true); ok {
		t.Error("nil 候选集不应有推荐")
	}
	if _, ok := (&RoleCandidates{}).Recommended(false); ok {
		t.Error("空候选集不应有推荐")
	}
}
