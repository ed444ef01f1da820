package gait

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/config"
	"github.com/decker502/blendspace-builder/pkg/types"
)

func vec2Near(a, b mgl64.Vec2, eps float64) bool {
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps
}

func TestSpeedPosition(t *testing.T) {
	tests := []struct {
		role types.LocomotionRole
		want mgl64.Vec2
	}{
		{types.RoleIdle, mgl64.Vec2{0, 0}},
		{types.RoleCustom, mgl64.Vec2{0, 0}},
		{types.RoleWalkForward, mgl64.Vec2{0, 200}},
		{types.RoleWalkBackward, mgl64.Vec2{0, -200}},
		{types.RoleWalkLeft, mgl64.Vec2{-200, 0}},
		{types.RoleWalkForwardRight, mgl64.Vec2{200, 200}},
		{types.RoleRunForward, mgl64.Vec2{0, 400}},
		{types.RoleRunBackwardLeft, mgl64.Vec2{-400, -400}},
		{types.RoleSprintForward, mgl64.Vec2{0, 500}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := SpeedPosition(tt.role, 500); !vec2Near(got, tt.want, 1e-9) {
				t.Errorf("SpeedPosition(%s, 500) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestGaitPosition(t *testing.T) {
	tests := []struct {
		role types.LocomotionRole
		want mgl64.Vec2
	}{
		{types.RoleIdle, mgl64.Vec2{0, 0}},
		{types.RoleWalkForward, mgl64.Vec2{0, 1}},
		{types.RoleWalkLeft, mgl64.Vec2{-1, 1}},
		{types.RoleWalkForwardLeft, mgl64.Vec2{-1, 1}},
		{types.RoleWalkRight, mgl64.Vec2{1, 1}},
		{types.RoleWalkForwardRight, mgl64.Vec2{1, 1}},
		{types.RoleWalkBackward, mgl64.Vec2{0, -1}},
		{types.RoleWalkBackwardLeft, mgl64.Vec2{-1, -1}},
		{types.RoleWalkBackwardRight, mgl64.Vec2{1, -1}},
		{types.RoleRunForward, mgl64.Vec2{0, 2}},
		{types.RoleRunLeft, mgl64.Vec2{-1, 2}},
		{types.RoleRunBackward, mgl64.Vec2{0, -2}},
		{types.RoleRunBackwardRight, mgl64.Vec2{1, -2}},
		{types.RoleSprintForward, mgl64.Vec2{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := GaitPosition(tt.role); got != tt.want {
				t.Errorf("GaitPosition(%s) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestSectorForAngle(t *testing.T) {
	tests := []struct {
		deg  float64
		want Sector
	}{
		{90, SectorForward},
		{67.5, SectorForward},
		{112.4, SectorForward},
		{112.5, SectorForwardLeft},
		{135, SectorForwardLeft},
		{157.5, SectorLeft},
		{180, SectorLeft},
		{-180, SectorLeft},
		{-157.5, SectorBackwardLeft},
		{-135, SectorBackwardLeft},
		{-90, SectorBackward},
		{-45, SectorBackwardRight},
		{-22.5, SectorRight},
		{0, SectorRight},
		{22.5, SectorForwardRight},
		{45, SectorForwardRight},
		{67.4, SectorForwardRight},
	}

	for _, tt := range tests {
		if got := SectorForAngle(tt.deg); got != tt.want {
			t.Errorf("SectorForAngle(%v) = %s, want %s", tt.deg, got, tt.want)
		}
	}
}

func TestPositionToRole(t *testing.T) {
	cfg := config.DefaultBuilderConfig().Gait
	ext := Extents{MaxForward: 400, MaxBackward: 300, MaxRight: 350, MaxLeft: 350}

	tests := []struct {
		name string
		pos  mgl64.Vec2
		want types.LocomotionRole
	}{
		{"前进跑步", mgl64.Vec2{0, 350}, types.RoleRunForward},
		{"前进步行", mgl64.Vec2{0, 200}, types.RoleWalkForward},
		{"阈值处为跑步", mgl64.Vec2{0, 240}, types.RoleRunForward},
		{"待机", mgl64.Vec2{10, 10}, types.RoleIdle},
		{"后退按后退最大值归一化", mgl64.Vec2{0, -200}, types.RoleRunBackward},
		{"左前斜向步行", mgl64.Vec2{-100, 100}, types.RoleWalkForwardLeft},
		{"左前斜向跑步", mgl64.Vec2{-200, 200}, types.RoleRunForwardLeft},
		{"右移", mgl64.Vec2{150, 5}, types.RoleWalkRight},
		{"左移跑步", mgl64.Vec2{-300, 0}, types.RoleRunLeft},
		{"右后", mgl64.Vec2{100, -100}, types.RoleWalkBackwardRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionToRole(tt.pos, ext, cfg); got != tt.want {
				t.Errorf("PositionToRole(%v) = %s, want %s", tt.pos, got, tt.want)
			}
		})
	}
}

func TestPositionToRole_RoundTrip(t *testing.T) {
	cfg := config.DefaultBuilderConfig().Gait
	const axisMax = 500.0
	ext := ExtentsFromRange(-axisMax, axisMax, -axisMax, axisMax)

	for _, role := range types.AllRoles() {
		if role == types.RoleCustom || role == types.RoleSprintForward {
			continue
		}
		pos := SpeedPosition(role, axisMax)
		if got := PositionToRole(pos, ext, cfg); got != role {
			t.Errorf("%s: SpeedPosition %v -> %s", role, pos, got)
		}
	}
}

func TestExtents_NormalizedSpeed(t *testing.T) {
	ext := Extents{MaxForward: 400}

	if got := ext.NormalizedSpeed(mgl64.Vec2{0, 200}); got != 0.5 {
		t.Errorf("期望 0.5，实际为 %v", got)
	}
	// 后退方向没有最大值时使用最大的方向
	if got := ext.NormalizedSpeed(mgl64.Vec2{0, -200}); got != 0.5 {
		t.Errorf("期望回退到 MaxForward，实际为 %v", got)
	}
	if got := (Extents{}).NormalizedSpeed(mgl64.Vec2{0, 200}); got != 0 {
		t.Errorf("没有范围时期望 0，实际为 %v", got)
	}
}

func TestIsGaitRange(t *testing.T) {
	if !IsGaitRange(-1, 1, -2, 2) {
		t.Error("(-1,1,-2,2) 应为步态型范围")
	}
	if !IsGaitRange(-1.05, 0.95, -2, 2.05) {
		t.Error("容差内应为步态型范围")
	}
	if IsGaitRange(-500, 500, -500, 500) {
		t.Error("速度型范围不应判为步态型")
	}
}

func TestRoleForSector(t *testing.T) {
	if got := RoleForSector(SectorBackwardLeft, true); got != types.RoleRunBackwardLeft {
		t.Errorf("期望 RunBackwardLeft，实际为 %s", got)
	}
	if got := RoleForSector(SectorRight, false); got != types.RoleWalkRight {
		t.Errorf("期望 WalkRight，实际为 %s", got)
	}
	if got := RoleForSector(Sector(42), true); got != types.RoleIdle {
		t.Errorf("无效扇区期望 Idle，实际为 %s", got)
	}
}
