// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LocomotionRole 定义动画片段在移动混合空间中的角色
type LocomotionRole int

const (
	// RoleIdle 待机
	RoleIdle LocomotionRole = iota

	// 步行（8 方向）
	RoleWalkForward
	RoleWalkBackward
	RoleWalkLeft
	RoleWalkRight
	RoleWalkForwardLeft
	RoleWalkForwardRight
	RoleWalkBackwardLeft
	RoleWalkBackwardRight

	// 跑步（8 方向）
	RoleRunForward
	RoleRunBackward
	RoleRunLeft
	RoleRunRight
	RoleRunForwardLeft
	RoleRunForwardRight
	RoleRunBackwardLeft
	RoleRunBackwardRight

	// RoleSprintForward 冲刺（仅前向）
	RoleSprintForward

	// RoleCustom 自定义位置（由匹配规则携带）
	RoleCustom

	roleCount
)

// SpeedTier 名称常量，与配置中的速度档位名对应
const (
	TierWalk   = "Walk"
	TierRun    = "Run"
	TierSprint = "Sprint"
)

var roleNames = [...]string{
	RoleIdle:              "Idle",
	RoleWalkForward:       "WalkForward",
	RoleWalkBackward:      "WalkBackward",
	RoleWalkLeft:          "WalkLeft",
	RoleWalkRight:         "WalkRight",
	RoleWalkForwardLeft:   "WalkForwardLeft",
	RoleWalkForwardRight:  "WalkForwardRight",
	RoleWalkBackwardLeft:  "WalkBackwardLeft",
	RoleWalkBackwardRight: "WalkBackwardRight",
	RoleRunForward:        "RunForward",
	RoleRunBackward:       "RunBackward",
	RoleRunLeft:           "RunLeft",
	RoleRunRight:          "RunRight",
	RoleRunForwardLeft:    "RunForwardLeft",
	RoleRunForwardRight:   "RunForwardRight",
	RoleRunBackwardLeft:   "RunBackwardLeft",
	RoleRunBackwardRight:  "RunBackwardRight",
	RoleSprintForward:     "SprintForward",
	RoleCustom:            "Custom",
}

// AllRoles 返回所有角色（按枚举顺序）
func AllRoles() []LocomotionRole {
	roles := make([]LocomotionRole, 0, roleCount)
	for r := RoleIdle; r < roleCount; r++ {
		roles = append(roles, r)
	}
	return roles
}

// IsValid 检查角色是否属于已定义的枚举范围
func (r LocomotionRole) IsValid() bool {
	return r >= RoleIdle && r < roleCount
}

// String 返回角色的字符串表示（与配置文件中的写法一致）
func (r LocomotionRole) String() string {
	if !r.IsValid() {
		return "Unknown"
	}
	return roleNames[r]
}

// DisplayName 返回用于展示的角色名，如 "Walk Forward-Left"
func (r LocomotionRole) DisplayName() string {
	switch r {
	case RoleIdle, RoleCustom:
		return r.String()
	case RoleSprintForward:
		return "Sprint Forward"
	}
	if !r.IsValid() {
		return "Unknown"
	}

	name := r.String()
	var gait, dir string
	switch {
	case strings.HasPrefix(name, "Walk"):
		gait, dir = "Walk", strings.TrimPrefix(name, "Walk")
	case strings.HasPrefix(name, "Run"):
		gait, dir = "Run", strings.TrimPrefix(name, "Run")
	}
	// ForwardLeft -> Forward-Left
	for _, side := range []string{"Left", "Right"} {
		if dir != side && strings.HasSuffix(dir, side) {
			dir = strings.TrimSuffix(dir, side) + "-" + side
		}
	}
	return gait + " " + dir
}

// Tier 返回角色所属的速度档位名（Walk / Run / Sprint），Idle 与 Custom 返回空字符串
func (r LocomotionRole) Tier() string {
	switch {
	case r >= RoleWalkForward && r <= RoleWalkBackwardRight:
		return TierWalk
	case r >= RoleRunForward && r <= RoleRunBackwardRight:
		return TierRun
	case r == RoleSprintForward:
		return TierSprint
	default:
		return ""
	}
}

// Direction 返回角色的平面方向模板 (right, forward)，分量取值 -1 / 0 / 1
//
// Idle 与 Custom 返回 (0, 0)。
func (r LocomotionRole) Direction() (right, forward float64) {
	switch r {
	case RoleWalkForward, RoleRunForward, RoleSprintForward:
		return 0, 1
	case RoleWalkBackward, RoleRunBackward:
		return 0, -1
	case RoleWalkLeft, RoleRunLeft:
		return -1, 0
	case RoleWalkRight, RoleRunRight:
		return 1, 0
	case RoleWalkForwardLeft, RoleRunForwardLeft:
		return -1, 1
	case RoleWalkForwardRight, RoleRunForwardRight:
		return 1, 1
	case RoleWalkBackwardLeft, RoleRunBackwardLeft:
		return -1, -1
	case RoleWalkBackwardRight, RoleRunBackwardRight:
		return 1, -1
	default:
		return 0, 0
	}
}

// ParseLocomotionRole 按名称解析角色（忽略大小写）
func ParseLocomotionRole(name string) (LocomotionRole, error) {
	for r := RoleIdle; r < roleCount; r++ {
		if strings.EqualFold(roleNames[r], name) {
			return r, nil
		}
	}
	return RoleIdle, fmt.Errorf("unknown locomotion role %q", name)
}

// MarshalYAML 以名称形式序列化角色
func (r LocomotionRole) MarshalYAML() (interface{}, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid locomotion role %d", int(r))
	}
	return r.String(), nil
}

// UnmarshalYAML 从名称解析角色
func (r *LocomotionRole) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseLocomotionRole(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
