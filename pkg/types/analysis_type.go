package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnalysisType 定义混合空间采样位置的分析方式
type AnalysisType int

const (
	// AnalysisRootMotion 基于根运动位移的速度分析
	AnalysisRootMotion AnalysisType = iota
	// AnalysisLocomotionSimple 基于脚骨骼的速度平均
	AnalysisLocomotionSimple
	// AnalysisLocomotionStride 基于步幅估算（方向取自速度平均，大小取自双脚步幅）
	AnalysisLocomotionStride
	// AnalysisLocomotionContact 基于脚掌着地权重的速度分析
	AnalysisLocomotionContact
)

// String 返回分析方式的字符串表示
func (a AnalysisType) String() string {
	switch a {
	case AnalysisRootMotion:
		return "RootMotion"
	case AnalysisLocomotionSimple:
		return "LocomotionSimple"
	case AnalysisLocomotionStride:
		return "LocomotionStride"
	case AnalysisLocomotionContact:
		return "LocomotionContact"
	default:
		return "Unknown"
	}
}

// UsesFootBones 返回该分析方式是否需要脚骨骼
func (a AnalysisType) UsesFootBones() bool {
	return a != AnalysisRootMotion
}

// ParseAnalysisType 按名称解析分析方式（忽略大小写）
//
// 同时接受简写："root", "simple", "stride", "contact"。
func ParseAnalysisType(name string) (AnalysisType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rootmotion", "root":
		return AnalysisRootMotion, nil
	case "locomotionsimple", "simple":
		return AnalysisLocomotionSimple, nil
	case "locomotionstride", "stride":
		return AnalysisLocomotionStride, nil
	case "locomotioncontact", "contact":
		return AnalysisLocomotionContact, nil
	}
	return AnalysisRootMotion, fmt.Errorf("unknown analysis type %q", name)
}

// MarshalYAML 以名称形式序列化
func (a AnalysisType) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML 从名称解析
func (a *AnalysisType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseAnalysisType(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
