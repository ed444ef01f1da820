// Package blendspace 2D 移动混合空间的数据模型、构建工厂与步态转换
//
// 混合空间由两个轴和一组样本组成，每个样本把一个动画（弱引用）放在平面坐标上。
// 轴与样本只能通过带校验的方法修改，保证样本始终落在轴范围内且坐标互不重复。
package blendspace

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

// sampleTolerance 两个样本坐标在此距离内视为重复
const sampleTolerance = 1e-3

var (
	ErrInvalidAxis     = errors.New("invalid axis")
	ErrEmptyClip       = errors.New("sample has no clip")
	ErrOutOfRange      = errors.New("sample position out of axis range")
	ErrDuplicateSample = errors.New("duplicate sample position")
	ErrSampleIndex     = errors.New("sample index out of range")
)

// AxisIndex 轴序号
type AxisIndex int

const (
	AxisX AxisIndex = iota
	AxisY
)

// Axis 混合空间的一个轴
type Axis struct {
	Name          string  `yaml:"name"`
	Min           float64 `yaml:"min"`
	Max           float64 `yaml:"max"`
	GridDivisions int     `yaml:"grid_divisions"`
	SnapToGrid    bool    `yaml:"snap_to_grid"`
}

// Validate 检查轴参数
func (a Axis) Validate() error {
	switch {
	case a.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAxis)
	case !(a.Min < a.Max):
		return fmt.Errorf("%w: %s min %.3f must be less than max %.3f", ErrInvalidAxis, a.Name, a.Min, a.Max)
	case a.GridDivisions < 1:
		return fmt.Errorf("%w: %s grid divisions %d must be >= 1", ErrInvalidAxis, a.Name, a.GridDivisions)
	}
	return nil
}

// Contains 判断 v 是否在轴范围内
func (a Axis) Contains(v float64) bool {
	return v >= a.Min-sampleTolerance && v <= a.Max+sampleTolerance
}

// Sample 混合空间中的一个样本
type Sample struct {
	Clip     skeletal.ClipRef `yaml:"clip"`
	Position mgl64.Vec2       `yaml:"position"`
}

// BlendSpace 2D 混合空间资源
type BlendSpace struct {
	ID           uuid.UUID
	Name         string
	Path         string
	SkeletonPath string
	Metadata     Metadata

	axes    [2]Axis
	samples []Sample
}

// New 创建一个没有样本的混合空间，轴为默认的 [-1, 1]
func New(name, path, skeletonPath string) *BlendSpace {
	return &BlendSpace{
		ID:           uuid.New(),
		Name:         name,
		Path:         path,
		SkeletonPath: skeletonPath,
		axes: [2]Axis{
			{Name: "X", Min: -1, Max: 1, GridDivisions: 1},
			{Name: "Y", Min: -1, Max: 1, GridDivisions: 1},
		},
	}
}

// Axis 返回指定轴
func (bs *BlendSpace) Axis(i AxisIndex) Axis {
	return bs.axes[i]
}

// SetAxis 设置轴参数
//
// 已有样本超出新范围时返回 ErrOutOfRange，轴保持不变。
func (bs *BlendSpace) SetAxis(i AxisIndex, a Axis) error {
	if i != AxisX && i != AxisY {
		return fmt.Errorf("%w: index %d", ErrInvalidAxis, int(i))
	}
	if err := a.Validate(); err != nil {
		return err
	}
	for _, s := range bs.samples {
		if !a.Contains(s.Position[i]) {
			return fmt.Errorf("%w: %s at %v outside %s [%.3f, %.3f]", ErrOutOfRange, s.Clip.Name, s.Position, a.Name, a.Min, a.Max)
		}
	}
	bs.axes[i] = a
	return nil
}

// Samples 返回样本的副本
func (bs *BlendSpace) Samples() []Sample {
	out := make([]Sample, len(bs.samples))
	copy(out, bs.samples)
	return out
}

// SampleCount 返回样本数量
func (bs *BlendSpace) SampleCount() int {
	return len(bs.samples)
}

// AddSample 添加样本
//
// 返回:
//   - ErrEmptyClip: 动画引用为空
//   - ErrOutOfRange: 坐标超出轴范围
//   - ErrDuplicateSample: 已有样本位于同一坐标
func (bs *BlendSpace) AddSample(clip skeletal.ClipRef, pos mgl64.Vec2) error {
	if err := bs.checkSample(clip, pos, -1); err != nil {
		return err
	}
	bs.samples = append(bs.samples, Sample{Clip: clip, Position: pos})
	return nil
}

// SetSamplePosition 移动已有样本
func (bs *BlendSpace) SetSamplePosition(index int, pos mgl64.Vec2) error {
	if index < 0 || index >= len(bs.samples) {
		return fmt.Errorf("%w: %d", ErrSampleIndex, index)
	}
	if err := bs.checkSample(bs.samples[index].Clip, pos, index); err != nil {
		return err
	}
	bs.samples[index].Position = pos
	return nil
}

// RemoveSample 删除样本
func (bs *BlendSpace) RemoveSample(index int) error {
	if index < 0 || index >= len(bs.samples) {
		return fmt.Errorf("%w: %d", ErrSampleIndex, index)
	}
	bs.samples = append(bs.samples[:index], bs.samples[index+1:]...)
	return nil
}

// ClearSamples 删除所有样本
func (bs *BlendSpace) ClearSamples() {
	bs.samples = nil
}

// FindSample 按动画路径查找样本序号，未找到返回 -1
func (bs *BlendSpace) FindSample(clipPath string) int {
	for i, s := range bs.samples {
		if s.Clip.Path == clipPath {
			return i
		}
	}
	return -1
}

// PruneDangling 删除引用已不存在的动画的样本，返回被删除的引用
//
// resolver 为 nil 时无法判断引用是否有效，不删除任何样本。
func (bs *BlendSpace) PruneDangling(resolver skeletal.ClipResolver) []skeletal.ClipRef {
	if resolver == nil {
		return nil
	}
	var removed []skeletal.ClipRef
	kept := bs.samples[:0]
	for _, s := range bs.samples {
		if _, ok := s.Clip.Resolve(resolver); ok {
			kept = append(kept, s)
		} else {
			removed = append(removed, s.Clip)
		}
	}
	bs.samples = kept
	return removed
}

// Validate 检查轴参数与所有样本
func (bs *BlendSpace) Validate() error {
	var errs []error
	for i := range bs.axes {
		if err := bs.axes[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for i, s := range bs.samples {
		if err := bs.checkSample(s.Clip, s.Position, i); err != nil {
			errs = append(errs, fmt.Errorf("sample %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Clone 复制混合空间，副本使用新的 ID、名称与路径
func (bs *BlendSpace) Clone(name, path string) *BlendSpace {
	c := &BlendSpace{
		ID:           uuid.New(),
		Name:         name,
		Path:         path,
		SkeletonPath: bs.SkeletonPath,
		Metadata:     bs.Metadata.clone(),
		axes:         bs.axes,
		samples:      bs.Samples(),
	}
	return c
}

// checkSample skip 为被替换样本自身的序号，-1 表示新样本
func (bs *BlendSpace) checkSample(clip skeletal.ClipRef, pos mgl64.Vec2, skip int) error {
	if clip.IsZero() {
		return ErrEmptyClip
	}
	for i, a := range bs.axes {
		if !a.Contains(pos[i]) {
			return fmt.Errorf("%w: %s at %v outside %s [%.3f, %.3f]", ErrOutOfRange, clip.Name, pos, a.Name, a.Min, a.Max)
		}
	}
	for i, s := range bs.samples {
		if i == skip {
			continue
		}
		if math.Abs(s.Position.X()-pos.X()) < sampleTolerance && math.Abs(s.Position.Y()-pos.Y()) < sampleTolerance {
			return fmt.Errorf("%w: %s and %s at %v", ErrDuplicateSample, s.Clip.Name, clip.Name, pos)
		}
	}
	return nil
}

// blendSpaceDoc YAML 持久化格式
type blendSpaceDoc struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Path         string   `yaml:"path"`
	SkeletonPath string   `yaml:"skeleton"`
	AxisX        Axis     `yaml:"axis_x"`
	AxisY        Axis     `yaml:"axis_y"`
	Samples      []Sample `yaml:"samples"`
	Metadata     Metadata `yaml:"metadata"`
}

// MarshalYAML 实现 yaml.Marshaler
func (bs *BlendSpace) MarshalYAML() (interface{}, error) {
	return blendSpaceDoc{
		ID:           bs.ID.String(),
		Name:         bs.Name,
		Path:         bs.Path,
		SkeletonPath: bs.SkeletonPath,
		AxisX:        bs.axes[AxisX],
		AxisY:        bs.axes[AxisY],
		Samples:      bs.samples,
		Metadata:     bs.Metadata,
	}, nil
}

// UnmarshalYAML 实现 yaml.Unmarshaler，载入后重新校验轴与样本
func (bs *BlendSpace) UnmarshalYAML(value *yaml.Node) error {
	var doc blendSpaceDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return fmt.Errorf("invalid blend space id %q: %w", doc.ID, err)
	}

	loaded := New(doc.Name, doc.Path, doc.SkeletonPath)
	loaded.ID = id
	loaded.Metadata = doc.Metadata
	if err := loaded.SetAxis(AxisX, doc.AxisX); err != nil {
		return err
	}
	if err := loaded.SetAxis(AxisY, doc.AxisY); err != nil {
		return err
	}
	for _, s := range doc.Samples {
		if err := loaded.AddSample(s.Clip, s.Position); err != nil {
			return err
		}
	}

	*bs = *loaded
	return nil
}
