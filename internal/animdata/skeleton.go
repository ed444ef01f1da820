package animdata

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

type bone struct {
	name   string
	parent int
	ref    skeletal.Transform
}

// Skeleton is a loaded reference skeleton. It implements skeletal.Skeleton.
type Skeleton struct {
	name  string
	path  string
	bones []bone
	index map[string]int
}

var _ skeletal.Skeleton = (*Skeleton)(nil)

// NewSkeleton builds a skeleton from its file form, resolving parent names.
func NewSkeleton(def *SkeletonFile) (*Skeleton, error) {
	s := &Skeleton{
		name:  def.Name,
		path:  def.Path,
		bones: make([]bone, len(def.Bones)),
		index: make(map[string]int, len(def.Bones)),
	}

	for i, b := range def.Bones {
		if b.Name == "" {
			return nil, fmt.Errorf("skeleton '%s': bone %d has no name", def.Name, i)
		}
		if _, dup := s.index[b.Name]; dup {
			return nil, fmt.Errorf("skeleton '%s': duplicate bone '%s'", def.Name, b.Name)
		}
		s.index[b.Name] = i
		s.bones[i] = bone{
			name:   b.Name,
			parent: skeletal.IndexNone,
			ref:    transformFrom(skeletal.IdentityTransform(), b.Translation, b.Rotation, b.Scale),
		}
	}

	for i, b := range def.Bones {
		if b.Parent == "" {
			continue
		}
		p, ok := s.index[b.Parent]
		if !ok {
			return nil, fmt.Errorf("skeleton '%s': bone '%s' has unknown parent '%s'", def.Name, b.Name, b.Parent)
		}
		if p == i {
			return nil, fmt.Errorf("skeleton '%s': bone '%s' is its own parent", def.Name, b.Name)
		}
		s.bones[i].parent = p
	}

	return s, nil
}

func (s *Skeleton) Name() string   { return s.name }
func (s *Skeleton) Path() string   { return s.path }
func (s *Skeleton) BoneCount() int { return len(s.bones) }

func (s *Skeleton) BoneName(index int) string {
	if index < 0 || index >= len(s.bones) {
		return ""
	}
	return s.bones[index].name
}

func (s *Skeleton) ParentIndex(index int) int {
	if index < 0 || index >= len(s.bones) {
		return skeletal.IndexNone
	}
	return s.bones[index].parent
}

func (s *Skeleton) FindBoneIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return skeletal.IndexNone
}

// RefPose returns the bind pose of a bone relative to its parent, or the
// identity transform for an invalid index.
func (s *Skeleton) RefPose(index int) skeletal.Transform {
	if index < 0 || index >= len(s.bones) {
		return skeletal.IdentityTransform()
	}
	return s.bones[index].ref
}

// RootBone returns the index of the first bone without a parent.
func (s *Skeleton) RootBone() int {
	for i, b := range s.bones {
		if b.parent == skeletal.IndexNone {
			return i
		}
	}
	return skeletal.IndexNone
}

// transformFrom overrides the fields of base that are set.
func transformFrom(base skeletal.Transform, t *[3]float64, r *[4]float64, sc *[3]float64) skeletal.Transform {
	if t != nil {
		base.Translation = mgl64.Vec3{t[0], t[1], t[2]}
	}
	if r != nil {
		q := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}
		if q.Len() > 0 {
			base.Rotation = q.Normalize()
		}
	}
	if sc != nil {
		base.Scale = mgl64.Vec3{sc[0], sc[1], sc[2]}
	}
	return base
}
