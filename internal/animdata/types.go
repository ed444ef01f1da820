// Package animdata provides a file-backed skeleton and animation clip library.
// Skeletons and clips are YAML documents; a Library loaded from a directory
// implements the skeletal collaborator interfaces (asset registry, clip and
// skeleton resolvers) so the builder can run outside a host engine.
package animdata

// Document kinds recognised by LoadLibrary.
const (
	KindSkeleton = "skeleton"
	KindClip     = "clip"
)

// header is decoded first to dispatch on kind.
type header struct {
	Kind string `yaml:"kind"`
}

// SkeletonFile is the on-disk form of a reference skeleton.
type SkeletonFile struct {
	Kind string `yaml:"kind"`

	// Name is the skeleton display name, e.g. "SK_Hero"
	Name string `yaml:"name"`

	// Path is the asset path clips refer to. Defaults to the file path
	// relative to the library root, without extension.
	Path string `yaml:"path"`

	// Bones may appear in any order; parents are resolved by name after
	// all bones are read.
	Bones []BoneDef `yaml:"bones"`
}

// BoneDef is one bone and its reference (bind) pose relative to its parent.
type BoneDef struct {
	Name string `yaml:"name"`

	// Parent is the parent bone name, empty for the root
	Parent string `yaml:"parent,omitempty"`

	// Translation in parent space, default (0, 0, 0)
	Translation *[3]float64 `yaml:"t,omitempty"`

	// Rotation quaternion as (x, y, z, w), default identity
	Rotation *[4]float64 `yaml:"r,omitempty"`

	// Scale, default (1, 1, 1)
	Scale *[3]float64 `yaml:"s,omitempty"`
}

// ClipFile is the on-disk form of an animation clip.
type ClipFile struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`

	// Skeleton is the asset path of the skeleton this clip animates
	Skeleton string `yaml:"skeleton"`

	// Length is the play length in seconds
	Length float64 `yaml:"length"`

	// SampledKeys overrides the sampled key count. When zero the largest
	// track key count is used.
	SampledKeys int `yaml:"sampled_keys,omitempty"`

	// RateScale is the playback rate multiplier, default 1
	RateScale *float64 `yaml:"rate_scale,omitempty"`

	// RootMotion marks the clip as authored with root motion
	RootMotion bool `yaml:"root_motion"`

	// RootBone names the bone root motion is extracted from. Defaults to
	// the skeleton's first root bone.
	RootBone string `yaml:"root_bone,omitempty"`

	Tracks []TrackDef `yaml:"tracks"`
}

// TrackDef animates a single bone.
type TrackDef struct {
	Bone string `yaml:"bone"`
	Keys []Key  `yaml:"keys"`
}

// Key is one keyframe. All transform fields are optional: a nil field is
// inherited from the previous key, and the first key inherits from the
// bone's reference pose.
type Key struct {
	Time        float64     `yaml:"time"`
	Translation *[3]float64 `yaml:"t,omitempty"`
	Rotation    *[4]float64 `yaml:"r,omitempty"`
	Scale       *[3]float64 `yaml:"s,omitempty"`
}
