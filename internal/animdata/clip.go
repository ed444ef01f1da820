package animdata

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

type keyframe struct {
	time float64
	pose skeletal.Transform
}

// Clip is a loaded animation clip. It implements skeletal.Clip.
//
// Bones without a track hold their reference pose. Between keys translation
// and scale are interpolated linearly and rotation by slerp; outside the key
// range the nearest key is held.
type Clip struct {
	name        string
	path        string
	length      float64
	sampledKeys int
	rateScale   float64
	rootMotion  bool
	rootBone    int
	skeleton    *Skeleton
	tracks      map[int][]keyframe
}

var _ skeletal.Clip = (*Clip)(nil)

// NewClip binds a clip definition to its skeleton. skeleton may be nil, in
// which case the clip carries no tracks and Skeleton() returns nil.
func NewClip(def *ClipFile, skeleton *Skeleton) (*Clip, error) {
	if def.Length < 0 {
		return nil, fmt.Errorf("clip '%s': negative length %.3f", def.Name, def.Length)
	}

	c := &Clip{
		name:        def.Name,
		path:        def.Path,
		length:      def.Length,
		sampledKeys: def.SampledKeys,
		rateScale:   1.0,
		rootMotion:  def.RootMotion,
		rootBone:    skeletal.IndexNone,
		skeleton:    skeleton,
		tracks:      make(map[int][]keyframe),
	}
	if def.RateScale != nil {
		c.rateScale = *def.RateScale
	}

	if skeleton == nil {
		return c, nil
	}

	c.rootBone = skeleton.RootBone()
	if def.RootBone != "" {
		c.rootBone = skeleton.FindBoneIndex(def.RootBone)
		if c.rootBone == skeletal.IndexNone {
			return nil, fmt.Errorf("clip '%s': root bone '%s' not in skeleton '%s'", def.Name, def.RootBone, skeleton.Name())
		}
	}

	maxKeys := 0
	for _, track := range def.Tracks {
		idx := skeleton.FindBoneIndex(track.Bone)
		if idx == skeletal.IndexNone {
			return nil, fmt.Errorf("clip '%s': track bone '%s' not in skeleton '%s'", def.Name, track.Bone, skeleton.Name())
		}
		if len(track.Keys) == 0 {
			continue
		}

		keys := make([]Key, len(track.Keys))
		copy(keys, track.Keys)
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })

		// Cumulative inheritance: unset fields carry over from the previous key.
		frames := make([]keyframe, len(keys))
		prev := skeleton.RefPose(idx)
		for i, k := range keys {
			prev = transformFrom(prev, k.Translation, k.Rotation, k.Scale)
			frames[i] = keyframe{time: k.Time, pose: prev}
		}
		c.tracks[idx] = frames

		if len(frames) > maxKeys {
			maxKeys = len(frames)
		}
	}
	if c.sampledKeys <= 0 {
		c.sampledKeys = maxKeys
	}

	return c, nil
}

func (c *Clip) Name() string            { return c.name }
func (c *Clip) Path() string            { return c.path }
func (c *Clip) PlayLength() float64     { return c.length }
func (c *Clip) SampledKeyCount() int    { return c.sampledKeys }
func (c *Clip) RateScale() float64      { return c.rateScale }
func (c *Clip) RootMotionEnabled() bool { return c.rootMotion }

// Skeleton returns nil when the clip's skeleton could not be resolved.
func (c *Clip) Skeleton() skeletal.Skeleton {
	if c.skeleton == nil {
		return nil
	}
	return c.skeleton
}

// BoneLocalTransform samples a bone relative to its parent at time t.
func (c *Clip) BoneLocalTransform(boneIndex int, t float64) skeletal.Transform {
	if c.skeleton == nil {
		return skeletal.IdentityTransform()
	}
	frames, ok := c.tracks[boneIndex]
	if !ok {
		return c.skeleton.RefPose(boneIndex)
	}
	return sampleFrames(frames, t)
}

func sampleFrames(frames []keyframe, t float64) skeletal.Transform {
	if t <= frames[0].time {
		return frames[0].pose
	}
	last := len(frames) - 1
	if t >= frames[last].time {
		return frames[last].pose
	}

	// first key strictly after t
	hi := sort.Search(len(frames), func(i int) bool { return frames[i].time > t })
	lo := hi - 1
	a, b := frames[lo], frames[hi]

	span := b.time - a.time
	if span <= 0 {
		return b.pose
	}
	alpha := (t - a.time) / span

	return skeletal.Transform{
		Translation: lerpVec3(a.pose.Translation, b.pose.Translation, alpha),
		Rotation:    mgl64.QuatSlerp(a.pose.Rotation, b.pose.Rotation, alpha),
		Scale:       lerpVec3(a.pose.Scale, b.pose.Scale, alpha),
	}
}

func lerpVec3(a, b mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}
