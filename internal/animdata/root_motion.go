package animdata

import (
	"math"

	"github.com/decker502/blendspace-builder/pkg/skeletal"
)

// ExtractRootMotion returns the root bone displacement accumulated between
// start and end.
//
// The clip is treated as looping: times beyond the play length add whole
// cycles of root displacement instead of snapping back to the first key, so
// a range spanning a loop point never reports a backwards jump.
//
// Rotation is the relative rotation end * start^-1 within one cycle; scale is
// always (1, 1, 1).
func (c *Clip) ExtractRootMotion(start, end float64) skeletal.Transform {
	if c.skeleton == nil || c.rootBone == skeletal.IndexNone {
		return skeletal.IdentityTransform()
	}

	from := c.rootPose(start)
	to := c.rootPose(end)

	out := skeletal.IdentityTransform()
	out.Translation = to.Translation.Sub(from.Translation)
	out.Rotation = to.Rotation.Mul(from.Rotation.Inverse()).Normalize()
	return out
}

// rootPose samples the root bone at t, unrolling loops.
func (c *Clip) rootPose(t float64) skeletal.Transform {
	if c.length <= 0 {
		return c.BoneLocalTransform(c.rootBone, 0)
	}

	cycles := math.Floor(t / c.length)
	local := t - cycles*c.length
	// end of the clip belongs to the current cycle, not the next
	if local == 0 && cycles > 0 {
		cycles--
		local = c.length
	}

	pose := c.BoneLocalTransform(c.rootBone, local)
	if cycles != 0 {
		cycle := c.BoneLocalTransform(c.rootBone, c.length).Translation.
			Sub(c.BoneLocalTransform(c.rootBone, 0).Translation)
		pose.Translation = pose.Translation.Add(cycle.Mul(cycles))
	}
	return pose
}
