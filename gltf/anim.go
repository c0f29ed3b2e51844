// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"sort"

	"github.com/gviegas/rotation/linear"
)

// RotationTrack is the decoded form of an animation
// channel whose path is "rotation".
type RotationTrack struct {
	Node          int64 // -1 if the channel has no target node.
	Interpolation string
	Times         []float32
	// For CUBICSPLINE, every key has three values:
	// in-tangent, value and out-tangent.
	Values []linear.Q
}

// RotationTracks decodes the rotation channels of the
// given animation.
// f must be valid (see Check) and buffers must come
// from LoadBuffers.
func (f *GLTF) RotationTracks(anim int64, buffers [][]byte) ([]RotationTrack, error) {
	if anim < 0 || anim >= int64(len(f.Animations)) {
		return nil, newErr("invalid animation index")
	}
	a := &f.Animations[anim]
	var tracks []RotationTrack
	for i := range a.Channels {
		c := &a.Channels[i]
		if c.Target.Path != Protation {
			continue
		}
		s := &a.Samplers[c.Sampler]
		times, err := f.ReadFloats(s.Input, buffers)
		if err != nil {
			return nil, err
		}
		for j := 1; j < len(times); j++ {
			if times[j] <= times[j-1] {
				return nil, newErr("ASampler.Input is not strictly increasing")
			}
		}
		vals, err := f.ReadFloats(s.Output, buffers)
		if err != nil {
			return nil, err
		}
		t := RotationTrack{
			Node:          -1,
			Interpolation: s.Interpolation,
			Times:         times,
			Values:        make([]linear.Q, len(vals)/4),
		}
		if t.Interpolation == "" {
			t.Interpolation = ILINEAR
		}
		if c.Target.Node != nil {
			t.Node = *c.Target.Node
		}
		for j := range t.Values {
			t.Values[j] = linear.SliceQ(vals[j*4:])
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// key returns the value of the k-th key frame.
func (t *RotationTrack) key(k int) linear.Q {
	if t.Interpolation == CUBICSPLINE {
		return t.Values[k*3+1]
	}
	return t.Values[k]
}

// Sample returns the rotation of t at the given time.
// Times outside the track are clamped to its first and
// last key frames.
// LINEAR tracks are interpolated with linear.SlerpQ.
func (t *RotationTrack) Sample(time float32) linear.Q {
	n := len(t.Times)
	k := sort.Search(n, func(i int) bool { return t.Times[i] > time }) - 1
	switch {
	case k < 0:
		return t.key(0)
	case k >= n-1:
		return t.key(n - 1)
	}
	td := t.Times[k+1] - t.Times[k]
	u := (time - t.Times[k]) / td
	switch t.Interpolation {
	case STEP:
		return t.key(k)
	case CUBICSPLINE:
		return t.hermite(k, u, td)
	default:
		return linear.SlerpQ(t.key(k), t.key(k+1), u)
	}
}

// hermite evaluates the cubic spline between key frames
// k and k+1 at u, then normalizes the result.
func (t *RotationTrack) hermite(k int, u, td float32) linear.Q {
	u2 := u * u
	u3 := u2 * u
	v0 := linear.QV4(t.Values[k*3+1])
	b0 := linear.QV4(t.Values[k*3+2])
	v1 := linear.QV4(t.Values[k*3+4])
	a1 := linear.QV4(t.Values[k*3+3])
	p := linear.ScaleV4(2*u3-3*u2+1, v0)
	p = linear.AddV4(p, linear.ScaleV4(td*(u3-2*u2+u), b0))
	p = linear.AddV4(p, linear.ScaleV4(-2*u3+3*u2, v1))
	p = linear.AddV4(p, linear.ScaleV4(td*(u3-u2), a1))
	return linear.NormQ(linear.V4Q(p))
}

// Pose sets the rotation of every node targeted by the
// rotation channels of the given animation to its value
// at time.
// f must be valid (see Check) and buffers must come
// from LoadBuffers.
func (f *GLTF) Pose(anim int64, buffers [][]byte, time float32) error {
	tracks, err := f.RotationTracks(anim, buffers)
	if err != nil {
		return err
	}
	for i := range tracks {
		if tracks[i].Node < 0 {
			continue
		}
		n := &f.Nodes[tracks[i].Node]
		t, _, s := n.TRS()
		n.SetTRS(t, tracks[i].Sample(time), s)
	}
	return nil
}
