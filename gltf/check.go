// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"

	"github.com/gviegas/rotation/linear"
)

func newErr(reason string) error {
	return errors.New("gltf: " + reason)
}

// UnitTolerance is how far from 1 the length of a stored
// rotation may be.
const UnitTolerance = 5e-4

// isUnit reports whether q is a unit quaternion within
// UnitTolerance.
func isUnit(q linear.Q) bool {
	d := linear.LenQ(q) - 1
	return d <= UnitTolerance && d >= -UnitTolerance
}

// Check checks that f is a valid glTF node hierarchy
// and that its animations are well formed.
func (f *GLTF) Check() error {
	if f.Asset.Version == "" {
		return newErr("missing GLTF.Asset.Version")
	}
	if s := f.Scene; s != nil && (*s < 0 || *s >= int64(len(f.Scenes))) {
		return newErr("invalid GLTF.Scene index")
	}
	for i := range f.Buffers {
		if err := f.Buffers[i].Check(f); err != nil {
			return err
		}
	}
	for i := range f.BufferViews {
		if err := f.BufferViews[i].Check(f); err != nil {
			return err
		}
	}
	for i := range f.Accessors {
		if err := f.Accessors[i].Check(f); err != nil {
			return err
		}
	}
	parent := make([]int64, len(f.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i := range f.Nodes {
		if err := f.Nodes[i].Check(f); err != nil {
			return err
		}
		for _, c := range f.Nodes[i].Children {
			if parent[c] != -1 {
				return newErr("node has more than one parent")
			}
			parent[c] = int64(i)
		}
	}
	// Every chain of parents must end at a root.
	for i := range parent {
		n := int64(i)
		for steps := 0; parent[n] != -1; steps++ {
			if steps == len(parent) {
				return newErr("cycle in node hierarchy")
			}
			n = parent[n]
		}
	}
	for _, s := range f.Scenes {
		for _, n := range s.Nodes {
			if n < 0 || n >= int64(len(f.Nodes)) {
				return newErr("invalid Scene.Nodes index")
			}
			if parent[n] != -1 {
				return newErr("Scene.Nodes element is not a root node")
			}
		}
	}
	for i := range f.Animations {
		if err := f.Animations[i].Check(f); err != nil {
			return err
		}
	}
	return nil
}

// Check checks that n is a valid glTF.nodes' element.
func (n *Node) Check(gltf *GLTF) error {
	for _, c := range n.Children {
		if c < 0 || c >= int64(len(gltf.Nodes)) {
			return newErr("invalid Node.Children index")
		}
	}
	if n.Matrix != nil && (n.Rotation != nil || n.Scale != nil || n.Translation != nil) {
		return newErr("Node.Matrix and TRS are mutually exclusive")
	}
	if r := n.Rotation; r != nil && !isUnit(*r) {
		return newErr("Node.Rotation is not a unit quaternion")
	}
	return nil
}

// Check checks that b is a valid glTF.buffers' element.
func (b *Buffer) Check(gltf *GLTF) error {
	if b.ByteLength < 1 {
		return newErr("invalid Buffer.ByteLength value")
	}
	return nil
}

// Check checks that v is a valid glTF.bufferViews' element.
func (v *BufferView) Check(gltf *GLTF) error {
	if v.Buffer < 0 || v.Buffer >= int64(len(gltf.Buffers)) {
		return newErr("invalid BufferView.Buffer index")
	}
	if v.ByteOffset < 0 || v.ByteLength < 1 {
		return newErr("invalid BufferView range")
	}
	if v.ByteOffset+v.ByteLength > gltf.Buffers[v.Buffer].ByteLength {
		return newErr("BufferView range exceeds Buffer.ByteLength")
	}
	if s := v.ByteStride; s != 0 && (s < 4 || s > 252 || s%4 != 0) {
		return newErr("invalid BufferView.ByteStride value")
	}
	return nil
}

// Check checks that a is a valid glTF.accessors' element.
func (a *Accessor) Check(gltf *GLTF) error {
	if a.BufferView != nil {
		idx := *a.BufferView
		if idx < 0 || idx >= int64(len(gltf.BufferViews)) {
			return newErr("invalid Accessor.BufferView index")
		}
	}
	if a.ByteOffset < 0 {
		return newErr("invalid Accessor.ByteOffset value")
	}
	if componentSize(a.ComponentType) == 0 {
		return newErr("invalid Accessor.ComponentType value")
	}
	if a.Count < 1 {
		return newErr("invalid Accessor.Count value")
	}
	if components(a.Type) == 0 {
		return newErr("invalid Accessor.Type value")
	}
	if a.BufferView != nil {
		v := &gltf.BufferViews[*a.BufferView]
		if a.ByteOffset+a.span(v) > v.ByteLength {
			return newErr("Accessor range exceeds BufferView.ByteLength")
		}
	}
	return nil
}

// Check checks that a is a valid glTF.animations' element.
// Rotation channels must target a node that has no
// Matrix and must be driven by float key times and
// VEC4 values.
func (a *Animation) Check(gltf *GLTF) error {
	if len(a.Channels) == 0 || len(a.Samplers) == 0 {
		return newErr("Animation has no channels or samplers")
	}
	nacc := int64(len(gltf.Accessors))
	for i := range a.Samplers {
		s := &a.Samplers[i]
		if s.Input < 0 || s.Input >= nacc || s.Output < 0 || s.Output >= nacc {
			return newErr("invalid ASampler accessor index")
		}
		switch s.Interpolation {
		case "", ILINEAR, STEP, CUBICSPLINE:
		default:
			return newErr("invalid ASampler.Interpolation value")
		}
		in := &gltf.Accessors[s.Input]
		if in.Type != SCALAR || in.ComponentType != FLOAT {
			return newErr("ASampler.Input is not a float scalar accessor")
		}
	}
	for i := range a.Channels {
		c := &a.Channels[i]
		if c.Sampler < 0 || c.Sampler >= int64(len(a.Samplers)) {
			return newErr("invalid AChannel.Sampler index")
		}
		if n := c.Target.Node; n != nil && (*n < 0 || *n >= int64(len(gltf.Nodes))) {
			return newErr("invalid AChannel.Target.Node index")
		}
		switch c.Target.Path {
		case Ptranslation, Pscale, Pweights:
		case Protation:
			if n := c.Target.Node; n != nil && gltf.Nodes[*n].Matrix != nil {
				return newErr("AChannel targets the rotation of a Node with Matrix")
			}
			s := &a.Samplers[c.Sampler]
			in, out := &gltf.Accessors[s.Input], &gltf.Accessors[s.Output]
			if out.Type != VEC4 {
				return newErr("rotation ASampler.Output is not a VEC4 accessor")
			}
			keys := in.Count
			if s.Interpolation == CUBICSPLINE {
				keys *= 3
			}
			if out.Count != keys {
				return newErr("rotation ASampler.Output count does not match its Input")
			}
		default:
			return newErr("invalid AChannel.Target.Path value")
		}
	}
	return nil
}
