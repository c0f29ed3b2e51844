// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"github.com/gviegas/rotation/linear"
)

// TRS returns the translation, rotation and scale of n.
// Absent members take their default values.
// If n has a Matrix, it is decomposed instead; the
// matrix must not contain shear.
func (n *Node) TRS() (t linear.V3, r linear.Q, s linear.V3) {
	if n.Matrix != nil {
		return decompose(M4(n.Matrix))
	}
	if n.Translation != nil {
		t = *n.Translation
	}
	r = linear.IQ()
	if n.Rotation != nil {
		r = *n.Rotation
	}
	s = linear.V3{1, 1, 1}
	if n.Scale != nil {
		s = *n.Scale
	}
	return
}

// Transform returns the local transform of n,
// that is, either its Matrix or T ⋅ R ⋅ S.
func (n *Node) Transform() linear.M4 {
	if n.Matrix != nil {
		return M4(n.Matrix)
	}
	t, r, s := n.TRS()
	m := linear.TranslateM4(t[0], t[1], t[2])
	m = linear.MulM4(m, linear.RotateQM4(r))
	return linear.MulM4(m, linear.ScaleM4(s[0], s[1], s[2]))
}

// SetTRS replaces the transform of n.
// Matrix is cleared.
func (n *Node) SetTRS(t linear.V3, r linear.Q, s linear.V3) {
	n.Matrix = nil
	n.Translation = &t
	n.Rotation = &r
	n.Scale = &s
}

// Rotate applies r after the current rotation of n.
// A node that has a Matrix is converted to TRS.
func (n *Node) Rotate(r linear.Q) {
	t, q, s := n.TRS()
	n.SetTRS(t, linear.NormQ(linear.MulQ(r, q)), s)
}

// M4 converts a glTF column-major matrix to linear.M4.
func M4(m *[16]float32) (x linear.M4) {
	for i := range x {
		copy(x[i][:], m[i*4:i*4+4])
	}
	return
}

func decompose(m linear.M4) (t linear.V3, r linear.Q, s linear.V3) {
	t = linear.V3{m[3][0], m[3][1], m[3][2]}
	var rm linear.M3
	for i := range rm {
		c := linear.V3{m[i][0], m[i][1], m[i][2]}
		s[i] = linear.LenV3(c)
		if s[i] != 0 {
			rm[i] = linear.ScaleV3(1/s[i], c)
		}
	}
	// A reflection is folded into the X scale.
	if linear.DotV3(linear.Cross(rm[0], rm[1]), rm[2]) < 0 {
		s[0] = -s[0]
		rm[0] = linear.NegV3(rm[0])
	}
	r = linear.M3Q(rm)
	return
}

// World returns the world transform of every node
// reachable from the roots of the given scene.
// Unreachable nodes are left as the zero matrix.
// f must be valid (see Check).
func (f *GLTF) World(scene int64) ([]linear.M4, error) {
	if scene < 0 || scene >= int64(len(f.Scenes)) {
		return nil, newErr("invalid scene index")
	}
	world := make([]linear.M4, len(f.Nodes))
	var visit func(node int64, parent linear.M4)
	visit = func(node int64, parent linear.M4) {
		n := &f.Nodes[node]
		world[node] = linear.MulM4(parent, n.Transform())
		for _, c := range n.Children {
			visit(c, world[node])
		}
	}
	for _, root := range f.Scenes[scene].Nodes {
		visit(root, linear.I4())
	}
	return world, nil
}

// WorldRotation returns the composite rotation of node,
// from its root down to itself.
// f must be valid (see Check).
func (f *GLTF) WorldRotation(node int64) (linear.Q, error) {
	if node < 0 || node >= int64(len(f.Nodes)) {
		return linear.Q{}, newErr("invalid node index")
	}
	parents := f.parents()
	r := linear.IQ()
	for n := node; n >= 0; n = parents[n] {
		_, q, _ := f.Nodes[n].TRS()
		r = linear.MulQ(q, r)
	}
	return linear.NormQ(r), nil
}

// parents returns the parent of each node, or -1.
func (f *GLTF) parents() []int64 {
	p := make([]int64, len(f.Nodes))
	for i := range p {
		p[i] = -1
	}
	for i := range f.Nodes {
		for _, c := range f.Nodes[i].Children {
			p[c] = int64(i)
		}
	}
	return p
}
