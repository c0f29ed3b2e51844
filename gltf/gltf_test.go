// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/gviegas/rotation/linear"
)

const tol = 1e-5

func approxV3(v, w linear.V3) bool {
	for i := range v {
		if d := v[i] - w[i]; d > tol || d < -tol {
			return false
		}
	}
	return true
}

func decodeFile(t *testing.T, name string) *GLTF {
	t.Helper()
	file, err := os.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	gltf, err := Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	return gltf
}

func TestGLTF(t *testing.T) {
	gltf := decodeFile(t, "testdata/arm.gltf")
	if err := gltf.Check(); err != nil {
		t.Fatal(err)
	}
	if n := len(gltf.Nodes); n != 4 {
		t.Fatalf("len(GLTF.Nodes):\nhave %d\nwant 4", n)
	}
	base := &gltf.Nodes[0]
	if base.Name != "base" || base.Rotation == nil {
		t.Fatalf("GLTF.Nodes[0]:\nhave %+v\nwant base node with rotation", base)
	}
	if q := linear.RotateYQ(linear.Radians(90)); !linear.ApproxEqQ(*base.Rotation, q, tol) {
		t.Fatalf("Node.Rotation:\nhave %v\nwant %v", *base.Rotation, q)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, gltf); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range gltf.Nodes {
		n, m := &gltf.Nodes[i], &again.Nodes[i]
		if n.Transform() != m.Transform() {
			t.Fatalf("Node.Transform after Encode/Decode:\nhave %v\nwant %v", m.Transform(), n.Transform())
		}
	}
}

func TestWorld(t *testing.T) {
	gltf := decodeFile(t, "testdata/arm.gltf")
	world, err := gltf.World(0)
	if err != nil {
		t.Fatal(err)
	}
	o := linear.MulM4V4(world[2], linear.V4{0, 0, 0, 1})
	if p := (linear.V3{o[0], o[1], o[2]}); !approxV3(p, linear.V3{0, 2, -2}) {
		t.Fatalf("GLTF.World[2] ⋅ origin:\nhave %v\nwant [0 2 -2]", p)
	}
	if w := world[3]; w != linear.I4() {
		t.Fatalf("GLTF.World[3]:\nhave %v\nwant %v", w, linear.I4())
	}

	r, err := gltf.WorldRotation(2)
	if err != nil {
		t.Fatal(err)
	}
	if v := linear.RotateV3(r, linear.UnitX()); !approxV3(v, linear.UnitY()) {
		t.Fatalf("RotateV3(GLTF.WorldRotation(2), X):\nhave %v\nwant %v", v, linear.UnitY())
	}
	if v := linear.RotateV3(r, linear.UnitZ()); !approxV3(v, linear.UnitX()) {
		t.Fatalf("RotateV3(GLTF.WorldRotation(2), Z):\nhave %v\nwant %v", v, linear.UnitX())
	}

	if _, err := gltf.World(1); err == nil {
		t.Fatal("GLTF.World(1):\nhave nil error\nwant error")
	}
	if _, err := gltf.WorldRotation(4); err == nil {
		t.Fatal("GLTF.WorldRotation(4):\nhave nil error\nwant error")
	}
}

func TestTRS(t *testing.T) {
	var n Node
	if tr, r, s := n.TRS(); tr != (linear.V3{}) || r != linear.IQ() || s != (linear.V3{1, 1, 1}) {
		t.Fatalf("Node.TRS:\nhave %v %v %v\nwant defaults", tr, r, s)
	}
	if m := n.Transform(); m != linear.I4() {
		t.Fatalf("Node.Transform:\nhave %v\nwant %v", m, linear.I4())
	}

	q := linear.YPRQ(linear.Radians(30), linear.Radians(-45), linear.Radians(120))
	n.SetTRS(linear.V3{1, -2, 3}, q, linear.V3{2, 3, 4})
	m := n.Transform()

	var x [16]float32
	for i := range m {
		copy(x[i*4:], m[i][:])
	}
	mn := Node{Matrix: &x}
	tr, r, s := mn.TRS()
	if !approxV3(tr, linear.V3{1, -2, 3}) {
		t.Fatalf("Node.TRS translation:\nhave %v\nwant [1 -2 3]", tr)
	}
	if !linear.ApproxEqQ(r, q, tol) && !linear.ApproxEqQ(r, linear.NegQ(q), tol) {
		t.Fatalf("Node.TRS rotation:\nhave %v\nwant ±%v", r, q)
	}
	if !approxV3(s, linear.V3{2, 3, 4}) {
		t.Fatalf("Node.TRS scale:\nhave %v\nwant [2 3 4]", s)
	}

	// Mirrored along X.
	y := [16]float32{-1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	mn = Node{Matrix: &y}
	if _, r, s := mn.TRS(); r != linear.IQ() || s != (linear.V3{-1, 1, 1}) {
		t.Fatalf("Node.TRS of a reflection:\nhave %v %v\nwant %v [-1 1 1]", r, s, linear.IQ())
	}

	mn.Rotate(linear.RotateZQ(linear.Radians(90)))
	if mn.Matrix != nil || mn.Rotation == nil {
		t.Fatal("Node.Rotate:\nhave Matrix\nwant TRS")
	}
	if v := linear.RotateV3(*mn.Rotation, linear.UnitX()); !approxV3(v, linear.UnitY()) {
		t.Fatalf("Node.Rotate:\nhave %v\nwant %v", v, linear.UnitY())
	}
}

func TestCheck(t *testing.T) {
	for _, s := range [...]string{
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0,0,0.5]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0,0,1],"matrix":[1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"children":[1]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"children":[2]},{"children":[2]},{}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"children":[1]},{"children":[0]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"children":[0]}]}`,
		`{"asset":{"version":"2.0"},"scene":1,"scenes":[{}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"children":[1]},{}],"scenes":[{"nodes":[1]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{}],"scenes":[{"nodes":[3]}]}`,
		`{"asset":{"version":""}}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":5}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":2}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"spin"}}],"samplers":[{"input":0,"output":1}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":3,"path":"rotation"}}],"samplers":[{"input":0,"output":1}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":1,"interpolation":"CUBICSPLINE"}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":1,"interpolation":"SMOOTH"}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":1,"output":1}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"},{"componentType":5126,"count":2,"type":"VEC3"}],"nodes":[{}],"animations":[{"channels":[{"sampler":1,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":1}]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"}],"nodes":[{"matrix":[1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":1}]}]}`,
		`{"asset":{"version":"2.0"},"buffers":[{"byteLength":4}],"bufferViews":[{"buffer":0,"byteLength":8}]}`,
		`{"asset":{"version":"2.0"},"buffers":[{"byteLength":16}],"bufferViews":[{"buffer":1,"byteLength":8}]}`,
		`{"asset":{"version":"2.0"},"buffers":[{"byteLength":16}],"bufferViews":[{"buffer":0,"byteLength":16}],"accessors":[{"bufferView":0,"componentType":5126,"count":2,"type":"VEC4"}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"bufferView":0,"componentType":5126,"count":1,"type":"VEC4"}]}`,
	} {
		gltf, err := Decode(strings.NewReader(s))
		if err != nil {
			t.Fatalf("Decode(%s):\n%v", s, err)
		}
		if err := gltf.Check(); err == nil {
			t.Fatalf("GLTF.Check(%s):\nhave nil error\nwant error", s)
		}
	}
}

func TestCheckUnitTolerance(t *testing.T) {
	for _, s := range [...]string{
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0.7071,0,0.7071]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0.5,0.5,0.5,0.5002]}]}`,
	} {
		gltf, err := Decode(strings.NewReader(s))
		if err != nil {
			t.Fatalf("Decode(%s):\n%v", s, err)
		}
		if err := gltf.Check(); err != nil {
			t.Fatalf("GLTF.Check(%s):\nhave %v\nwant nil error", s, err)
		}
	}
	// Within UnitTolerance, but not linear.NormEpsilon.
	if q := linear.NewQ(0, 0.7071, 0, 0.7071); linear.IsNormQ(q) {
		t.Fatalf("linear.IsNormQ(%v):\nhave true\nwant false", q)
	}
	s := `{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0.7,0,0.7]}]}`
	gltf, err := Decode(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	if err := gltf.Check(); err == nil {
		t.Fatalf("GLTF.Check(%s):\nhave nil error\nwant error", s)
	}

	valid := `{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":2,"type":"SCALAR"},{"componentType":5126,"count":2,"type":"VEC4"}],"nodes":[{}],"animations":[{"channels":[{"sampler":0,"target":{"node":0,"path":"rotation"}}],"samplers":[{"input":0,"output":1}]}]}`
	if gltf, err = Decode(strings.NewReader(valid)); err != nil {
		t.Fatal(err)
	}
	if err := gltf.Check(); err != nil {
		t.Fatalf("GLTF.Check(%s):\nhave %v\nwant nil error", valid, err)
	}
}

func TestSchema(t *testing.T) {
	for _, s := range [...]string{
		`{"nodes":[]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0,1]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0,0,1,0]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"rotation":[0,0,0,2]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"translation":[0,0,0,1]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"scale":[1,1]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"matrix":[1,0,0,0]}]}`,
		`{"asset":{"version":"2.0"},"nodes":[{"children":[-1]}]}`,
		`{"asset":{"version":"2.0"},"scene":-1}`,
		`{"asset":{"version":"2.0"},"animations":[{"channels":[],"samplers":[]}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5124,"count":1,"type":"SCALAR"}]}`,
		`{"asset":{"version":"2.0"},"accessors":[{"componentType":5126,"count":0,"type":"SCALAR"}]}`,
		`{"asset":{"version":"2.0"},"buffers":[{"byteLength":0}]}`,
		`{"asset":{"version":"2.0"},"buffers":[{"byteLength":8}],"bufferViews":[{"buffer":0,"byteLength":8,"byteStride":6}]}`,
	} {
		_, err := Decode(strings.NewReader(s))
		var se *SchemaError
		if !errors.As(err, &se) {
			t.Fatalf("Decode(%s):\nhave %v\nwant *SchemaError", s, err)
		}
	}
}

func TestGLB(t *testing.T) {
	gltf := decodeFile(t, "testdata/arm.gltf")
	var buf bytes.Buffer
	if err := EncodeGLB(&buf, gltf); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if len(b)%4 != 0 {
		t.Fatalf("len(EncodeGLB):\nhave %d\nwant multiple of 4", len(b))
	}
	if !IsGLB(bytes.NewReader(b)) {
		t.Fatal("IsGLB(b):\nwant true\nhave false")
	}
	r := bytes.NewReader([]byte(`{"asset":{"version":"2.0"}}`))
	if IsGLB(r) {
		t.Fatal("IsGLB(r):\nwant false\nhave true")
	}
	n, err := SeekJSON(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if n <= 0 || n != len(b)-headerSize-chunkSize {
		t.Fatalf("SeekJSON(b):\nhave %d\nwant %d", n, len(b)-headerSize-chunkSize)
	}
	again, err := DecodeGLB(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Nodes) != len(gltf.Nodes) {
		t.Fatalf("DecodeGLB:\nhave %d nodes\nwant %d", len(again.Nodes), len(gltf.Nodes))
	}
	if q := again.Nodes[1].Rotation; q == nil || *q != *gltf.Nodes[1].Rotation {
		t.Fatalf("DecodeGLB rotation:\nhave %v\nwant %v", q, *gltf.Nodes[1].Rotation)
	}
	if _, err := DecodeGLB(strings.NewReader(`{"asset":{"version":"2.0"}}`)); err == nil {
		t.Fatal("DecodeGLB(JSON):\nhave nil error\nwant error")
	}
}
