// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"strings"
)

// componentSize returns the size in bytes of an
// accessor.componentType, or 0 if typ is invalid.
func componentSize(typ int64) int64 {
	switch typ {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case UNSIGNED_INT, FLOAT:
		return 4
	}
	return 0
}

// components returns the number of components of an
// accessor.type, or 0 if typ is invalid.
func components(typ string) int64 {
	switch typ {
	case SCALAR:
		return 1
	case VEC2:
		return 2
	case VEC3:
		return 3
	case VEC4, MAT2:
		return 4
	case MAT3:
		return 9
	case MAT4:
		return 16
	}
	return 0
}

// stride returns the distance in bytes between two
// elements of a when stored in v.
func (a *Accessor) stride(v *BufferView) int64 {
	if v.ByteStride != 0 {
		return v.ByteStride
	}
	return components(a.Type) * componentSize(a.ComponentType)
}

// span returns the number of bytes of v that a covers,
// starting at a.ByteOffset.
func (a *Accessor) span(v *BufferView) int64 {
	elem := components(a.Type) * componentSize(a.ComponentType)
	return (a.Count-1)*a.stride(v) + elem
}

// LoadBuffers decodes the contents of f.Buffers.
// Only embedded base64 data URIs are supported.
func (f *GLTF) LoadBuffers() ([][]byte, error) {
	bufs := make([][]byte, len(f.Buffers))
	for i := range f.Buffers {
		b := &f.Buffers[i]
		if !strings.HasPrefix(b.URI, "data:") {
			return nil, newErr("unsupported Buffer.URI")
		}
		mime, data, ok := strings.Cut(b.URI[len("data:"):], ",")
		if !ok || !strings.HasSuffix(mime, ";base64") {
			return nil, newErr("Buffer.URI is not base64 data")
		}
		p, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, err
		}
		if int64(len(p)) < b.ByteLength {
			return nil, newErr("Buffer.URI data shorter than Buffer.ByteLength")
		}
		bufs[i] = p[:b.ByteLength]
	}
	return bufs, nil
}

// ReadFloats reads every component of the given accessor
// as float32, in element order.
// Normalized integer components are mapped as glTF
// prescribes. An accessor with no BufferView reads as
// zeros. f must be valid (see Check) and buffers must
// come from LoadBuffers.
func (f *GLTF) ReadFloats(accessor int64, buffers [][]byte) ([]float32, error) {
	if accessor < 0 || accessor >= int64(len(f.Accessors)) {
		return nil, newErr("invalid accessor index")
	}
	a := &f.Accessors[accessor]
	n := components(a.Type)
	out := make([]float32, a.Count*n)
	if a.BufferView == nil {
		return out, nil
	}
	v := &f.BufferViews[*a.BufferView]
	b := buffers[v.Buffer]
	start := v.ByteOffset + a.ByteOffset
	if start+a.span(v) > int64(len(b)) {
		return nil, newErr("Accessor range exceeds buffer data")
	}
	size := componentSize(a.ComponentType)
	stride := a.stride(v)
	for i := int64(0); i < a.Count; i++ {
		elem := b[start+i*stride:]
		for j := int64(0); j < n; j++ {
			out[i*n+j] = component(elem[j*size:], a.ComponentType, a.Normalized)
		}
	}
	return out, nil
}

func component(b []byte, typ int64, norm bool) float32 {
	var x, lim float32
	switch typ {
	case FLOAT:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case BYTE:
		x, lim = float32(int8(b[0])), 127
	case UNSIGNED_BYTE:
		x, lim = float32(b[0]), 255
	case SHORT:
		x, lim = float32(int16(binary.LittleEndian.Uint16(b))), 32767
	case UNSIGNED_SHORT:
		x, lim = float32(binary.LittleEndian.Uint16(b)), 65535
	case UNSIGNED_INT:
		x, lim = float32(binary.LittleEndian.Uint32(b)), 4294967295
	}
	if !norm {
		return x
	}
	if x /= lim; x < -1 {
		x = -1
	}
	return x
}
