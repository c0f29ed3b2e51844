// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"io"
)

// GLB header: magic, version and total length.
type glbHeader [3]uint32

// GLB chunk: length and type, then the payload.
type glbChunk [2]uint32

const (
	magic    = 0x46546c67
	version  = 2
	typeJSON = 0x4e4f534a

	headerSize = 12
	chunkSize  = 8
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	if err := binary.Read(r, binary.LittleEndian, h[:]); err != nil {
		return false
	}
	return h[0] == magic && h[1] == version
}

// SeekJSON seeks into r until it finds the beginning
// of the JSON string.
// If successful, it returns the length of the chunk.
// r must refer to an unread GLB blob.
func SeekJSON(r io.Reader) (n int, err error) {
	if !IsGLB(r) {
		err = newErr("not a GLB blob")
		return
	}
	var c glbChunk
	err = binary.Read(r, binary.LittleEndian, c[:])
	switch {
	case err != nil:
	case c[0] == 0 || c[1] != typeJSON:
		err = newErr("invalid GLB chunk")
	default:
		n = int(c[0])
	}
	return
}

// DecodeGLB decodes the JSON chunk of the GLB blob in r.
// Any binary chunk is ignored.
func DecodeGLB(r io.Reader) (*GLTF, error) {
	n, err := SeekJSON(r)
	if err != nil {
		return nil, err
	}
	return Decode(io.LimitReader(r, int64(n)))
}

// EncodeGLB encodes gltf into w as a GLB blob that
// contains only a JSON chunk.
func EncodeGLB(w io.Writer, gltf *GLTF) error {
	var buf bytes.Buffer
	if err := Encode(&buf, gltf); err != nil {
		return err
	}
	// The JSON chunk is padded with spaces to a 4-byte
	// boundary.
	for buf.Len()%4 != 0 {
		buf.WriteByte(' ')
	}
	n := uint32(buf.Len())
	h := glbHeader{magic, version, headerSize + chunkSize + n}
	c := glbChunk{n, typeJSON}
	if err := binary.Write(w, binary.LittleEndian, h[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c[:]); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
