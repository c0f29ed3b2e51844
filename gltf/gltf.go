// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package gltf implements serialization of glTF 2.0
// node hierarchies, their transforms and their
// rotation animations.
package gltf

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gviegas/rotation/linear"
)

// Root glTF object.
// Only the members that describe the node hierarchy
// and its animations are represented.
type GLTF struct {
	ExtensionsUsed     []string    `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string    `json:"extensionsRequired,omitempty"`
	Accessors          []Accessor  `json:"accessors,omitempty"`
	Animations         []Animation `json:"animations,omitempty"`
	Asset              struct {
		Copyright  string `json:"copyright,omitempty"`
		Generator  string `json:"generator,omitempty"`
		Version    string `json:"version"`
		MinVersion string `json:"minVersion,omitempty"`
		Extensions any    `json:"extensions,omitempty"`
		Extras     any    `json:"extras,omitempty"`
	} `json:"asset"`
	Buffers     []Buffer     `json:"buffers,omitempty"`
	BufferViews []BufferView `json:"bufferViews,omitempty"`
	Nodes       []Node       `json:"nodes,omitempty"`
	Scene       *int64       `json:"scene,omitempty"`
	Scenes      []Scene      `json:"scenes,omitempty"`
	Extensions  any          `json:"extensions,omitempty"`
	Extras      any          `json:"extras,omitempty"`
}

// glTF.accessors' element.
// Sparse storage is not supported.
type Accessor struct {
	BufferView    *int64    `json:"bufferView,omitempty"`
	ByteOffset    int64     `json:"byteOffset,omitempty"` // Default is 0.
	ComponentType int64     `json:"componentType"`
	Normalized    bool      `json:"normalized,omitempty"`
	Count         int64     `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Name          string    `json:"name,omitempty"`
	Extensions    any       `json:"extensions,omitempty"`
	Extras        any       `json:"extras,omitempty"`
}

// accessor.componentType values.
const (
	BYTE           = 5120
	UNSIGNED_BYTE  = 5121
	SHORT          = 5122
	UNSIGNED_SHORT = 5123
	UNSIGNED_INT   = 5125
	FLOAT          = 5126
)

// accessor.type values.
const (
	SCALAR = "SCALAR"
	VEC2   = "VEC2"
	VEC3   = "VEC3"
	VEC4   = "VEC4"
	MAT2   = "MAT2"
	MAT3   = "MAT3"
	MAT4   = "MAT4"
)

// glTF.animations' element.
type Animation struct {
	Channels   []AChannel `json:"channels"`
	Samplers   []ASampler `json:"samplers"`
	Name       string     `json:"name,omitempty"`
	Extensions any        `json:"extensions,omitempty"`
	Extras     any        `json:"extras,omitempty"`
}

// animation.channels' element.
type AChannel struct {
	Sampler int64 `json:"sampler"`
	Target  struct {
		Node       *int64 `json:"node,omitempty"`
		Path       string `json:"path"`
		Extensions any    `json:"extensions,omitempty"`
		Extras     any    `json:"extras,omitempty"`
	} `json:"target"`
	Extensions any `json:"extensions,omitempty"`
	Extras     any `json:"extras,omitempty"`
}

// animation.samplers' element.
type ASampler struct {
	Input         int64  `json:"input"`
	Interpolation string `json:"interpolation,omitempty"` // Default is "LINEAR".
	Output        int64  `json:"output"`
	Extensions    any    `json:"extensions,omitempty"`
	Extras        any    `json:"extras,omitempty"`
}

// animation.channel.target.path values.
const (
	Ptranslation = "translation"
	Protation    = "rotation"
	Pscale       = "scale"
	Pweights     = "weights"
)

// animation.sampler.interpolation values.
const (
	ILINEAR     = "LINEAR"
	STEP        = "STEP"
	CUBICSPLINE = "CUBICSPLINE"
)

// glTF.buffers' element.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Name       string `json:"name,omitempty"`
	Extensions any    `json:"extensions,omitempty"`
	Extras     any    `json:"extras,omitempty"`
}

// glTF.bufferViews' element.
type BufferView struct {
	Buffer     int64  `json:"buffer"`
	ByteOffset int64  `json:"byteOffset,omitempty"` // Default is 0.
	ByteLength int64  `json:"byteLength"`
	ByteStride int64  `json:"byteStride,omitempty"` // 0 for tightly packed.
	Target     int64  `json:"target,omitempty"`     // 0 for no hint.
	Name       string `json:"name,omitempty"`
	Extensions any    `json:"extensions,omitempty"`
	Extras     any    `json:"extras,omitempty"`
}

// glTF.nodes' element.
// A node has either Matrix or any of Rotation, Scale
// and Translation.
type Node struct {
	Children    []int64      `json:"children,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"`      // Default is identity.
	Rotation    *linear.Q    `json:"rotation,omitempty"`    // Default is [0, 0, 0, 1].
	Scale       *linear.V3   `json:"scale,omitempty"`       // Default is [1, 1, 1].
	Translation *linear.V3   `json:"translation,omitempty"` // Default is [0, 0, 0].
	Name        string       `json:"name,omitempty"`
	Extensions  any          `json:"extensions,omitempty"`
	Extras      any          `json:"extras,omitempty"`
}

// glTF.scenes' element.
type Scene struct {
	Nodes      []int64 `json:"nodes,omitempty"`
	Name       string  `json:"name,omitempty"`
	Extensions any     `json:"extensions,omitempty"`
	Extras     any     `json:"extras,omitempty"`
}

// Schema is the JSON Schema that Decode validates
// documents against.
const Schema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["asset"],
	"properties": {
		"asset": {
			"type": "object",
			"required": ["version"],
			"properties": {"version": {"type": "string"}}
		},
		"accessors": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["componentType", "count", "type"],
				"properties": {
					"bufferView": {"$ref": "#/$defs/index"},
					"byteOffset": {"type": "integer", "minimum": 0},
					"componentType": {"enum": [5120, 5121, 5122, 5123, 5125, 5126]},
					"normalized": {"type": "boolean"},
					"count": {"type": "integer", "minimum": 1},
					"type": {"enum": ["SCALAR", "VEC2", "VEC3", "VEC4", "MAT2", "MAT3", "MAT4"]}
				}
			}
		},
		"animations": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["channels", "samplers"],
				"properties": {
					"channels": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["sampler", "target"],
							"properties": {
								"sampler": {"$ref": "#/$defs/index"},
								"target": {
									"type": "object",
									"required": ["path"],
									"properties": {
										"node": {"$ref": "#/$defs/index"},
										"path": {"type": "string"}
									}
								}
							}
						}
					},
					"samplers": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"required": ["input", "output"],
							"properties": {
								"input": {"$ref": "#/$defs/index"},
								"interpolation": {"type": "string"},
								"output": {"$ref": "#/$defs/index"}
							}
						}
					}
				}
			}
		},
		"buffers": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["byteLength"],
				"properties": {
					"uri": {"type": "string"},
					"byteLength": {"type": "integer", "minimum": 1}
				}
			}
		},
		"bufferViews": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["buffer", "byteLength"],
				"properties": {
					"buffer": {"$ref": "#/$defs/index"},
					"byteOffset": {"type": "integer", "minimum": 0},
					"byteLength": {"type": "integer", "minimum": 1},
					"byteStride": {"type": "integer", "minimum": 4, "maximum": 252, "multipleOf": 4}
				}
			}
		},
		"nodes": {"type": "array", "items": {"$ref": "#/$defs/node"}},
		"scene": {"$ref": "#/$defs/index"},
		"scenes": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"nodes": {"type": "array", "items": {"$ref": "#/$defs/index"}, "uniqueItems": true},
					"name": {"type": "string"}
				}
			}
		}
	},
	"$defs": {
		"index": {"type": "integer", "minimum": 0},
		"vec3": {"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3},
		"node": {
			"type": "object",
			"properties": {
				"children": {"type": "array", "items": {"$ref": "#/$defs/index"}, "minItems": 1, "uniqueItems": true},
				"matrix": {"type": "array", "items": {"type": "number"}, "minItems": 16, "maxItems": 16},
				"rotation": {
					"type": "array",
					"items": {"type": "number", "minimum": -1, "maximum": 1},
					"minItems": 4,
					"maxItems": 4
				},
				"scale": {"$ref": "#/$defs/vec3"},
				"translation": {"$ref": "#/$defs/vec3"},
				"name": {"type": "string"}
			}
		}
	}
}`

var schema = jsonschema.MustCompileString("gltf.json", Schema)

// Encode encodes gltf into w.
func Encode(w io.Writer, gltf *GLTF) error {
	enc := json.NewEncoder(w)
	err := enc.Encode(gltf)
	if err != nil {
		return err
	}
	return nil
}

// Decode decodes r into a new GLTF instance.
// The document is validated against Schema first.
func Decode(r io.Reader) (*GLTF, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err = dec.Decode(&v); err != nil {
		return nil, err
	}
	if err = schema.Validate(v); err != nil {
		return nil, &SchemaError{err}
	}
	var gltf GLTF
	if err = json.Unmarshal(b, &gltf); err != nil {
		return nil, err
	}
	return &gltf, nil
}

// SchemaError is returned by Decode when the document
// does not conform to Schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string { return "gltf: " + e.Err.Error() }

func (e *SchemaError) Unwrap() error { return e.Err }
