// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrFormat is matched (using errors.Is) by every
// FormatError.
var ErrFormat = errors.New("linear: malformed quaternion")

// FormatError describes interchange data that does
// not hold exactly four numbers.
type FormatError struct {
	Format string // "json" or "yaml".
	Len    int    // Number of elements found, or -1 if not an array.
	Err    error  // Underlying cause, if any.
}

func (e *FormatError) Error() string {
	s := "linear: malformed " + e.Format + " quaternion"
	if e.Len >= 0 {
		s += " (" + strconv.Itoa(e.Len) + " elements, want 4)"
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// QSchema is the JSON Schema of a serialized Q.
const QSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {"type": "number"},
	"minItems": 4,
	"maxItems": 4
}`

var qSchema = jsonschema.MustCompileString("quaternion.json", QSchema)

// MarshalJSON implements json.Marshaler.
// q is encoded as [x,y,z,w].
func (q Q) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 32)
	b = append(b, '[')
	for i, f := range QV4(q) {
		if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
			return nil, errors.New("linear: cannot encode non-finite quaternion as JSON")
		}
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, formatFloatPoint(f)...)
	}
	return append(b, ']'), nil
}

// UnmarshalJSON implements json.Unmarshaler.
// It fails with a *FormatError unless b is an array of
// exactly four numbers. A JSON null leaves q unchanged.
func (q *Q) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return &FormatError{Format: "json", Len: -1, Err: err}
	}
	n := -1
	if a, ok := v.([]any); ok {
		n = len(a)
	}
	if err := qSchema.Validate(v); err != nil {
		return &FormatError{Format: "json", Len: n, Err: err}
	}
	var a [4]float32
	if err := json.Unmarshal(b, &a); err != nil {
		return &FormatError{Format: "json", Len: n, Err: err}
	}
	*q = V4Q(a)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
// q is encoded as the flow sequence [x, y, z, w].
func (q Q) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range QV4(q) {
		n.Content = append(n.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!float",
			Value: yamlFloat(f),
		})
	}
	return n, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
// It fails with a *FormatError unless n is a sequence of
// exactly four numbers.
func (q *Q) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.SequenceNode {
		return &FormatError{Format: "yaml", Len: -1}
	}
	if len(n.Content) != 4 {
		return &FormatError{Format: "yaml", Len: len(n.Content)}
	}
	var s []float32
	if err := n.Decode(&s); err != nil {
		return &FormatError{Format: "yaml", Len: len(n.Content), Err: err}
	}
	*q = SliceQ(s)
	return nil
}

func yamlFloat(f float32) string {
	switch {
	case math.IsNaN(float64(f)):
		return ".nan"
	case math.IsInf(float64(f), 1):
		return ".inf"
	case math.IsInf(float64(f), -1):
		return "-.inf"
	}
	return formatFloatPoint(f)
}
