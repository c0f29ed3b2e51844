// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"strconv"
	"strings"
)

// String returns q as "(x, y, z, w)", using the
// shortest representation of each component.
func (q Q) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, f := range QV4(q) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(f))
	}
	b.WriteByte(')')
	return b.String()
}

// GoString returns q as "Quat(x, y, z, w)", with every
// finite component carrying a fractional part.
// This is the form printed by the %#v verb.
func (q Q) GoString() string {
	var b strings.Builder
	b.WriteString("Quat(")
	for i, f := range QV4(q) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloatPoint(f))
	}
	b.WriteByte(')')
	return b.String()
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// formatFloatPoint is like formatFloat but appends ".0"
// to integral values.
func formatFloatPoint(f float32) string {
	s := formatFloat(f)
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return s
	}
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
