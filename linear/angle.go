// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
)

// Radians converts deg degrees to radians.
func Radians(deg float32) float32 { return deg * (math.Pi / 180) }

// Degrees converts rad radians to degrees.
func Degrees(rad float32) float32 { return rad * (180 / math.Pi) }
