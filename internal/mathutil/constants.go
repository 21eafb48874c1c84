package mathutil

import "math"

// Numerical tolerances for float64 geometry.
var (
	// Eps is the machine epsilon of float64 (2^-52).
	Eps = math.Nextafter(1, 2) - 1

	// Delta is the surface offset used to keep secondary rays off the
	// surface they start on.
	Delta = math.Sqrt(Eps)
)
