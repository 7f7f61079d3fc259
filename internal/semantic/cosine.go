package semantic

import "math"

// Cosine returns the cosine similarity of two vectors, 0 when either has
// zero norm. Vectors of different length are compared over the shorter
// prefix, matching the behavior of the store builder.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}

	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0
	}
	return dot / den
}
