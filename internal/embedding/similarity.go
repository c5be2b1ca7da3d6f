package embedding

import "math"

// Similarity returns the cosine similarity of a and b clamped to [0, 1].
// Missing vectors, vectors of different length and zero vectors score 0.
func Similarity(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	magA := math.Sqrt(normA)
	magB := math.Sqrt(normB)
	if magA == 0 || magB == 0 {
		return 0
	}

	return math.Max(0, math.Min(1, dot/(magA*magB)))
}
