package nlp

import "math"

// CosineSimilarity is dot(a,b) / (‖a‖·‖b‖) in [-1, 1]. A zero-magnitude
// vector (including a missing embedding) yields 0 rather than dividing by
// zero; length mismatch compares the common prefix.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
