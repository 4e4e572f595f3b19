// Package embedding defines the port to the semantic embedding model and
// its production HTTP implementation. The scoring engine only sees this
// narrow interface; it has no knowledge of the provider's tensor shapes.
package embedding

import (
	"context"
	"fmt"
	"math"
)

// Provider produces fixed-length embedding vectors for texts. The model is
// expected to apply mean pooling over tokens and L2 normalization; the
// engine treats the vectors as opaque.
type Provider interface {
	// EmbedBatch embeds the given texts in order. One batched call per
	// scoring request amortizes model overhead.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Pinger is implemented by providers that can report model readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CosineSimilarity calculates the cosine similarity between two vectors:
// dot product over norms, in [-1, 1]. Vectors must be non-empty, of equal
// length, and finite.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("empty embedding vector")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding length mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("zero-magnitude embedding vector")
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, fmt.Errorf("non-numeric similarity from embedding vectors")
	}
	return sim, nil
}
