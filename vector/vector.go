package vector

import (
	"context"
	"math"
)

// Embedding is a semantic vector attached to a catalog question or an
// intake text.
type Embedding struct {
	ID     string
	Vector []float32
	Text   string
}

// Store persists question embeddings so catalogs can ship without
// inline vectors.
type Store interface {
	// Put stores an embedding, replacing any previous one with the same ID
	Put(ctx context.Context, embedding *Embedding) error

	// Search finds the topK embeddings closest to the query vector
	Search(ctx context.Context, queryVector []float32, topK int) ([]*Embedding, error)

	// Get retrieves a specific embedding by ID
	Get(ctx context.Context, id string) (*Embedding, error)

	// Delete removes an embedding by ID
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored embeddings
	Count(ctx context.Context) (int, error)
}

// Embedder converts text to vector embeddings.
type Embedder interface {
	// Embed converts text to a vector embedding
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the number of embedding dimensions
	Dimension() int
}

// CosineSimilarityOperator returns the PostgreSQL operator for cosine similarity
func CosineSimilarityOperator() string {
	return "<->"
}

// CosineSimilarity calculates the cosine similarity between two vectors
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float32
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / float32(math.Sqrt(float64(normA))*math.Sqrt(float64(normB)))
}

// Normalize scales the vector to unit length (L2 norm).
func Normalize(vec []float32) []float32 {
	if len(vec) == 0 {
		return vec
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}
