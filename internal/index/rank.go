// Package index holds the similarity ranking used by evidence retrieval.
//
// Ranking is an exact full sort over one document's vectors. Per-document
// chunk counts stay in the hundreds, so an approximate index would buy
// nothing and cost determinism.
package index

import (
	"math"
	"sort"

	"github.com/pkoval/claimlens/internal/model"
)

// Cosine computes cosine similarity between two vectors.
// Length mismatch compares the common prefix; a zero-norm input yields 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Ranked pairs a stored vector with its similarity to a query.
type Ranked struct {
	Record model.VectorRecord
	Sim    float64
}

// Rank orders rows by similarity to query, descending, and returns the top k.
// Ties keep the original row order. k is clamped to [1, len(rows)].
func Rank(query []float32, rows []model.VectorRecord, k int) []Ranked {
	if len(rows) == 0 {
		return nil
	}

	ranked := make([]Ranked, len(rows))
	for i, row := range rows {
		ranked[i] = Ranked{Record: row, Sim: Cosine(query, row.Vector)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sim > ranked[j].Sim
	})

	if k < 1 {
		k = 1
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
