// Package combinations enumerates k-element subsets of a sequence in lexicographic
// index order without recursion.
package combinations

// Generator walks every k-combination of the indices 0..n-1.
//
//	g := combinations.New(5, 3)
//	for g.Next() {
//		idx := g.Indices()
//	}
type Generator struct {
	n, k    int
	indices []int
	started bool
	done    bool
}

// New creates a generator over k-combinations of n items. k > n and k < 0
// produce no combinations; k == 0 produces exactly one empty combination.
func New(n, k int) *Generator {
	g := &Generator{n: n, k: k}
	if k < 0 || n < 0 || k > n {
		g.done = true
		return g
	}
	g.indices = make([]int, k)
	for i := range g.indices {
		g.indices[i] = i
	}
	return g
}

// Next advances to the next combination and reports whether one is available
func (g *Generator) Next() bool {
	if g.done {
		return false
	}
	if !g.started {
		g.started = true
		return true
	}

	// Find the rightmost index that can still move right.
	i := g.k - 1
	for i >= 0 && g.indices[i] == g.n-g.k+i {
		i--
	}
	if i < 0 {
		g.done = true
		return false
	}
	g.indices[i]++
	for j := i + 1; j < g.k; j++ {
		g.indices[j] = g.indices[j-1] + 1
	}
	return true
}

// Indices returns the current combination. The slice is reused by Next and must
// not be modified or retained.
func (g *Generator) Indices() []int {
	return g.indices
}

// Select copies the items at the given indices into a new slice
func Select[T any](items []T, indices []int) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		out[i] = items[idx]
	}
	return out
}

// Each calls fn with every k-combination of items in lexicographic order. The
// slice passed to fn is freshly allocated. Returning false stops the walk.
func Each[T any](items []T, k int, fn func(combo []T) bool) {
	g := New(len(items), k)
	for g.Next() {
		if !fn(Select(items, g.Indices())) {
			return
		}
	}
}

// All returns every k-combination of items
func All[T any](items []T, k int) [][]T {
	out := make([][]T, 0, Count(len(items), k))
	Each(items, k, func(combo []T) bool {
		out = append(out, combo)
		return true
	})
	return out
}

// Count returns the binomial coefficient C(n, k), or 0 when k is out of range
func Count(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
