package combinations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorOrder(t *testing.T) {
	var got [][]int
	g := New(4, 2)
	for g.Next() {
		got = append(got, append([]int(nil), g.Indices()...))
	}

	assert.Equal(t, [][]int{
		{0, 1}, {0, 2}, {0, 3},
		{1, 2}, {1, 3},
		{2, 3},
	}, got)
}

func TestGeneratorEdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		n, k     int
		expected int
	}{
		{name: "k greater than n", n: 3, k: 4, expected: 0},
		{name: "negative k", n: 3, k: -1, expected: 0},
		{name: "k zero", n: 3, k: 0, expected: 1},
		{name: "empty input k zero", n: 0, k: 0, expected: 1},
		{name: "k equals n", n: 5, k: 5, expected: 1},
		{name: "seven choose five", n: 7, k: 5, expected: 21},
		{name: "six choose four", n: 6, k: 4, expected: 15},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			count := 0
			g := New(tc.n, tc.k)
			for g.Next() {
				assert.Len(t, g.Indices(), max(tc.k, 0))
				count++
			}
			assert.Equal(t, tc.expected, count)
			assert.Equal(t, tc.expected, Count(tc.n, tc.k))
			assert.False(t, g.Next(), "Exhausted generator must stay exhausted")
		})
	}
}

func TestEachSelectsItems(t *testing.T) {
	items := []string{"a", "b", "c"}

	var got []string
	Each(items, 2, func(combo []string) bool {
		got = append(got, combo[0]+combo[1])
		return true
	})
	assert.Equal(t, []string{"ab", "ac", "bc"}, got)
}

func TestEachStopsEarly(t *testing.T) {
	calls := 0
	Each([]int{1, 2, 3, 4, 5}, 3, func(combo []int) bool {
		calls++
		return calls < 4
	})
	assert.Equal(t, 4, calls)
}

func TestAllDoesNotShareStorage(t *testing.T) {
	all := All([]int{1, 2, 3}, 2)
	assert.Equal(t, [][]int{{1, 2}, {1, 3}, {2, 3}}, all)

	all[0][0] = 99
	assert.Equal(t, 1, all[1][0])
}

func TestCount(t *testing.T) {
	assert.Equal(t, 2598960, Count(52, 5))
	assert.Equal(t, 20358520, Count(52, 6))
	assert.Equal(t, 1, Count(10, 0))
	assert.Equal(t, 0, Count(2, 3))
}
