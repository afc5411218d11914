package entities

import (
	"sort"
)

// Histogram counts occurrences per score or per category ordinal
type Histogram map[int]int64

// Add records one occurrence of key
func (h Histogram) Add(key int) {
	h[key]++
}

// Merge adds every count from other into h
func (h Histogram) Merge(other Histogram) {
	for key, count := range other {
		h[key] += count
	}
}

// Total returns the number of recorded occurrences
func (h Histogram) Total() int64 {
	var total int64
	for _, count := range h {
		total += count
	}
	return total
}

// Keys returns the recorded keys in ascending order
func (h Histogram) Keys() []int {
	keys := make([]int, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// Percent returns the share of occurrences at key as a percentage
func (h Histogram) Percent(key int) float64 {
	total := h.Total()
	if total == 0 {
		return 0.0
	}
	return float64(h[key]) / float64(total) * 100.0
}

// Mean returns the count-weighted average key. For cribbage runs this is the average score.
func (h Histogram) Mean() float64 {
	total := h.Total()
	if total == 0 {
		return 0.0
	}
	var sum int64
	for key, count := range h {
		sum += int64(key) * count
	}
	return float64(sum) / float64(total)
}
