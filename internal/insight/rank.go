package insight

import (
	"sort"
)

// ranks converts values to 1-based ranks; tied values share the average
// of the ranks they span.
func ranks(data []float64) []float64 {
	n := len(data)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return data[order[i]] < data[order[j]]
	})

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && data[order[j]] == data[order[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2
		for k := i; k < j; k++ {
			out[order[k]] = avg
		}
		i = j
	}
	return out
}
