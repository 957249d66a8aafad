package curve

import "sort"

// Rank places a candidate watts value within a historical population.
// Position 1 means the candidate meets or beats the best historical entry;
// a candidate below every entry gets position PopulationSize+1.
type Rank struct {
	Position       int
	PopulationSize int
	// ImprovementPct is set only at position 1 with at least two
	// historical entries: how far the candidate is above the second best.
	ImprovementPct float64
}

// RankAgainst ranks candidateWatts against the historical watts values for
// one duration. The population is sorted descending and the rank is one
// plus the index of the first entry the candidate is greater than or equal
// to. Returns false when the population is empty.
func RankAgainst(history []int, candidateWatts int) (Rank, bool) {
	if len(history) == 0 {
		return Rank{}, false
	}

	sorted := make([]int, len(history))
	copy(sorted, history)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	position := len(sorted) + 1
	for i, w := range sorted {
		if candidateWatts >= w {
			position = i + 1
			break
		}
	}

	r := Rank{Position: position, PopulationSize: len(sorted)}
	if position == 1 && len(sorted) >= 2 && sorted[1] > 0 {
		r.ImprovementPct = float64(candidateWatts-sorted[1]) / float64(sorted[1]) * 100
	}
	return r, true
}
