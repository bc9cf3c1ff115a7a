package fields

// NearestKnown returns the known alias closest to name by edit distance over
// normalized forms
func NearestKnown(name string) (string, int) {
	target := Normalize(name)
	best, bestDist := "", -1
	for _, key := range knownKeys {
		d := editDistance(target, Normalize(key))
		if bestDist < 0 || d < bestDist {
			best, bestDist = key, d
		}
	}
	return best, bestDist
}

// editDistance is the Levenshtein distance between a and b
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
