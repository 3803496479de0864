package engine

// CorrectCount counts positions where the normalized user input matches the
// normalized expected text. Comparison is exact equality over the overlapping
// prefix; no fuzzy matching.
func CorrectCount(expected, input []rune) int {
	n := len(expected)
	if len(input) < n {
		n = len(input)
	}
	count := 0
	for i := 0; i < n; i++ {
		if expected[i] == input[i] {
			count++
		}
	}
	return count
}
