package domain

// Summary counts words in the store
type Summary struct {
	Total int
	Hard  int
}

// Normal returns the number of words not marked as hard
func (s Summary) Normal() int {
	return s.Total - s.Hard
}
