package word2vec

import "sort"

// Model is a trained embedding table. It is immutable after training and
// safe for concurrent readers.
type Model struct {
	// Dim is the embedding dimensionality, equal to Config.VectorSize.
	Dim int

	// Vectors maps each embedded token to its dense vector. Tokens absent
	// here either never appeared in the corpus or were excluded by
	// min_count; Excluded distinguishes the two.
	Vectors map[int][]float64

	// Excluded lists tokens that appeared in the corpus but fell under
	// min_count, in ascending order.
	Excluded []int

	// Config is the configuration the model was trained with.
	Config Config
}

// Vector returns the embedding for a token, if the token was trained.
func (m *Model) Vector(token int) ([]float64, bool) {
	v, ok := m.Vectors[token]
	return v, ok
}

// Tokens returns all embedded tokens in ascending order.
func (m *Model) Tokens() []int {
	tokens := make([]int, 0, len(m.Vectors))
	for token := range m.Vectors {
		tokens = append(tokens, token)
	}
	sort.Ints(tokens)
	return tokens
}

// Len returns the number of embedded tokens.
func (m *Model) Len() int {
	return len(m.Vectors)
}
