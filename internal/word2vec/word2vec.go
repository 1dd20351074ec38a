// package word2vec trains dense token embeddings from tokenized playlists
// with a skip-gram or CBOW objective and negative sampling.
//
// Each playlist is one training sequence; co-occurrence is only counted
// inside a playlist, never across playlist boundaries. Training is
// deterministic for a fixed seed and workers=1. With multiple workers the
// weight updates race benignly (Hogwild-style), so vector values can differ
// between runs at floating-point precision; this is a documented limitation
// of the parallel mode, not a bug.
package word2vec

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

const negativeTableSize = 1 << 20

// Train learns one embedding per token that meets min_count. Tokens seen
// fewer than min_count times are reported in the model's Excluded list so
// callers can tell "excluded by policy" from "never seen".
func Train(ctx context.Context, sequences [][]int, cfg Config, logger *log.Logger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	freq := make(map[int]int)
	for _, seq := range sequences {
		for _, token := range seq {
			freq[token]++
		}
	}

	var kept, excluded []int
	for token, n := range freq {
		if n >= cfg.MinCount {
			kept = append(kept, token)
		} else {
			excluded = append(excluded, token)
		}
	}
	sort.Ints(kept)
	sort.Ints(excluded)

	if len(kept) == 0 {
		return nil, fmt.Errorf("no tokens meet min_count %d", cfg.MinCount)
	}

	index := make(map[int]int, len(kept))
	for i, token := range kept {
		index[token] = i
	}

	// Map sequences onto vocabulary indexes, dropping excluded tokens.
	corpus := make([][]int, 0, len(sequences))
	words := 0
	for _, seq := range sequences {
		mapped := make([]int, 0, len(seq))
		for _, token := range seq {
			if i, ok := index[token]; ok {
				mapped = append(mapped, i)
			}
		}
		if len(mapped) > 1 {
			corpus = append(corpus, mapped)
			words += len(mapped)
		}
	}

	dim := cfg.VectorSize
	syn0 := make([]float64, len(kept)*dim)
	syn1 := make([]float64, len(kept)*dim)

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := range syn0 {
		syn0[i] = (rng.Float64() - 0.5) / float64(dim)
	}

	shared := &layers{
		syn0:       syn0,
		syn1:       syn1,
		dim:        dim,
		table:      buildNegativeTable(kept, freq, cfg.SamplingExponent),
		totalWords: int64(words) * int64(cfg.Epochs),
	}

	workers := cfg.Workers
	if workers > len(corpus) && len(corpus) > 0 {
		workers = len(corpus)
	}

	logger.Info("training embeddings",
		"tokens", len(kept), "excluded", len(excluded),
		"sequences", len(corpus), "dim", dim, "epochs", cfg.Epochs, "workers", workers)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training cancelled at epoch %d: %w", epoch, err)
		}

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				t := &trainer{
					layers: shared,
					cfg:    cfg,
					rng:    rand.New(rand.NewSource(cfg.Seed + int64(epoch)*int64(workers) + int64(w) + 1)),
					hidden: make([]float64, dim),
					grad:   make([]float64, dim),
				}
				for s := w; s < len(corpus); s += workers {
					t.sequence(corpus[s])
				}
			}(w)
		}
		wg.Wait()

		logger.Debug("epoch complete", "epoch", epoch+1, "of", cfg.Epochs)
	}

	vectors := make(map[int][]float64, len(kept))
	for i, token := range kept {
		v := make([]float64, dim)
		copy(v, syn0[i*dim:(i+1)*dim])
		vectors[token] = v
	}

	return &Model{Dim: dim, Vectors: vectors, Excluded: excluded, Config: cfg}, nil
}

// layers is the training state shared between workers.
type layers struct {
	syn0       []float64 // input embeddings, one row per vocabulary index
	syn1       []float64 // output weights for negative sampling
	dim        int
	table      []int // negative-sample lookup, unigram^exponent distribution
	totalWords int64
	processed  atomic.Int64
}

// trainer is per-worker state: its own RNG and scratch buffers.
type trainer struct {
	*layers
	cfg    Config
	rng    *rand.Rand
	hidden []float64
	grad   []float64
}

func (t *trainer) sequence(seq []int) {
	for pos, center := range seq {
		alpha := t.nextAlpha()

		// Shrink the window per position, weighting nearby tokens higher.
		b := t.rng.Intn(t.cfg.Window)
		lo, hi := pos-t.cfg.Window+b, pos+t.cfg.Window-b

		if t.cfg.SkipGram {
			for c := lo; c <= hi; c++ {
				if c == pos || c < 0 || c >= len(seq) {
					continue
				}
				t.pair(seq[c], center, alpha)
			}
			continue
		}

		t.cbow(seq, pos, center, lo, hi, alpha)
	}
}

// pair trains one (input, output) pair with negative sampling: the output
// token is the positive target, Negative draws from the unigram table are
// the negative ones.
func (t *trainer) pair(input, output int, alpha float64) {
	in := t.syn0[input*t.dim : (input+1)*t.dim]
	for i := range t.grad {
		t.grad[i] = 0
	}

	for n := 0; n <= t.cfg.Negative; n++ {
		target, label := output, 1.0
		if n > 0 {
			target = t.sample(output)
			if target < 0 {
				continue
			}
			label = 0.0
		}

		out := t.syn1[target*t.dim : (target+1)*t.dim]
		g := (label - sigmoid(dot(in, out))) * alpha
		for i := range out {
			t.grad[i] += g * out[i]
			out[i] += g * in[i]
		}
	}

	for i := range in {
		in[i] += t.grad[i]
	}
}

// cbow averages the context window into the hidden layer, trains it against
// the center token, then distributes the error back to every context token.
func (t *trainer) cbow(seq []int, pos, center, lo, hi int, alpha float64) {
	for i := range t.hidden {
		t.hidden[i] = 0
	}
	count := 0
	for c := lo; c <= hi; c++ {
		if c == pos || c < 0 || c >= len(seq) {
			continue
		}
		row := t.syn0[seq[c]*t.dim : (seq[c]+1)*t.dim]
		for i := range t.hidden {
			t.hidden[i] += row[i]
		}
		count++
	}
	if count == 0 {
		return
	}
	for i := range t.hidden {
		t.hidden[i] /= float64(count)
	}

	for i := range t.grad {
		t.grad[i] = 0
	}

	for n := 0; n <= t.cfg.Negative; n++ {
		target, label := center, 1.0
		if n > 0 {
			target = t.sample(center)
			if target < 0 {
				continue
			}
			label = 0.0
		}

		out := t.syn1[target*t.dim : (target+1)*t.dim]
		g := (label - sigmoid(dot(t.hidden, out))) * alpha
		for i := range out {
			t.grad[i] += g * out[i]
			out[i] += g * t.hidden[i]
		}
	}

	for c := lo; c <= hi; c++ {
		if c == pos || c < 0 || c >= len(seq) {
			continue
		}
		row := t.syn0[seq[c]*t.dim : (seq[c]+1)*t.dim]
		for i := range row {
			row[i] += t.grad[i]
		}
	}
}

// sample draws one negative target, rejecting the positive one.
func (t *trainer) sample(positive int) int {
	for range 3 {
		target := t.table[t.rng.Intn(len(t.table))]
		if target != positive {
			return target
		}
	}
	return -1
}

// nextAlpha decays the learning rate linearly from Alpha to MinAlpha over
// the whole run.
func (t *trainer) nextAlpha() float64 {
	p := t.processed.Add(1)
	progress := float64(p) / float64(t.totalWords)
	if progress > 1 {
		progress = 1
	}
	return t.cfg.Alpha - (t.cfg.Alpha-t.cfg.MinAlpha)*progress
}

// buildNegativeTable fills the sampling table proportionally to each kept
// token's frequency raised to the sampling exponent.
func buildNegativeTable(kept []int, freq map[int]int, exponent float64) []int {
	table := make([]int, negativeTableSize)

	var total float64
	weights := make([]float64, len(kept))
	for i, token := range kept {
		weights[i] = math.Pow(float64(freq[token]), exponent)
		total += weights[i]
	}

	i, cumulative := 0, weights[0]/total
	for pos := range table {
		table[pos] = i
		if float64(pos)/float64(negativeTableSize) > cumulative && i < len(kept)-1 {
			i++
			cumulative += weights[i] / total
		}
	}
	return table
}

func sigmoid(x float64) float64 {
	switch {
	case x > 6:
		return 1
	case x < -6:
		return 0
	default:
		return 1 / (1 + math.Exp(-x))
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
