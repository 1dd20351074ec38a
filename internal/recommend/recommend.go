// package recommend answers nearest-neighbor queries over a trained
// embedding table, resolving free-text seeds through the vocabulary.
//
// The engine is read-only over a fully built vocabulary and model;
// concurrent queries are safe because nothing mutates after construction.
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/vocab"
	"github.com/melodia-app/melodia/internal/word2vec"
)

// Seed identifies the song to recommend from: either an explicit token or
// a free-text song-name query.
type Seed struct {
	token   int
	query   string
	byToken bool
}

// TokenSeed builds a seed from an explicit vocabulary token.
func TokenSeed(token int) Seed {
	return Seed{token: token, byToken: true}
}

// QuerySeed builds a seed from a free-text song-name query.
func QuerySeed(query string) Seed {
	return Seed{query: query}
}

// Result is one recommended song with its cosine similarity to the seed,
// in [-1, 1].
type Result struct {
	Token  int     `json:"token"`
	Song   string  `json:"song"`
	Artist string  `json:"artist"`
	Score  float64 `json:"similarity"`
}

// Recommendation is the full answer to one query: the resolved seed, the
// ranked neighbors, and, for text queries that matched more than one song,
// the candidate list the first match was picked from.
type Recommendation struct {
	Seed       vocab.Entry   `json:"seed"`
	Results    []Result      `json:"results"`
	Candidates []vocab.Entry `json:"candidates,omitempty"`
}

// AmbiguousQueryError reports a text query that matched multiple songs
// while auto-selection was disabled. It carries the candidates in match
// order and unwraps to [shared.ErrAmbiguousQuery].
type AmbiguousQueryError struct {
	Query      string
	Candidates []vocab.Entry
}

func (e *AmbiguousQueryError) Error() string {
	return fmt.Sprintf("query %q matched %d songs", e.Query, len(e.Candidates))
}

func (e *AmbiguousQueryError) Unwrap() error { return shared.ErrAmbiguousQuery }

// Engine ranks embedded tokens by cosine similarity to a seed.
type Engine struct {
	vocab  *vocab.Store
	model  *word2vec.Model
	tokens []int               // embedded tokens, ascending
	norms  map[int]float64     // euclidean norm per embedded token
}

// NewEngine validates that every embedded token resolves in the vocabulary.
// A mismatch means the persisted vocabulary and model were not produced by
// the same build and is an error state, not something to paper over.
func NewEngine(store *vocab.Store, model *word2vec.Model) (*Engine, error) {
	if store == nil || model == nil {
		return nil, fmt.Errorf("%w: engine requires a vocabulary and a model", shared.ErrInvalidInput)
	}

	e := &Engine{
		vocab:  store,
		model:  model,
		tokens: model.Tokens(),
		norms:  make(map[int]float64, model.Len()),
	}

	for _, token := range e.tokens {
		if _, err := store.Resolve(token); err != nil {
			return nil, fmt.Errorf("%w: embedded token %d not in vocabulary", shared.ErrDataIntegrity, token)
		}
		v, _ := model.Vector(token)
		if len(v) != model.Dim {
			return nil, fmt.Errorf("%w: token %d has %d-dim vector, expected %d", shared.ErrDataIntegrity, token, len(v), model.Dim)
		}
		e.norms[token] = norm(v)
	}

	return e, nil
}

// Resolve turns a seed into a vocabulary entry. For text queries with
// multiple matches it returns the first match in discovery order when
// autoSelect is set (discovery order, not a best-match heuristic), along
// with the full candidate list; otherwise it fails with
// [AmbiguousQueryError].
func (e *Engine) Resolve(seed Seed, autoSelect bool) (vocab.Entry, []vocab.Entry, error) {
	if seed.byToken {
		entry, err := e.vocab.Resolve(seed.token)
		if err != nil {
			return vocab.Entry{}, nil, err
		}
		return entry, nil, nil
	}

	matches := e.vocab.Search(seed.query)
	switch len(matches) {
	case 0:
		return vocab.Entry{}, nil, fmt.Errorf("%w: %q", shared.ErrSongNotFound, seed.query)
	case 1:
		return matches[0], nil, nil
	default:
		if !autoSelect {
			return vocab.Entry{}, nil, &AmbiguousQueryError{Query: seed.query, Candidates: matches}
		}
		return matches[0], matches, nil
	}
}

// Recommend returns the topN embedded tokens nearest the seed by cosine
// similarity, seed excluded, sorted descending by score with ties broken
// by ascending token. Fewer than topN neighbors is not an error; the
// available ones are returned.
func (e *Engine) Recommend(seed Seed, topN int, autoSelect bool) (*Recommendation, error) {
	if topN < 1 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", shared.ErrInvalidInput, topN)
	}

	entry, candidates, err := e.Resolve(seed, autoSelect)
	if err != nil {
		return nil, err
	}

	seedVec, ok := e.model.Vector(entry.Token)
	if !ok {
		return nil, fmt.Errorf("%w: token %d", shared.ErrTokenNotEmbedded, entry.Token)
	}
	seedNorm := e.norms[entry.Token]

	// Full linear scan over the embedded vocabulary. Fine at the scale of
	// thousands of tokens; approximate indexing is out of scope.
	scored := make([]Result, 0, len(e.tokens)-1)
	for _, token := range e.tokens {
		if token == entry.Token {
			continue
		}

		v, _ := e.model.Vector(token)
		score := 0.0
		if n := e.norms[token]; n > 0 && seedNorm > 0 {
			score = dot(seedVec, v) / (seedNorm * n)
		}

		meta, err := e.vocab.Resolve(token)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d has embedding but no metadata", shared.ErrDataIntegrity, token)
		}

		scored = append(scored, Result{Token: token, Song: meta.Song, Artist: meta.Artist, Score: score})
	}

	// scored is in ascending token order, so a stable sort by descending
	// score leaves equal scores ordered by token.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topN < len(scored) {
		scored = scored[:topN]
	}

	return &Recommendation{Seed: entry, Results: scored, Candidates: candidates}, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}
