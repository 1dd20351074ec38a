// package vocab implements the bidirectional song ↔ token vocabulary.
//
// Tokens are dense positive integers assigned in discovery order, starting
// at 1. A token maps to exactly one normalized song key and one display
// entry; the pairing is maintained by construction (single writer, one
// append path) rather than by reconciliation.
package vocab

import (
	"fmt"
	"strings"

	"github.com/melodia-app/melodia/internal/shared"
)

// Entry is one vocabulary record: the token, the normalized key it was
// assigned for, and the display metadata in source casing.
type Entry struct {
	Token  int    `json:"token"`
	Key    string `json:"-"`
	Song   string `json:"song"`
	Artist string `json:"artist"`
}

// Key builds the normalized song key for a name and artist list:
// "<lowercased name> - <lowercased artists joined with ', '>". The key
// deduplicates songs irrespective of casing.
func Key(name string, artists []string) string {
	lowered := make([]string, len(artists))
	for i, a := range artists {
		lowered[i] = strings.ToLower(a)
	}
	return fmt.Sprintf("%s - %s", strings.ToLower(name), strings.Join(lowered, ", "))
}

// Store holds the vocabulary. It is mutated only during a corpus build and
// is read-only afterward; concurrent reads without a writer are safe.
type Store struct {
	keyToToken map[string]int
	entries    []Entry // entries[token-1], so density holds structurally
}

// NewStore creates an empty vocabulary.
func NewStore() *Store {
	return &Store{keyToToken: make(map[string]int)}
}

// Restore rebuilds a Store from persisted entries. Entries must carry
// dense tokens 1..N in any order; gaps, duplicates, or key collisions mean
// the persisted artifact is corrupt.
func Restore(entries []Entry) (*Store, error) {
	s := &Store{
		keyToToken: make(map[string]int, len(entries)),
		entries:    make([]Entry, len(entries)),
	}

	for _, e := range entries {
		if e.Token < 1 || e.Token > len(entries) {
			return nil, fmt.Errorf("%w: token %d outside dense range 1..%d", shared.ErrDataIntegrity, e.Token, len(entries))
		}
		if s.entries[e.Token-1].Token != 0 {
			return nil, fmt.Errorf("%w: duplicate token %d", shared.ErrDataIntegrity, e.Token)
		}
		if _, ok := s.keyToToken[e.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate song key %q", shared.ErrDataIntegrity, e.Key)
		}
		s.entries[e.Token-1] = e
		s.keyToToken[e.Key] = e.Token
	}

	return s, nil
}

// GetOrCreate returns the token for key, assigning the next integer when
// the key is unseen. Idempotent: repeated calls with the same key return
// the same token and do not grow the vocabulary. The display song and
// artist are recorded on first sight only.
func (s *Store) GetOrCreate(key, song, artist string) int {
	if token, ok := s.keyToToken[key]; ok {
		return token
	}

	token := len(s.entries) + 1
	s.keyToToken[key] = token
	s.entries = append(s.entries, Entry{Token: token, Key: key, Song: song, Artist: artist})
	return token
}

// Lookup returns the token for an exact song key.
func (s *Store) Lookup(key string) (int, bool) {
	token, ok := s.keyToToken[key]
	return token, ok
}

// Resolve returns the entry for a token, or ErrUnknownToken when the token
// was never assigned.
func (s *Store) Resolve(token int) (Entry, error) {
	if token < 1 || token > len(s.entries) {
		return Entry{}, fmt.Errorf("%w: %d", shared.ErrUnknownToken, token)
	}
	return s.entries[token-1], nil
}

// Search returns entries whose song name contains the query, case
// insensitively, in insertion (token) order. No ranking is applied; an
// empty result is not an error.
func (s *Store) Search(query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []Entry
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.Song), query) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Len returns the vocabulary size N; tokens are exactly 1..N.
func (s *Store) Len() int {
	return len(s.entries)
}

// Entries returns all entries in token order. The returned slice is shared;
// callers must not mutate it.
func (s *Store) Entries() []Entry {
	return s.entries
}
