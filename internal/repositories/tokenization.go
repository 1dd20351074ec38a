package repositories

import (
	"database/sql"
	"fmt"

	"github.com/melodia-app/melodia/internal/corpus"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/vocab"
)

// TokenizationRepository persists corpus build results: the vocabulary and
// the tokenized playlists, plus a build record for provenance.
type TokenizationRepository struct {
	db *sql.DB
}

// NewTokenizationRepository creates a repository over an open database.
func NewTokenizationRepository(db *sql.DB) *TokenizationRepository {
	return &TokenizationRepository{db: db}
}

// Save replaces the stored tokenization artifact with the given build
// result and records the build under a fresh ID. A new corpus invalidates
// any previously trained model, so embeddings are cleared too (enforced by
// the cascade on songs).
func (r *TokenizationRepository) Save(result *corpus.Result, source string) (string, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"playlist_tokens", "playlists", "embeddings", "excluded_tokens", "songs", "builds", "training_runs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return "", fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	songStmt, err := tx.Prepare("INSERT INTO songs (token, song_key, song, artist) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare song insert: %w", err)
	}
	defer songStmt.Close()

	for _, entry := range result.Vocab.Entries() {
		if _, err := songStmt.Exec(entry.Token, entry.Key, entry.Song, entry.Artist); err != nil {
			return "", fmt.Errorf("failed to insert song %d: %w", entry.Token, err)
		}
	}

	playlistStmt, err := tx.Prepare("INSERT INTO playlists (id, name, track_count) VALUES (?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare playlist insert: %w", err)
	}
	defer playlistStmt.Close()

	tokenStmt, err := tx.Prepare("INSERT INTO playlist_tokens (playlist_id, position, token) VALUES (?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer tokenStmt.Close()

	for i, tokens := range result.Playlists {
		name := ""
		if i < len(result.Names) {
			name = result.Names[i]
		}
		if _, err := playlistStmt.Exec(i+1, name, len(tokens)); err != nil {
			return "", fmt.Errorf("failed to insert playlist %d: %w", i+1, err)
		}
		for pos, token := range tokens {
			if _, err := tokenStmt.Exec(i+1, pos, token); err != nil {
				return "", fmt.Errorf("failed to insert playlist %d token at %d: %w", i+1, pos, err)
			}
		}
	}

	buildID := shared.GenerateID()
	if _, err := tx.Exec(
		"INSERT INTO builds (id, source, playlist_count, track_count, skipped_tracks) VALUES (?, ?, ?, ?, ?)",
		buildID, source, len(result.Playlists), result.TotalTracks, result.Skipped,
	); err != nil {
		return "", fmt.Errorf("failed to record build: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit tokenization save: %w", err)
	}

	return buildID, nil
}

// LoadVocabulary restores the vocabulary, re-validating token density and
// bijection on the way in.
func (r *TokenizationRepository) LoadVocabulary() (*vocab.Store, error) {
	rows, err := r.db.Query("SELECT token, song_key, song, artist FROM songs ORDER BY token")
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var entries []vocab.Entry
	for rows.Next() {
		var e vocab.Entry
		if err := rows.Scan(&e.Token, &e.Key, &e.Song, &e.Artist); err != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate songs: %w", err)
	}

	if len(entries) == 0 {
		return nil, shared.ErrNoCorpus
	}

	return vocab.Restore(entries)
}

// LoadPlaylists restores the tokenized playlists in build order. Playlists
// persisted empty come back as empty sequences.
func (r *TokenizationRepository) LoadPlaylists() ([][]int, error) {
	countRows, err := r.db.Query("SELECT id, track_count FROM playlists ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer countRows.Close()

	var ids []int
	counts := make(map[int]int)
	for countRows.Next() {
		var id, count int
		if err := countRows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan playlist row: %w", err)
		}
		ids = append(ids, id)
		counts[id] = count
	}
	if err := countRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlists: %w", err)
	}

	if len(ids) == 0 {
		return nil, shared.ErrNoCorpus
	}

	sequences := make(map[int][]int, len(ids))
	rows, err := r.db.Query("SELECT playlist_id, token FROM playlist_tokens ORDER BY playlist_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tokens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, token int
		if err := rows.Scan(&id, &token); err != nil {
			return nil, fmt.Errorf("failed to scan token row: %w", err)
		}
		sequences[id] = append(sequences[id], token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playlist tokens: %w", err)
	}

	playlists := make([][]int, 0, len(ids))
	for _, id := range ids {
		seq := sequences[id]
		if len(seq) != counts[id] {
			return nil, fmt.Errorf("%w: playlist %d has %d tokens, recorded %d", shared.ErrDataIntegrity, id, len(seq), counts[id])
		}
		if seq == nil {
			seq = []int{}
		}
		playlists = append(playlists, seq)
	}

	return playlists, nil
}
