package repositories

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/word2vec"
)

// ModelRepository persists trained embedding tables alongside the training
// configuration that produced them.
type ModelRepository struct {
	db *sql.DB
}

// NewModelRepository creates a repository over an open database.
func NewModelRepository(db *sql.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

// Save replaces the stored model with the given one and records the
// training run. Vectors are stored as little-endian float64 BLOBs; the
// foreign key on embeddings.token rejects any token the vocabulary does
// not know, so a mismatched pair cannot be written in the first place.
func (r *ModelRepository) Save(model *word2vec.Model) (string, error) {
	configJSON, err := json.Marshal(model.Config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal training config: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"embeddings", "excluded_tokens", "training_runs"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return "", fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	stmt, err := tx.Prepare("INSERT INTO embeddings (token, vector) VALUES (?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare embedding insert: %w", err)
	}
	defer stmt.Close()

	for _, token := range model.Tokens() {
		v, _ := model.Vector(token)
		if _, err := stmt.Exec(token, encodeVector(v)); err != nil {
			return "", fmt.Errorf("failed to insert embedding for token %d: %w", token, err)
		}
	}

	excludedStmt, err := tx.Prepare("INSERT INTO excluded_tokens (token) VALUES (?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare exclusion insert: %w", err)
	}
	defer excludedStmt.Close()

	for _, token := range model.Excluded {
		if _, err := excludedStmt.Exec(token); err != nil {
			return "", fmt.Errorf("failed to insert excluded token %d: %w", token, err)
		}
	}

	runID := shared.GenerateID()
	if _, err := tx.Exec(
		"INSERT INTO training_runs (id, config, vector_size, token_count) VALUES (?, ?, ?, ?)",
		runID, string(configJSON), model.Dim, model.Len(),
	); err != nil {
		return "", fmt.Errorf("failed to record training run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit model save: %w", err)
	}

	return runID, nil
}

// Load restores the most recent model. Embedded tokens are checked against
// the songs table; an embedding without a vocabulary entry means the
// artifact pair is corrupt.
func (r *ModelRepository) Load() (*word2vec.Model, error) {
	var configJSON string
	var dim, tokenCount int
	err := r.db.QueryRow(
		"SELECT config, vector_size, token_count FROM training_runs ORDER BY created_at DESC LIMIT 1",
	).Scan(&configJSON, &dim, &tokenCount)
	if err == sql.ErrNoRows {
		return nil, shared.ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query training run: %w", err)
	}

	var config word2vec.Config
	if err := json.Unmarshal([]byte(configJSON), &config); err != nil {
		return nil, fmt.Errorf("%w: unreadable training config: %v", shared.ErrDataIntegrity, err)
	}

	model := &word2vec.Model{
		Dim:     dim,
		Vectors: make(map[int][]float64, tokenCount),
		Config:  config,
	}

	rows, err := r.db.Query(`
		SELECT e.token, e.vector, s.token IS NOT NULL
		FROM embeddings e LEFT JOIN songs s ON s.token = e.token
		ORDER BY e.token
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var token int
		var blob []byte
		var inVocab bool
		if err := rows.Scan(&token, &blob, &inVocab); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}
		if !inVocab {
			return nil, fmt.Errorf("%w: embedding for token %d has no vocabulary entry", shared.ErrDataIntegrity, token)
		}

		v, err := decodeVector(blob, dim)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d: %v", shared.ErrDataIntegrity, token, err)
		}
		model.Vectors[token] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate embeddings: %w", err)
	}

	if len(model.Vectors) != tokenCount {
		return nil, fmt.Errorf("%w: run recorded %d embeddings, found %d", shared.ErrDataIntegrity, tokenCount, len(model.Vectors))
	}

	excludedRows, err := r.db.Query("SELECT token FROM excluded_tokens ORDER BY token")
	if err != nil {
		return nil, fmt.Errorf("failed to query excluded tokens: %w", err)
	}
	defer excludedRows.Close()

	for excludedRows.Next() {
		var token int
		if err := excludedRows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan excluded token: %w", err)
		}
		model.Excluded = append(model.Excluded, token)
	}
	if err := excludedRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate excluded tokens: %w", err)
	}

	return model, nil
}
