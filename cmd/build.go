package main

import (
	"context"
	"fmt"
	"os"

	"github.com/melodia-app/melodia/internal/corpus"
	"github.com/melodia-app/melodia/internal/models"
	"github.com/melodia-app/melodia/internal/repositories"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/urfave/cli/v3"
)

// Build tokenizes a fetched playlists file into the corpus database.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	inputPath := cmd.String("input")

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read playlists file %s: %w", inputPath, err)
	}

	var playlists []models.Playlist
	if err := shared.UnmarshalJSON(data, &playlists); err != nil {
		return fmt.Errorf("failed to parse playlists file: %w", err)
	}
	if len(playlists) == 0 {
		return fmt.Errorf("%w: %s contains no playlists", shared.ErrNoCorpus, inputPath)
	}

	r.logger.Info("building corpus", "playlists", len(playlists))

	result := corpus.Build(playlists, r.logger)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	buildID, err := repositories.NewTokenizationRepository(db).Save(result, inputPath)
	if err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}

	r.writePlainHeader("Corpus Built")
	r.writePlain("Playlists: %d\n", len(result.Playlists))
	r.writePlain("Unique songs: %d\n", result.Vocab.Len())
	r.writePlain("Total tracks: %d\n", result.TotalTracks)
	if result.Skipped > 0 {
		r.writePlain("Skipped malformed tracks: %d\n", result.Skipped)
	}
	r.writePlain("Build ID: %s\n", buildID)

	return nil
}
