package main

import (
	"context"

	"github.com/melodia-app/melodia/internal/formatter"
	"github.com/melodia-app/melodia/internal/repositories"
	"github.com/urfave/cli/v3"
)

// ExportRecommendations writes recommendations for a seed song to a file.
func (r *Runner) ExportRecommendations(ctx context.Context, cmd *cli.Command) error {
	seed, err := seedFrom(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := r.loadEngine(db)
	if err != nil {
		return err
	}

	rec, err := engine.Recommend(seed, int(cmd.Int("top")), true)
	if err != nil {
		return err
	}

	path, err := formatter.WriteRecommendationsExport(rec, cmd.String("output"), cmd.String("format"))
	if err != nil {
		return err
	}

	r.logger.Info("recommendations exported", "path", path, "results", len(rec.Results))
	r.writePlain("✓ Exported %d recommendations to %s\n", len(rec.Results), path)
	return nil
}

// ExportVocabulary writes the song vocabulary to a CSV file.
func (r *Runner) ExportVocabulary(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := repositories.NewTokenizationRepository(db).LoadVocabulary()
	if err != nil {
		return err
	}

	path, err := formatter.WriteVocabularyExport(store, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("vocabulary exported", "path", path, "songs", store.Len())
	r.writePlain("✓ Exported %d songs to %s\n", store.Len(), path)
	return nil
}
