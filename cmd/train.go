package main

import (
	"context"
	"fmt"

	"github.com/melodia-app/melodia/internal/repositories"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/word2vec"
	"github.com/urfave/cli/v3"
)

// trainingConfig builds the trainer options from the TOML config with CLI
// flag overrides applied on top.
func (r *Runner) trainingConfig(cmd *cli.Command) (word2vec.Config, error) {
	cfg := word2vec.DefaultConfig()

	for _, name := range []string{"vector-size", "window", "epochs", "min-count", "workers"} {
		if int(cmd.Int(name)) < 0 {
			return cfg, fmt.Errorf("%w: --%s must be positive", shared.ErrInvalidFlag, name)
		}
	}

	t := r.config.Training
	if t.VectorSize > 0 {
		cfg.VectorSize = t.VectorSize
	}
	if t.Window > 0 {
		cfg.Window = t.Window
	}
	if t.MinCount > 0 {
		cfg.MinCount = t.MinCount
	}
	cfg.SkipGram = t.SkipGram
	if t.Negative > 0 {
		cfg.Negative = t.Negative
	}
	if t.SamplingExponent > 0 {
		cfg.SamplingExponent = t.SamplingExponent
	}
	if t.Epochs > 0 {
		cfg.Epochs = t.Epochs
	}
	if t.Seed != 0 {
		cfg.Seed = t.Seed
	}
	if t.Alpha > 0 {
		cfg.Alpha = t.Alpha
	}
	if t.MinAlpha > 0 {
		cfg.MinAlpha = t.MinAlpha
	}
	if t.Workers > 0 {
		cfg.Workers = t.Workers
	}

	if v := int(cmd.Int("vector-size")); v > 0 {
		cfg.VectorSize = v
	}
	if v := int(cmd.Int("window")); v > 0 {
		cfg.Window = v
	}
	if v := int(cmd.Int("epochs")); v > 0 {
		cfg.Epochs = v
	}
	if v := int(cmd.Int("min-count")); v > 0 {
		cfg.MinCount = v
	}
	if v := int(cmd.Int("workers")); v > 0 {
		cfg.Workers = v
	}
	if v := cmd.Int("seed"); v != 0 {
		cfg.Seed = int64(v)
	}
	if cmd.Bool("cbow") {
		cfg.SkipGram = false
	}

	return cfg, nil
}

// Train trains song embeddings over the stored corpus and persists the model.
func (r *Runner) Train(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewTokenizationRepository(db)

	store, err := repo.LoadVocabulary()
	if err != nil {
		return err
	}
	sequences, err := repo.LoadPlaylists()
	if err != nil {
		return err
	}

	cfg, err := r.trainingConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("training model",
		"songs", store.Len(),
		"playlists", len(sequences),
		"vector_size", cfg.VectorSize,
		"epochs", cfg.Epochs,
		"workers", cfg.Workers,
	)
	r.writePlain("Training %d-dimensional embeddings over %d playlists...\n", cfg.VectorSize, len(sequences))

	model, err := word2vec.Train(ctx, sequences, cfg, r.logger)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	runID, err := repositories.NewModelRepository(db).Save(model)
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	r.writePlainHeader("Training Complete")
	r.writePlain("Embedded songs: %d\n", model.Len())
	if len(model.Excluded) > 0 {
		r.writePlain("Excluded (below min_count %d): %d\n", cfg.MinCount, len(model.Excluded))
	}
	r.writePlain("Run ID: %s\n", runID)
	r.writePlain("Saved to %s\n", r.config.Database.Path)

	return nil
}
