package main

import (
	"context"
	"fmt"

	"github.com/melodia-app/melodia/internal/repositories"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search looks up songs in the vocabulary by partial name.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := repositories.NewTokenizationRepository(db).LoadVocabulary()
	if err != nil {
		return err
	}

	matches := store.Search(query)

	if cmd.Bool("json") {
		return r.writeJSON(matches, cmd.Bool("pretty"))
	}

	if len(matches) == 0 {
		r.writePlain("No songs matching %q (vocabulary holds %d songs)\n", query, store.Len())
		return nil
	}

	r.writePlain("%d songs matching %q:\n\n", len(matches), query)
	for _, entry := range matches {
		r.writePlain("%6d  %s - %s\n", entry.Token, shared.DisplayTitle(entry.Song), shared.DisplayTitle(entry.Artist))
	}

	return nil
}
