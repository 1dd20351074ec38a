package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/melodia-app/melodia/internal/recommend"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/urfave/cli/v3"
)

// seedFrom derives the recommendation seed from the command line: a
// numeric --token wins over the positional name query.
func seedFrom(cmd *cli.Command) (recommend.Seed, error) {
	if token := int(cmd.Int("token")); token > 0 {
		return recommend.TokenSeed(token), nil
	}

	query := cmd.StringArg("query")
	if query == "" {
		return recommend.Seed{}, fmt.Errorf("%w: a song query or --token is required", shared.ErrMissingArgument)
	}
	return recommend.QuerySeed(query), nil
}

// Recommend prints the songs most similar to a seed song.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	seed, err := seedFrom(cmd)
	if err != nil {
		return err
	}

	topN := int(cmd.Int("top"))

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := r.loadEngine(db)
	if err != nil {
		return err
	}

	rec, err := engine.Recommend(seed, topN, !cmd.Bool("strict"))
	if err != nil {
		var ambiguous *recommend.AmbiguousQueryError
		if errors.As(err, &ambiguous) {
			r.writePlain("Query matches %d songs, pick one with --token:\n\n", len(ambiguous.Candidates))
			for _, entry := range ambiguous.Candidates {
				r.writePlain("%6d  %s - %s\n", entry.Token, shared.DisplayTitle(entry.Song), shared.DisplayTitle(entry.Artist))
			}
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(rec, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Similar to %s - %s",
		shared.DisplayTitle(rec.Seed.Song), shared.DisplayTitle(rec.Seed.Artist)))

	for i, result := range rec.Results {
		r.writePlain("%2d. %s - %s  [%.4f]\n",
			i+1, shared.DisplayTitle(result.Song), shared.DisplayTitle(result.Artist), result.Score)
	}

	if len(rec.Candidates) > 1 {
		r.writePlain("\nQuery matched %d songs; used the first. Other matches:\n", len(rec.Candidates))
		for _, entry := range rec.Candidates[1:] {
			r.writePlain("%6d  %s - %s\n", entry.Token, shared.DisplayTitle(entry.Song), shared.DisplayTitle(entry.Artist))
		}
	}

	return nil
}
