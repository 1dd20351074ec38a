package main

import (
	"context"
	"fmt"
	"os"

	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Fetch harvests genre playlists from Spotify and writes them to a JSON
// file for the build step.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized, check credentials", shared.ErrServiceUnavailable)
	}

	genres := cmd.StringSlice("genre")
	if len(genres) == 0 {
		genres = r.config.Fetch.Genres
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.config.Fetch.PlaylistLimit
	}

	outputPath := cmd.String("output")

	r.logger.Info("fetching playlists", "genres", len(genres), "limit", limit)
	r.writePlain("Searching playlists for %d genres...\n\n", len(genres))

	// The drain goroutine owns r.output until drained closes; no other
	// write may happen before then.
	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.SearchGenre:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.FetchTracks:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	engine := tasks.NewFetchEngine(r.service, r.logger)
	result, err := engine.Fetch(ctx, genres, limit, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	data, err := shared.MarshalJSON(result.Playlists, true)
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write playlists file: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Fetch Complete")
	for _, genre := range result.Genres {
		r.writePlain("%s: %d playlists, %d tracks\n", genre.Genre, genre.Playlists, genre.Tracks)
	}
	r.writePlain("\nTotal: %d playlists, %d tracks\n", len(result.Playlists), result.TotalTracks())
	if len(result.Errors) > 0 {
		r.writePlain("Failures: %d (see logs)\n", len(result.Errors))
	}
	r.writePlain("Saved to %s\n", outputPath)

	return nil
}
