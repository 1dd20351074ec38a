// package tasks implements long-running data collection operations.
//
// The core abstraction is FetchEngine, which orchestrates harvesting
// playlists across a list of genres from a music service. Operations emit
// progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/melodia-app/melodia/internal/models"
	"github.com/melodia-app/melodia/internal/services"
	"github.com/melodia-app/melodia/internal/shared"
)

// FetchError records a per-playlist or per-genre failure that did not
// abort the overall run.
type FetchError struct {
	Genre    string
	Playlist string
	Err      error
}

// GenreResult summarizes what a single genre contributed to the harvest.
type GenreResult struct {
	Genre     string
	Playlists int
	Tracks    int
}

// FetchResult contains all playlists collected across genres, with their
// tracks populated.
type FetchResult struct {
	Playlists []models.Playlist
	Genres    []GenreResult
	Errors    []FetchError
}

// TotalTracks returns the number of tracks across all collected playlists.
func (r *FetchResult) TotalTracks() int {
	total := 0
	for _, pl := range r.Playlists {
		total += len(pl.Tracks)
	}
	return total
}

// FetchEngine harvests genre playlists from a music service.
type FetchEngine struct {
	service services.Service
	logger  *log.Logger
}

// NewFetchEngine creates a FetchEngine backed by the given service.
func NewFetchEngine(service services.Service, logger *log.Logger) *FetchEngine {
	return &FetchEngine{service: service, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *FetchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Fetch searches every genre for playlists and collects their tracks.
// Playlists found under more than one genre are kept once, credited to
// the genre that found them first. Individual playlist failures are
// recorded in the result and do not abort the run.
func (e *FetchEngine) Fetch(ctx context.Context, genres []string, perGenre int, progress chan<- ProgressUpdate) (*FetchResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if len(genres) == 0 {
		return nil, fmt.Errorf("%w: at least one genre is required", shared.ErrInvalidInput)
	}

	result := &FetchResult{}
	seen := make(map[string]bool)
	totalGenres := len(genres)

	for i, genre := range genres {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.sendProgress(progress, searchGenreUpdate(i+1, totalGenres, genre))

		playlists, err := e.service.SearchPlaylists(ctx, genre, perGenre)
		if err != nil {
			result.Errors = append(result.Errors, FetchError{Genre: genre, Err: err})
			if e.logger != nil {
				e.logger.Warn("genre search failed", "genre", genre, "error", err)
			}
			continue
		}

		genreResult := GenreResult{Genre: genre}

		for j, playlist := range playlists {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if seen[playlist.ExternalID] {
				continue
			}
			seen[playlist.ExternalID] = true

			e.sendProgress(progress, fetchTracksUpdate(j+1, len(playlists), playlist.Name))

			tracks, err := e.service.PlaylistTracks(ctx, playlist.ExternalID)
			if err != nil {
				result.Errors = append(result.Errors, FetchError{Genre: genre, Playlist: playlist.Name, Err: err})
				e.sendProgress(progress, playlistFailedUpdate(j+1, len(playlists), playlist.Name, err))
				continue
			}

			playlist.Tracks = tracks
			result.Playlists = append(result.Playlists, playlist)
			genreResult.Playlists++
			genreResult.Tracks += len(tracks)

			e.sendProgress(progress, playlistDoneUpdate(j+1, len(playlists), playlist.Name, len(tracks)))
		}

		result.Genres = append(result.Genres, genreResult)

		if e.logger != nil {
			e.logger.Info("genre collected",
				"genre", genre,
				"playlists", genreResult.Playlists,
				"tracks", genreResult.Tracks,
			)
		}
	}

	return result, nil
}
