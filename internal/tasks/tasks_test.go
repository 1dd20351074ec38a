package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/melodia-app/melodia/internal/models"
	"github.com/melodia-app/melodia/internal/shared"
	libtest "github.com/melodia-app/melodia/internal/testing"
)

func twoGenreService() *libtest.MockService {
	return &libtest.MockService{
		SearchPlaylistsFunc: func(ctx context.Context, genre string, limit int) ([]models.Playlist, error) {
			switch genre {
			case "Rock":
				return []models.Playlist{
					{Name: "Top Rock", ExternalID: "p1", Genre: genre},
					{Name: "Rock Hits", ExternalID: "p2", Genre: genre},
				}, nil
			case "Pop":
				// p2 appears under both genres.
				return []models.Playlist{
					{Name: "Rock Hits", ExternalID: "p2", Genre: genre},
					{Name: "Top Pop", ExternalID: "p3", Genre: genre},
				}, nil
			default:
				return nil, nil
			}
		},
		PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]models.Track, error) {
			return []models.Track{
				{Name: "song for " + playlistID, Artists: []string{"artist"}},
			}, nil
		},
	}
}

func TestFetchEngine(t *testing.T) {
	t.Run("CollectsAllGenres", func(t *testing.T) {
		engine := NewFetchEngine(twoGenreService(), nil)

		result, err := engine.Fetch(context.Background(), []string{"Rock", "Pop"}, 20, nil)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		if len(result.Playlists) != 3 {
			t.Fatalf("expected 3 unique playlists, got %d", len(result.Playlists))
		}
		if result.TotalTracks() != 3 {
			t.Errorf("expected 3 tracks, got %d", result.TotalTracks())
		}
		if len(result.Errors) != 0 {
			t.Errorf("expected no errors, got %v", result.Errors)
		}
	})

	t.Run("DeduplicatesAcrossGenres", func(t *testing.T) {
		engine := NewFetchEngine(twoGenreService(), nil)

		result, err := engine.Fetch(context.Background(), []string{"Rock", "Pop"}, 20, nil)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		// p2 was found under Rock first, so Pop only contributes p3.
		if result.Genres[0].Playlists != 2 {
			t.Errorf("expected Rock to contribute 2 playlists, got %d", result.Genres[0].Playlists)
		}
		if result.Genres[1].Playlists != 1 {
			t.Errorf("expected Pop to contribute 1 playlist, got %d", result.Genres[1].Playlists)
		}

		genre := ""
		for _, pl := range result.Playlists {
			if pl.ExternalID == "p2" {
				genre = pl.Genre
			}
		}
		if genre != "Rock" {
			t.Errorf("expected p2 credited to Rock, got %q", genre)
		}
	})

	t.Run("PlaylistFailureDoesNotAbort", func(t *testing.T) {
		svc := twoGenreService()
		svc.PlaylistTracksFunc = func(ctx context.Context, playlistID string) ([]models.Track, error) {
			if playlistID == "p1" {
				return nil, fmt.Errorf("boom")
			}
			return []models.Track{{Name: "song", Artists: []string{"a"}}}, nil
		}
		engine := NewFetchEngine(svc, nil)

		result, err := engine.Fetch(context.Background(), []string{"Rock"}, 20, nil)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		if len(result.Playlists) != 1 {
			t.Errorf("expected 1 playlist, got %d", len(result.Playlists))
		}
		if len(result.Errors) != 1 || result.Errors[0].Playlist != "Top Rock" {
			t.Errorf("expected a recorded failure for Top Rock, got %v", result.Errors)
		}
	})

	t.Run("GenreSearchFailureRecorded", func(t *testing.T) {
		svc := twoGenreService()
		svc.SearchPlaylistsFunc = func(ctx context.Context, genre string, limit int) ([]models.Playlist, error) {
			return nil, fmt.Errorf("search down")
		}
		engine := NewFetchEngine(svc, nil)

		result, err := engine.Fetch(context.Background(), []string{"Rock"}, 20, nil)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(result.Errors) != 1 || result.Errors[0].Genre != "Rock" {
			t.Errorf("expected a recorded genre failure, got %v", result.Errors)
		}
	})

	t.Run("NilService", func(t *testing.T) {
		engine := NewFetchEngine(nil, nil)
		if _, err := engine.Fetch(context.Background(), []string{"Rock"}, 20, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("NoGenres", func(t *testing.T) {
		engine := NewFetchEngine(twoGenreService(), nil)
		if _, err := engine.Fetch(context.Background(), nil, 20, nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewFetchEngine(twoGenreService(), nil)
		if _, err := engine.Fetch(ctx, []string{"Rock"}, 20, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("ProgressUpdates", func(t *testing.T) {
		engine := NewFetchEngine(twoGenreService(), nil)
		progress := make(chan ProgressUpdate, 32)

		if _, err := engine.Fetch(context.Background(), []string{"Rock"}, 20, progress); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		close(progress)

		phases := map[Phase]int{}
		for update := range progress {
			phases[update.Phase]++
		}
		if phases[SearchGenre] == 0 {
			t.Error("expected at least one search_genre update")
		}
		if phases[FetchTracks] == 0 {
			t.Error("expected at least one fetch_tracks update")
		}
	})

	t.Run("FullProgressChannelDoesNotBlock", func(t *testing.T) {
		engine := NewFetchEngine(twoGenreService(), nil)
		progress := make(chan ProgressUpdate) // unbuffered, no reader

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := engine.Fetch(context.Background(), []string{"Rock", "Pop"}, 20, progress); err != nil {
				t.Errorf("fetch failed: %v", err)
			}
		}()
		<-done
	})
}

func TestPhaseString(t *testing.T) {
	if SearchGenre.String() != "search_genre" {
		t.Errorf("unexpected phase name: %q", SearchGenre.String())
	}
	if FetchTracks.String() != "fetch_tracks" {
		t.Errorf("unexpected phase name: %q", FetchTracks.String())
	}
	if Phase(99).String() != "" {
		t.Errorf("expected empty name for unknown phase")
	}
}
