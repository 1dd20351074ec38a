// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/melodia-app/melodia/internal/models"
)

// MockService is a configurable test double for [services.Service].
// Unset function fields make the corresponding method return empty data.
type MockService struct {
	SearchPlaylistsFunc func(ctx context.Context, genre string, limit int) ([]models.Playlist, error)
	PlaylistTracksFunc  func(ctx context.Context, playlistID string) ([]models.Track, error)
}

func (m *MockService) SearchPlaylists(ctx context.Context, genre string, limit int) ([]models.Playlist, error) {
	if m.SearchPlaylistsFunc != nil {
		return m.SearchPlaylistsFunc(ctx, genre, limit)
	}
	return []models.Playlist{}, nil
}

func (m *MockService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.PlaylistTracksFunc != nil {
		return m.PlaylistTracksFunc(ctx, playlistID)
	}
	return []models.Track{}, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
