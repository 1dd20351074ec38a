// package services defines interface Service for interacting with HTTP APIs
//
// Spotify (client credentials flow)
package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/melodia-app/melodia/internal/models"
)

// Service defines the interface for music catalog providers that can
// search playlists by genre and list the tracks of a playlist.
type Service interface {
	// SearchPlaylists finds up to limit playlists matching a genre.
	SearchPlaylists(ctx context.Context, genre string, limit int) ([]models.Playlist, error)

	// PlaylistTracks retrieves every track of a playlist, following pagination.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

var (
	parenPattern = regexp.MustCompile(`\s*\([^)]*\)`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// CleanName strips parenthesized qualifiers like "(feat. X)" or
// "(Remastered 2011)" from a track or artist name and collapses the
// leftover whitespace.
func CleanName(name string) string {
	cleaned := parenPattern.ReplaceAllString(name, "")
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
