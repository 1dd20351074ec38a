// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
	"github.com/melodia-app/melodia/internal/models"
	"github.com/melodia-app/melodia/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify caps search pages at 50 items and track pages at 100.
	searchPageSize = 50
	trackPageSize  = 100
)

// requestsPerSecond keeps the client well under Spotify's rate limits.
const requestsPerSecond = 8

type spotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Popularity int             `json:"popularity"`
}

type trackTotals struct {
	Total int `json:"total"`
}

type spotifyPlaylist struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Owner  spotifyOwner `json:"owner"`
	Tracks trackTotals  `json:"tracks"`
}

type playlistPage struct {
	Items []*spotifyPlaylist `json:"items"`
	Next  *string            `json:"next"`
	Total int                `json:"total"`
}

type searchResponse struct {
	Playlists playlistPage `json:"playlists"`
}

type playlistItem struct {
	Track *spotifyTrack `json:"track"`
}

type tracksPage struct {
	Items []playlistItem `json:"items"`
	Next  *string        `json:"next"`
	Total int            `json:"total"`
}

// SpotifyService implements [Service] against the Spotify Web API using
// the client credentials flow. No user login is involved; the service
// only reads public catalog data.
type SpotifyService struct {
	client  *resty.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewSpotifyService builds an authenticated Spotify client. The token is
// fetched lazily on the first request and refreshed by [clientcredentials].
func NewSpotifyService(ctx context.Context, clientID, clientSecret string, logger *log.Logger) (*SpotifyService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	client := resty.NewWithClient(conf.Client(ctx)).SetBaseURL(spotifyBaseURL)

	return &SpotifyService{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		logger:  logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// get performs a rate-limited GET and decodes the JSON body into result.
func (s *SpotifyService) get(ctx context.Context, path string, query map[string]string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.IsError() {
		return fmt.Errorf("%w: %s returned status %d", shared.ErrAPIRequest, path, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	return nil
}

// SearchPlaylists queries for "Top <genre>" playlists and keeps the ones
// whose name actually mentions the genre, up to limit. Playlists owned by
// Spotify itself are flagged as official.
func (s *SpotifyService) SearchPlaylists(ctx context.Context, genre string, limit int) ([]models.Playlist, error) {
	if genre == "" {
		return nil, fmt.Errorf("%w: genre is required", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = searchPageSize
	}

	var response searchResponse
	query := map[string]string{
		"q":     "Top " + genre,
		"type":  "playlist",
		"limit": fmt.Sprintf("%d", searchPageSize),
	}
	if err := s.get(ctx, "/search", query, &response); err != nil {
		return nil, err
	}

	needle := strings.ToLower(genre)
	var playlists []models.Playlist

	for _, item := range response.Playlists.Items {
		// Search results may contain null entries for removed playlists.
		if item == nil {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}

		official := strings.Contains(strings.ToLower(item.Owner.ID), "spotify")
		playlists = append(playlists, models.Playlist{
			Name:       item.Name,
			ExternalID: item.ID,
			Genre:      genre,
			Official:   official,
		})

		if len(playlists) >= limit {
			break
		}
	}

	return playlists, nil
}

// PlaylistTracks walks every page of a playlist's tracks. Entries without
// a track object (removed or local files) are skipped. Names are cleaned
// of parenthesized qualifiers before they reach the caller.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrInvalidInput)
	}

	var tracks []models.Track
	offset := 0

	for {
		var page tracksPage
		query := map[string]string{
			"limit":  fmt.Sprintf("%d", trackPageSize),
			"offset": fmt.Sprintf("%d", offset),
		}
		if err := s.get(ctx, "/playlists/"+playlistID+"/tracks", query, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Track == nil {
				continue
			}

			artists := make([]string, 0, len(item.Track.Artists))
			for _, artist := range item.Track.Artists {
				artists = append(artists, CleanName(artist.Name))
			}

			tracks = append(tracks, models.Track{
				Name:       CleanName(item.Track.Name),
				Artists:    artists,
				Popularity: item.Track.Popularity,
				ExternalID: item.Track.ID,
			})
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += trackPageSize
	}

	if s.logger != nil {
		s.logger.Debug("fetched playlist tracks", "playlist", playlistID, "tracks", len(tracks))
	}

	return tracks, nil
}
