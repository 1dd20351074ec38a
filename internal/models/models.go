// package models defines the raw playlist shapes exchanged between the
// data-acquisition layer and the corpus builder.
package models

import "strings"

// Track is a raw track record as supplied by a data source. Name and
// Artists are the only fields the corpus builder consumes; Popularity and
// ExternalID travel along for dataset exports.
type Track struct {
	Name       string   `json:"song_name"`
	Artists    []string `json:"artist_names"`
	Popularity int      `json:"popularity,omitempty"`
	ExternalID string   `json:"external_id,omitempty"`
}

// ArtistLine joins the track's artist names with ", " preserving source
// casing, the display form used throughout the UI and exports.
func (t Track) ArtistLine() string {
	return strings.Join(t.Artists, ", ")
}

// Valid reports whether the track carries enough data to be tokenized.
// Tracks without a name or without any artist are skipped individually
// during corpus building.
func (t Track) Valid() bool {
	return strings.TrimSpace(t.Name) != "" && len(t.Artists) > 0
}

// Playlist is an ordered sequence of raw tracks from one source playlist.
type Playlist struct {
	Name       string  `json:"playlist_name"`
	ExternalID string  `json:"external_id,omitempty"`
	Genre      string  `json:"genre,omitempty"`
	Official   bool    `json:"official,omitempty"`
	Tracks     []Track `json:"tracks"`
}
