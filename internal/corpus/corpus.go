// package corpus converts raw playlists into tokenized training sequences,
// building the vocabulary as a side effect.
//
// Token assignment is strictly sequential: the builder runs single-threaded
// because assignment order determines token identity, and two builds over
// the same input must produce identical vocabularies.
package corpus

import (
	"github.com/charmbracelet/log"
	"github.com/melodia-app/melodia/internal/models"
	"github.com/melodia-app/melodia/internal/vocab"
)

// Result holds the output of one corpus build: the tokenized playlists in
// input order and the finalized vocabulary.
type Result struct {
	// Playlists has one entry per input playlist, in input order. A
	// playlist whose every track was malformed yields an empty sequence
	// rather than being dropped, so indexes stay aligned with the source.
	Playlists [][]int

	// Names carries each input playlist's name, aligned with Playlists.
	Names []string

	Vocab *vocab.Store

	// TotalTracks counts tokens emitted; Skipped counts malformed track
	// records dropped individually.
	TotalTracks int
	Skipped     int
}

// Build tokenizes playlists in order. For each valid track it derives the
// normalized song key and asks the vocabulary for its token, reusing tokens
// for repeats (including repeats within one playlist, which count toward
// co-occurrence). Malformed tracks are logged and skipped without aborting
// the playlist.
func Build(playlists []models.Playlist, logger *log.Logger) *Result {
	result := &Result{
		Playlists: make([][]int, 0, len(playlists)),
		Names:     make([]string, 0, len(playlists)),
		Vocab:     vocab.NewStore(),
	}

	for _, playlist := range playlists {
		tokens := make([]int, 0, len(playlist.Tracks))

		for _, track := range playlist.Tracks {
			if !track.Valid() {
				result.Skipped++
				if logger != nil {
					logger.Warn("skipping malformed track", "playlist", playlist.Name, "song", track.Name)
				}
				continue
			}

			key := vocab.Key(track.Name, track.Artists)
			token := result.Vocab.GetOrCreate(key, track.Name, track.ArtistLine())
			tokens = append(tokens, token)
			result.TotalTracks++
		}

		result.Playlists = append(result.Playlists, tokens)
		result.Names = append(result.Names, playlist.Name)
	}

	return result
}
