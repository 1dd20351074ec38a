package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/melodia-app/melodia/internal/recommend"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/vocab"
)

var (
	_ list.Item = songItem{}
	_ list.Item = resultItem{}
)

// songItem wraps [vocab.Entry] to implement [list.Item].
type songItem struct {
	entry vocab.Entry
}

func (i songItem) FilterValue() string { return i.entry.Song }
func (i songItem) Title() string       { return shared.DisplayTitle(i.entry.Song) }
func (i songItem) Description() string {
	return fmt.Sprintf("%s • token %d", shared.DisplayTitle(i.entry.Artist), i.entry.Token)
}

// resultItem wraps [recommend.Result] to implement [list.Item].
type resultItem struct {
	rank   int
	result recommend.Result
}

func (i resultItem) FilterValue() string { return i.result.Song }
func (i resultItem) Title() string {
	return fmt.Sprintf("%d. %s", i.rank, shared.DisplayTitle(i.result.Song))
}
func (i resultItem) Description() string {
	return fmt.Sprintf("%s • similarity %.4f", shared.DisplayTitle(i.result.Artist), i.result.Score)
}
