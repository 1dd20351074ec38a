// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for song discovery:
//  1. [SearchView] : Type a partial song name to query the vocabulary
//  2. [CandidateView] : Pick the intended song when several match
//  3. [ResultView] : Browse ranked recommendations for the selected song
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Recommendations are computed off the Update loop via tea.Cmd so keystrokes stay responsive.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
