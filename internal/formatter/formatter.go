// package formatter provides functions to export recommendation and
// vocabulary data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/melodia-app/melodia/internal/recommend"
	"github.com/melodia-app/melodia/internal/shared"
	"github.com/melodia-app/melodia/internal/vocab"
)

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}

// RecommendationsToCSV converts a recommendation to CSV with columns:
// Rank, Token, Song, Artist, Similarity
func RecommendationsToCSV(rec *recommend.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Token", "Song", "Artist", "Similarity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, result := range rec.Results {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(result.Token),
			shared.DisplayTitle(result.Song),
			shared.DisplayTitle(result.Artist),
			formatScore(result.Score),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RecommendationsToText converts a recommendation to plain text format
func RecommendationsToText(rec *recommend.Recommendation) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Seed: %s - %s (token %d)\n",
		shared.DisplayTitle(rec.Seed.Song), shared.DisplayTitle(rec.Seed.Artist), rec.Seed.Token))
	buf.WriteString(fmt.Sprintf("Recommendations: %d\n\n", len(rec.Results)))

	for i, result := range rec.Results {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n",
			i+1, shared.DisplayTitle(result.Song), shared.DisplayTitle(result.Artist), formatScore(result.Score)))
	}

	return buf.Bytes()
}

// RecommendationsToMarkdown converts a recommendation to Markdown format
func RecommendationsToMarkdown(rec *recommend.Recommendation) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Recommendations for %s\n\n", shared.DisplayTitle(rec.Seed.Song)))
	buf.WriteString(fmt.Sprintf("**Artist**: %s\n", shared.DisplayTitle(rec.Seed.Artist)))
	buf.WriteString(fmt.Sprintf("**Results**: %d\n\n", len(rec.Results)))

	buf.WriteString("| # | Song | Artist | Similarity |\n")
	buf.WriteString("|---|------|--------|------------|\n")
	for i, result := range rec.Results {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n",
			i+1, shared.DisplayTitle(result.Song), shared.DisplayTitle(result.Artist), formatScore(result.Score)))
	}

	if len(rec.Candidates) > 1 {
		buf.WriteString("\n## Other matches for the query\n\n")
		for _, candidate := range rec.Candidates {
			buf.WriteString(fmt.Sprintf("- %s - %s (token %d)\n",
				shared.DisplayTitle(candidate.Song), shared.DisplayTitle(candidate.Artist), candidate.Token))
		}
	}

	return buf.Bytes()
}

// VocabularyToCSV converts the song vocabulary to CSV with columns:
// Token, Song, Artist
func VocabularyToCSV(store *vocab.Store) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Token", "Song", "Artist"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, entry := range store.Entries() {
		record := []string{
			strconv.Itoa(entry.Token),
			shared.DisplayTitle(entry.Song),
			shared.DisplayTitle(entry.Artist),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteRecommendationsExport writes a recommendation to a file in the
// given format ("csv", "md" or "txt"). An empty path defaults to
// recommendations_<token>.<format>.
func WriteRecommendationsExport(rec *recommend.Recommendation, path, format string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "csv":
		data, err = RecommendationsToCSV(rec)
		ext = "csv"
	case "md", "markdown":
		data = RecommendationsToMarkdown(rec)
		ext = "md"
	case "txt", "text", "":
		data = RecommendationsToText(rec)
		ext = "txt"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidInput, format)
	}
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("recommendations_%d.%s", rec.Seed.Token, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// WriteVocabularyExport writes the vocabulary to a CSV file.
// An empty path defaults to vocabulary.csv.
func WriteVocabularyExport(store *vocab.Store, path string) (string, error) {
	data, err := VocabularyToCSV(store)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "vocabulary.csv"
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
