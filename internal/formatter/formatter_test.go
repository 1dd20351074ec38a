package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/melodia-app/melodia/internal/recommend"
	"github.com/melodia-app/melodia/internal/vocab"
)

func sampleRecommendation() *recommend.Recommendation {
	return &recommend.Recommendation{
		Seed: vocab.Entry{Token: 1, Song: "shape of you", Artist: "ed sheeran"},
		Results: []recommend.Result{
			{Token: 2, Song: "despacito", Artist: "luis fonsi, daddy yankee", Score: 0.91234},
			{Token: 3, Song: "el sol", Artist: "ozuna", Score: 0.8},
		},
		Candidates: []vocab.Entry{
			{Token: 1, Song: "shape of you", Artist: "ed sheeran"},
			{Token: 4, Song: "shape of my heart", Artist: "sting"},
		},
	}
}

func sampleVocabulary() *vocab.Store {
	store := vocab.NewStore()
	store.GetOrCreate("shape of you - ed sheeran", "shape of you", "ed sheeran")
	store.GetOrCreate("despacito - luis fonsi, daddy yankee", "despacito", "luis fonsi, daddy yankee")
	return store
}

func TestRecommendationsToCSV(t *testing.T) {
	data, err := RecommendationsToCSV(sampleRecommendation())
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}

	if lines[0] != "Rank,Token,Song,Artist,Similarity" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Despacito") {
		t.Errorf("expected title-cased song name, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "0.9123") {
		t.Errorf("expected formatted score, got %q", lines[1])
	}
}

func TestRecommendationsToText(t *testing.T) {
	text := string(RecommendationsToText(sampleRecommendation()))

	if !strings.Contains(text, "Seed: Shape Of You - Ed Sheeran (token 1)") {
		t.Errorf("missing seed line in:\n%s", text)
	}
	if !strings.Contains(text, "1. Despacito - Luis Fonsi, Daddy Yankee [0.9123]") {
		t.Errorf("missing first result in:\n%s", text)
	}
	if !strings.Contains(text, "2. El Sol - Ozuna [0.8000]") {
		t.Errorf("missing second result in:\n%s", text)
	}
}

func TestRecommendationsToMarkdown(t *testing.T) {
	md := string(RecommendationsToMarkdown(sampleRecommendation()))

	if !strings.Contains(md, "# Recommendations for Shape Of You") {
		t.Errorf("missing title in:\n%s", md)
	}
	if !strings.Contains(md, "| 1 | Despacito |") {
		t.Errorf("missing table row in:\n%s", md)
	}
	if !strings.Contains(md, "## Other matches for the query") {
		t.Errorf("missing candidates section in:\n%s", md)
	}

	t.Run("SingleCandidateOmitsSection", func(t *testing.T) {
		rec := sampleRecommendation()
		rec.Candidates = rec.Candidates[:1]
		md := string(RecommendationsToMarkdown(rec))
		if strings.Contains(md, "Other matches") {
			t.Error("unexpected candidates section for a single match")
		}
	})
}

func TestVocabularyToCSV(t *testing.T) {
	data, err := VocabularyToCSV(sampleVocabulary())
	if err != nil {
		t.Fatalf("failed to generate CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "Token,Song,Artist" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,Shape Of You,") {
		t.Errorf("unexpected first record: %q", lines[1])
	}
}

func TestWriteRecommendationsExport(t *testing.T) {
	t.Run("WritesCSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")
		written, err := WriteRecommendationsExport(sampleRecommendation(), path, "csv")
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if written != path {
			t.Errorf("expected path %q, got %q", path, written)
		}
	})

	t.Run("DefaultsToTokenFilename", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		written, err := WriteRecommendationsExport(sampleRecommendation(), "", "txt")
		if err != nil {
			t.Fatalf("export failed: %v", err)
		}
		if written != "recommendations_1.txt" {
			t.Errorf("unexpected default filename: %q", written)
		}
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		if _, err := WriteRecommendationsExport(sampleRecommendation(), "", "xml"); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestWriteVocabularyExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.csv")
	written, err := WriteVocabularyExport(sampleVocabulary(), path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if written != path {
		t.Errorf("expected path %q, got %q", path, written)
	}
}
