package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/melodia-app/melodia/internal/models"
	"github.com/melodia-app/melodia/internal/shared"
	tu "github.com/melodia-app/melodia/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner builds a Runner against a database in a temp directory,
// with quiet logging and captured output.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "melodia.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})
	return runner, output
}

// run executes a CLI invocation against the runner's registered commands.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "melodia", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"melodia"}, args...))
}

func writePlaylistsFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "playlists.json")
	data := `[
		{
			"playlist_name": "Top Rock",
			"genre": "Rock",
			"tracks": [
				{"song_name": "Shape of You", "artist_names": ["Ed Sheeran"]},
				{"song_name": "Despacito", "artist_names": ["Luis Fonsi", "Daddy Yankee"]},
				{"song_name": "", "artist_names": ["Nobody"]}
			]
		},
		{
			"playlist_name": "Top Pop",
			"genre": "Pop",
			"tracks": [
				{"song_name": "Despacito", "artist_names": ["Luis Fonsi", "Daddy Yankee"]},
				{"song_name": "El Sol", "artist_names": ["Ozuna"]},
				{"song_name": "Shape of You", "artist_names": ["Ed Sheeran"]}
			]
		}
	]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestNewRunner(t *testing.T) {
	t.Run("with all dependencies provided", func(t *testing.T) {
		config := shared.DefaultConfig()
		logger := shared.NewLogger(nil)
		output := &bytes.Buffer{}
		service := &tu.MockService{}

		runner := NewRunner(RunnerOpts{
			Config:  config,
			Logger:  logger,
			Output:  output,
			Service: service,
		})

		if runner.config != config {
			t.Error("expected config to be set")
		}
		if runner.logger != logger {
			t.Error("expected logger to be set")
		}
		if runner.output != output {
			t.Error("expected output to be set")
		}
		if runner.service != service {
			t.Error("expected service to be set")
		}
	})

	t.Run("with nil dependencies uses defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected default config to be set")
		}
		if runner.logger == nil {
			t.Error("expected default logger to be set")
		}
		if runner.output != os.Stdout {
			t.Error("expected output to default to os.Stdout")
		}
	})
}

func TestWriteHelpers(t *testing.T) {
	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"token": 1}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if got := output.String(); got != "{\"token\":1}\n" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("writeJSON pretty", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]int{"token": 1}, true); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if !strings.Contains(output.String(), "  \"token\": 1") {
			t.Errorf("expected indented output, got %q", output.String())
		}
	})

	t.Run("writePlain to failing writer", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})
		if err := runner.writePlain("hello"); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestPipeline(t *testing.T) {
	runner, output := newTestRunner(t)
	fixture := writePlaylistsFixture(t)

	t.Run("build", func(t *testing.T) {
		if err := run(t, runner, "build", "--input", fixture); err != nil {
			t.Fatalf("build failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Unique songs: 3") {
			t.Errorf("expected 3 unique songs in output:\n%s", got)
		}
		if !strings.Contains(got, "Skipped malformed tracks: 1") {
			t.Errorf("expected skipped track count in output:\n%s", got)
		}
	})

	t.Run("train", func(t *testing.T) {
		output.Reset()
		err := run(t, runner, "train",
			"--vector-size", "8", "--window", "2", "--epochs", "5", "--workers", "1")
		if err != nil {
			t.Fatalf("train failed: %v", err)
		}
		if !strings.Contains(output.String(), "Embedded songs: 3") {
			t.Errorf("expected all songs embedded:\n%s", output.String())
		}
	})

	t.Run("search", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "search", "despacito"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "Despacito") {
			t.Errorf("expected a match in output:\n%s", output.String())
		}
	})

	t.Run("search no match", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "search", "zzzz"); err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if !strings.Contains(output.String(), "No songs matching") {
			t.Errorf("expected empty result message:\n%s", output.String())
		}
	})

	t.Run("recommend by token", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "recommend", "--token", "1", "--top", "2"); err != nil {
			t.Fatalf("recommend failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Similar to Shape Of You") {
			t.Errorf("expected seed header in output:\n%s", got)
		}
		if !strings.Contains(got, "1. ") {
			t.Errorf("expected ranked results in output:\n%s", got)
		}
	})

	t.Run("recommend by query json", func(t *testing.T) {
		output.Reset()
		if err := run(t, runner, "recommend", "--json", "sol"); err != nil {
			t.Fatalf("recommend failed: %v", err)
		}
		if !strings.Contains(output.String(), "\"similarity\"") {
			t.Errorf("expected JSON output:\n%s", output.String())
		}
	})

	t.Run("recommend unknown query", func(t *testing.T) {
		output.Reset()
		err := run(t, runner, "recommend", "zzzz")
		if !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("export vocabulary", func(t *testing.T) {
		output.Reset()
		path := filepath.Join(t.TempDir(), "vocab.csv")
		if err := run(t, runner, "export", "vocabulary", "--output", path); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "Token,Song,Artist") {
			t.Errorf("expected CSV header in %q", content)
		}
	})

	t.Run("export recommendations", func(t *testing.T) {
		output.Reset()
		path := filepath.Join(t.TempDir(), "rec.csv")
		if err := run(t, runner, "export", "recommendations", "--token", "2", "--output", path, "--format", "csv"); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "Rank,Token,Song,Artist,Similarity") {
			t.Errorf("expected CSV header in %q", content)
		}
	})
}

func TestTrainWithoutCorpus(t *testing.T) {
	runner, _ := newTestRunner(t)
	if err := run(t, runner, "train"); !errors.Is(err, shared.ErrNoCorpus) {
		t.Errorf("expected ErrNoCorpus, got %v", err)
	}
}

func TestRecommendWithoutModel(t *testing.T) {
	runner, _ := newTestRunner(t)
	fixture := writePlaylistsFixture(t)

	if err := run(t, runner, "build", "--input", fixture); err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if err := run(t, runner, "recommend", "--token", "1"); !errors.Is(err, shared.ErrNoModel) {
		t.Errorf("expected ErrNoModel, got %v", err)
	}
}

func TestFetchWithoutService(t *testing.T) {
	runner, _ := newTestRunner(t)
	if err := run(t, runner, "fetch"); !errors.Is(err, shared.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestFetch(t *testing.T) {
	runner, output := newTestRunner(t)
	runner.service = &tu.MockService{
		SearchPlaylistsFunc: func(ctx context.Context, genre string, limit int) ([]models.Playlist, error) {
			return []models.Playlist{
				{Name: "Top " + genre, ExternalID: "p1", Genre: genre},
			}, nil
		},
		PlaylistTracksFunc: func(ctx context.Context, playlistID string) ([]models.Track, error) {
			return []models.Track{{Name: "Shape of You", Artists: []string{"Ed Sheeran"}}}, nil
		},
	}

	outPath := filepath.Join(t.TempDir(), "playlists.json")
	if err := run(t, runner, "fetch", "--genre", "Rock", "--limit", "3", "--output", outPath); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	tu.AssertFileExists(t, outPath)
	if content := tu.MustReadFile(t, outPath); !strings.Contains(content, "Shape of You") {
		t.Errorf("expected fetched tracks in playlists file, got %s", content)
	}

	got := output.String()
	summary := strings.Index(got, "Fetch Complete")
	if summary == -1 {
		t.Fatalf("expected summary header in output, got %q", got)
	}

	// All progress lines must be flushed before the summary header.
	for _, marker := range []string{"🔍", "✓"} {
		if last := strings.LastIndex(got, marker); last > summary {
			t.Errorf("progress line %q printed after summary header", marker)
		}
	}
}
