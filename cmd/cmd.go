// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// fetchCommand harvests genre playlists from Spotify.
func fetchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch genre playlists and their tracks from Spotify",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Genre to search (repeatable, defaults to the configured list)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum playlists per genre",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file for the fetched playlists",
				Value:   "playlists.json",
			},
		},
		Action: r.Fetch,
	}
}

// buildCommand tokenizes fetched playlists into the corpus database.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build the tokenized corpus from fetched playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Playlists file produced by fetch",
				Value:   "playlists.json",
			},
		},
		Action: r.Build,
	}
}

// trainCommand trains song embeddings over the stored corpus.
func trainCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Train song embeddings from the corpus",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "vector-size",
				Usage: "Embedding dimensionality",
			},
			&cli.IntFlag{
				Name:  "window",
				Usage: "Context window size",
			},
			&cli.IntFlag{
				Name:  "epochs",
				Usage: "Training epochs",
			},
			&cli.IntFlag{
				Name:  "min-count",
				Usage: "Minimum token frequency to embed",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Parallel training workers",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "RNG seed",
			},
			&cli.BoolFlag{
				Name:  "cbow",
				Usage: "Train with CBOW instead of skip-gram",
			},
		},
		Action: r.Train,
	}
}

// searchCommand looks up songs in the vocabulary.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the song vocabulary by partial name",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Search,
	}
}

// recommendCommand queries the trained model for similar songs.
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Recommend songs similar to a seed song",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   "Seed by vocabulary token instead of a name query",
			},
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"n"},
				Usage:   "Number of recommendations",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on ambiguous queries instead of picking the first match",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Recommend,
	}
}

// exportCommand writes recommendations or the vocabulary to files.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export data to CSV, Markdown or text files",
		Commands: []*cli.Command{
			{
				Name:    "recommendations",
				Aliases: []string{"rec"},
				Usage:   "Export recommendations for a seed song",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "token",
						Aliases: []string{"t"},
						Usage:   "Seed by vocabulary token instead of a name query",
					},
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Number of recommendations",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, md or txt",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.ExportRecommendations,
			},
			{
				Name:    "vocabulary",
				Aliases: []string{"vocab"},
				Usage:   "Export the song vocabulary as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "vocabulary.csv",
					},
				},
				Action: r.ExportVocabulary,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive discovery.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for song discovery",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"n"},
				Usage:   "Number of recommendations per song",
				Value:   10,
			},
		},
		Action: r.TUI,
	}
}
