package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Fetch       FetchConfig       `toml:"fetch"`
	Training    TrainingConfig    `toml:"training"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials for the client
// credentials flow.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FetchConfig controls playlist acquisition from Spotify.
type FetchConfig struct {
	Genres        []string `toml:"genres"`
	PlaylistLimit int      `toml:"playlist_limit"`
}

// TrainingConfig mirrors the embedding trainer's options as a TOML section.
// The trainer owns validation; this is the file-facing shape.
type TrainingConfig struct {
	VectorSize       int     `toml:"vector_size"`
	Window           int     `toml:"window"`
	MinCount         int     `toml:"min_count"`
	SkipGram         bool    `toml:"skip_gram"`
	Negative         int     `toml:"negative"`
	SamplingExponent float64 `toml:"sampling_exponent"`
	Epochs           int     `toml:"epochs"`
	Seed             int64   `toml:"seed"`
	Alpha            float64 `toml:"alpha"`
	MinAlpha         float64 `toml:"min_alpha"`
	Workers          int     `toml:"workers"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvCredentials overlays Spotify credentials from the environment,
// loading a .env file first if one exists. Environment values win over the
// TOML file, matching the scraper convention the dataset tooling uses.
func LoadEnvCredentials(config *Config) {
	_ = godotenv.Load()

	if id := os.Getenv("SPOTIFY_CLIENT_ID"); id != "" {
		config.Credentials.Spotify.ClientID = id
	}
	if secret := os.Getenv("SPOTIFY_CLIENT_SECRET"); secret != "" {
		config.Credentials.Spotify.ClientSecret = secret
	}
}
