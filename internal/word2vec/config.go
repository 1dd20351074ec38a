package word2vec

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds every recognized training option. Zero values are not
// usable; start from [DefaultConfig] and override.
type Config struct {
	VectorSize       int     `json:"vector_size" validate:"gt=0"`
	Window           int     `json:"window" validate:"gt=0"`
	MinCount         int     `json:"min_count" validate:"gte=1"`
	SkipGram         bool    `json:"skip_gram"`
	Negative         int     `json:"negative" validate:"gte=0"`
	SamplingExponent float64 `json:"sampling_exponent" validate:"gte=0,lte=1"`
	Epochs           int     `json:"epochs" validate:"gt=0"`
	Seed             int64   `json:"seed"`
	Alpha            float64 `json:"alpha" validate:"gt=0"`
	MinAlpha         float64 `json:"min_alpha" validate:"gte=0,ltefield=Alpha"`
	Workers          int     `json:"workers" validate:"gte=1"`
}

// DefaultConfig returns the tuning the recommender ships with: 128-wide
// skip-gram vectors, a 5-token window, 15 negative samples, 20 epochs.
func DefaultConfig() Config {
	return Config{
		VectorSize:       128,
		Window:           5,
		MinCount:         1,
		SkipGram:         true,
		Negative:         15,
		SamplingExponent: 0.75,
		Epochs:           20,
		Seed:             42,
		Alpha:            0.025,
		MinAlpha:         0.0001,
		Workers:          4,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate fails fast on an unusable configuration, before any training
// work begins.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid training config: %w", err)
	}
	return nil
}
