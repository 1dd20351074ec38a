package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Query errors, recoverable at the caller boundary
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrAmbiguousQuery   = fmt.Errorf("query matched multiple songs")
	ErrUnknownToken     = fmt.Errorf("token not in vocabulary")
	ErrTokenNotEmbedded = fmt.Errorf("token has no trained embedding")

	// Artifact errors
	ErrDataIntegrity = fmt.Errorf("vocabulary and embeddings out of sync")
	ErrNoCorpus      = fmt.Errorf("no tokenized corpus available")
	ErrNoModel       = fmt.Errorf("no trained model available")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
