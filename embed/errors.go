package embed

import "errors"

var (
	// ErrConfigRequired is returned when no configuration is provided.
	ErrConfigRequired = errors.New("embedding config required")

	// ErrUnknownBackend is returned for a Backend value that is neither
	// ollama nor local.
	ErrUnknownBackend = errors.New("unknown embedding backend")

	// ErrHostRequired is returned when the backend host is empty.
	ErrHostRequired = errors.New("embedding host required")

	// ErrModelRequired is returned when the model identifier is empty.
	ErrModelRequired = errors.New("embedding model required")

	// ErrTimeoutRequired is returned when the request timeout is not positive.
	ErrTimeoutRequired = errors.New("request timeout must be positive")
)
