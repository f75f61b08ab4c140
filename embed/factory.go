package embed

// New creates the Embedder selected by the configuration. Callers receive
// the backend-agnostic interface and never choose an implementation
// themselves.
func New(config *Config) (Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Backend {
	case BackendLocal:
		return NewLocalEmbedder(config)
	default:
		return NewOllamaEmbedder(config)
	}
}
