// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package embed

import (
	"fmt"
	"time"
)

// Backend identifies which embedding service a client talks to.
type Backend string

const (
	// BackendOllama is a remote Ollama inference server.
	BackendOllama Backend = "ollama"

	// BackendLocal is a local OpenAI-compatible model service.
	BackendLocal Backend = "local"
)

// Config holds configuration for embedding clients. The backend is selected
// here, by configuration, never by the caller of the Embedder.
type Config struct {
	// Backend selects the embedding service implementation.
	Backend Backend

	// Host is the base URL of the selected backend.
	// Example: "http://localhost:11434" for Ollama,
	// "http://localhost:8000/v1" for a local OpenAI-compatible service.
	Host string

	// Model is the embedding model identifier.
	// Example: "nomic-embed-text", "all-MiniLM-L6-v2"
	Model string

	// RequestTimeout bounds each call to the backend. A timeout is a hard
	// failure of the embedding stage; recovery happens through the
	// pipeline's retry operation, not here.
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the embedding backend.
func WithBackend(backend Backend) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithHost sets the backend base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the embedding model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithRequestTimeout sets the per-call timeout.
func WithRequestTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// DefaultConfig returns a Config pointing at a local Ollama server.
func DefaultConfig() *Config {
	return &Config{
		Backend:        BackendOllama,
		Host:           "http://localhost:11434",
		Model:          "nomic-embed-text",
		RequestTimeout: 30 * time.Second,
	}
}

// NewConfig creates a Config with defaults and applies the given options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}
	switch c.Backend {
	case BackendOllama, BackendLocal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	if c.Host == "" {
		return ErrHostRequired
	}
	if c.Model == "" {
		return ErrModelRequired
	}
	if c.RequestTimeout <= 0 {
		return ErrTimeoutRequired
	}
	return nil
}
