// Package embed converts chunk text into fixed-dimension embedding vectors.
//
// Two backends sit behind the Embedder interface: a remote Ollama inference
// server and a local OpenAI-compatible model service. The backend is chosen
// by configuration at construction time, never by the caller. Both
// implementations preserve index correspondence between input texts and
// output vectors and fail the whole batch on any single error.
package embed
