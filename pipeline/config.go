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


package pipeline

import (
	"time"

	"github.com/poiesic/docpipe/chunk"
)

// StageLimits holds the execution time ceilings for one stage. Soft is the
// context deadline handed to the stage so it can return and record failure;
// Hard is the wall-clock bound after which the stage is abandoned.
type StageLimits struct {
	Soft time.Duration
	Hard time.Duration
}

// Config holds pipeline tuning parameters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int

	// ProgressTTL bounds the lifetime of progress snapshots.
	ProgressTTL time.Duration

	ExtractLimits StageLimits
	ChunkLimits   StageLimits
	EmbedLimits   StageLimits
	UpsertLimits  StageLimits
}

// DefaultConfig returns the standard pipeline configuration. The stage
// ceilings reflect expected stage cost: embedding dominates, extraction and
// the vector write are network or subprocess bound, chunking is CPU only.
func DefaultConfig() Config {
	return Config{
		ChunkSize:     chunk.DefaultSize,
		ChunkOverlap:  chunk.DefaultOverlap,
		ProgressTTL:   time.Hour,
		ExtractLimits: StageLimits{Soft: 540 * time.Second, Hard: 600 * time.Second},
		ChunkLimits:   StageLimits{Soft: 270 * time.Second, Hard: 300 * time.Second},
		EmbedLimits:   StageLimits{Soft: 1700 * time.Second, Hard: 1800 * time.Second},
		UpsertLimits:  StageLimits{Soft: 540 * time.Second, Hard: 600 * time.Second},
	}
}
