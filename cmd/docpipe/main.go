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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/embed"
	"github.com/poiesic/docpipe/extract"
	"github.com/poiesic/docpipe/pipeline"
	"github.com/poiesic/docpipe/storage"
	"github.com/poiesic/docpipe/storage/badger"
	"github.com/poiesic/docpipe/vector/qdrant"
)

func main() {
	app := &cli.App{
		Name:  "docpipe",
		Usage: "Multi-tenant PDF ingestion pipeline for vector search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Register a PDF and run the full ingestion pipeline",
				Action: ingestCommand,
				Flags: append(pipelineFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the PDF inside the tenant's upload directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title carried into vector payloads",
					},
					&cli.StringFlag{
						Name:  "author",
						Usage: "Document author",
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Document tag (repeatable)",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document type label",
					},
					&cli.StringFlag{
						Name:  "uploaded-by",
						Usage: "User the upload is attributed to",
					},
				),
			},
			{
				Name:   "retry",
				Usage:  "Re-run the pipeline for a failed document from stage 1",
				Action: retryCommand,
				Flags: append(pipelineFlags(),
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "Document ID",
						Required: true,
					},
				),
			},
			{
				Name:   "progress",
				Usage:  "Read the progress snapshot for a document",
				Action: progressCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "Document ID",
						Required: true,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List a tenant's documents",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag(),
					tenantFlag(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (pending, processing, completed, failed)",
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Delete a document and, if it completed, its index points",
				Action: deleteCommand,
				Flags: []cli.Flag{
					dbFlag(),
					tenantFlag(),
					&cli.StringFlag{
						Name:     "doc",
						Usage:    "Document ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "qdrant-host",
						Usage: "Qdrant host",
						Value: "localhost",
					},
					&cli.IntFlag{
						Name:  "qdrant-port",
						Usage: "Qdrant gRPC port",
						Value: 6334,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func tenantFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "tenant",
		Aliases:  []string{"t"},
		Usage:    "Tenant ID",
		Required: true,
	}
}

// pipelineFlags are the flags shared by every command that runs the chain.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag(),
		tenantFlag(),
		&cli.StringFlag{
			Name:     "upload-dir",
			Usage:    "Root of tenant-isolated file storage",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "embedding-backend",
			Usage: "Embedding backend (ollama, local)",
			Value: "ollama",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "nomic-embed-text",
		},
		&cli.DurationFlag{
			Name:  "embedding-timeout",
			Usage: "Per-request timeout for embedding calls",
			Value: 30 * time.Second,
		},
		&cli.StringFlag{
			Name:  "qdrant-host",
			Usage: "Qdrant host",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant gRPC port",
			Value: 6334,
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: "Worker pool size (0 uses the default)",
		},
		&cli.BoolFlag{
			Name:  "no-ocr",
			Usage: "Disable OCR fallback for scanned pages",
		},
	}
}

// runtimeEnv bundles everything a pipeline-running command needs.
type runtimeEnv struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	progress  storage.ProgressStore
	pipeline  *pipeline.Pipeline
}

func (e *runtimeEnv) close() {
	e.pipeline.Release()
	e.documents.Close()
	e.progress.Close()
	e.backend.Close()
}

func buildRuntime(c *cli.Context) (*runtimeEnv, error) {
	if err := extract.CheckAvailable(); err != nil {
		return nil, fmt.Errorf("%w\n%s", err, extract.InstallInstructions())
	}

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create document repository: %w", err)
	}

	progress, err := badger.NewProgressStore(backend)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create progress store: %w", err)
	}

	extractOpts := []extract.Option{}
	if !c.Bool("no-ocr") {
		if err := extract.CheckOCRAvailable(); err != nil {
			slog.Warn("ocr unavailable, scanned pages will be skipped", "err", err)
		} else {
			extractOpts = append(extractOpts, extract.WithOCR(extract.NewTesseractOCR()))
		}
	}

	extractor, err := extract.NewExtractor(c.String("upload-dir"), extractOpts...)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	embedConfig := embed.NewConfig(
		embed.WithBackend(embed.Backend(c.String("embedding-backend"))),
		embed.WithHost(c.String("embedding-host")),
		embed.WithModel(c.String("embedding-model")),
		embed.WithRequestTimeout(c.Duration("embedding-timeout")),
	)
	embedder, err := embed.New(embedConfig)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	writer, err := qdrant.NewWriter(c.String("qdrant-host"), c.Int("qdrant-port"))
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create vector writer: %w", err)
	}

	pipeOpts := []pipeline.Option{}
	if size := c.Int("pool-size"); size > 0 {
		pipeOpts = append(pipeOpts, pipeline.WithPoolSize(size))
	}

	p, err := pipeline.NewPipeline(documents, progress, extractor, embedder, writer, pipeOpts...)
	if err != nil {
		writer.Close()
		backend.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	return &runtimeEnv{
		backend:   backend,
		documents: documents,
		progress:  progress,
		pipeline:  p,
	}, nil
}

func ingestCommand(c *cli.Context) error {
	env, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	tenantID := c.String("tenant")
	filePath := c.String("file")

	doc := &core.Document{
		ID:           core.DocumentID(tenantID, filePath),
		TenantID:     tenantID,
		FilePath:     filePath,
		Status:       core.StatusPending,
		Title:        c.String("title"),
		Filename:     filepath.Base(filePath),
		Author:       c.String("author"),
		Tags:         c.StringSlice("tag"),
		DocumentType: c.String("type"),
		UploadedBy:   c.String("uploaded-by"),
	}

	if _, err := env.documents.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to register document: %w", err)
	}

	runID, err := env.pipeline.Enqueue(ctx, tenantID, doc.ID, filePath)
	if err != nil {
		return fmt.Errorf("failed to enqueue pipeline: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Document: %s\n", doc.ID)
	fmt.Fprintf(os.Stderr, "Run: %s\n", runID)

	return waitForRun(ctx, env, doc.ID)
}

func retryCommand(c *cli.Context) error {
	env, err := buildRuntime(c)
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	docID := c.String("doc")

	runID, err := env.pipeline.Retry(ctx, c.String("tenant"), docID)
	if err != nil {
		return fmt.Errorf("retry failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Run: %s\n", runID)

	return waitForRun(ctx, env, docID)
}

// waitForRun polls document status until the run reaches a terminal state,
// echoing progress along the way. The CLI plays the surrounding system's
// role here; the pipeline itself is fire-and-forget.
func waitForRun(ctx context.Context, env *runtimeEnv, docID string) error {
	lastStep := ""
	for {
		progress := env.pipeline.GetProgress(ctx, docID)
		if progress.Step != lastStep {
			fmt.Fprintf(os.Stderr, "%3d%% %s\n", progress.Percent, progress.Step)
			lastStep = progress.Step
		}

		doc, err := env.documents.GetDocument(ctx, docID)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}

		switch doc.Status {
		case core.StatusCompleted:
			fmt.Fprintf(os.Stderr, "Completed: %d chunks indexed\n", doc.TotalChunks)
			return nil
		case core.StatusFailed:
			return fmt.Errorf("pipeline failed: %s", doc.ErrorMessage)
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func progressCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	store, err := badger.NewProgressStore(backend)
	if err != nil {
		return fmt.Errorf("failed to create progress store: %w", err)
	}
	defer store.Close()

	progress, err := store.GetProgress(context.Background(), c.String("doc"))
	if err != nil {
		return fmt.Errorf("failed to read progress: %w", err)
	}

	fmt.Printf("%d%% %s", progress.Percent, progress.Step)
	if progress.Error != "" {
		fmt.Printf(" (%s)", progress.Error)
	}
	fmt.Println()
	return nil
}

func listCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create document repository: %w", err)
	}
	defer documents.Close()

	docs, err := documents.GetDocumentsByTenant(context.Background(), c.String("tenant"))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	statusFilter := c.String("status")
	if statusFilter != "" {
		if err := core.ValidateStatus(core.ProcessingStatus(statusFilter)); err != nil {
			return err
		}
	}

	for _, doc := range docs {
		if statusFilter != "" && string(doc.Status) != statusFilter {
			continue
		}
		fmt.Printf("%s\t%s\t%d\t%s\n", doc.ID, doc.Status, doc.TotalChunks, doc.Filename)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create document repository: %w", err)
	}
	defer documents.Close()

	ctx := context.Background()
	tenantID := c.String("tenant")
	docID := c.String("doc")

	doc, err := documents.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if doc.TenantID != tenantID {
		return storage.ErrNotFound
	}

	if err := documents.DeleteDocument(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	// Only completed documents have index points worth cleaning up.
	if doc.Status == core.StatusCompleted {
		writer, err := qdrant.NewWriter(c.String("qdrant-host"), c.Int("qdrant-port"))
		if err != nil {
			return fmt.Errorf("document deleted, but vector cleanup failed: %w", err)
		}
		defer writer.Close()

		if err := writer.DeleteDocument(ctx, tenantID, docID); err != nil {
			return fmt.Errorf("document deleted, but vector cleanup failed: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Deleted document and index points")
		return nil
	}

	fmt.Fprintln(os.Stderr, "Deleted document")
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
