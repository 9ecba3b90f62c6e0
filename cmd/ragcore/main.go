// Copyright 2025 Arkival Labs
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/arkival/ragcore"
	"github.com/arkival/ragcore/ai"
	"github.com/arkival/ragcore/ai/openai"
	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/fetch"
	"github.com/arkival/ragcore/ingestion"
	"github.com/arkival/ragcore/search"
)

func main() {
	app := &cli.App{
		Name:  "ragcore",
		Usage: "Hybrid knowledge search and RAG context engine",
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
				Name:      "ingest",
				Usage:     "Ingest a JSON file of raw items into the knowledge base",
				ArgsUsage: "FILE",
				Action:    ingestCommand,
				Flags:     append(dbFlags(), embeddingFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
					&cli.Float64Flag{
						Name:  "min-quality",
						Usage: "Minimum aggregate quality score in [0,1]",
						Value: search.DefaultMinQuality,
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "Restrict to document types (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "source",
						Usage: "Restrict to source types (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "keyword-only",
						Usage: "Disable the semantic leg of the search",
					},
				),
			},
			{
				Name:      "rag",
				Usage:     "Generate a RAG context for a query",
				ArgsUsage: "QUERY",
				Action:    ragCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.StringFlag{
						Name:  "role",
						Usage: "Role hint to address the narrative to",
					},
				),
			},
			{
				Name:      "fetch",
				Usage:     "Fetch external knowledge from a source directory and ingest it",
				ArgsUsage: "QUERY",
				Action:    fetchCommand,
				Flags: append(append(dbFlags(), embeddingFlags()...),
					&cli.StringFlag{
						Name:     "dir",
						Usage:    "Directory of JSON item files to fetch from",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "fetch-source",
						Usage: "Source type the directory represents",
						Value: string(core.SourceDocumentation),
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (falls back to the hash embedder when unset)",
		},
	}
}

// openEngine builds an engine from the shared flags. Without an embedding
// model the deterministic hash embedder is used, so the CLI works with no
// services running.
func openEngine(c *cli.Context, extra ...ragcore.EngineOption) (*ragcore.Engine, error) {
	opts := extra

	if model := c.String("embedding-model"); model != "" {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(model),
		)
		embedder, err := openai.NewEmbedder(aiConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		opts = append(opts, ragcore.WithEmbedder(embedder))
	}

	engine, err := ragcore.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return engine, nil
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("query argument is required")
	}
	return query, nil
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("file argument is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var items []ingestion.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx := context.Background()
	docs, err := engine.IngestItems(ctx, items...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingested %d of %d items\n", len(docs), len(items))
	return nil
}

func searchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	opts := search.DefaultOptions()
	opts.Limit = c.Int("limit")
	opts.MinQuality = c.Float64("min-quality")
	opts.Hybrid = !c.Bool("keyword-only")

	for _, t := range c.StringSlice("type") {
		docType := core.DocumentType(t)
		if err := core.ValidateDocumentType(docType); err != nil {
			return err
		}
		opts.Types = append(opts.Types, docType)
	}
	for _, s := range c.StringSlice("source") {
		source := core.SourceType(s)
		if err := core.ValidateSourceType(source); err != nil {
			return err
		}
		opts.Sources = append(opts.Sources, source)
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.SearchKnowledge(context.Background(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		fmt.Printf("%2d. [%.3f] (%s) %s\n", i+1, r.Score, r.MatchType, r.Document.Title)
		fmt.Printf("    %s | %s\n", r.Document.Source, r.Explanation)
		for _, h := range r.Highlights {
			fmt.Printf("    > %s\n", h)
		}
	}
	return nil
}

func ragCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	ragCtx, err := engine.GenerateRAGContext(context.Background(), query, c.String("role"))
	if err != nil {
		return fmt.Errorf("context generation failed: %w", err)
	}

	fmt.Println(ragCtx.Narrative)
	fmt.Printf("\nConfidence: %.2f\n", ragCtx.Confidence)
	if len(ragCtx.Citations) > 0 {
		fmt.Println("Citations:")
		for _, citation := range ragCtx.Citations {
			fmt.Printf("  - %s\n", citation)
		}
	}
	return nil
}

func fetchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	source := core.SourceType(c.String("fetch-source"))
	fetcher, err := fetch.NewFileFetcher(c.String("dir"), source)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	engine, err := openEngine(c, ragcore.WithFetcher(fetcher))
	if err != nil {
		return err
	}
	defer engine.Close()

	docs, err := engine.FetchExternalKnowledge(context.Background(), query, source)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Fetched and ingested %d documents\n", len(docs))
	for _, doc := range docs {
		fmt.Printf("  %d  %s\n", doc.Id, doc.Title)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
