// Copyright 2025 Synapse Labs
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
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/synapselabs/synapse"
	"github.com/synapselabs/synapse/ai"
	"github.com/synapselabs/synapse/core"
	"github.com/synapselabs/synapse/extraction"
	"github.com/synapselabs/synapse/reembed"
	"github.com/synapselabs/synapse/search"
)

func main() {
	app := &cli.App{
		Name:  "synapse",
		Usage: "Personal knowledge base with semantic search",
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
				Name:   "add",
				Usage:  "Add a URL or local files as a new content item",
				Action: addCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					ownerFlag(),
					&cli.StringFlag{
						Name:  "url",
						Usage: "Web page or video-sharing URL to ingest",
					},
					&cli.StringSliceFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Local file to ingest (repeatable)",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Item title (defaults to the URL or first file name)",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Content kind (document, image, video, text, webpage, youtube); detected when omitted",
					},
				}, aiFlags()...),
			},
			{
				Name:   "list",
				Usage:  "List an owner's content items",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag(),
					ownerFlag(),
				},
			},
			{
				Name:      "search",
				Usage:     "Search an owner's content items",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					ownerFlag(),
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Search mode (semantic, keyword, hybrid)",
						Value: "hybrid",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringSliceFlag{
						Name:  "kind",
						Usage: "Restrict results to content kinds (repeatable)",
					},
					&cli.Float64Flag{
						Name:  "semantic-weight",
						Usage: "Hybrid weight for the semantic signal",
						Value: 0.7,
					},
					&cli.Float64Flag{
						Name:  "keyword-weight",
						Usage: "Hybrid weight for the keyword signal",
						Value: 0.3,
					},
				}, aiFlags()...),
			},
			{
				Name:   "related",
				Usage:  "Find items related to an existing item",
				Action: relatedCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					ownerFlag(),
					itemFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
				}, aiFlags()...),
			},
			{
				Name:   "reprocess",
				Usage:  "Re-run extraction and embedding for an item",
				Action: reprocessCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					itemFlag(),
				}, aiFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Rebuild an owner's embeddings with the configured model",
				Action: reembedCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					ownerFlag(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N items",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, aiFlags()...),
			},
			{
				Name:   "delete",
				Usage:  "Delete an item and all of its derived data",
				Action: deleteCommand,
				Flags: []cli.Flag{
					dbFlag(),
					itemFlag(),
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}
}

func ownerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "owner",
		Aliases:  []string{"o"},
		Usage:    "Owner UUID",
		Required: true,
	}
}

func itemFlag() *cli.Uint64Flag {
	return &cli.Uint64Flag{
		Name:     "item",
		Aliases:  []string{"i"},
		Usage:    "Item identifier",
		Required: true,
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "Gemini API key (selects the hosted Gemini provider when set)",
			EnvVars: []string{"GEMINI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name (provider default when omitted)",
		},
		&cli.StringFlag{
			Name:  "generative-model",
			Usage: "Generative model name (provider default when omitted)",
		},
	}
}

func buildAIConfig(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if key := c.String("api-key"); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	} else {
		opts = append(opts, ai.WithHost(c.String("host")))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("generative-model"); model != "" {
		opts = append(opts, ai.WithGenerativeModel(model))
	}
	return ai.NewConfig(opts...)
}

func openDatabase(c *cli.Context) (*synapse.Database, error) {
	db, err := synapse.NewDatabase(c.Context, c.String("db"), synapse.WithAIConfig(buildAIConfig(c)))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func parseOwner(c *cli.Context) (uuid.UUID, error) {
	owner, err := uuid.Parse(c.String("owner"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid owner UUID: %w", err)
	}
	return owner, nil
}

func addCommand(c *cli.Context) error {
	owner, err := parseOwner(c)
	if err != nil {
		return err
	}

	url := c.String("url")
	files := c.StringSlice("file")
	if url == "" && len(files) == 0 {
		return fmt.Errorf("either --url or --file is required")
	}
	if url != "" && len(files) > 0 {
		return fmt.Errorf("--url and --file are mutually exclusive")
	}

	item := &core.ContentItem{
		Owner:     owner,
		Title:     c.String("title"),
		SourceURL: url,
	}
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("invalid file path %q: %w", file, err)
		}
		item.Uploads = append(item.Uploads, core.Upload{Key: abs})
	}

	item.Kind, err = resolveKind(c.String("kind"), url, item.Uploads)
	if err != nil {
		return err
	}
	if item.Title == "" {
		if url != "" {
			item.Title = url
		} else {
			item.Title = filepath.Base(files[0])
		}
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	submitted, err := db.Submit(c.Context, item)
	if err != nil {
		return fmt.Errorf("failed to submit item: %w", err)
	}
	if submitted.Status != core.StatusProcessing {
		fmt.Printf("Item %d already exists (status: %s)\n", submitted.Id, submitted.Status)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Processing item %d...\n", submitted.Id)
	db.Drain()

	final, err := db.GetItem(c.Context, submitted.Id)
	if err != nil {
		return err
	}
	fmt.Printf("Item %d: %s\n", final.Id, final.Status)
	if final.Summary != "" {
		fmt.Printf("Summary: %s\n", final.Summary)
	}

	tags, err := db.Store().Tags().GetTagsByItem(c.Context, final.Id)
	if err == nil && len(tags) > 0 {
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = tag.Name
		}
		fmt.Printf("Tags: %s\n", strings.Join(names, ", "))
	}
	return nil
}

// resolveKind picks the content kind from the flag, or detects it from
// the URL or the first file's bytes.
func resolveKind(flag, url string, uploads []core.Upload) (core.ContentKind, error) {
	if flag != "" {
		kind, err := core.ParseContentKind(flag)
		if err != nil {
			return "", fmt.Errorf("invalid kind %q: %w", flag, err)
		}
		return kind, nil
	}
	if url != "" {
		return extraction.DetectURLKind(url), nil
	}

	data, err := os.ReadFile(uploads[0].Key)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", uploads[0].Key, err)
	}
	return extraction.DetectKind(data), nil
}

func listCommand(c *cli.Context) error {
	owner, err := parseOwner(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := db.Store().Items().ListItemsByOwner(c.Context, owner)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items")
		return nil
	}

	for _, item := range items {
		fmt.Printf("%d\t%-10s\t%-8s\t%s\n", item.Id, item.Status, item.Kind, item.Title)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	owner, err := parseOwner(c)
	if err != nil {
		return err
	}

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a search query is required")
	}

	kinds, err := parseKinds(c.StringSlice("kind"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := &search.Options{
		Limit:          c.Int("limit"),
		Kinds:          kinds,
		SemanticWeight: c.Float64("semantic-weight"),
		KeywordWeight:  c.Float64("keyword-weight"),
	}

	results, err := db.Search(c.Context, owner, query, synapse.SearchMode(c.String("mode")), opts)
	if err != nil {
		return err
	}

	printResults(results)
	return nil
}

func parseKinds(values []string) ([]core.ContentKind, error) {
	kinds := make([]core.ContentKind, 0, len(values))
	for _, value := range values {
		kind, err := core.ParseContentKind(value)
		if err != nil {
			return nil, fmt.Errorf("invalid kind %q: %w", value, err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func printResults(results []*core.ItemResult) {
	if len(results) == 0 {
		fmt.Println("No results")
		return
	}

	for rank, result := range results {
		fmt.Printf("%2d. [%.3f] %d  %s\n", rank+1, result.Score, result.Item.Id, result.Item.Title)
		if len(result.Matches) > 0 {
			snippet := result.Matches[0].Text
			if len(snippet) > 160 {
				snippet = snippet[:160] + "..."
			}
			fmt.Printf("    %s\n", snippet)
		}
	}
}

func relatedCommand(c *cli.Context) error {
	owner, err := parseOwner(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Related(c.Context, owner, core.ID(c.Uint64("item")), c.Int("limit"))
	if err != nil {
		return err
	}

	printResults(results)
	return nil
}

func reprocessCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	id := core.ID(c.Uint64("item"))
	if err := db.Reprocess(c.Context, id); err != nil {
		return fmt.Errorf("failed to reprocess item: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Reprocessing item %d...\n", id)
	db.Drain()

	final, err := db.GetItem(c.Context, id)
	if err != nil {
		return err
	}
	fmt.Printf("Item %d: %s\n", final.Id, final.Status)
	return nil
}

func reembedCommand(c *cli.Context) error {
	owner, err := parseOwner(c)
	if err != nil {
		return err
	}

	config := &reembed.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", db.Embedder().ModelName())
	fmt.Fprintln(os.Stderr)

	if err := db.Reembed(c.Context, owner, config, os.Stderr); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	id := core.ID(c.Uint64("item"))
	if err := db.DeleteItem(c.Context, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	fmt.Printf("Deleted item %d\n", id)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
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
