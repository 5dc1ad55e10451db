// Copyright 2026 Latforge Labs
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
	"sort"
	"strings"
	"time"

	"github.com/latforge/sondeo"
	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/analyzer"
	"github.com/latforge/sondeo/core"
	"github.com/latforge/sondeo/pipeline"
	"github.com/latforge/sondeo/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sondeo",
		Usage: "Vendor pricing analysis and cross-validation pipeline",
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
				Name:   "analyze",
				Usage:  "Analyze vendor pricing text and store the outcome",
				Action: analyzeCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "text",
						Usage: "Vendor text to analyze",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Read vendor text from a file instead of --text",
					},
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Source URL the text was scraped from",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Vendor name the text belongs to",
					},
					&cli.BoolFlag{
						Name:  "no-local",
						Usage: "Skip the local model stage",
					},
					&cli.BoolFlag{
						Name:  "no-fallback",
						Usage: "Skip the fallback model stage",
					},
				}, aiFlags()...),
			},
			{
				Name:   "search",
				Usage:  "Search stored records by semantic similarity",
				Action: searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "country",
						Usage: "Only return records for this country",
					},
					&cli.StringFlag{
						Name:  "module",
						Usage: "Only return records for this module type",
					},
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Only return records for this vendor",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results",
						Value: 10,
					},
				}, aiFlags()...),
			},
			{
				Name:   "stats",
				Usage:  "Show vector index statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "cleanup",
				Usage:  "Remove stored records that violate the retention policy",
				Action: cleanupCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "max-age-days",
						Usage: "Remove records older than this many days",
					},
					&cli.IntFlag{
						Name:  "min-confidence",
						Usage: "Remove records below this confidence",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the model endpoint flags shared by the commands that
// talk to AI services. Empty values keep the ai package defaults.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "local-host",
			Usage: "Local model service host URL",
		},
		&cli.StringFlag{
			Name:  "local-model",
			Usage: "Local model name for classification",
		},
		&cli.StringFlag{
			Name:  "fallback-host",
			Usage: "Fallback model service host URL",
		},
		&cli.StringFlag{
			Name:  "fallback-model",
			Usage: "Fallback model name",
		},
		&cli.StringFlag{
			Name:    "fallback-token",
			Usage:   "API token for the fallback service",
			EnvVars: []string{"SONDEO_FALLBACK_TOKEN"},
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	var opts []ai.ConfigOption
	if v := c.String("local-host"); v != "" {
		opts = append(opts, ai.WithLocalHost(v))
	}
	if v := c.String("local-model"); v != "" {
		opts = append(opts, ai.WithLocalModel(v))
	}
	if v := c.String("fallback-host"); v != "" {
		opts = append(opts, ai.WithFallbackHost(v))
	}
	if v := c.String("fallback-model"); v != "" {
		opts = append(opts, ai.WithFallbackModel(v))
	}
	if v := c.String("fallback-token"); v != "" {
		opts = append(opts, ai.WithFallbackToken(v))
	}
	if v := c.String("embedding-host"); v != "" {
		opts = append(opts, ai.WithEmbeddingHost(v))
	}
	if v := c.String("embedding-model"); v != "" {
		opts = append(opts, ai.WithEmbeddingModel(v))
	}

	config := ai.NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func readSampleText(c *cli.Context) (string, error) {
	text := c.String("text")
	file := c.String("file")

	switch {
	case text != "" && file != "":
		return "", fmt.Errorf("--text and --file are mutually exclusive")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), nil
	case text != "":
		return text, nil
	}
	return "", fmt.Errorf("one of --text or --file is required")
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	text, err := readSampleText(c)
	if err != nil {
		return err
	}

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := sondeo.NewDatabase(c.String("db"), sondeo.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := pipeline.DefaultConfig()
	cfg.Stages = analyzer.Options{
		UseLocal:    !c.Bool("no-local"),
		UseFallback: !c.Bool("no-fallback"),
	}

	p, err := db.NewPipeline(pipeline.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	outcome, err := p.Process(ctx, &core.TextSample{
		Text:        text,
		Source:      c.String("source"),
		Provider:    c.String("provider"),
		CollectedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printOutcome(outcome)
	return nil
}

func printOutcome(outcome *pipeline.Outcome) {
	result := outcome.Result
	fmt.Printf("Method:      %s\n", result.Method)
	fmt.Printf("Module:      %s\n", result.Classification)
	if result.EstimatedPrice != "" {
		fmt.Printf("Price:       %s\n", result.EstimatedPrice)
	}
	if result.Country != "" {
		fmt.Printf("Country:     %s\n", result.Country)
	}
	if result.Currency != "" {
		fmt.Printf("Currency:    %s\n", result.Currency)
	}
	if len(result.Conditions) > 0 {
		keys := make([]string, 0, len(result.Conditions))
		for k := range result.Conditions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("Conditions:")
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, result.Conditions[k])
		}
	}
	fmt.Printf("Confidence:  %d (%s)\n", outcome.Score, outcome.Label)
	if cv := outcome.CrossValidation; cv != nil {
		fmt.Printf("Validated:   %t (%d sources, agreement %.2f)\n",
			cv.Validated, cv.Sources, cv.AgreementRatio)
	}
	fmt.Printf("Stored:      %t\n", outcome.Stored)
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	db, err := sondeo.NewDatabase(c.String("db"), sondeo.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	p, err := db.NewPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	filters := map[string]string{}
	if v := c.String("country"); v != "" {
		filters["country"] = v
	}
	if v := c.String("module"); v != "" {
		filters["module"] = v
	}
	if v := c.String("provider"); v != "" {
		filters["provider"] = v
	}

	results, err := p.Search(ctx, c.String("query"), filters, c.Int("top-k"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matching records.")
		return nil
	}

	for i, res := range results {
		meta := res.Record.Metadata
		fmt.Printf("%2d. [%.3f] %s / %s", i+1, res.Score, meta.Provider, meta.Module)
		if meta.Price != "" {
			fmt.Printf(" — %s", meta.Price)
		}
		fmt.Println()
		fmt.Printf("    country=%s confidence=%d validated=%t\n", meta.Country, meta.Confidence, meta.Validated)
		fmt.Printf("    %s (%s)\n", meta.SourceURL, meta.CollectedAt.Format(time.RFC3339))
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := badger.NewRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	stats, err := repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	fmt.Printf("Total records: %d\n", stats.Total)
	printBreakdown("By country", stats.ByCountry)
	printBreakdown("By module", stats.ByModule)
	return nil
}

func printBreakdown(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-24s %d\n", k, counts[k])
	}
}

func cleanupCommand(c *cli.Context) error {
	ctx := context.Background()

	maxAgeDays := c.Int("max-age-days")
	minConfidence := c.Int("min-confidence")
	if maxAgeDays <= 0 && minConfidence <= 0 {
		return fmt.Errorf("at least one of --max-age-days or --min-confidence is required")
	}

	repo, err := badger.NewRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	removed, err := repo.Cleanup(ctx, core.RetentionPolicy{
		MaxAge:        time.Duration(maxAgeDays) * 24 * time.Hour,
		MinConfidence: minConfidence,
	})
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	fmt.Printf("Removed %d records.\n", removed)
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
