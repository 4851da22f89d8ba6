// CLAUDE:SUMMARY CLI entry point for domap — builds a PageMap from an HTML file and prints it as JSON.
// Command domap runs one page build from the command line, for debugging
// the pipeline against saved pages.
//
// Usage:
//
//	domap -in page.html -url https://shop.example.com/p/1 -type product_detail
//	domap -in page.html -url https://... -schema Product -locale ko -budget 2000
//	curl -s https://example.com | domap -url https://example.com
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/domap/mapper"
	"github.com/hazyhaar/domap/page"
	"github.com/hazyhaar/domap/templates"
)

func main() {
	inPath := flag.String("in", "", "HTML file to map (default: stdin)")
	pageURL := flag.String("url", "", "page URL (required)")
	configPath := flag.String("config", "", "path to domap.yaml config file")
	schema := flag.String("schema", "", "schema hint (Product, NewsArticle, ...)")
	locale := flag.String("locale", "", "locale hint (ko, ja, en, ...)")
	pageType := flag.String("type", "", "page type (product_detail, listing, article, ...)")
	budget := flag.Int("budget", 0, "override pruned-context token budget")
	templateDB := flag.String("template-db", "", "path to template SQLite database")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *inPath, *pageURL, *configPath, *schema, *locale, *pageType, *budget, *templateDB); err != nil {
		logger.Error("domap: fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, inPath, pageURL, configPath, schema, locale, pageType string, budget int, templateDB string) error {
	if pageURL == "" {
		return fmt.Errorf("-url is required")
	}

	var (
		src []byte
		err error
	)
	if inPath == "" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(inPath)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	cfg := mapper.Config{}
	if configPath != "" {
		loaded, err := mapper.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		cfg = *loaded
	}

	opts := []mapper.SessionOption{mapper.WithLogger(logger)}
	if templateDB == "" {
		templateDB = cfg.Template.DBPath
	}
	if templateDB != "" {
		store, err := templates.OpenStore(templateDB)
		if err != nil {
			return fmt.Errorf("template store: %w", err)
		}
		defer store.Close()
		opts = append(opts, mapper.WithTemplateStore(store))
	}
	session := mapper.NewSession(cfg, opts...)

	in := mapper.BuildInput{
		URL:      pageURL,
		HTML:     string(src),
		Schema:   schema,
		Locale:   locale,
		PageType: page.ParsePageType(pageType),
	}
	res := session.Build(in)

	if budget > 0 {
		res.Map.PrunedContext = session.Truncate(res.Map.PrunedContext, budget)
	}

	logger.Info("build finished",
		"tier", res.Tier.String(),
		"generation", res.Generation,
		"pruned_tokens", res.Map.PrunedTokens,
		"warnings", len(res.Map.Warnings))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Map)
}
