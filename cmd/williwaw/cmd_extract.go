// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/williwaw/services/uic/config"
	"github.com/AleutianAI/williwaw/services/uic/frontend/astjson"
	"github.com/AleutianAI/williwaw/services/uic/frontend/tsx"
	"github.com/AleutianAI/williwaw/services/uic/pipeline"
	"github.com/AleutianAI/williwaw/services/uic/store"
	badgerstore "github.com/AleutianAI/williwaw/services/uic/store/badger"
)

// Flag values for the extract command.
var (
	extractRulesPath   string
	extractOutDir      string
	extractCacheDir    string
	extractConcurrency int
	extractMaxDepth    int
	extractWatch       bool
	extractMetricsAddr string
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [paths...]",
		Short: "Extract component trees from AST documents and TSX sources",
		Long: `Extract runs the full pipeline over the given files and directories.

Inputs are matched by extension: .json files are decoded as AST
interchange documents, .tsx and .jsx files are parsed with tree-sitter.
Results are written as one JSON file per input, or to stdout when no
output directory is set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtractCommand,
	}

	cmd.Flags().StringVar(&extractRulesPath, "rules", "", "Path to a widget rules YAML file (embedded defaults when empty)")
	cmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Directory for result files (stdout when empty)")
	cmd.Flags().StringVar(&extractCacheDir, "cache-dir", "", "BadgerDB directory for the result cache (cache disabled when empty)")
	cmd.Flags().IntVar(&extractConcurrency, "concurrency", pipeline.DefaultConcurrency, "Number of files processed in parallel")
	cmd.Flags().IntVar(&extractMaxDepth, "max-depth", 0, "Maximum component tree depth (0 uses the extractor default)")
	cmd.Flags().BoolVarP(&extractWatch, "watch", "w", false, "Re-run extraction when watched files change")
	cmd.Flags().StringVar(&extractMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while watching (e.g. :9090)")
	return cmd
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	rules, err := config.LoadWidgetRules(extractRulesPath)
	if err != nil {
		return fmt.Errorf("load widget rules: %w", err)
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithConcurrency(extractConcurrency),
	}
	if extractMaxDepth > 0 {
		opts = append(opts, pipeline.WithMaxDepth(extractMaxDepth))
	}

	if extractCacheDir != "" {
		db, err := badgerstore.Open(extractCacheDir, logger)
		if err != nil {
			return fmt.Errorf("open result cache at %s: %w", extractCacheDir, err)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.Warn("failed to close result cache", slog.String("error", cerr.Error()))
			}
		}()
		opts = append(opts, pipeline.WithStore(store.NewBadgerResultCacheStore(db, 0, logger)))
	}

	p := pipeline.New(rules, opts...)

	inputs, err := collectInputs(args)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .json, .tsx, or .jsx inputs under %s", strings.Join(args, ", "))
	}

	if err := extractOnce(ctx, p, rules, inputs, logger); err != nil {
		return err
	}
	if !extractWatch {
		return nil
	}
	if extractMetricsAddr != "" {
		go serveMetrics(extractMetricsAddr, logger)
	}
	return watchAndExtract(ctx, p, rules, args, logger)
}

// extractOnce loads every input, runs the pipeline, and writes results.
func extractOnce(ctx context.Context, p *pipeline.Pipeline, rules *config.WidgetRules, inputs []string, logger *slog.Logger) error {
	files := loadFiles(ctx, rules, inputs, logger)
	if len(files) == 0 {
		return fmt.Errorf("none of %d inputs could be loaded", len(inputs))
	}

	result, err := p.Run(ctx, files)
	if err != nil {
		return err
	}

	failed := 0
	for _, out := range result.Files {
		if out.Error != "" {
			failed++
			logger.Error("extraction failed",
				slog.String("file", out.Path),
				slog.String("error", out.Error))
			continue
		}
		if err := writeOutput(out); err != nil {
			return err
		}
	}

	logger.Info("extraction complete",
		slog.String("run_id", result.RunID),
		slog.Int("files", len(result.Files)),
		slog.Int("failed", failed),
		slog.Int64("duration_ms", result.DurationMilli))
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(result.Files))
	}
	return nil
}

// loadFiles lowers each input through its frontend. Files that cannot
// be loaded are logged and skipped so one bad input does not abort a
// directory run.
func loadFiles(ctx context.Context, rules *config.WidgetRules, inputs []string, logger *slog.Logger) []*pipeline.SourceFile {
	parser := tsx.NewParser(
		tsx.WithLogger(logger),
		tsx.WithWidgetType(rules.RootWidgetType),
	)

	var files []*pipeline.SourceFile
	for _, path := range inputs {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("cannot read input", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}

		var file *pipeline.SourceFile
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			file, err = astjson.Decode(content, logger)
			if err == nil && file.Path == "" {
				file.Path = path
			}
		case ".tsx", ".jsx":
			file, err = parser.Parse(ctx, path, content)
		default:
			continue
		}
		if err != nil {
			logger.Error("cannot load input", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}
		files = append(files, file)
	}
	return files
}

func writeOutput(out pipeline.FileOutput) error {
	if extractOutDir == "" {
		_, err := os.Stdout.Write(append(out.Payload, '\n'))
		return err
	}
	if err := os.MkdirAll(extractOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(out.Path), filepath.Ext(out.Path))
	target := filepath.Join(extractOutDir, base+".wlw.json")
	if err := os.WriteFile(target, out.Payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func collectInputs(paths []string) ([]string, error) {
	var inputs []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			if isExtractable(path) {
				inputs = append(inputs, path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			if isExtractable(p) {
				inputs = append(inputs, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return inputs, nil
}

func isExtractable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".tsx", ".jsx":
		return true
	}
	return false
}

// serveMetrics exposes the Prometheus registry for long-running watch
// sessions.
func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", slog.String("error", err.Error()))
	}
}

// watchAndExtract re-runs extraction whenever a watched path changes.
// Events are debounced so editor save bursts trigger a single run.
func watchAndExtract(ctx context.Context, p *pipeline.Pipeline, rules *config.WidgetRules, roots []string, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			root = filepath.Dir(root)
		}
		if err := watcher.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("watching for changes", slog.Int("roots", len(roots)))

	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-quit:
			logger.Info("watch stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isExtractable(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.String("error", err.Error()))
		case <-pending:
			inputs, err := collectInputs(roots)
			if err != nil {
				logger.Error("rescan failed", slog.String("error", err.Error()))
				continue
			}
			if err := extractOnce(ctx, p, rules, inputs, logger); err != nil {
				logger.Error("re-extraction failed", slog.String("error", err.Error()))
			}
		}
	}
}
