// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline orchestrates per-file extraction runs.
//
// Each file gets a fresh detector registry, resolver, normalizer, and
// extractor, so concurrent file extractions share nothing but the
// immutable widget rules. Results serialize deterministically and are
// optionally persisted in a content-addressed store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/williwaw/services/uic/component"
	"github.com/AleutianAI/williwaw/services/uic/config"
	"github.com/AleutianAI/williwaw/services/uic/detect"
	"github.com/AleutianAI/williwaw/services/uic/extract"
	"github.com/AleutianAI/williwaw/services/uic/ir"
	"github.com/AleutianAI/williwaw/services/uic/normalize"
	"github.com/AleutianAI/williwaw/services/uic/resolve"
	"github.com/AleutianAI/williwaw/services/uic/source"
	"github.com/AleutianAI/williwaw/services/uic/store"
	"github.com/AleutianAI/williwaw/services/uic/syntax"
)

var (
	// ErrFileTooLarge is returned when a source file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidContent is returned for content that is not valid UTF-8.
	ErrInvalidContent = errors.New("invalid content")
)

const (
	// DefaultMaxFileSize is the largest source file the pipeline accepts.
	DefaultMaxFileSize = 10 * 1024 * 1024 // 10MB

	// DefaultConcurrency bounds how many files extract in parallel.
	DefaultConcurrency = 4
)

// Pipeline runs file extractions.
//
// Thread Safety: Safe for concurrent use. Per-file state is created
// inside each call; the Pipeline itself holds only immutable
// configuration.
type Pipeline struct {
	rules       *config.WidgetRules
	store       store.ResultCacheStore
	logger      *slog.Logger
	concurrency int
	maxDepth    int
	cacheSize   int
	maxFileSize int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithStore sets the persistent result cache. Nil disables persistence.
func WithStore(s store.ResultCacheStore) Option {
	return func(p *Pipeline) {
		p.store = s
	}
}

// WithConcurrency bounds how many files extract in parallel during Run.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithMaxDepth overrides the extractor recursion bound.
func WithMaxDepth(depth int) Option {
	return func(p *Pipeline) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithDetectorCacheSize overrides the per-file detector query cache size.
func WithDetectorCacheSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.cacheSize = n
		}
	}
}

// WithMaxFileSize overrides the input size limit in bytes.
func WithMaxFileSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxFileSize = n
		}
	}
}

// New creates a Pipeline for the given widget rules.
//
// Inputs:
//   - rules: Widget detection rules shared by every file. Nil selects the
//     embedded defaults.
//   - opts: Optional configuration (WithStore, WithConcurrency, ...).
func New(rules *config.WidgetRules, opts ...Option) *Pipeline {
	if rules == nil {
		rules = config.DefaultWidgetRules()
	}
	p := &Pipeline{
		rules:       rules,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ExtractFile runs the full per-file pass: classify declarations,
// normalize bodies, and extract component trees.
//
// Description:
//
//	Builds a fresh registry, resolver, normalizer, and extractor for the
//	file, processes every build unit, and aggregates the warning summary
//	and detector statistics. Extraction itself is total; only input
//	validation fails.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before work starts.
//   - file: The parsed input. Must not be nil.
//
// Outputs:
//   - *FileResult: The complete result with units sorted by name. Never
//     nil on success.
//   - error: ErrFileTooLarge, ErrInvalidContent, or a cancellation error.
//
// Thread Safety: Safe for concurrent use.
func (p *Pipeline) ExtractFile(ctx context.Context, file *SourceFile) (*FileResult, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: nil file", ErrInvalidContent)
	}

	ctx, span := otel.Tracer(extractTracerName).Start(ctx, "pipeline.ExtractFile",
		oteltrace.WithAttributes(
			attribute.String("file", file.Path),
			attribute.Int("bytes", len(file.Content)),
			attribute.Int("unit_count", len(file.Units)),
		),
	)
	defer span.End()

	activeExtractions.Inc()
	defer activeExtractions.Dec()

	start := time.Now()

	if err := p.validate(file); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordExtractionMetrics(time.Since(start), nil, 0, 0, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction canceled before start: %w", err)
	}

	mapper := source.NewMapper(file.Path, file.Content)
	registry := p.newRegistry()
	resolver := resolve.NewResolver(p.rules, resolve.WithLogger(p.logger))
	normalizer := normalize.NewNormalizer(mapper, ir.NewIDGenerator("ir"),
		normalize.WithLogger(p.logger))
	extractor := p.newExtractor(registry, mapper)

	units := make([]DeclResult, 0, len(file.Units))
	for _, unit := range file.Units {
		res := DeclResult{
			Name: unit.Name,
			Body: normalizer.BodyStatements(unit.Body),
		}
		if unit.Decl != nil {
			res.ProducesWidget = resolver.ProducesWidget(unit.Decl)
		}
		if res.ProducesWidget {
			if root := rootExpression(unit.Body); root != nil {
				res.Tree = extractor.Extract(root)
			}
		}
		units = append(units, res)
	}

	sort.SliceStable(units, func(i, j int) bool { return units[i].Name < units[j].Name })

	summary := summarize(units)
	stats := registry.Stats()
	duration := time.Since(start)

	result := &FileResult{
		SchemaVersion: FileSchemaVersion,
		File:          file.Path,
		ContentHash:   store.ContentHash(file.Content, p.rules, FileSchemaVersion),
		ParsedAtMilli: start.UnixMilli(),
		DurationMilli: duration.Milliseconds(),
		Units:         units,
		Summary:       summary,
		DetectorStats: stats,
	}

	span.SetAttributes(
		attribute.Int("units", len(units)),
		attribute.Int("degraded_nodes", summary.Total()),
		attribute.Int64("cache_hits", int64(stats.Hits)),
		attribute.Int64("cache_misses", int64(stats.Misses)),
	)
	recordExtractionMetrics(duration, &summary, stats.Hits, stats.Misses, nil)

	p.logger.Debug("pipeline: file extracted",
		slog.String("file", file.Path),
		slog.Int("units", len(units)),
		slog.Int("degraded_nodes", summary.Total()),
		slog.Duration("duration", duration),
	)
	return result, nil
}

// Run extracts a batch of files with bounded concurrency.
//
// Description:
//
//	Files are processed in parallel up to the configured concurrency.
//	Individual file failures are recorded in the corresponding FileOutput
//	and do not abort the run. When a result store is configured, files
//	whose content hash is already stored are replayed without
//	re-extraction.
//
// Outputs:
//   - *RunResult: Per-file outputs in input order. Never nil on success.
//   - error: Only cancellation of the whole run.
func (p *Pipeline) Run(ctx context.Context, files []*SourceFile) (*RunResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	ctx, span := otel.Tracer(extractTracerName).Start(ctx, "pipeline.Run",
		oteltrace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.Int("file_count", len(files)),
			attribute.Int("concurrency", p.concurrency),
		),
	)
	defer span.End()

	p.logger.Info("pipeline: run starting",
		slog.String("run_id", runID),
		slog.Int("file_count", len(files)),
		slog.Int("concurrency", p.concurrency),
	)

	outputs := make([]FileOutput, len(files))
	g, gctx := errgroup.WithContext(ctx)

	// Semaphore to limit concurrency.
	sem := make(chan struct{}, p.concurrency)

	for i := range files {
		i := i // capture
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := gctx.Err(); err != nil {
				return err
			}
			outputs[i] = p.processFile(gctx, runID, files[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("pipeline run %s: %w", runID, err)
	}

	duration := time.Since(start)
	cached, failed := 0, 0
	for _, out := range outputs {
		if out.FromCache {
			cached++
		}
		if out.Error != "" {
			failed++
		}
	}

	span.SetAttributes(
		attribute.Int("cached_files", cached),
		attribute.Int("failed_files", failed),
	)
	p.logger.Info("pipeline: run complete",
		slog.String("run_id", runID),
		slog.Int("file_count", len(files)),
		slog.Int("cached_files", cached),
		slog.Int("failed_files", failed),
		slog.Duration("duration", duration),
	)

	return &RunResult{
		RunID:          runID,
		StartedAtMilli: start.UnixMilli(),
		DurationMilli:  duration.Milliseconds(),
		Files:          outputs,
	}, nil
}

// processFile handles one file of a run: cache lookup, extraction,
// serialization, and persistence.
func (p *Pipeline) processFile(ctx context.Context, runID string, file *SourceFile) FileOutput {
	if file == nil {
		return FileOutput{Error: "nil source file"}
	}

	hash := store.ContentHash(file.Content, p.rules, FileSchemaVersion)
	out := FileOutput{Path: file.Path, ContentHash: hash}

	if p.store != nil {
		entry, err := p.store.Load(ctx, hash)
		if err != nil {
			p.logger.Warn("pipeline: result cache load failed",
				slog.String("file", file.Path),
				slog.String("error", err.Error()),
			)
		} else if entry != nil {
			extractionsTotal.WithLabelValues("cached").Inc()
			out.FromCache = true
			out.Payload = entry.Payload
			return out
		}
	}

	result, err := p.ExtractFile(ctx, file)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	result.RunID = runID

	payload, err := result.Marshal()
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Payload = payload

	if p.store != nil {
		entry := &store.Entry{RunID: runID, Payload: payload, CreatedAt: time.Now().UTC()}
		if err := p.store.Save(ctx, hash, entry); err != nil {
			// Persistence failure is not fatal; the result is recomputed
			// next run.
			p.logger.Warn("pipeline: result cache save failed",
				slog.String("file", file.Path),
				slog.String("error", err.Error()),
			)
		}
	}
	return out
}

// validate enforces the input size and encoding limits.
func (p *Pipeline) validate(file *SourceFile) error {
	if len(file.Content) > p.maxFileSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(file.Content), p.maxFileSize)
	}
	if !utf8.Valid(file.Content) {
		return fmt.Errorf("%w: content is not valid UTF-8", ErrInvalidContent)
	}
	return nil
}

func (p *Pipeline) newRegistry() *detect.Registry {
	opts := []detect.RegistryOption{detect.WithLogger(p.logger)}
	if p.cacheSize > 0 {
		opts = append(opts, detect.WithCacheSize(p.cacheSize))
	}
	return detect.NewRegistry(p.rules, opts...)
}

func (p *Pipeline) newExtractor(registry *detect.Registry, mapper *source.Mapper) *extract.Extractor {
	opts := []extract.Option{extract.WithLogger(p.logger)}
	if p.maxDepth > 0 {
		opts = append(opts, extract.WithMaxDepth(p.maxDepth))
	}
	return extract.NewExtractor(registry, mapper, ir.NewIDGenerator("comp"), opts...)
}

// rootExpression locates the widget expression of a build body: the arrow
// expression, or the value of the first return statement found in the
// block.
func rootExpression(body syntax.FunctionBody) syntax.Expression {
	if body.IsArrow {
		return body.Expr
	}
	return blockReturnValue(body.Block)
}

func blockReturnValue(block *syntax.Block) syntax.Expression {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		if e := statementReturnValue(stmt); e != nil {
			return e
		}
	}
	return nil
}

func statementReturnValue(stmt syntax.Statement) syntax.Expression {
	switch v := stmt.(type) {
	case *syntax.Return:
		return v.Value
	case *syntax.Block:
		return blockReturnValue(v)
	case *syntax.If:
		if e := statementReturnValue(v.Then); e != nil {
			return e
		}
		return statementReturnValue(v.Else)
	default:
		return nil
	}
}

// summarize walks every unit's IR and component tree counting nodes that
// lost fidelity during normalization or extraction.
func summarize(units []DeclResult) WarningSummary {
	var s WarningSummary

	record := func(kind string, loc source.Location, detail string) {
		switch kind {
		case "unsupported":
			s.Unsupported++
		case "fallback":
			s.Fallback++
		default:
			s.Unknown++
		}
		s.Warnings = append(s.Warnings, Warning{Kind: kind, Location: loc, Detail: detail})
	}

	for _, unit := range units {
		for _, stmt := range unit.Body {
			ir.Walk(stmt, func(n ir.Node) {
				switch v := n.(type) {
				case *ir.Unknown:
					record("unknown", v.Location, v.Reason)
				case *ir.UnknownStmt:
					record("unknown", v.Location, v.Reason)
				}
			})
		}
		component.Walk(unit.Tree, func(c component.Component) {
			switch v := c.(type) {
			case *component.Unsupported:
				record("unsupported", v.Location, v.Reason)
			case *component.Fallback:
				record("fallback", v.Location, v.Reason)
			}
		})
	}
	return s
}
