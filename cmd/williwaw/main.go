// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command williwaw extracts declarative component trees from UI sources.
//
// Usage:
//
//	williwaw extract ./src --out ./build/ui
//	williwaw extract app.ast.json --cache-dir ~/.williwaw/cache
//	williwaw extract ./src --watch
//	williwaw report ./build/ui
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const version = "0.2.0"

var (
	debugMode   bool
	traceStdout bool
)

var rootCmd = &cobra.Command{
	Use:   "williwaw",
	Short: "Extract declarative component trees from UI sources",
	Long: `Williwaw is the semantic front-end of a UI source transpiler.

It reads widget-language AST documents or TSX components, normalizes
function bodies into an intermediate representation, and extracts the
declarative component tree each build unit produces.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		setupLogging()
		if traceStdout {
			return setupTracing()
		}
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return shutdownTracing()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the williwaw version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("williwaw %s\n", version)
	},
}

// tracerShutdown is set when stdout tracing is enabled.
var tracerShutdown func(context.Context) error

func setupLogging() {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func setupTracing() error {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("create stdout trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	tracerShutdown = tp.Shutdown
	return nil
}

func shutdownTracing() error {
	if tracerShutdown == nil {
		return nil
	}
	return tracerShutdown(context.Background())
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&traceStdout, "trace", false, "Emit OpenTelemetry spans to stdout")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newReportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
