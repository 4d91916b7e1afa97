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
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/williwaw/services/uic/detect"
	"github.com/AleutianAI/williwaw/services/uic/pipeline"
)

// fileReport is the read-side projection of a result file. Component
// trees are kept raw because the tree union only marshals.
type fileReport struct {
	File  string `json:"file"`
	Units []struct {
		Name string          `json:"name"`
		Tree json.RawMessage `json:"tree"`
	} `json:"units"`
	Summary       pipeline.WarningSummary `json:"summary"`
	DetectorStats detect.Stats            `json:"detector_stats"`
}

var reportVerbose bool

// Report styles. Rendering falls back to plain text when stdout is not
// a terminal.
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	fileStyle    = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	detailStyle  = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [paths...]",
		Short: "Summarize extraction results",
		Long: `Report reads result files produced by extract and prints a
per-file summary: build units, extracted trees, and degraded nodes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReportCommand,
	}
	cmd.Flags().BoolVarP(&reportVerbose, "verbose", "v", false, "List every degraded node with its source location")
	return cmd
}

func runReportCommand(_ *cobra.Command, args []string) error {
	paths, err := collectResults(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no result files under %s", strings.Join(args, ", "))
	}

	styled := isatty.IsTerminal(os.Stdout.Fd())
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var totalUnits, totalTrees, totalWarnings, failed int
	fmt.Println(render(headerStyle, fmt.Sprintf("Extraction report (%d files)", len(paths))))

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		var result fileReport
		if err := json.Unmarshal(raw, &result); err != nil {
			failed++
			fmt.Printf("  %s %s\n", render(fileStyle, path), render(warnStyle, "unreadable: "+err.Error()))
			continue
		}

		trees := 0
		for _, unit := range result.Units {
			if len(unit.Tree) > 0 && string(unit.Tree) != "null" {
				trees++
			}
		}
		totalUnits += len(result.Units)
		totalTrees += trees
		totalWarnings += result.Summary.Total()

		status := render(okStyle, "ok")
		if result.Summary.Total() > 0 {
			status = render(warnStyle, fmt.Sprintf("%d degraded", result.Summary.Total()))
		}
		fmt.Printf("  %s  units=%d trees=%d cache={hits=%d misses=%d}  %s\n",
			render(fileStyle, result.File),
			len(result.Units), trees,
			result.DetectorStats.Hits, result.DetectorStats.Misses,
			status)

		if reportVerbose {
			for _, w := range result.Summary.Warnings {
				loc := fmt.Sprintf("%s:%d:%d", w.Location.File, w.Location.Line, w.Location.Column)
				fmt.Printf("    %s\n", render(detailStyle, fmt.Sprintf("[%s] %s %s", w.Kind, loc, w.Detail)))
			}
		}
	}

	fmt.Println(render(summaryStyle, fmt.Sprintf(
		"units=%d trees=%d degraded=%d unreadable=%d", totalUnits, totalTrees, totalWarnings, failed)))
	if failed > 0 {
		return fmt.Errorf("%d result files were unreadable", failed)
	}
	return nil
}

func collectResults(paths []string) ([]string, error) {
	var results []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			results = append(results, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".wlw.json") {
				results = append(results, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return results, nil
}
