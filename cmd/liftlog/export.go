// Package main is the entry point for the liftlog application.
// This file contains the export subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"liftlog/internal/fsutil"
	"liftlog/internal/logging"
	"liftlog/internal/reports"
	"liftlog/internal/storage"

	"github.com/samber/do"
)

const exportHelpText = `liftlog export - Generate a progress report

USAGE:
    liftlog export [OPTIONS]

OPTIONS:
    -f, --format FMT   Output format: markdown (default) or json
    -o, --output FILE  Write to file instead of stdout
    -h, --help         Show this help message

DESCRIPTION:
    Summarizes every workout group: for each exercise the current weight,
    the first weight logged, the change between them, how many weights
    were logged and when the last one was.

EXAMPLES:
    # Progress in Markdown
    liftlog export

    # JSON format
    liftlog export --format json

    # Save to file
    liftlog export --output progress.md
`

// runExport handles the "liftlog export" subcommand.
func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	formatFlag := fs.String("format", "markdown", "output format: markdown or json")
	fs.StringVar(formatFlag, "f", "markdown", "output format (shorthand)")

	outputFlag := fs.String("output", "", "write to file instead of stdout")
	fs.StringVar(outputFlag, "o", "", "write to file (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, exportHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(exportHelpText)
		os.Exit(0)
	}

	format := *formatFlag
	if format == "md" {
		format = "markdown"
	}
	if format != "markdown" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q. Use 'markdown' or 'json'.\n", format)
		os.Exit(1)
	}

	output, err := exportReport(format)
	if err != nil {
		fail("generating report", err)
	}

	if *outputFlag == "" {
		fmt.Print(output)
		return
	}

	if dir := filepath.Dir(*outputFlag); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			fail("creating output directory", err)
		}
	}
	if err := fsutil.WriteFileAtomic(*outputFlag, []byte(output), 0600); err != nil {
		fail("writing to file", err)
	}
	fmt.Printf("Report written to %s\n", *outputFlag)
}

func exportReport(format string) (string, error) {
	env, err := bootstrap(logging.Options{Stderr: true})
	if err != nil {
		return "", err
	}
	defer env.Close()

	store, err := do.Invoke[*storage.Store](env.di)
	if err != nil {
		return "", err
	}

	report := reports.Generate(store.Snapshot(), time.Now())
	if format == "json" {
		data, err := reports.FormatJSON(report)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	}
	return reports.FormatMarkdown(report), nil
}
