// Package main is the entry point for the liftlog application.
// This file contains the import subcommand handler.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"liftlog/internal/importer"
	"liftlog/internal/logging"
	"liftlog/internal/storage"

	"github.com/samber/do"
)

const importHelpText = `liftlog import - Import workout groups

USAGE:
    liftlog import [OPTIONS] <format> <file>

FORMATS:
    json   A liftlog workoutGroups.json document (e.g. from another machine)
    csv    Spreadsheet rows: group,exercise,sets,reps,weight

OPTIONS:
    --dry-run    Preview import without making changes
    -h, --help   Show this help message

DESCRIPTION:
    Adds the groups in the file to your workouts. A group whose name matches
    an existing one (ignoring case) is merged into it, and exercises that
    group already has are skipped.

    JSON:
      Must be an array of groups as liftlog writes it. Weight history is
      kept; ids are replaced with fresh ones.

    CSV:
      One exercise per row. A header row is optional, lines starting with
      # are ignored. The weight, when given, is logged as today's entry.

EXAMPLES:
    # Preview before importing
    liftlog import --dry-run csv program.csv

    # Import a document from another machine
    liftlog import json ~/Downloads/workoutGroups.json
`

// runImport handles the "liftlog import" subcommand.
func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	dryRunFlag := fs.Bool("dry-run", false, "preview import without making changes")
	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, importHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(importHelpText)
		os.Exit(0)
	}

	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "Error: missing arguments\n\n")
		fmt.Fprintf(os.Stderr, "Usage: liftlog import <format> <file>\n")
		fmt.Fprintf(os.Stderr, "Formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
		fmt.Fprintf(os.Stderr, "\nRun 'liftlog import --help' for more information.\n")
		os.Exit(1)
	}

	format := fs.Arg(0)
	imp := importer.GetImporter(format)
	if imp == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		fmt.Fprintf(os.Stderr, "Supported formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
		os.Exit(1)
	}

	file, err := os.Open(fs.Arg(1))
	if err != nil {
		fail("opening file", err)
	}
	defer file.Close()

	if *dryRunFlag {
		previewImport(imp, file)
		return
	}
	if err := importFile(imp, file); err != nil {
		fail("importing", err)
	}
}

const previewLimit = 20

// previewImport lists what would be imported without touching the data.
func previewImport(imp importer.Importer, r io.Reader) {
	groups, warnings, err := imp.Preview(r)
	if err != nil {
		fail("parsing file", err)
	}

	if len(groups) == 0 {
		fmt.Println("No workout groups found to import.")
		return
	}

	exercises := 0
	for _, g := range groups {
		exercises += len(g.Exercises)
	}
	fmt.Printf("Preview: %d groups, %d exercises to import\n", len(groups), exercises)
	fmt.Println("────────────────────────────")

	shown := 0
	for _, g := range groups {
		if shown >= previewLimit {
			break
		}
		fmt.Printf("  %s\n", g.Name)
		for _, ex := range g.Exercises {
			if shown >= previewLimit {
				break
			}
			fmt.Printf("    %s  %sx%s", ex.Name, ex.Sets, ex.Reps)
			if ex.CurrentTargetWeight != "" {
				fmt.Printf("  %s kg", ex.CurrentTargetWeight)
			}
			if n := len(ex.History); n > 0 {
				fmt.Printf("  (%d weights logged)", n)
			}
			fmt.Println()
			shown++
		}
	}
	if exercises > shown {
		fmt.Printf("  ... and %d more\n", exercises-shown)
	}

	printWarnings(warnings)
	fmt.Println()
	fmt.Println("Run without --dry-run to import.")
}

func importFile(imp importer.Importer, r io.Reader) error {
	env, err := bootstrap(logging.Options{Stderr: true})
	if err != nil {
		return err
	}
	defer env.Close()

	store, err := do.Invoke[*storage.Store](env.di)
	if err != nil {
		return err
	}

	result, err := importer.Import(imp, r, store)
	if err != nil {
		return err
	}

	fmt.Printf("Import complete!\n")
	fmt.Printf("  New groups:     %d\n", result.Groups)
	fmt.Printf("  Exercises:      %d\n", result.Exercises)
	fmt.Printf("  Weights logged: %d\n", result.HistoryEntries)
	if result.Skipped > 0 {
		fmt.Printf("  Skipped:        %d already present\n", result.Skipped)
	}
	printWarnings(result.Errors)
	return nil
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("  Warnings: %d\n", len(warnings))
	for _, w := range warnings {
		fmt.Printf("    - %s\n", w)
	}
}
