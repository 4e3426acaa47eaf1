// Package main is the entry point for the liftlog application.
// This file contains the backup subcommand handler.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"liftlog/internal/backup"
)

const backupHelpText = `liftlog backup - Create and manage backups

USAGE:
    liftlog backup [OPTIONS]

OPTIONS:
    -l, --list       List available backups
    --prune N        Delete all but the N newest backups
    -h, --help       Show this help message

DESCRIPTION:
    Creates a timestamped copy of workoutGroups.json with a manifest of
    what it holds. Backups are stored in ~/.liftlog/backups/ and can be
    restored with 'liftlog restore'.

EXAMPLES:
    # Create a new backup
    liftlog backup

    # List all available backups
    liftlog backup --list

    # Keep only the ten newest backups
    liftlog backup --prune 10
`

// runBackup handles the "liftlog backup" subcommand.
func runBackup(args []string) {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)

	listFlag := fs.Bool("list", false, "list available backups")
	fs.BoolVar(listFlag, "l", false, "list available backups (shorthand)")

	pruneFlag := fs.Int("prune", -1, "delete all but the N newest backups")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, backupHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(backupHelpText)
		os.Exit(0)
	}

	cfg := loadConfig()
	manager := backup.NewManager(cfg.GetDataDir(), version)

	switch {
	case *listFlag:
		listBackups(manager)
	case *pruneFlag >= 0:
		pruneBackups(manager, *pruneFlag)
	default:
		createBackup(manager)
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(manager *backup.Manager) {
	name, err := manager.Create()
	if errors.Is(err, backup.ErrNothingToBackup) {
		fmt.Println("Nothing to back up yet. Add a workout first.")
		return
	}
	if err != nil {
		fail("creating backup", err)
	}

	info, err := manager.Get(name)
	if err != nil {
		fail("reading backup info", err)
	}

	fmt.Printf("✓ Backup created: %s\n", name)
	fmt.Printf("  %s\n", formatStats(info.Stats))
	fmt.Printf("  Location: %s\n", info.Path)
}

// listBackups lists all available backups.
func listBackups(manager *backup.Manager) {
	backups, err := manager.List()
	if err != nil {
		fail("listing backups", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups available.")
		fmt.Println("Run 'liftlog backup' to create one.")
		return
	}

	fmt.Println("Available backups:")
	for _, b := range backups {
		fmt.Printf("  %s  (%s)   %s\n", b.Name, formatAge(b.CreatedAt), formatStats(b.Stats))
	}
}

func pruneBackups(manager *backup.Manager, keep int) {
	deleted, err := manager.Prune(keep)
	if err != nil {
		fail("pruning backups", err)
	}
	fmt.Printf("✓ Deleted %d backup(s), kept the %d newest\n", deleted, keep)
}

func formatStats(s backup.Stats) string {
	return fmt.Sprintf("Groups: %d, Exercises: %d, Weights logged: %d", s.Groups, s.Exercises, s.HistoryEntries)
}

// formatAge returns a human-readable age string.
func formatAge(t time.Time) string {
	d := time.Since(t)

	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}
