// Package main is the entry point for the liftlog application.
// This file contains the restore subcommand handler.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"liftlog/internal/backup"
)

const restoreHelpText = `liftlog restore - Restore workouts from a backup

USAGE:
    liftlog restore [OPTIONS] BACKUP_NAME
    liftlog restore --latest

OPTIONS:
    --latest       Restore from the most recent backup
    -f, --force    Skip the confirmation prompt
    -h, --help     Show this help message

DESCRIPTION:
    Replaces workoutGroups.json with the copy in a backup. The current file
    is saved as a new backup first, so a restore can itself be undone.
    Quit liftlog before restoring.

EXAMPLES:
    # See what is available
    liftlog backup --list

    # Restore a specific backup
    liftlog restore 2024-03-05_093000_042

    # Restore the newest backup
    liftlog restore --latest

    # Restore without confirmation prompt
    liftlog restore --force 2024-03-05_093000_042
`

// runRestore handles the "liftlog restore" subcommand.
func runRestore(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)

	latestFlag := fs.Bool("latest", false, "restore from most recent backup")
	forceFlag := fs.Bool("force", false, "skip confirmation prompt")
	fs.BoolVar(forceFlag, "f", false, "skip confirmation prompt (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, restoreHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(restoreHelpText)
		os.Exit(0)
	}

	cfg := loadConfig()
	manager := backup.NewManager(cfg.GetDataDir(), version)

	var backupName string
	switch {
	case *latestFlag:
		backups, err := manager.List()
		if err != nil {
			fail("listing backups", err)
		}
		if len(backups) == 0 {
			fmt.Fprintln(os.Stderr, "No backups available.")
			os.Exit(1)
		}
		backupName = backups[0].Name
	case fs.NArg() > 0:
		backupName = fs.Arg(0)
	default:
		fmt.Fprintln(os.Stderr, "Error: no backup specified")
		fmt.Fprintln(os.Stderr, "Use 'liftlog restore BACKUP_NAME' or 'liftlog restore --latest'")
		fmt.Fprintln(os.Stderr, "Run 'liftlog backup --list' to see available backups.")
		os.Exit(1)
	}

	info, err := manager.Get(backupName)
	if err != nil {
		fail("reading backup", err)
	}

	fmt.Printf("Restoring from backup: %s\n", info.Name)
	fmt.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  %s\n", formatStats(info.Stats))
	fmt.Println()

	if !*forceFlag && !confirm("⚠ This will overwrite your current workouts.\nContinue? [y/N] ") {
		fmt.Println("Restore cancelled.")
		return
	}

	safety, err := manager.Restore(backupName)
	if err != nil {
		fail("restoring backup", err)
	}

	if safety != "" {
		fmt.Printf("✓ Previous workouts saved as %s\n", safety)
	}
	fmt.Printf("✓ Restored successfully from %s\n", backupName)
}

// confirm asks a yes/no question on stdin.
func confirm(prompt string) bool {
	fmt.Print(prompt)

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		fail("reading input", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
