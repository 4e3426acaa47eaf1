// Package main is the entry point for the liftlog application.
// It loads configuration, wires the services and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"liftlog/internal/chat"
	"liftlog/internal/config"
	"liftlog/internal/logging"
	"liftlog/internal/storage"
	"liftlog/internal/ui"

	"github.com/samber/do"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `liftlog - A workout tracker for your terminal, with Astra, your training assistant

USAGE:
    liftlog [OPTIONS]
    liftlog <command> [ARGS]

COMMANDS:
    ask "TEXT"         Ask Astra a single question
    backup             Create a backup of your workouts
    backup --list      List available backups
    restore NAME       Restore from a specific backup
    restore --latest   Restore from the most recent backup
    export             Print a progress report (Markdown)
    export -f json     Output the report as JSON
    import json FILE   Import workout groups from a liftlog JSON document
    import csv FILE    Import workout groups from a spreadsheet export
    mcp                Serve your workouts to MCP clients over stdio

OPTIONS:
    -h, --help         Show this help message
    -v, --version      Show version information

DESCRIPTION:
    liftlog keeps your workout groups, exercises and weight history in a
    keyboard-driven terminal interface. Astra answers training questions,
    points you to technique videos and can build a workout group for you.

KEYBINDINGS:
    Global:
        Tab          Switch between Workouts and Chat
        1, 2         Jump to a view
        ?            Show help overlay
        Ctrl+Z / u   Undo last action
        Ctrl+Y       Redo
        q            Quit (Ctrl+C from the chat)

    Workouts:
        j/k, ↓/↑     Navigate
        a            Add group
        e            Add exercise to the selected group
        r            Rename group / edit exercise
        x            Delete
        Enter / p    Open progress for the selected exercise

    Chat:
        Enter        Send message
        Ctrl+O       Open the latest video link
        Ctrl+K       Copy the last reply

DATA STORAGE:
    Workouts are stored in ~/.liftlog/workoutGroups.json.
    Logs go to ~/.liftlog/liftlog.log.

CONFIGURATION:
    Optional config file: ~/.config/liftlog/config.yaml
    The assistant needs an API key: set assistant.api_key or one of
    LIFTLOG_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY.

EXAMPLES:
    # Start the app
    liftlog

    # Ask for a new workout group
    liftlog ask "Create a push day with bench press and dips"

    # Create a backup, then restore it
    liftlog backup
    liftlog restore --latest

    # Save a progress report
    liftlog export -o progress.md
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "ask":
			runAsk(os.Args[2:])
			return
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "import":
			runImport(os.Args[2:])
			return
		case "mcp":
			runMCP(os.Args[2:])
			return
		}
	}

	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("liftlog version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// runTUI runs the interactive app. Logs go only to the log file while the
// TUI owns the terminal.
func runTUI() error {
	env, err := bootstrap(logging.Options{})
	if err != nil {
		return err
	}
	defer env.Close()

	store := do.MustInvoke[*storage.Store](env.di)
	session := do.MustInvoke[*chat.Session](env.di)
	cfg := env.cfg

	appCfg := &ui.AppConfig{
		Keys:             &cfg.Keys,
		ConfirmDeletions: cfg.UX.ConfirmDeletions,
		ShowOnboarding:   cfg.UX.ShowOnboarding,
	}

	slog.Info("Starting liftlog", "version", version, "data_dir", cfg.GetDataDir())
	return ui.Run(store, session, ui.NewStyles(cfg), appCfg)
}

// loadConfig loads the configuration for subcommands that only need paths.
// Only warnings are logged, to stderr.
func loadConfig() *config.Config {
	logging.Preinit()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// fail reports what went wrong and exits.
func fail(doing string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", doing, err)
	os.Exit(1)
}
