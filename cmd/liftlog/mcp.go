// Package main is the entry point for the liftlog application.
// This file contains the mcp subcommand handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"liftlog/internal/logging"
	"liftlog/internal/mcpserver"
	"liftlog/internal/storage"

	"github.com/samber/do"
)

const mcpHelpText = `liftlog mcp - Serve your workouts to MCP clients

USAGE:
    liftlog mcp

OPTIONS:
    -h, --help     Show this help message

DESCRIPTION:
    Speaks the Model Context Protocol on stdin/stdout so an external agent
    can read your workouts and log weights. Tools:

      list_workouts      Every group with its exercises and current weights
      exercise_history   The logged weights of one exercise, newest first
      log_weight         Register today's weight for an exercise

    Groups and exercises can be referenced by id or by name. Logs go to the
    log file only, stdout carries the protocol.

    Every tool call rereads workoutGroups.json, so changes saved by a running
    liftlog TUI are seen. The TUI does not reread the file, though: a weight
    logged over MCP while the TUI is open is overwritten by the TUI's next
    save. Quit the TUI, or log the weight again there, to keep it.

EXAMPLE CLIENT CONFIG:
    {"mcpServers": {"liftlog": {"command": "liftlog", "args": ["mcp"]}}}
`

// runMCP handles the "liftlog mcp" subcommand.
func runMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, mcpHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(mcpHelpText)
		os.Exit(0)
	}

	if err := serveMCP(); err != nil {
		fail("serving MCP", err)
	}
}

func serveMCP() error {
	env, err := bootstrap(logging.Options{})
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := do.Invoke[*storage.Store](env.di)
	if err != nil {
		return err
	}

	s := mcpserver.New(store, version)
	err = mcpserver.Serve(ctx, s, os.Stdin, os.Stdout)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
