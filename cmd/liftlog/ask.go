// Package main is the entry point for the liftlog application.
// This file contains the ask subcommand handler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"liftlog/internal/chat"
	"liftlog/internal/logging"

	"github.com/samber/do"
)

const askHelpText = `liftlog ask - Ask Astra a single question

USAGE:
    liftlog ask "TEXT"

OPTIONS:
    -h, --help     Show this help message

DESCRIPTION:
    Sends one message to the assistant and prints the reply. When Astra
    answers with a workout plan, the group is saved to your workouts just
    like in the Chat view.

EXAMPLES:
    liftlog ask "How do I brace for a heavy squat?"
    liftlog ask "Create a pull day with rows and chin-ups"
`

// runAsk handles the "liftlog ask" subcommand.
func runAsk(args []string) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, askHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(askHelpText)
		os.Exit(0)
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "Error: no message given")
		fs.Usage()
		os.Exit(1)
	}

	if err := ask(text); err != nil {
		fail("asking Astra", err)
	}
}

func ask(text string) error {
	env, err := bootstrap(logging.Options{Stderr: true})
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session, err := do.Invoke[*chat.Session](env.di)
	if err != nil {
		return err
	}

	outcome, err := session.Send(ctx, text)
	if err != nil {
		return err
	}

	fmt.Println(outcome.Reply.Text)
	if outcome.Err != nil {
		return outcome.Err
	}
	return nil
}
