package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"liftlog/internal/assistant"
	"liftlog/internal/chat"
	"liftlog/internal/config"
	"liftlog/internal/storage"
	"liftlog/internal/workout"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors so rendered output can be matched as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// goldenPath returns the path to a golden file in the testdata directory.
func goldenPath(name string) string {
	return filepath.Join("testdata", name+".golden")
}

// updateGolden is set by UPDATE_GOLDEN=1 to rewrite golden files.
var updateGolden = os.Getenv("UPDATE_GOLDEN") == "1"

// assertGolden compares output against a golden file.
// If UPDATE_GOLDEN=1 is set, it updates the golden file instead.
func assertGolden(t *testing.T, name string, actual string) {
	t.Helper()

	path := goldenPath(name)

	if updateGolden {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		t.Logf("Updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nRun with UPDATE_GOLDEN=1 to create it", path, err)
	}

	if actual != string(expected) {
		t.Errorf("output mismatch for %s\n\nGot:\n%s\n\nWant:\n%s", name, actual, string(expected))
	}
}

// testClock is the fixed time used by test stores and sessions.
var testClock = time.Date(2024, 3, 5, 9, 30, 0, 0, time.Local)

// createTestStore opens a store over an in-memory KV holding initial, with
// sequential ids and a fixed clock. An empty initial means an empty
// collection, not a first run.
func createTestStore(t *testing.T, initial string) (*storage.Store, *storage.MemoryKV) {
	t.Helper()
	if initial == "" {
		initial = "[]"
	}
	kv := storage.NewMemoryKV()
	if err := kv.Set(storage.CollectionKey, initial); err != nil {
		t.Fatalf("failed to seed kv: %v", err)
	}

	f := workout.NewFactory()
	f.SetNowFunc(func() time.Time { return testClock })
	n := 0
	f.SetIDFunc(func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})

	store := storage.Open(kv, storage.WithFactory(f))
	t.Cleanup(func() { _ = store.Shutdown() })
	return store, kv
}

// flushStore waits for pending writes.
func flushStore(t *testing.T, store *storage.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

// stubGenerator answers every request with reply or err.
type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(context.Context, assistant.Request) (string, error) {
	return g.reply, g.err
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// createTestApp builds an app over store with a sized window.
func createTestApp(t *testing.T, store *storage.Store, gen assistant.Generator, cfg *AppConfig) *App {
	t.Helper()
	setupTest(t)
	if gen == nil {
		gen = stubGenerator{reply: "Keep your back straight."}
	}
	session := chat.NewSession(gen, store, chat.WithNowFunc(func() time.Time { return testClock }))
	app := NewApp(store, session, createTestStyles(), cfg)
	app.now = func() time.Time { return testClock }
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app
}

// keyPress builds a key message the way Bubble Tea reports it.
func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyCtrlK}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// typeText sends each rune of s as a key press.
func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(keyPress(string(r)))
	}
}

// press sends a key and runs the resulting command chain until it settles,
// feeding every produced message back into the app. Commands that block on
// store events or timers are skipped.
func press(app *App, k string) {
	_, cmd := app.Update(keyPress(k))
	drain(app, cmd)
}

// drain runs cmd and feeds its messages back into app.
func drain(app *App, cmd tea.Cmd) {
	for depth := 0; cmd != nil && depth < 10; depth++ {
		msg := runCmd(cmd)
		if msg == nil {
			return
		}
		_, cmd = app.Update(msg)
	}
}

// runCmd executes cmd synchronously. Batches run their first immediate
// command only; blocking waiters are not started.
func runCmd(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				if c == nil {
					continue
				}
				if m := runCmd(c); m != nil {
					return m
				}
			}
			return nil
		}
		return msg
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

// seededCollection is a persisted document with one group of two exercises.
const seededCollection = `[
 {"id":"g1","name":"Push Day","exercises":[
  {"id":"e1","name":"Bench Press","sets":"4","reps":"8","currentTargetWeight":"60",
   "history":[{"date":"2024-03-01","weight":"55"},{"date":"2024-03-04","weight":"60"}]},
  {"id":"e2","name":"Overhead Press","sets":"3","reps":"10","currentTargetWeight":"30","history":[]}
 ]},
 {"id":"g2","name":"Leg Day","exercises":[]}
]`
