// Package chat runs the conversation with the assistant: it keeps the message
// history, performs one request at a time and applies structured replies to
// the workout store.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"liftlog/internal/assistant"
	"liftlog/internal/workout"
)

var (
	// ErrEmptyMessage rejects blank input.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy rejects a message while a reply is pending.
	ErrBusy = errors.New("a reply is already in progress")
)

const (
	// DefaultTimeout bounds one provider call.
	DefaultTimeout = 60 * time.Second

	Greeting = "Hi! I'm Astra, your AI personal trainer. How can I help you today?\n\n" +
		"You can ask me to:\n" +
		"- **Create a workout:** 'Create a back and biceps workout'\n" +
		"- **Explain a workout:** 'How do I do my Leg Day?'\n" +
		"- **Answer questions:** 'What's the difference between flat and incline bench press?'"

	ApologyFailed = "Sorry, I couldn't process your request right now. Check your connection or try again later."
	ApologyEmpty  = "Sorry, I didn't get a valid response. Try rephrasing your question."
)

// Role is who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation.
type Message struct {
	Role Role
	Text string
	At   time.Time
}

// Store is the part of the workout store a session needs.
type Store interface {
	Snapshot() workout.Collection
	AddGroup(name string, initial []workout.ExerciseSpec) string
}

// Outcome describes a finished turn.
type Outcome struct {
	Reply Message
	// GroupID is the group created by a structured reply.
	GroupID string
	// SwitchToWorkouts asks the UI to show the workout list.
	SwitchToWorkouts bool
	// Err is the provider failure behind an apology, for callers that want
	// to report it. The apology has already been added to the history.
	Err error
}

// Session holds one conversation.
type Session struct {
	gen     assistant.Generator
	store   Store
	model   string
	timeout time.Duration
	now     func() time.Time

	sem  *semaphore.Weighted
	busy atomic.Bool

	mu       sync.Mutex
	messages []Message
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout bounds each provider call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithModel sets the model requested from the generator.
func WithModel(model string) Option {
	return func(s *Session) { s.model = model }
}

// WithNowFunc overrides the clock used for message timestamps.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession starts a conversation with the greeting.
func NewSession(gen assistant.Generator, store Store, opts ...Option) *Session {
	s := &Session{
		gen:     gen,
		store:   store,
		timeout: DefaultTimeout,
		now:     time.Now,
		sem:     semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []Message{{Role: RoleAssistant, Text: Greeting, At: s.now()}}
	return s
}

// Turn is an accepted user message waiting for its reply. Complete must be
// called exactly once.
type Turn struct {
	s      *Session
	prompt string
	once   sync.Once
}

// Begin accepts text as the next user message. It fails without touching the
// history when text is blank or another turn is in flight.
func (s *Session) Begin(text string) (*Turn, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if !s.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	s.busy.Store(true)

	s.append(RoleUser, text)
	return &Turn{s: s, prompt: text}, nil
}

// Complete asks the generator for a reply, applies it and appends the
// assistant message. Failures become apologies; they are logged and reported
// in Outcome.Err but never returned.
func (t *Turn) Complete(ctx context.Context) Outcome {
	var out Outcome
	t.once.Do(func() {
		defer t.s.release()
		out = t.s.complete(ctx, t.prompt)
	})
	return out
}

func (s *Session) complete(ctx context.Context, prompt string) Outcome {
	summary := assistant.FormatWorkouts(s.store.Snapshot())
	req := assistant.Request{
		Model:             s.model,
		Prompt:            prompt,
		SystemInstruction: assistant.SystemInstruction(summary),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.Generate(ctx, req)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = assistant.ErrEmptyResponse
	}
	if err != nil {
		text := ApologyFailed
		if errors.Is(err, assistant.ErrEmptyResponse) {
			text = ApologyEmpty
			slog.Warn("Assistant returned no text", "elapsed", time.Since(start))
		} else {
			slog.Error("Assistant request failed", "error", err, "elapsed", time.Since(start))
		}
		return Outcome{Reply: s.append(RoleAssistant, text), Err: err}
	}

	applied := assistant.Apply(assistant.Interpret(raw), s.store)
	if applied.Created {
		slog.Info("Assistant created a workout group", "group_id", applied.GroupID)
	}
	return Outcome{
		Reply:            s.append(RoleAssistant, applied.Text),
		GroupID:          applied.GroupID,
		SwitchToWorkouts: applied.Created,
	}
}

// Send runs a whole turn.
func (s *Session) Send(ctx context.Context, text string) (Outcome, error) {
	turn, err := s.Begin(text)
	if err != nil {
		return Outcome{}, err
	}
	return turn.Complete(ctx), nil
}

func (s *Session) release() {
	s.busy.Store(false)
	s.sem.Release(1)
}

func (s *Session) append(role Role, text string) Message {
	m := Message{Role: role, Text: text, At: s.now()}
	s.mu.Lock()
	s.messages = append(s.messages, m)
	s.mu.Unlock()
	return m
}

// Busy reports whether a turn is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Messages returns a copy of the history, greeting first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Copyable reports whether message i offers a copy action: assistant
// messages other than the greeting.
func (s *Session) Copyable(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return i > 0 && i < len(s.messages) && s.messages[i].Role == RoleAssistant
}

// LastReply returns the most recent copyable assistant message.
func (s *Session) LastReply() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i > 0; i-- {
		if s.messages[i].Role == RoleAssistant {
			return s.messages[i], true
		}
	}
	return Message{}, false
}

// LatestVideo returns the last video referenced by an assistant message.
func (s *Session) LatestVideo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role != RoleAssistant {
			continue
		}
		if ids := assistant.VideoRefs(s.messages[i].Text); len(ids) > 0 {
			return ids[len(ids)-1], true
		}
	}
	return "", false
}
