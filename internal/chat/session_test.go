package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liftlog/internal/assistant"
	"liftlog/internal/storage"
	"liftlog/internal/workout"
)

type fakeGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	reqs  []assistant.Request
	// gate, when set, blocks Generate until it is closed.
	gate chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, req assistant.Request) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeGenerator) requests() []assistant.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]assistant.Request(nil), f.reqs...)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(storage.CollectionKey, "[]"))
	s := storage.Open(kv)
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func TestNewSessionGreets(t *testing.T) {
	s := NewSession(&fakeGenerator{}, newTestStore(t))

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAssistant, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Text)
	assert.False(t, s.Copyable(0), "greeting must not be copyable")
	_, ok := s.LastReply()
	assert.False(t, ok)
}

func TestSendPlainReply(t *testing.T) {
	gen := &fakeGenerator{reply: "Keep your chest up."}
	store := newTestStore(t)
	s := NewSession(gen, store, WithModel("test-model"))

	out, err := s.Send(context.Background(), "How do I squat?")
	require.NoError(t, err)
	assert.Equal(t, "Keep your chest up.", out.Reply.Text)
	assert.False(t, out.SwitchToWorkouts)
	assert.Empty(t, store.Snapshot())

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, Message{Role: RoleUser, Text: "How do I squat?", At: msgs[1].At}, msgs[1])
	assert.Equal(t, RoleAssistant, msgs[2].Role)
	assert.True(t, s.Copyable(2))
	assert.False(t, s.Copyable(1), "user messages are not copyable")
	assert.False(t, s.Copyable(3))

	reqs := gen.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "How do I squat?", reqs[0].Prompt)
	assert.Equal(t, "test-model", reqs[0].Model)
	assert.Contains(t, reqs[0].SystemInstruction, assistant.NoWorkouts)
}

func TestSendStructuredReplyCreatesGroup(t *testing.T) {
	gen := &fakeGenerator{reply: `{"groupName":"Push Day","exercises":[{"name":"Bench","sets":"4","reps":"8"}]}`}
	store := newTestStore(t)
	s := NewSession(gen, store)

	out, err := s.Send(context.Background(), "Make me a push workout")
	require.NoError(t, err)

	assert.True(t, out.SwitchToWorkouts)
	assert.NotEmpty(t, out.GroupID)
	assert.Equal(t, `Great! I created the workout group "Push Day" for you. Check it out in the Workouts tab!`, out.Reply.Text)

	c := store.Snapshot()
	require.Len(t, c, 1)
	assert.Equal(t, out.GroupID, c[0].ID)
	assert.Equal(t, "Push Day", c[0].Name)
	require.Len(t, c[0].Exercises, 1)
	ex := c[0].Exercises[0]
	assert.Equal(t, "Bench", ex.Name)
	assert.Equal(t, "0", ex.CurrentTargetWeight)
	require.Len(t, ex.History, 1)
	assert.Equal(t, "0", ex.History[0].Weight)
}

func TestSendIncludesWorkoutSummary(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	store := newTestStore(t)
	store.AddGroup("Leg Day", []workout.ExerciseSpec{{Name: "Squat"}})
	s := NewSession(gen, store)

	_, err := s.Send(context.Background(), "How do I do my Leg Day?")
	require.NoError(t, err)

	reqs := gen.requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].SystemInstruction, `[{"name":"Leg Day","exercises":["Squat"]}]`)
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		want string
	}{
		{"provider error", &fakeGenerator{err: errors.New("dial tcp: timeout")}, ApologyFailed},
		{"missing key", &fakeGenerator{err: assistant.ErrNoAPIKey}, ApologyFailed},
		{"empty response", &fakeGenerator{err: assistant.ErrEmptyResponse}, ApologyEmpty},
		{"blank reply", &fakeGenerator{reply: ""}, ApologyEmpty},
		{"whitespace reply", &fakeGenerator{reply: "   \n"}, ApologyEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.gen, newTestStore(t))

			out, err := s.Send(context.Background(), "hello")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Reply.Text)
			assert.Error(t, out.Err)
			assert.False(t, s.Busy())

			msgs := s.Messages()
			require.Len(t, msgs, 3)
			assert.Equal(t, tt.want, msgs[2].Text)
		})
	}
}

func TestSendRejectsBlank(t *testing.T) {
	gen := &fakeGenerator{reply: "hi"}
	s := NewSession(gen, newTestStore(t))

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Send(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Len(t, s.Messages(), 1)
	assert.Empty(t, gen.requests())
}

func TestSingleFlight(t *testing.T) {
	gen := &fakeGenerator{reply: "done", gate: make(chan struct{})}
	s := NewSession(gen, newTestStore(t))

	turn, err := s.Begin("first")
	require.NoError(t, err)
	assert.True(t, s.Busy())

	done := make(chan Outcome)
	go func() { done <- turn.Complete(context.Background()) }()

	_, err = s.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.Send(context.Background(), "third")
	assert.ErrorIs(t, err, ErrBusy)

	msgs := s.Messages()
	require.Len(t, msgs, 2, "rejected messages must not be recorded")
	assert.Equal(t, "first", msgs[1].Text)

	close(gen.gate)
	out := <-done
	assert.Equal(t, "done", out.Reply.Text)
	assert.False(t, s.Busy())

	_, err = s.Send(context.Background(), "fourth")
	assert.NoError(t, err)
	assert.Len(t, s.Messages(), 5)
}

func TestCompleteTwiceIsHarmless(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	s := NewSession(gen, newTestStore(t))

	turn, err := s.Begin("hi")
	require.NoError(t, err)
	turn.Complete(context.Background())
	turn.Complete(context.Background())

	assert.Len(t, gen.requests(), 1)
	assert.Len(t, s.Messages(), 3)
	assert.False(t, s.Busy())
}

func TestTimeoutBecomesApology(t *testing.T) {
	gen := &fakeGenerator{gate: make(chan struct{})}
	defer close(gen.gate)
	s := NewSession(gen, newTestStore(t), WithTimeout(20*time.Millisecond))

	out, err := s.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ApologyFailed, out.Reply.Text)
	assert.ErrorIs(t, out.Err, context.DeadlineExceeded)
}

func TestStoreUsableWhileTurnPending(t *testing.T) {
	gen := &fakeGenerator{reply: "ok", gate: make(chan struct{})}
	store := newTestStore(t)
	s := NewSession(gen, store)

	turn, err := s.Begin("hello")
	require.NoError(t, err)
	done := make(chan struct{})
	go func() {
		turn.Complete(context.Background())
		close(done)
	}()

	id := store.AddGroup("Manual", nil)
	assert.NotEmpty(t, id)
	assert.Len(t, store.Snapshot(), 1)

	close(gen.gate)
	<-done
}

func TestLastReplyAndLatestVideo(t *testing.T) {
	gen := &fakeGenerator{reply: "Squat: https://www.youtube.com/watch?v=sq1\nLunge: https://www.youtube.com/watch?v=lu2"}
	s := NewSession(gen, newTestStore(t))

	_, ok := s.LatestVideo()
	assert.False(t, ok)

	_, err := s.Send(context.Background(), "explain leg day")
	require.NoError(t, err)

	id, ok := s.LatestVideo()
	assert.True(t, ok)
	assert.Equal(t, "lu2", id)

	last, ok := s.LastReply()
	assert.True(t, ok)
	assert.Equal(t, gen.reply, last.Text)
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := NewSession(&fakeGenerator{}, newTestStore(t))
	msgs := s.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, Greeting, s.Messages()[0].Text)
}
