package workout

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used in history entries.
const DateLayout = "2006-01-02"

// Factory creates new entities. It owns the clock and the id source so the
// generating transitions stay deterministic under test.
type Factory struct {
	now   func() time.Time
	newID func(prefix string) string
}

// NewFactory returns a Factory using the wall clock and random UUIDs.
func NewFactory() *Factory {
	return &Factory{now: time.Now, newID: randomID}
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (f *Factory) SetNowFunc(now func() time.Time) {
	if now == nil {
		f.now = time.Now
		return
	}
	f.now = now
}

// SetIDFunc overrides the id source. Passing nil restores random UUIDs.
func (f *Factory) SetIDFunc(fn func(prefix string) string) {
	if fn == nil {
		f.newID = randomID
		return
	}
	f.newID = fn
}

// Now returns the current time according to the factory clock.
func (f *Factory) Now() time.Time {
	if f == nil || f.now == nil {
		return time.Now()
	}
	return f.now()
}

// Today returns the local calendar date of the factory clock.
func (f *Factory) Today() string {
	return f.Now().Format(DateLayout)
}

func (f *Factory) id(prefix string) string {
	if f == nil || f.newID == nil {
		return randomID(prefix)
	}
	return f.newID(prefix)
}

// randomID returns prefix-<uuid v4>.
func randomID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
