package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a toast.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Toast is one short-lived message shown to the user.
type Toast struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Feed stacks toasts newest first; each expires on its own after the display duration.
type Feed struct {
	mu       sync.Mutex
	duration time.Duration
	now      func() time.Time
	toasts   []Toast
}

// NewFeed builds a feed whose toasts live for duration.
func NewFeed(duration time.Duration) *Feed {
	return &Feed{duration: duration, now: time.Now}
}

// WithClock overrides the time source.
func (f *Feed) WithClock(now func() time.Time) *Feed {
	f.now = now
	return f
}

// Push adds a toast on top of the stack.
func (f *Feed) Push(level Level, text string) Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	toast := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Text:      text,
		CreatedAt: now,
		ExpiresAt: now.Add(f.duration),
	}
	f.toasts = append([]Toast{toast}, f.pruneLocked(now)...)
	return toast
}

// Active drops expired toasts and returns the rest, newest first.
func (f *Feed) Active() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.pruneLocked(f.now())
	f.toasts = kept
	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Len reports how many toasts are held, expired or not.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.toasts)
}

func (f *Feed) pruneLocked(now time.Time) []Toast {
	kept := f.toasts[:0]
	for _, toast := range f.toasts {
		if now.Before(toast.ExpiresAt) {
			kept = append(kept, toast)
		}
	}
	return kept
}
