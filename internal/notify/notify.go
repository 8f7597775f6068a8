// Package notify holds the dismissable messages shown to the user when an
// operation fails or needs confirmation.
package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Notice struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier receives user-facing messages.
type Notifier interface {
	Notify(level Level, message string) Notice
}

const defaultCapacity = 50

// Center keeps pending notices until the user dismisses them. When full the
// oldest notice is dropped.
type Center struct {
	mu       sync.Mutex
	pending  []Notice
	capacity int
	now      func() time.Time
}

func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Center{capacity: capacity, now: time.Now}
}

func (c *Center) Notify(level Level, message string) Notice {
	n := Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: c.now().UTC(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) >= c.capacity {
		c.pending = c.pending[1:]
	}
	c.pending = append(c.pending, n)
	return n
}

// Pending returns the undismissed notices, oldest first.
func (c *Center) Pending() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.pending))
	copy(out, c.pending)
	return out
}

func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.pending {
		if n.ID == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Center) Clear() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(level Level, message string) Notice {
	return Notice{Level: level, Message: message}
}

type userMessager interface {
	UserMessage() string
}

// UserMessage picks the text shown for err: the first non-empty user message
// in its chain, else fallback.
func UserMessage(err error, fallback string) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if um, ok := e.(userMessager); ok {
			if msg := um.UserMessage(); msg != "" {
				return msg
			}
		}
	}
	return fallback
}
