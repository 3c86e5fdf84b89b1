// Package notify is the fire-and-forget toast channel used to tell the user
// about side effects such as favorites changes.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Theme selects toast colours. ThemeAuto follows the UI theme.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Kind classifies a toast.
type Kind string

const (
	KindDefault Kind = "default"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DefaultAutoClose is how long a toast stays visible when none is set.
const DefaultAutoClose = 3 * time.Second

// Toast is a single transient message.
type Toast struct {
	Message   string
	Theme     Theme
	Kind      Kind
	AutoClose time.Duration
}

// WithDefaults fills unset fields.
func (t Toast) WithDefaults() Toast {
	if t.Theme == "" {
		t.Theme = ThemeAuto
	}
	if t.Kind == "" {
		t.Kind = KindDefault
	}
	if t.AutoClose <= 0 {
		t.AutoClose = DefaultAutoClose
	}
	return t
}

// Notifier delivers toasts. Implementations must not block the caller.
type Notifier interface {
	Notify(Toast)
}

// Func adapts a function to Notifier.
type Func func(Toast)

func (f Func) Notify(t Toast) { f(t) }

// Discard drops every toast.
var Discard Notifier = Func(func(Toast) {})

// Recorder keeps every toast it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	r.toasts = append(r.toasts, t.WithDefaults())
	r.mu.Unlock()
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Messages returns the recorded messages in order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.toasts))
	for _, t := range r.toasts {
		out = append(out, t.Message)
	}
	return out
}

// Log writes toasts to a zap logger at info level.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Notify(t Toast) {
	if l.Logger == nil {
		return
	}
	t = t.WithDefaults()
	l.Logger.Info("toast",
		zap.String("message", t.Message),
		zap.String("kind", string(t.Kind)),
		zap.Duration("auto_close", t.AutoClose))
}

// Channel forwards toasts into a buffered channel, dropping them when the
// buffer is full.
type Channel struct {
	C chan Toast
}

// NewChannel returns a Channel with the given buffer size.
func NewChannel(size int) *Channel {
	return &Channel{C: make(chan Toast, max(size, 1))}
}

func (c *Channel) Notify(t Toast) {
	select {
	case c.C <- t.WithDefaults():
	default:
	}
}

// Multi fans a toast out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(t Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(t)
		}
	}
}
