package logging

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultRingSize is the fallback capacity for the recent-log buffer.
const DefaultRingSize = 500

// Entry is one captured log record in API-friendly form.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// RingBuffer is a bounded FIFO slog.Handler. When full, the oldest entry is
// dropped. It never filters by level: the console handler decides verbosity,
// the ring keeps everything it is handed for after-the-fact inspection.
type RingBuffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewRingBuffer creates a ring holding at most size entries.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{entries: make([]Entry, size)}
}

// Enabled implements slog.Handler.
func (r *RingBuffer) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (r *RingBuffer) Handle(_ context.Context, rec slog.Record) error {
	attrs := make(map[string]any, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	e := Entry{
		Time:    rec.Time,
		Level:   rec.Level.String(),
		Message: rec.Message,
	}
	if len(attrs) > 0 {
		e.Attrs = attrs
	}

	r.mu.Lock()
	r.entries[r.next] = e
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.full = true
	}
	r.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler. The returned handler shares the same
// underlying buffer so fan-out groups still land in one ring.
func (r *RingBuffer) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringView{ring: r, attrs: attrs}
}

// WithGroup implements slog.Handler. Groups are flattened; the ring is a
// diagnostic aid, not a faithful structured sink.
func (r *RingBuffer) WithGroup(string) slog.Handler { return r }

// Recent returns up to n entries, newest first.
func (r *RingBuffer) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := r.next
	if r.full {
		size = len(r.entries)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		idx := r.next - 1 - i
		if idx < 0 {
			idx += len(r.entries)
		}
		out = append(out, r.entries[idx])
	}
	return out
}

// ringView is a RingBuffer handle carrying pre-bound attrs.
type ringView struct {
	ring  *RingBuffer
	attrs []slog.Attr
}

func (v *ringView) Enabled(context.Context, slog.Level) bool { return true }

func (v *ringView) Handle(ctx context.Context, rec slog.Record) error {
	rec = rec.Clone()
	rec.AddAttrs(v.attrs...)
	return v.ring.Handle(ctx, rec)
}

func (v *ringView) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ringView{ring: v.ring, attrs: append(append([]slog.Attr{}, v.attrs...), attrs...)}
}

func (v *ringView) WithGroup(string) slog.Handler { return v }
