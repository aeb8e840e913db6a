package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func record(msg string, args ...any) slog.Record {
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
	rec.Add(args...)
	return rec
}

func TestRingBuffer_NewestFirst(t *testing.T) {
	ring := NewRingBuffer(10)
	for _, msg := range []string{"one", "two", "three"} {
		if err := ring.Handle(context.Background(), record(msg)); err != nil {
			t.Fatalf("Handle() error = %v", err)
		}
	}

	got := ring.Recent(0)
	if len(got) != 3 {
		t.Fatalf("Recent() = %d entries, want 3", len(got))
	}
	want := []string{"three", "two", "one"}
	for i, w := range want {
		if got[i].Message != w {
			t.Errorf("entry %d = %q, want %q", i, got[i].Message, w)
		}
	}
}

func TestRingBuffer_DropsOldest(t *testing.T) {
	ring := NewRingBuffer(2)
	for _, msg := range []string{"a", "b", "c"} {
		ring.Handle(context.Background(), record(msg))
	}

	got := ring.Recent(0)
	if len(got) != 2 {
		t.Fatalf("Recent() = %d entries, want 2", len(got))
	}
	if got[0].Message != "c" || got[1].Message != "b" {
		t.Errorf("entries = %q, %q; want c, b", got[0].Message, got[1].Message)
	}
}

func TestRingBuffer_LimitsN(t *testing.T) {
	ring := NewRingBuffer(10)
	for _, msg := range []string{"a", "b", "c", "d"} {
		ring.Handle(context.Background(), record(msg))
	}

	got := ring.Recent(2)
	if len(got) != 2 {
		t.Fatalf("Recent(2) = %d entries, want 2", len(got))
	}
	if got[0].Message != "d" {
		t.Errorf("newest = %q, want d", got[0].Message)
	}
}

func TestRingBuffer_CapturesAttrs(t *testing.T) {
	ring := NewRingBuffer(10)
	ring.Handle(context.Background(), record("upload", "documentId", "abc", "rows", 5))

	got := ring.Recent(1)
	if len(got) != 1 {
		t.Fatal("no entries captured")
	}
	if got[0].Attrs["documentId"] != "abc" {
		t.Errorf("attrs = %v", got[0].Attrs)
	}
}

func TestRingBuffer_WithAttrsSharesBuffer(t *testing.T) {
	ring := NewRingBuffer(10)
	scoped := ring.WithAttrs([]slog.Attr{slog.String("component", "planner")})
	scoped.Handle(context.Background(), record("plan generated"))

	got := ring.Recent(0)
	if len(got) != 1 {
		t.Fatalf("entries = %d, want 1", len(got))
	}
	if got[0].Attrs["component"] != "planner" {
		t.Errorf("attrs = %v, want component=planner", got[0].Attrs)
	}
}

func TestRingBuffer_AsSlogHandler(t *testing.T) {
	ring := NewRingBuffer(10)
	logger := slog.New(ring)
	logger.Info("hello", "k", "v")

	got := ring.Recent(0)
	if len(got) != 1 || got[0].Message != "hello" || got[0].Level != "INFO" {
		t.Errorf("entries = %+v", got)
	}
}
