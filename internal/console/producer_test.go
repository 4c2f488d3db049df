package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestProducer_Tick(t *testing.T) {
	b := NewBuffer(2)
	changes := 0
	p := NewProducer(b, WithOnChange(func() { changes++ }))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	p.Tick(at)
	p.Tick(at.Add(DefaultInterval))
	p.Tick(at.Add(2 * DefaultInterval))

	msgs := b.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if !strings.HasPrefix(msgs[0], "2024-01-02 03:04:07") || !strings.HasSuffix(msgs[0], "Dispatch Message") {
		t.Errorf("Unexpected message: %q", msgs[0])
	}
	if changes != 3 {
		t.Errorf("Expected 3 change callbacks, got %d", changes)
	}
	if p.Interval() != DefaultInterval {
		t.Errorf("Expected default interval, got %v", p.Interval())
	}
}

func TestProducer_RunStopsOnCancel(t *testing.T) {
	b := NewBuffer(8)
	ticked := make(chan struct{}, 16)
	p := NewProducer(b,
		WithInterval(5*time.Millisecond),
		WithSource(func(time.Time) string { return "tick" }),
		WithOnChange(func() { ticked <- struct{}{} }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-ticked:
		case <-time.After(time.Second):
			t.Fatal("producer did not tick")
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("producer did not stop")
	}
}

func TestProducer_RunStopsWhenClosed(t *testing.T) {
	b := NewBuffer(8)
	b.Close()
	p := NewProducer(b, WithInterval(time.Millisecond))

	if err := p.Run(context.Background()); err != nil {
		t.Errorf("Expected nil on closed buffer, got %v", err)
	}
}
