package table

import (
	"errors"
	"reflect"
	"testing"
)

func TestNotifier_Order(t *testing.T) {
	n := NewNotifier()
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		n.Subscribe(func() error { got = append(got, i); return nil })
	}

	if err := n.NotifyAll(); err != nil {
		t.Fatalf("NotifyAll failed: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Expected subscription order [0 1 2], got %v", got)
	}
}

func TestNotifier_StopsOnError(t *testing.T) {
	n := NewNotifier()
	boom := errors.New("boom")
	var got []string
	n.Subscribe(func() error { got = append(got, "first"); return nil })
	n.Subscribe(func() error { got = append(got, "second"); return boom })
	n.Subscribe(func() error { got = append(got, "third"); return nil })

	if err := n.NotifyAll(); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Errorf("Expected fan-out to stop after failure, got %v", got)
	}
}

func TestNotifier_NilAndClear(t *testing.T) {
	n := NewNotifier()
	n.Subscribe(nil)
	if n.Len() != 0 {
		t.Errorf("Expected nil callback to be ignored, got %d subscribers", n.Len())
	}

	n.Subscribe(func() error { return nil })
	n.Clear()
	if n.Len() != 0 {
		t.Errorf("Expected Clear to drop subscribers, got %d", n.Len())
	}
	if err := n.NotifyAll(); err != nil {
		t.Errorf("NotifyAll on empty notifier failed: %v", err)
	}
}
