package blink

import (
	"testing"

	"rugos/hal"
	"rugos/kernel"
)

type recordLED struct {
	edges []bool
}

func (l *recordLED) High() { l.edges = append(l.edges, true) }
func (l *recordLED) Low()  { l.edges = append(l.edges, false) }

func TestStart(t *testing.T) {
	k, err := kernel.New(hal.NewVirtualTimer(1), kernel.Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer k.Shutdown()

	led := &recordLED{}
	if err := Start(k, led, 250); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for k.Now() < 1000 {
		if err := k.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	// Runs at 0, 250, 500, 750 and 1000 ms.
	want := []bool{true, false, true, false, true}
	if len(led.edges) != len(want) {
		t.Fatalf("edges = %v, want %v", led.edges, want)
	}
	for i := range want {
		if led.edges[i] != want[i] {
			t.Fatalf("edges = %v, want %v", led.edges, want)
		}
	}
}
