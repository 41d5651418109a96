package kernel

import (
	"testing"

	"rugos/hal"
)

func TestClockCarriesResidual(t *testing.T) {
	vt := hal.NewVirtualTimer(3)
	var c clock
	c.reset(vt)

	for _, tc := range []struct {
		ticks uint32
		want  Millis
	}{
		{4, 1},
		{1, 1},
		{1, 2},
		{2, 2},
		{7, 5},
	} {
		vt.AdvanceTicks(tc.ticks)
		if got := c.update(); got != tc.want {
			t.Fatalf("after %d more ticks update() = %d, want %d", tc.ticks, got, tc.want)
		}
	}
}

func TestClockCounterWrap(t *testing.T) {
	vt := hal.NewVirtualTimer(1000)
	vt.SetTicks(^uint32(0) - 499)
	var c clock
	c.reset(vt)

	vt.Advance(2)
	if got := c.update(); got != 2 {
		t.Fatalf("update() across wrap = %d, want 2", got)
	}
	if vt.Ticks() != 1500 {
		t.Fatalf("ticks = %d, want 1500", vt.Ticks())
	}
}
