package kernel

import (
	"math"
	"testing"
)

func TestCriticalSectionsNest(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	var masks []bool
	mustCreate(t, k, func(c *Context) {
		masks = append(masks, k.masked)
		outer := k.disable()
		inner := k.disable()
		masks = append(masks, k.masked)
		k.restore(inner)
		masks = append(masks, k.masked)
		k.restore(outer)
		masks = append(masks, k.masked)
	}, 0, ClassSporadic, 0)

	steps(t, k, 1)
	want := []bool{false, true, true, false}
	for i := range want {
		if masks[i] != want[i] {
			t.Fatalf("masks = %v, want %v", masks, want)
		}
	}
}

func TestPreemptionDeferredToOutermostRestore(t *testing.T) {
	k, vt := newTestKernel(t, Config{Schedule: []Slot{{Name: 1, MaxSlice: 2}}})

	var trace []string
	mustCreate(t, k, func(c *Context) {
		prev := k.disable()
		vt.Advance(5)
		c.Safepoint()
		trace = append(trace, "inside")
		k.restore(prev)
		trace = append(trace, "after")
		forever(c)
	}, 0, ClassPeriodic, 1)

	if h := k.pass(); h.reason != SwitchPreempt {
		t.Fatalf("switch reason = %s, want preempt", h.reason)
	}
	if len(trace) != 1 || trace[0] != "inside" {
		t.Fatalf("trace = %v, want [inside]", trace)
	}

	if h := k.pass(); h.reason != SwitchYield {
		t.Fatalf("second switch reason = %s, want yield", h.reason)
	}
	if len(trace) != 2 || trace[1] != "after" {
		t.Fatalf("trace = %v, want [inside after]", trace)
	}
}

func TestMaskSurvivesSwitch(t *testing.T) {
	k, _ := newTestKernel(t, Config{})

	var masks []bool
	mustCreate(t, k, func(c *Context) {
		prev := k.disable()
		c.Yield()
		masks = append(masks, k.masked)
		k.restore(prev)
		masks = append(masks, k.masked)
	}, 0, ClassSporadic, 0)
	// A second task runs unmasked in between.
	mustCreate(t, k, func(c *Context) {
		masks = append(masks, k.masked)
	}, 0, ClassSporadic, 0)

	steps(t, k, 3)
	want := []bool{false, true, false}
	if len(masks) != len(want) {
		t.Fatalf("masks = %v, want %v", masks, want)
	}
	for i := range want {
		if masks[i] != want[i] {
			t.Fatalf("masks = %v, want %v", masks, want)
		}
	}
}

func TestKernelRunsMasked(t *testing.T) {
	k, _ := newTestKernel(t, Config{})
	if !k.masked {
		t.Fatalf("kernel unmasked after New")
	}
	mustCreate(t, k, func(*Context) {}, 0, ClassSporadic, 0)
	if !k.masked {
		t.Fatalf("kernel unmasked after CreateTask")
	}
	steps(t, k, 1)
	if !k.masked {
		t.Fatalf("kernel unmasked after a dispatch")
	}
}

func TestStaleAlarmIgnored(t *testing.T) {
	k, _ := newTestKernel(t, Config{})
	gen := k.alarmGen.Load()
	k.disarmAlarm()
	k.interrupt(gen)
	if k.pending.Load() {
		t.Fatalf("stale alarm latched a preemption")
	}
	k.interrupt(k.alarmGen.Load())
	if !k.pending.Load() {
		t.Fatalf("live alarm not latched")
	}
}

func TestLongSliceAlarmIsClamped(t *testing.T) {
	k, vt := newTestKernel(t, Config{Schedule: []Slot{{Name: 1, MaxSlice: 1 << 40}}})

	var armed bool
	var in uint32
	mustCreate(t, k, func(c *Context) {
		armed, in = vt.Armed()
		forever(c)
	}, 0, ClassPeriodic, 1)

	steps(t, k, 1)
	if !armed || in != math.MaxInt32 {
		t.Fatalf("Armed() = %v, %d, want true, %d", armed, in, math.MaxInt32)
	}
}
