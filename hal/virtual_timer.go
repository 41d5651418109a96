package hal

import "sync"

// VirtualTimer is a deterministic Timer for tests and simulation. Time moves
// only when Advance is called, or when an idle CPU halts and the timer skips
// straight to the armed alarm.
type VirtualTimer struct {
	mu       sync.Mutex
	ticks    uint32
	perMilli uint32

	armed bool
	due   uint32
	fire  func()
}

// NewVirtualTimer returns a VirtualTimer counting perMilli ticks per millisecond.
func NewVirtualTimer(perMilli uint32) *VirtualTimer {
	if perMilli == 0 {
		perMilli = 1
	}
	return &VirtualTimer{perMilli: perMilli}
}

func (t *VirtualTimer) Ticks() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ticks
}

func (t *VirtualTimer) TicksPerMilli() uint32 { return t.perMilli }

// SetTicks moves the counter to an absolute value without firing the alarm.
func (t *VirtualTimer) SetTicks(v uint32) {
	t.mu.Lock()
	t.ticks = v
	t.mu.Unlock()
}

func (t *VirtualTimer) ArmAlarm(ms uint32, fire func()) {
	t.mu.Lock()
	t.armed = true
	t.due = t.ticks + ms*t.perMilli
	t.fire = fire
	t.mu.Unlock()
	if ms == 0 {
		t.AdvanceTicks(0)
	}
}

func (t *VirtualTimer) DisarmAlarm() {
	t.mu.Lock()
	t.armed = false
	t.fire = nil
	t.mu.Unlock()
}

// Armed reports whether an alarm is pending and, if so, in how many ticks it fires.
func (t *VirtualTimer) Armed() (bool, uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.armed {
		return false, 0
	}
	if int32(t.due-t.ticks) <= 0 {
		return true, 0
	}
	return true, t.due - t.ticks
}

// Advance moves time forward by ms milliseconds, firing the alarm if it comes due.
func (t *VirtualTimer) Advance(ms uint32) {
	t.AdvanceTicks(ms * t.perMilli)
}

// AdvanceTicks moves time forward by n ticks, firing the alarm if it comes due.
func (t *VirtualTimer) AdvanceTicks(n uint32) {
	t.mu.Lock()
	t.ticks += n
	var fire func()
	if t.armed && int32(t.ticks-t.due) >= 0 {
		t.armed = false
		fire = t.fire
		t.fire = nil
	}
	t.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// WaitForInterrupt skips to the armed alarm and fires it. Without an alarm it
// lets one millisecond pass.
func (t *VirtualTimer) WaitForInterrupt() {
	t.mu.Lock()
	var n uint32
	if t.armed {
		if d := int32(t.due - t.ticks); d > 0 {
			n = uint32(d)
		}
	} else {
		n = t.perMilli
	}
	t.mu.Unlock()
	t.AdvanceTicks(n)
}
