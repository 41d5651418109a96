package hal

import (
	"sync"
	"time"
)

const (
	monoTicksPerMilli = 1000
	// maxHalt bounds WaitForInterrupt so an idle CPU notices shutdown.
	maxHalt = 100 * time.Millisecond
)

// monoTimer is a Timer backed by the Go runtime's monotonic clock: one tick
// per microsecond.
type monoTimer struct {
	start time.Time

	mu    sync.Mutex
	alarm *time.Timer
	gen   uint64

	irq chan struct{}
}

func newMonoTimer() *monoTimer {
	return &monoTimer{start: time.Now(), irq: make(chan struct{}, 1)}
}

func (t *monoTimer) Ticks() uint32 {
	return uint32(time.Since(t.start) / time.Microsecond)
}

func (t *monoTimer) TicksPerMilli() uint32 { return monoTicksPerMilli }

func (t *monoTimer) ArmAlarm(ms uint32, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.alarm != nil {
		t.alarm.Stop()
	}
	t.gen++
	gen := t.gen
	t.alarm = time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		t.mu.Lock()
		live := t.gen == gen
		t.mu.Unlock()
		if !live {
			return
		}
		if fire != nil {
			fire()
		}
		select {
		case t.irq <- struct{}{}:
		default:
		}
	})
}

func (t *monoTimer) DisarmAlarm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.alarm != nil {
		t.alarm.Stop()
		t.alarm = nil
	}
}

// WaitForInterrupt blocks until the alarm fires. Wakeups may be spurious.
func (t *monoTimer) WaitForInterrupt() {
	halt := time.NewTimer(maxHalt)
	defer halt.Stop()
	select {
	case <-t.irq:
	case <-halt.C:
	}
}
