package hal

import (
	"testing"
	"time"
)

func TestMonoTimerAlarm(t *testing.T) {
	mt := newMonoTimer()
	fired := make(chan struct{}, 1)
	mt.ArmAlarm(1, func() { fired <- struct{}{} })

	mt.WaitForInterrupt()
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("alarm did not fire")
	}
}

func TestMonoTimerRearmCancelsStale(t *testing.T) {
	mt := newMonoTimer()
	stale := make(chan struct{}, 1)
	mt.ArmAlarm(5, func() { stale <- struct{}{} })
	mt.DisarmAlarm()

	select {
	case <-stale:
		t.Fatal("disarmed alarm fired")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestMonoTimerTicks(t *testing.T) {
	mt := newMonoTimer()
	a := mt.Ticks()
	time.Sleep(3 * time.Millisecond)
	if d := mt.Ticks() - a; d < 3*monoTicksPerMilli {
		t.Fatalf("ticks advanced %d over 3ms", d)
	}
}
