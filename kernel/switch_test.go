package kernel

import (
	"context"
	"testing"
	"time"
)

// gateTimer never fires. WaitForInterrupt reports that the CPU went idle and
// blocks until the gate opens.
type gateTimer struct {
	idle chan struct{}
	gate chan struct{}
}

func newGateTimer() *gateTimer {
	return &gateTimer{idle: make(chan struct{}, 1), gate: make(chan struct{})}
}

func (g *gateTimer) Ticks() uint32           { return 0 }
func (g *gateTimer) TicksPerMilli() uint32   { return 1 }
func (g *gateTimer) ArmAlarm(uint32, func()) {}
func (g *gateTimer) DisarmAlarm()            {}

func (g *gateTimer) WaitForInterrupt() {
	select {
	case g.idle <- struct{}{}:
	default:
	}
	<-g.gate
}

func TestShutdownWhileIdle(t *testing.T) {
	g := newGateTimer()
	k, err := New(g, Config{MaxExecutionTime: 2000})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(k.Shutdown)

	done := make(chan error, 1)
	go func() { done <- k.Run(context.Background()) }()

	<-g.idle
	k.Shutdown()
	close(g.gate)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run() still blocked after Shutdown")
	}
	if err := k.Step(); err == nil {
		t.Fatalf("Step() after Shutdown returned nil")
	}
}

func TestSwitchReasonString(t *testing.T) {
	tests := []struct {
		r    SwitchReason
		want string
	}{
		{SwitchYield, "yield"},
		{SwitchPreempt, "preempt"},
		{SwitchBlock, "block"},
		{SwitchTerminate, "terminate"},
		{SwitchFault, "fault"},
		{0, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Fatalf("SwitchReason(%d).String() = %q, want %q", tt.r, got, tt.want)
		}
	}
}
