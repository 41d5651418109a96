package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rugos/hal"
	"rugos/internal/buildinfo"
	"rugos/internal/config"
	"rugos/kernel"
	"rugos/tasks"
	"rugos/tasks/blink"
	"rugos/tasks/interleave"
	"rugos/tasks/printer"
	"rugos/tasks/uptime"
)

// DefaultSimFrame is how far simulated time moves per Step on a VirtualTimer.
const DefaultSimFrame kernel.Millis = 16

// maxSimPasses bounds one simulated Step when no task lets time move.
const maxSimPasses = 10_000

type Config struct {
	// Boot is the boot file; nil selects config.Default().
	Boot *config.File
	// TraceLog writes every dispatch to the HAL logger.
	TraceLog bool
	// Observer receives scheduling events in addition to TraceLog.
	Observer kernel.Observer
	// SimFrame overrides DefaultSimFrame.
	SimFrame kernel.Millis
}

// System is a booted kernel plus the board it runs on.
type System struct {
	h   hal.HAL
	k   *kernel.Kernel
	cfg Config
	vt  *hal.VirtualTimer

	mu      sync.Mutex
	started bool
	done    bool
	err     error
	cancel  context.CancelFunc
}

// New builds the kernel from cfg and queues the boot task that starts the
// configured demos. Nothing runs until the first Step.
func New(h hal.HAL, cfg Config) (*System, error) {
	if cfg.Boot == nil {
		cfg.Boot = config.Default()
	}
	if err := cfg.Boot.Validate(); err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if cfg.SimFrame == 0 {
		cfg.SimFrame = DefaultSimFrame
	}

	installPanicHandler(h)
	bootScreen(h)

	kcfg := cfg.Boot.KernelConfig()
	var observers kernel.Observers
	if cfg.TraceLog {
		observers = append(observers, newLogObserver(h.Logger()))
	}
	if cfg.Observer != nil {
		observers = append(observers, cfg.Observer)
	}
	if len(observers) > 0 {
		kcfg.Observer = observers
	}

	k, err := kernel.New(h.Timer(), kcfg)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	s := &System{h: h, k: k, cfg: cfg}
	s.vt, _ = h.Timer().(*hal.VirtualTimer)
	if _, err := k.CreateTask(s.boot, 0, kernel.ClassSporadic, 0); err != nil {
		return nil, fmt.Errorf("app: boot task: %w", err)
	}
	return s, nil
}

// NewWithConfig adapts New to the hal runners' step-function contract.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := New(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return s.Step
}

// Run boots the default system and runs it forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	s, err := New(h, Config{})
	if err != nil {
		h.Logger().WriteLineString(err.Error())
		select {}
	}
	if err := s.k.Run(context.Background()); err != nil {
		h.Logger().WriteLineString(err.Error())
	}
	select {}
}

// Kernel returns the system's kernel.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Step is polled by the runner. On a VirtualTimer it advances the system by
// one simulation frame. Otherwise the first call starts the kernel on its own
// goroutine and later calls report whether it stopped.
func (s *System) Step() error {
	if s.vt != nil {
		return s.simulate()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.started = true
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go func() {
			err := s.k.Run(ctx)
			s.mu.Lock()
			s.done = true
			s.err = err
			s.mu.Unlock()
		}()
	}
	if s.done && !errors.Is(s.err, context.Canceled) {
		return s.err
	}
	return nil
}

func (s *System) simulate() error {
	target := s.k.Now() + s.cfg.SimFrame
	for i := 0; s.k.Now() < target && i < maxSimPasses; i++ {
		if err := s.k.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Stop ends the kernel. A running Run returns after its current pass.
func (s *System) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		return
	}
	s.k.Shutdown()
}

// boot is the first task. It starts the demos from inside the kernel, the
// same way any task creates others.
func (s *System) boot(ctx *kernel.Context) {
	if err := startDemos(ctx, s.h, s.cfg.Boot); err != nil {
		s.h.Logger().WriteLineString("boot: " + err.Error())
	}
}

func startDemos(sp tasks.Spawner, h hal.HAL, f *config.File) error {
	if f.HasDemo(config.DemoUptime) {
		if err := uptime.Start(sp, h.LCD(), kernel.Name(f.Uptime.Period)); err != nil {
			return err
		}
	}
	if f.HasDemo(config.DemoInterleave) {
		if err := interleave.Start(sp, h.LCD(), interleave.DefaultNames); err != nil {
			return err
		}
	}
	if f.HasDemo(config.DemoBlink) {
		if err := blink.Start(sp, h.LED(), kernel.Name(f.Blink.Period)); err != nil {
			return err
		}
	}
	if f.HasDemo(config.DemoPrinter) {
		banner := "rugos " + buildinfo.Short() + "\n"
		if err := printer.Start(sp, h.Serial(), kernel.Name(f.Printer.Period), banner, f.Printer.Message); err != nil {
			return err
		}
	}
	return nil
}

func bootScreen(h hal.HAL) {
	lcd := h.LCD()
	if lcd == nil {
		return
	}
	lcd.Clear()
	lcd.Print(0, "rugos "+buildinfo.Short())
	lcd.Print(1, "booting")
}

// logObserver writes scheduling events to a hal.Logger.
type logObserver struct {
	l hal.Logger
}

func newLogObserver(l hal.Logger) *logObserver { return &logObserver{l: l} }

func (o *logObserver) Dispatched(task kernel.TaskInfo, now kernel.Millis) {
	o.l.WriteLineString(fmt.Sprintf("sched: t=%d dispatch task=%d class=%s name=%d state=%s",
		now, task.ID, task.Class, task.Name, task.State))
}

func (o *logObserver) Returned(task kernel.TaskInfo, why kernel.SwitchReason, now kernel.Millis) {
	o.l.WriteLineString(fmt.Sprintf("sched: t=%d return task=%d reason=%s", now, task.ID, why))
}
