//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is how often the app's step function is polled.
	Hz int
	// Ticks stops the runner after that many polls; zero runs until ctx is done.
	Ticks uint64
	// Virtual runs the kernel on a VirtualTimer instead of the wall clock.
	// Each poll then advances simulated time as far as the app's step takes it.
	Virtual bool
}

// RunHeadless runs the system without opening a window. The LCD and LED are
// mirrored to the log so their output stays visible.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	var h HAL
	if cfg.Virtual {
		h = NewVirtual(os.Stdout, os.Stderr, true)
	} else {
		h = newHost(true)
	}
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
