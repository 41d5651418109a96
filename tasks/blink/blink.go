// Package blink toggles the board LED from a device task.
package blink

import (
	"fmt"

	"rugos/hal"
	"rugos/kernel"
	"rugos/tasks"
)

// Start creates a device task that flips led every period milliseconds.
func Start(s tasks.Spawner, led hal.LED, period kernel.Name) error {
	entry := func(ctx *kernel.Context) {
		on := false
		for {
			on = !on
			if on {
				led.High()
			} else {
				led.Low()
			}
			ctx.Yield()
		}
	}
	if _, err := s.CreateTask(entry, 0, kernel.ClassDevice, period); err != nil {
		return fmt.Errorf("blink: %w", err)
	}
	return nil
}
