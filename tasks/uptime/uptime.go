// Package uptime shows the time since boot on the first LCD line.
package uptime

import (
	"fmt"

	"rugos/hal"
	"rugos/kernel"
	"rugos/tasks"
)

// Start creates the uptime device task, run every period milliseconds.
func Start(s tasks.Spawner, lcd hal.LCD, period kernel.Name) error {
	entry := func(ctx *kernel.Context) {
		for {
			lcd.Print(0, Format(ctx.Now()))
			ctx.Yield()
		}
	}
	if _, err := s.CreateTask(entry, 0, kernel.ClassDevice, period); err != nil {
		return fmt.Errorf("uptime: %w", err)
	}
	return nil
}

// Format renders ms as mm:ss.cc. Minutes wrap at 100.
func Format(ms kernel.Millis) string {
	cs := ms / 10
	s := cs / 100
	m := s / 60

	b := [8]byte{'0', '0', ':', '0', '0', '.', '0', '0'}
	put2(b[0:2], uint64(m%100))
	put2(b[3:5], uint64(s%60))
	put2(b[6:8], uint64(cs%100))
	return string(b[:])
}

func put2(dst []byte, v uint64) {
	dst[0] = byte('0' + v/10)
	dst[1] = byte('0' + v%10)
}
