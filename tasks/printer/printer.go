// Package printer prints strings on the serial port. Each string is a
// sporadic job that hands its characters, through a channel, to a device
// task pumping one character per period.
package printer

import (
	"fmt"

	"rugos/hal"
	"rugos/kernel"
	"rugos/tasks"
)

// Start initializes the print lock and creates one sporadic job per message.
// Jobs print whole messages, in creation order. A NUL byte ends a message.
func Start(s tasks.Spawner, out hal.Serial, period kernel.Name, messages ...string) error {
	if err := s.InitSemaphore(tasks.SemPrint, 1); err != nil {
		return fmt.Errorf("printer: %w", err)
	}
	for _, msg := range messages {
		if _, err := s.CreateTask(job(out, msg, period), 0, kernel.ClassSporadic, 0); err != nil {
			return fmt.Errorf("printer: %w", err)
		}
	}
	return nil
}

func job(out hal.Serial, msg string, period kernel.Name) kernel.Entry {
	return func(ctx *kernel.Context) {
		ctx.Wait(tasks.SemPrint)

		ch, err := ctx.InitChannel()
		if err == nil {
			err = ctx.InitSemaphore(tasks.SemPrintSpace, kernel.ChannelCapacity)
		}
		if err == nil {
			_, err = ctx.CreateTask(pump(out), int(ch), kernel.ClassDevice, period)
		}
		if err != nil {
			ctx.Signal(tasks.SemPrint)
			return
		}

		for i := 0; i < len(msg) && msg[i] != 0; i++ {
			ctx.Wait(tasks.SemPrintSpace)
			ctx.Write(ch, int(msg[i]))
		}
		ctx.Wait(tasks.SemPrintSpace)
		ctx.Write(ch, 0)
	}
}

// pump moves one character from its channel to the serial port per run and
// releases the print lock when it reaches the terminating NUL.
func pump(out hal.Serial) kernel.Entry {
	return func(ctx *kernel.Context) {
		ch := kernel.ChannelID(ctx.Arg())
		for {
			if v, ok := ctx.Read(ch); ok {
				ctx.Signal(tasks.SemPrintSpace)
				if v == 0 {
					ctx.Signal(tasks.SemPrint)
					return
				}
				_ = out.WriteByte(byte(v))
			}
			ctx.Yield()
		}
	}
}
