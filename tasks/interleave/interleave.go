// Package interleave runs two periodic writers that take turns, under a
// semaphore, feeding one channel, and a periodic reader that shows what
// arrives on the second LCD line.
package interleave

import (
	"fmt"

	"rugos/hal"
	"rugos/kernel"
	"rugos/tasks"
)

// FrameLen is the number of characters the reader collects per LCD update.
const FrameLen = 12

// Names are the periodic task names the writers and the reader run under.
type Names struct {
	Digits  kernel.Name
	Letters kernel.Name
	Reader  kernel.Name
}

// DefaultNames match the default cyclic-executive table.
var DefaultNames = Names{Digits: 10, Letters: 15, Reader: 20}

// Start creates the writers and the reader.
func Start(s tasks.Spawner, lcd hal.LCD, names Names) error {
	if err := s.InitSemaphore(tasks.SemFrame, 1); err != nil {
		return fmt.Errorf("interleave: %w", err)
	}
	ch, err := s.InitChannel()
	if err != nil {
		return fmt.Errorf("interleave: %w", err)
	}

	for _, t := range []struct {
		entry kernel.Entry
		name  kernel.Name
	}{
		{writer("123"), names.Digits},
		{writer("ABC"), names.Letters},
		{reader(lcd), names.Reader},
	} {
		if _, err := s.CreateTask(t.entry, int(ch), kernel.ClassPeriodic, t.name); err != nil {
			return fmt.Errorf("interleave: %w", err)
		}
	}
	return nil
}

// writer emits seq one character per slot. The semaphore keeps the other
// writer out until the whole sequence is in the channel.
func writer(seq string) kernel.Entry {
	return func(ctx *kernel.Context) {
		ch := kernel.ChannelID(ctx.Arg())
		for {
			ctx.Wait(tasks.SemFrame)
			for i := 0; i < len(seq); i++ {
				ctx.Write(ch, int(seq[i]))
				if i < len(seq)-1 {
					ctx.Yield()
				}
			}
			ctx.Signal(tasks.SemFrame)
			ctx.Yield()
		}
	}
}

func reader(lcd hal.LCD) kernel.Entry {
	return func(ctx *kernel.Context) {
		ch := kernel.ChannelID(ctx.Arg())
		var frame [FrameLen]byte
		for {
			for i := 0; i < FrameLen; {
				v, ok := ctx.Read(ch)
				if !ok {
					ctx.Yield()
					continue
				}
				frame[i] = byte(v)
				i++
			}
			lcd.Print(1, string(frame[:]))
			ctx.Yield()
		}
	}
}
