package app

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"rugos/hal"
	"rugos/kernel"
)

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("rugos halt: task=%d panic=%v", info.TaskID, info.Value))
			if len(info.Stack) > 0 {
				for _, line := range strings.Split(string(info.Stack), "\n") {
					if line == "" {
						continue
					}
					l.WriteLineString(line)
				}
			}
		}

		lcd := h.LCD()
		if lcd == nil {
			return
		}
		lcd.Print(0, fmt.Sprintf("HALT task %d", info.TaskID))
		msg, _ := takeRunes(fmt.Sprint(info.Value), lcd.Columns())
		lcd.Print(1, msg)
	})
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
