package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

// Serial is the byte-oriented output port.
type Serial interface {
	WriteByte(c byte) error
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// LCD is a character display of Rows() lines, Columns() characters each.
type LCD interface {
	Columns() int
	Rows() int
	// Print replaces line row with text, padded or cut to the line width.
	Print(row int, text string)
	Clear()
	// Line returns the current content of line row.
	Line(row int) string
}

// Timer is the hardware timebase: a free-running tick counter, a one-shot
// alarm and a halt-until-interrupt primitive. It satisfies kernel.Timer.
type Timer interface {
	Ticks() uint32
	TicksPerMilli() uint32
	ArmAlarm(ms uint32, fire func())
	DisarmAlarm()
	WaitForInterrupt()
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	LCD() LCD
	Serial() Serial
	Timer() Timer
}
