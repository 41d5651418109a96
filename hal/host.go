//go:build !tinygo

package hal

import "os"

type hostHAL struct {
	logger Logger
	led    *logLED
	fb     *hostFramebuffer
	lcd    *panelLCD
	t      *monoTimer
	serial Serial
}

// New returns a host HAL implementation. The LCD renders into a framebuffer
// that RunWindow presents; it is mirrored to the logger when mirrorLCD is set.
func New() HAL {
	return newHost(false)
}

func newHost(mirrorLCD bool) *hostHAL {
	logger := NewWriterLogger(os.Stderr)
	fb := newHostFramebuffer(lcdPanelWidth, lcdPanelHeight)
	var mirror Logger
	if mirrorLCD {
		mirror = logger
	}
	return &hostHAL{
		logger: logger,
		led:    &logLED{logger: logger},
		fb:     fb,
		lcd:    newPanelLCD(fb, mirror),
		t:      newMonoTimer(),
		serial: NewWriterSerial(os.Stdout),
	}
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) LED() LED       { return h.led }
func (h *hostHAL) LCD() LCD       { return h.lcd }
func (h *hostHAL) Serial() Serial { return h.serial }
func (h *hostHAL) Timer() Timer   { return h.t }
