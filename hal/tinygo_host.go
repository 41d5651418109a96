//go:build tinygo && !baremetal

package hal

import "os"

type tinyGoHostHAL struct {
	logger Logger
	led    *logLED
	lcd    *panelLCD
	serial Serial
	t      *monoTimer
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping. The LCD and the LED are mirrored to the log.
func New() HAL {
	l := NewWriterLogger(os.Stderr)
	return &tinyGoHostHAL{
		logger: l,
		led:    &logLED{logger: l},
		lcd:    newPanelLCD(nil, l),
		serial: NewWriterSerial(os.Stdout),
		t:      newMonoTimer(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger { return h.logger }
func (h *tinyGoHostHAL) LED() LED       { return h.led }
func (h *tinyGoHostHAL) LCD() LCD       { return h.lcd }
func (h *tinyGoHostHAL) Serial() Serial { return h.serial }
func (h *tinyGoHostHAL) Timer() Timer   { return h.t }
