package hal

import "io"

// Virtual is a fully simulated board: a VirtualTimer, a text-only LCD and a
// serial port and logger that write to the given writers.
type Virtual struct {
	logger Logger
	led    *logLED
	lcd    *panelLCD
	serial Serial
	timer  *VirtualTimer
}

// NewVirtual returns a simulated board. serial receives the serial port's
// bytes, log receives logger lines (including LCD and LED changes when
// mirror is set).
func NewVirtual(serial, log io.Writer, mirror bool) *Virtual {
	logger := NewWriterLogger(log)
	v := &Virtual{
		logger: logger,
		led:    &logLED{},
		serial: NewWriterSerial(serial),
		timer:  NewVirtualTimer(1),
	}
	var m Logger
	if mirror {
		m = logger
		v.led.logger = logger
	}
	v.lcd = newPanelLCD(nil, m)
	return v
}

func (v *Virtual) Logger() Logger { return v.logger }
func (v *Virtual) LED() LED       { return v.led }
func (v *Virtual) LCD() LCD       { return v.lcd }
func (v *Virtual) Serial() Serial { return v.serial }
func (v *Virtual) Timer() Timer   { return v.timer }

// VirtualTimer returns the board's timer with its simulation controls.
func (v *Virtual) VirtualTimer() *VirtualTimer { return v.timer }

// LEDOn reports the LED level.
func (v *Virtual) LEDOn() bool { return v.led.level() }
