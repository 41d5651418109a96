//go:build tinygo && baremetal

package hal

import "machine"

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	lcd    *panelLCD
	serial *uartSerial
	t      *monoTimer
}

// New returns a Pico (RP2040/RP2350) HAL implementation.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1. The log and the serial
// port share it; LCD lines are mirrored to the log.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	logger := &uartLogger{uart: uart}
	return &tinyGoHAL{
		logger: logger,
		led:    &pinLED{pin: ledPin},
		lcd:    newPanelLCD(nil, logger),
		serial: &uartSerial{uart: uart},
		t:      newMonoTimer(),
	}
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }
func (h *tinyGoHAL) LED() LED       { return h.led }
func (h *tinyGoHAL) LCD() LCD       { return h.lcd }
func (h *tinyGoHAL) Serial() Serial { return h.serial }
func (h *tinyGoHAL) Timer() Timer   { return h.t }
