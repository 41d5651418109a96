package hal

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestFitLine(t *testing.T) {
	for _, tc := range []struct {
		in   string
		n    int
		want string
	}{
		{"", 4, "    "},
		{"ab", 4, "ab  "},
		{"abcd", 4, "abcd"},
		{"abcdef", 4, "abcd"},
		{"héllo", 3, "hél"},
	} {
		if got := fitLine(tc.in, tc.n); got != tc.want {
			t.Fatalf("fitLine(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestPanelLCDPrint(t *testing.T) {
	var log bytes.Buffer
	lcd := newPanelLCD(nil, NewWriterLogger(&log))

	lcd.Print(0, "uptime")
	lcd.Print(0, "uptime")
	lcd.Print(1, "a line much longer than sixteen")
	lcd.Print(2, "ignored")

	if got := lcd.Line(0); got != "uptime          " {
		t.Fatalf("Line(0) = %q", got)
	}
	if got := lcd.Line(1); got != "a line much long" {
		t.Fatalf("Line(1) = %q", got)
	}
	if got := lcd.Line(2); got != "" {
		t.Fatalf("Line(2) = %q, want empty", got)
	}

	want := "lcd0: |uptime          |\nlcd1: |a line much long|\n"
	if log.String() != want {
		t.Fatalf("mirror = %q, want %q", log.String(), want)
	}

	lcd.Clear()
	if got := lcd.Line(1); got != strings.Repeat(" ", lcdColumns) {
		t.Fatalf("Line(1) after Clear = %q", got)
	}
}

func TestPanelLCDRender(t *testing.T) {
	fb := newHostFramebuffer(lcdPanelWidth, lcdPanelHeight)
	lcd := newPanelLCD(fb, nil)

	backlight := pack565(lcdBacklight)
	ink := pack565(lcdInk)
	count := func() (n int) {
		for i := 0; i+1 < len(fb.buf); i += 2 {
			px := uint16(fb.buf[i]) | uint16(fb.buf[i+1])<<8
			switch px {
			case ink:
				n++
			case backlight:
			default:
				t.Fatalf("pixel %d = %#04x, neither backlight nor ink", i/2, px)
			}
		}
		return n
	}

	if n := count(); n != 0 {
		t.Fatalf("blank panel has %d ink pixels", n)
	}
	lcd.Print(0, "HALT")
	if n := count(); n == 0 {
		t.Fatalf("no ink after Print")
	}
	lcd.Clear()
	if n := count(); n != 0 {
		t.Fatalf("%d ink pixels after Clear", n)
	}
}

func TestPack565(t *testing.T) {
	if got := pack565(color.RGBA{R: 0xff, G: 0xff, B: 0xff}); got != 0xffff {
		t.Fatalf("pack565(white) = %#04x", got)
	}
	if got := pack565(color.RGBA{R: 0xff}); got != 0xf800 {
		t.Fatalf("pack565(red) = %#04x", got)
	}
	if r, g, b := unpack565(0x07e0); r != 0 || g != 0xff || b != 0 {
		t.Fatalf("unpack565(green) = %d,%d,%d", r, g, b)
	}
}
