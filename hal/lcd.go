package hal

import (
	"image/color"
	"strings"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

const (
	lcdColumns = 16
	lcdRows    = 2

	lcdGlyphWidth  = 6
	lcdRowHeight   = 8
	lcdBaseline    = 6
	lcdMargin      = 2
	lcdPanelWidth  = 2*lcdMargin + lcdColumns*lcdGlyphWidth
	lcdPanelHeight = 2*lcdMargin + lcdRows*lcdRowHeight
)

var (
	lcdBacklight = color.RGBA{R: 0x9b, G: 0xbc, B: 0x0f, A: 0xff}
	lcdInk       = color.RGBA{R: 0x0f, G: 0x38, B: 0x0f, A: 0xff}
)

// panelLCD is a 16x2 character LCD. Text is rendered with tinyfont into an
// RGB565 framebuffer (if any) and line changes can be mirrored to a logger.
type panelLCD struct {
	mu     sync.Mutex
	lines  [lcdRows]string
	fb     Framebuffer
	mirror Logger
}

var _ drivers.Displayer = (*panelLCD)(nil)

func newPanelLCD(fb Framebuffer, mirror Logger) *panelLCD {
	l := &panelLCD{fb: fb, mirror: mirror}
	for i := range l.lines {
		l.lines[i] = strings.Repeat(" ", lcdColumns)
	}
	l.mu.Lock()
	l.redraw()
	l.mu.Unlock()
	return l
}

func (l *panelLCD) Columns() int { return lcdColumns }
func (l *panelLCD) Rows() int    { return lcdRows }

func (l *panelLCD) Print(row int, text string) {
	if row < 0 || row >= lcdRows {
		return
	}
	text = fitLine(text, lcdColumns)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lines[row] == text {
		return
	}
	l.lines[row] = text
	l.redraw()
	if l.mirror != nil {
		l.mirror.WriteLineString("lcd" + string(rune('0'+row)) + ": |" + text + "|")
	}
}

func (l *panelLCD) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.lines {
		l.lines[i] = strings.Repeat(" ", lcdColumns)
	}
	l.redraw()
}

func (l *panelLCD) Line(row int) string {
	if row < 0 || row >= lcdRows {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lines[row]
}

// redraw must be called with l.mu held.
func (l *panelLCD) redraw() {
	if l.fb == nil || l.fb.Buffer() == nil {
		return
	}
	if lk, ok := l.fb.(sync.Locker); ok {
		lk.Lock()
		defer lk.Unlock()
	}

	w, h := l.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			l.SetPixel(x, y, lcdBacklight)
		}
	}
	for row, text := range l.lines {
		y := int16(lcdMargin + row*lcdRowHeight + lcdBaseline)
		for col, r := range text {
			x := int16(lcdMargin + col*lcdGlyphWidth)
			tinyfont.DrawChar(l, &tinyfont.Org01, x, y, r, lcdInk)
		}
	}
	_ = l.Display()
}

// Size, SetPixel and Display make the panel a drivers.Displayer for tinyfont.
func (l *panelLCD) Size() (x, y int16) {
	if l.fb == nil {
		return 0, 0
	}
	return int16(l.fb.Width()), int16(l.fb.Height())
}

func (l *panelLCD) SetPixel(x, y int16, c color.RGBA) {
	if l.fb == nil || l.fb.Format() != PixelFormatRGB565 {
		return
	}
	buf := l.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= l.fb.Width() || iy < 0 || iy >= l.fb.Height() {
		return
	}
	off := iy*l.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := pack565(c)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (l *panelLCD) Display() error {
	if l.fb == nil {
		return nil
	}
	return l.fb.Present()
}

// fitLine pads or truncates s to exactly n runes.
func fitLine(s string, n int) string {
	r := []rune(s)
	if len(r) >= n {
		return string(r[:n])
	}
	return s + strings.Repeat(" ", n-len(r))
}

func pack565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func unpack565(p uint16) (r, g, b uint8) {
	r = uint8(uint32(p>>11&0x1F) * 255 / 31)
	g = uint8(uint32(p>>5&0x3F) * 255 / 63)
	b = uint8(uint32(p&0x1F) * 255 / 31)
	return r, g, b
}
