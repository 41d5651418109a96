//go:build !tinygo && cgo

package hal

import (
	"image"
	"image/color"

	"rugos/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowScale = 4
	ledStrip    = 6
)

var (
	ledOnColor  = color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}
	ledOffColor = color.RGBA{R: 0x30, G: 0x10, B: 0x10, A: 0xff}
)

// RunWindow opens a desktop window that shows the LCD panel and the LED.
// It blocks until the window closes or step returns an error.
func RunWindow(newApp func(HAL) func() error) error {
	h := newHost(false)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("rugos (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*windowScale, (h.fb.height+ledStrip)*windowScale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	led     *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.led = ebiten.NewImage(ledStrip-2, ledStrip-2)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := unpack565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)

	if g.h.led.level() {
		g.led.Fill(ledOnColor)
	} else {
		g.led.Fill(ledOffColor)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(lcdMargin), float64(fb.height+1))
	screen.DrawImage(g.led, op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height + ledStrip
}
