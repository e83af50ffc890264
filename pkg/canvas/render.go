package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Demo map palette and geometry.
var (
	backgroundColor = color.RGBA{0xf0, 0xf4, 0xf8, 0xff}
	gridColor       = color.RGBA{0xd0, 0xd8, 0xe0, 0xff}
	pulseColor      = color.NRGBA{0x00, 0x88, 0xcc, 0x33}
	selfColor       = color.RGBA{0x00, 0x88, 0xcc, 0xff}
	markerColor     = color.RGBA{0x66, 0x66, 0x66, 0xff}
	labelColor      = color.RGBA{0x33, 0x33, 0x33, 0xff}
)

const (
	gridSpacing  = 40
	gridWidth    = 2
	pulseRadius  = 20
	selfRadius   = 8
	markerRadius = 6
)

// MaxSide bounds either dimension of a rendered map.
const MaxSide = 2048

// Scene is everything needed to draw one frame of the demo map.
type Scene struct {
	Width   int
	Height  int
	Markers []Marker
	// Labels maps user id to the name drawn above its marker.
	Labels map[string]string
}

// Render draws the scene as a PNG.
func Render(w io.Writer, s Scene) error {
	if s.Width <= 0 || s.Height <= 0 || s.Width > MaxSide || s.Height > MaxSide {
		return fmt.Errorf("render map: invalid size %dx%d", s.Width, s.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)
	drawGrid(img)

	cx, cy := s.Width/2, s.Height/2
	fillCircle(img, cx, cy, pulseRadius, pulseColor)
	fillCircle(img, cx, cy, selfRadius, selfColor)

	for _, m := range s.Markers {
		x, y := int(m.X), int(m.Y)
		fillCircle(img, x, y, markerRadius, markerColor)
		if name := s.Labels[m.UserID]; name != "" {
			drawLabel(img, x-15, y-10, name)
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render map: encode png: %w", err)
	}
	return nil
}

func drawGrid(img *image.RGBA) {
	b := img.Bounds()
	line := image.NewUniform(gridColor)
	for x := 0; x < b.Dx(); x += gridSpacing {
		r := image.Rect(x-gridWidth/2, 0, x+gridWidth/2, b.Dy()).Intersect(b)
		draw.Draw(img, r, line, image.Point{}, draw.Src)
	}
	for y := 0; y < b.Dy(); y += gridSpacing {
		r := image.Rect(0, y-gridWidth/2, b.Dx(), y+gridWidth/2).Intersect(b)
		draw.Draw(img, r, line, image.Point{}, draw.Src)
	}
}

// circle is an alpha mask of a filled disc.
type circle struct {
	p image.Point
	r int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.p.X-c.r, c.p.Y-c.r, c.p.X+c.r, c.p.Y+c.r)
}

func (c *circle) At(x, y int) color.Color {
	xx, yy, rr := float64(x-c.p.X)+0.5, float64(y-c.p.Y)+0.5, float64(c.r)
	if xx*xx+yy*yy < rr*rr {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}

func fillCircle(img *image.RGBA, x, y, r int, col color.Color) {
	mask := &circle{p: image.Pt(x, y), r: r}
	bounds := mask.Bounds()
	draw.DrawMask(img, bounds, image.NewUniform(col), image.Point{}, mask, bounds.Min, draw.Over)
}

func drawLabel(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
