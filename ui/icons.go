package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/markotdel/adguardvpn-gui/common"
)

// Tray icon palette.
var (
	greenFill  = color.RGBA{0x3b, 0x8c, 0x4a, 0xff}
	greenEdge  = color.RGBA{0x68, 0xbc, 0x71, 0xff}
	grayFill   = color.RGBA{0x6e, 0x6e, 0x6e, 0xff}
	grayEdge   = color.RGBA{0x9a, 0x9a, 0x9a, 0xff}
	whiteColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// ConnectedIcon renders the green shield with a check mark.
func ConnectedIcon() []byte {
	return renderShield(greenFill, greenEdge, true)
}

// DisconnectedIcon renders the gray shield without the mark.
func DisconnectedIcon() []byte {
	return renderShield(grayFill, grayEdge, false)
}

// renderShield rasterizes a shield outline at the tray size. The shape is
// a rounded top tapering to a point, matched against a signed distance so
// the edge stays smooth at 22px.
func renderShield(fill, edge color.RGBA, withCheck bool) []byte {
	size := common.TrayIconSize
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	s := float64(size)
	cx := s / 2
	top := s * 0.08
	bottom := s * 0.95

	halfWidth := func(y float64) float64 {
		rel := (y - top) / (bottom - top)
		if rel < 0 || rel > 1 {
			return 0
		}
		// Constant width for the upper body, quadratic taper to the tip.
		if rel < 0.45 {
			return s * 0.40
		}
		p := (rel - 0.45) / 0.55
		return s * 0.40 * (1 - p*p)
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx := float64(x) + 0.5
			fy := float64(y) + 0.5
			hw := halfWidth(fy)
			if hw <= 0 {
				continue
			}
			d := math.Abs(fx - cx)
			switch {
			case d > hw:
				// outside
			case d > hw-1.2:
				img.SetRGBA(x, y, edge)
			default:
				img.SetRGBA(x, y, fill)
			}
		}
	}

	if withCheck {
		drawCheck(img, size)
	}

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// drawCheck strokes a two-segment check mark scaled to the icon size.
func drawCheck(img *image.RGBA, size int) {
	s := float64(size)
	strokeLine(img, s*0.30, s*0.48, s*0.45, s*0.63)
	strokeLine(img, s*0.45, s*0.63, s*0.70, s*0.32)
}

func strokeLine(img *image.RGBA, x0, y0, x1, y1 float64) {
	steps := int(math.Hypot(x1-x0, y1-y0) * 2)
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + (x1-x0)*t
		y := y0 + (y1-y0)*t
		// 2px-wide stroke
		for dx := 0; dx < 2; dx++ {
			for dy := 0; dy < 2; dy++ {
				px, py := int(x)+dx, int(y)+dy
				if px >= 0 && py >= 0 && px < img.Rect.Dx() && py < img.Rect.Dy() {
					img.SetRGBA(px, py, whiteColor)
				}
			}
		}
	}
}
