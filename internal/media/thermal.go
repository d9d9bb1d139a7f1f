package media

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Thermal renders img as a false-color heat map: luminance first, then the jet
// colormap (blue for dark, through cyan, yellow, to red for bright).
func Thermal(img image.Image) *image.NRGBA {
	if img == nil {
		return nil
	}
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := gray.NRGBAAt(x, y)
			out.SetNRGBA(x, y, Jet(c.R))
		}
	}
	return out
}

// Jet maps an 8-bit intensity onto the jet colormap.
func Jet(v uint8) color.NRGBA {
	t := float64(v) / 255
	return color.NRGBA{
		R: jetChannel(t, 3),
		G: jetChannel(t, 2),
		B: jetChannel(t, 1),
		A: 0xff,
	}
}

func jetChannel(t, center float64) uint8 {
	v := 1.5 - math.Abs(4*t-center)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 255))
}

// Fit downsizes img to fit within w x h, keeping the aspect ratio.
func Fit(img image.Image, w, h int) image.Image {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}
