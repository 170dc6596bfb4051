package canvas

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

// MaxImageBytes bounds uploaded pictures.
const MaxImageBytes = 4 << 20

// DecodeImage reads a PNG, JPEG, GIF, BMP or WebP picture.
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(io.LimitReader(r, MaxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: image: %v", render.ErrInvalidValue, err)
	}
	return img, format, nil
}

// Downscale resamples img to w x h and returns it row-major.
func Downscale(img image.Image, w, h int) []render.RGB {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	out := make([]render.RGB, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := dst.PixOffset(x, y)
			out = append(out, render.RGB{R: dst.Pix[o], G: dst.Pix[o+1], B: dst.Pix[o+2]})
		}
	}
	return out
}

// LoadImage scales img onto the canvas, replacing every pixel.
func (c *Canvas) LoadImage(img image.Image) {
	copy(c.pix, Downscale(img, c.w, c.h))
}
