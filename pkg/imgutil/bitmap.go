package imgutil

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"os"
)

// Bitmap is a decoded image in row-major order. Each pixel occupies
// Channels consecutive bytes starting with red, green and blue; any further
// channel (alpha) is carried but not interpreted.
type Bitmap struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Row returns the samples of scanline y.
func (b Bitmap) Row(y int) []byte {
	stride := b.Width * b.Channels
	return b.Pix[y*stride : (y+1)*stride]
}

// FromImage converts img into a tightly packed 4-channel RGBA bitmap.
func FromImage(img image.Image) Bitmap {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*bounds.Dx() || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return Bitmap{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: 4,
		Pix:      rgba.Pix,
	}
}

// DecodeJPEG decodes a JPEG stream into an RGBA bitmap.
func DecodeJPEG(r io.Reader) (Bitmap, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return Bitmap{}, fmt.Errorf("decode jpeg: %w", err)
	}
	return FromImage(img), nil
}

// DecodeFile opens path and decodes it as a JPEG.
func DecodeFile(path string) (Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return Bitmap{}, err
	}
	defer f.Close()

	bm, err := DecodeJPEG(f)
	if err != nil {
		return Bitmap{}, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}
