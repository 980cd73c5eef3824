package border

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpeg2epub/pkg/imgutil"
)

// page builds a width x len(rows) RGBA bitmap. A row shade >= 0 paints the
// whole row with that grey value; -1 paints it with samples that never
// repeat within the row.
func page(width int, rows []int) imgutil.Bitmap {
	bm := imgutil.Bitmap{Width: width, Height: len(rows), Channels: 4}
	bm.Pix = make([]byte, width*len(rows)*4)
	for y, shade := range rows {
		line := bm.Row(y)
		for x := 0; x < width; x++ {
			p := line[x*4 : x*4+4]
			if shade >= 0 {
				p[0], p[1], p[2] = byte(shade), byte(shade), byte(shade)
			} else {
				base := (y*7 + x*3) % 250
				p[0], p[1], p[2] = byte(base), byte(base+1), byte(base+2)
			}
			p[3] = byte(x * 31)
		}
	}
	return bm
}

func TestDetectTopBorder(t *testing.T) {
	img := page(4, []int{0, 0, 0, -1, -1, -1, -1, -1, -1, -1})

	m, err := Detect(img, 30)
	require.NoError(t, err)
	assert.Equal(t, Margins{Top: 3, Bottom: 0}, m)
}

func TestDetectBottomBorder(t *testing.T) {
	img := page(16, []int{-1, -1, -1, -1, 250, 255, 255, 255})

	m, err := Detect(img, 30)
	require.NoError(t, err)
	assert.Equal(t, Margins{Top: 0, Bottom: 4}, m)
}

func TestDetectStopsOnValueJump(t *testing.T) {
	img := page(8, []int{0, 10, 200, 200, -1, -1, 40, 60})

	m, err := Detect(img, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Top)
	assert.Equal(t, 2, m.Bottom)
}

func TestDetectKeepsCountingOnValueDrop(t *testing.T) {
	img := page(8, []int{255, 255, 0, 0, -1, -1})

	m, err := Detect(img, 30)
	require.NoError(t, err)
	assert.Equal(t, Margins{Top: 4, Bottom: 0}, m)
}

func TestDetectUniformPage(t *testing.T) {
	img := page(5, []int{128, 128, 128, 128})

	m, err := Detect(img, 30)
	require.NoError(t, err)
	assert.Equal(t, Margins{Top: 4, Bottom: 4}, m)
}

func TestDetectThresholdBounds(t *testing.T) {
	img := page(6, []int{0, 0, -1, 0})

	m, err := Detect(img, 100)
	require.NoError(t, err)
	assert.Equal(t, Margins{}, m)

	_, err = Detect(img, 101)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
	_, err = Detect(img, -1)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestDetectIsPure(t *testing.T) {
	img := page(4, []int{0, 0, 0, -1, -1, 7, 7})
	snapshot := append([]byte(nil), img.Pix...)

	first, err := Detect(img, 30)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Detect(img, 30)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, snapshot, img.Pix)
}

func TestDetectThreeChannels(t *testing.T) {
	img := imgutil.Bitmap{Width: 2, Height: 3, Channels: 3, Pix: []byte{
		9, 9, 9, 9, 9, 9,
		1, 2, 3, 4, 5, 6,
		9, 9, 9, 9, 9, 9,
	}}

	m, err := Detect(img, 50)
	require.NoError(t, err)
	assert.Equal(t, Margins{Top: 1, Bottom: 1}, m)
}

func TestDetectInvalidImage(t *testing.T) {
	tests := map[string]imgutil.Bitmap{
		"zero height":  {Width: 4, Height: 0, Channels: 4},
		"zero width":   {Width: 0, Height: 4, Channels: 4},
		"two channels": {Width: 1, Height: 1, Channels: 2, Pix: []byte{0, 0}},
		"short buffer": {Width: 2, Height: 2, Channels: 4, Pix: make([]byte, 8)},
	}
	for name, img := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Detect(img, 30)
			assert.True(t, errors.Is(err, ErrInvalidImage), "got %v", err)
		})
	}
}

func TestHistogramTieTakesLowestValue(t *testing.T) {
	img := imgutil.Bitmap{Width: 2, Height: 1, Channels: 3, Pix: []byte{5, 5, 5, 2, 2, 2}}

	rows := Histogram(img)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{DominantCount: 3, DominantValue: 2}, rows[0])
}

func TestDetectFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
			if y >= 8 && y < 32 && (x+y)%2 == 0 {
				c = color.RGBA{A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	path := filepath.Join(t.TempDir(), "scan.jpg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	m, err := DetectFile(path, 90)
	require.NoError(t, err)
	assert.InDelta(t, 8, m.Top, 2)
	assert.InDelta(t, 8, m.Bottom, 2)
}
