// Package border finds uniform scanner margins at the top and bottom of a
// page image.
package border

import (
	"errors"
	"fmt"

	"jpeg2epub/pkg/imgutil"
)

// DefaultThreshold is the share of a row's colour samples, in percent, that
// one value must exceed for the row to count as border.
const DefaultThreshold = 30

// maxValueJump bounds how far the dominant value may rise between two
// consecutive border rows. Drops of any size keep the run going.
const maxValueJump = 64

var (
	ErrInvalidImage     = errors.New("border: invalid image")
	ErrInvalidThreshold = errors.New("border: threshold must be within 0..100")
)

// Row summarises one scanline's histogram.
type Row struct {
	DominantCount int
	DominantValue uint8
}

// Margins are the detected border heights in pixels.
type Margins struct {
	Top    int
	Bottom int
}

// Detect measures the top and bottom borders of img. Left and right borders
// are not measured.
func Detect(img imgutil.Bitmap, threshold int) (Margins, error) {
	if err := validate(img); err != nil {
		return Margins{}, err
	}
	if threshold < 0 || threshold > 100 {
		return Margins{}, fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
	}

	rows := Histogram(img)
	limit := img.Width * 3 * threshold

	top := countBorder(rows, limit, func(i int) int { return i })
	bottom := countBorder(rows, limit, func(i int) int { return len(rows) - 1 - i })
	return Margins{Top: top, Bottom: bottom}, nil
}

// DetectFile decodes the JPEG at path, turns it upright according to its
// EXIF orientation and runs Detect on it. The margins therefore apply to
// the page after -auto-orient. An unreadable orientation tag counts as
// upright, the same as when the page is converted.
func DetectFile(path string, threshold int) (Margins, error) {
	img, err := imgutil.DecodeFile(path)
	if err != nil {
		return Margins{}, err
	}
	if o, err := imgutil.OrientationFile(path); err == nil {
		img = imgutil.Orient(img, o)
	}
	return Detect(img, threshold)
}

// Histogram returns one Row per scanline of img. Only the first three
// samples of every pixel are counted.
func Histogram(img imgutil.Bitmap) []Row {
	rows := make([]Row, img.Height)
	var counters [256]int
	for y := 0; y < img.Height; y++ {
		counters = [256]int{}
		line := img.Row(y)
		for x := 0; x+2 < len(line); x += img.Channels {
			counters[line[x]]++
			counters[line[x+1]]++
			counters[line[x+2]]++
		}

		best := 0
		for v := 1; v < len(counters); v++ {
			if counters[v] > counters[best] {
				best = v
			}
		}
		rows[y] = Row{DominantCount: counters[best], DominantValue: uint8(best)}
	}
	return rows
}

// countBorder walks rows in the order given by at and counts the leading
// run whose dominant count exceeds limit/100 without the dominant value
// rising by maxValueJump or more.
func countBorder(rows []Row, limit int, at func(int) int) int {
	last := int(rows[at(0)].DominantValue)
	n := 0
	for i := range rows {
		r := rows[at(i)]
		v := int(r.DominantValue)
		if r.DominantCount*100 <= limit || v-last >= maxValueJump {
			break
		}
		last = v
		n++
	}
	return n
}

func validate(img imgutil.Bitmap) error {
	switch {
	case img.Height <= 0:
		return fmt.Errorf("%w: height %d", ErrInvalidImage, img.Height)
	case img.Width <= 0:
		return fmt.Errorf("%w: width %d", ErrInvalidImage, img.Width)
	case img.Channels < 3:
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidImage, img.Channels)
	case len(img.Pix) < img.Width*img.Height*img.Channels:
		return fmt.Errorf("%w: pixel buffer holds %d bytes, want %d",
			ErrInvalidImage, len(img.Pix), img.Width*img.Height*img.Channels)
	}
	return nil
}
