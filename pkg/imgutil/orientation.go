package imgutil

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// OrientationNormal is the EXIF orientation of an image that needs no
// rotation or flip before display.
const OrientationNormal = 1

// Orientation returns the EXIF Orientation tag (1..8) of the image in rs.
// Images without EXIF data, or without the tag, report OrientationNormal.
func Orientation(rs io.ReadSeeker) (int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(rs, nil, true)
	if err != nil {
		if isNoExif(err) {
			return OrientationNormal, nil
		}
		return 0, err
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" || strings.Contains(tag.IfdPath, "IFD1") {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(tag.FormattedFirst))
		if err != nil || v < 1 || v > 8 {
			return OrientationNormal, nil
		}
		return v, nil
	}
	return OrientationNormal, nil
}

// OrientationFile is Orientation for the file at path.
func OrientationFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Orientation(f)
}

func isNoExif(err error) bool {
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

// Orient returns b transformed the way a viewer honouring the EXIF
// orientation tag would display it. Orientations 5 to 8 swap width and
// height. Unknown values return b unchanged.
func Orient(b Bitmap, orientation int) Bitmap {
	if orientation <= OrientationNormal || orientation > 8 {
		return b
	}
	w, h := b.Width, b.Height
	out := Bitmap{Width: w, Height: h, Channels: b.Channels}
	if orientation >= 5 {
		out.Width, out.Height = h, w
	}
	out.Pix = make([]byte, len(b.Pix))

	// src maps a displayed pixel back to its stored position.
	var src func(x, y int) (int, int)
	switch orientation {
	case 2:
		src = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3:
		src = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4:
		src = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5:
		src = func(x, y int) (int, int) { return y, x }
	case 6:
		src = func(x, y int) (int, int) { return y, h - 1 - x }
	case 7:
		src = func(x, y int) (int, int) { return w - 1 - y, h - 1 - x }
	case 8:
		src = func(x, y int) (int, int) { return w - 1 - y, x }
	}

	c := b.Channels
	for y := 0; y < out.Height; y++ {
		line := out.Row(y)
		for x := 0; x < out.Width; x++ {
			sx, sy := src(x, y)
			copy(line[x*c:(x+1)*c], b.Row(sy)[sx*c:(sx+1)*c])
		}
	}
	return out
}
