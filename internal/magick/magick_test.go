package magick

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"jpeg2epub/internal/config"
)

func TestArgsPlainCopy(t *testing.T) {
	got := Args(Transform{}, Page{Index: 3, Source: "/in/p.JPG"}, "/out")
	assert.Equal(t, []string{"/in/p.JPG", filepath.Join("/out", "3.jpg")}, got)
}

func TestArgsFullTransform(t *testing.T) {
	tr := Transform{
		Cut:     config.CropMargin{Top: 10, Right: 4, Bottom: 20, Left: 2},
		Resize:  config.Resize{Width: 800, Height: 1200},
		Quality: 85,
		Strip:   true,
	}
	got := Args(tr, Page{Index: 0, Source: "a.jpeg", AutoOrient: true}, "img")

	assert.Equal(t, []string{
		"a.jpeg",
		"-auto-orient",
		"-chop", "2x10",
		"-gravity", "East", "-chop", "4x0",
		"-gravity", "South", "-chop", "0x20",
		"-resize", "800x1200",
		"-strip",
		"-quality", "85",
		filepath.Join("img", "0.jpeg"),
	}, got)
}

func TestArgsLeftOnlyChop(t *testing.T) {
	tr := Transform{Cut: config.CropMargin{Left: 7}}
	got := Args(tr, Page{Index: 1, Source: "x.jpg"}, "d")
	assert.Equal(t, []string{"x.jpg", "-chop", "7x0", filepath.Join("d", "1.jpg")}, got)
}

func TestArgsHalfResizeIgnored(t *testing.T) {
	tr := Transform{Resize: config.Resize{Width: 800}}
	got := Args(tr, Page{Index: 1, Source: "x.jpg"}, "d")
	assert.NotContains(t, got, "-resize")
}
