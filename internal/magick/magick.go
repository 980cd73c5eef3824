// Package magick builds ImageMagick argument vectors for page transforms.
package magick

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"jpeg2epub/internal/config"
)

// Transform describes what happens to every page.
type Transform struct {
	Cut    config.CropMargin
	Resize config.Resize
	// Quality is the JPEG output quality; zero leaves the tool's default.
	Quality int
	// Strip removes profiles and comments from the output.
	Strip bool
}

// Page is one page's transform input.
type Page struct {
	Index      int
	Source     string
	AutoOrient bool
}

// OutputName is the file name page index is written under: the index
// followed by the lower-cased source extension.
func OutputName(index int, source string) string {
	return strconv.Itoa(index) + strings.ToLower(filepath.Ext(source))
}

// Args returns the argument vector that converts p into destDir.
//
// The resulting command line is
//
//	src [-auto-orient] [-chop LxT] [-gravity East -chop Rx0]
//	    [-gravity South -chop 0xB] [-resize WxH] [-strip] [-quality Q] dst
func Args(t Transform, p Page, destDir string) []string {
	args := make([]string, 0, 20)
	args = append(args, p.Source)

	if p.AutoOrient {
		args = append(args, "-auto-orient")
	}

	// -chop with the default gravity removes from the top-left corner.
	if t.Cut.Top != 0 || t.Cut.Left != 0 {
		args = append(args, "-chop", fmt.Sprintf("%dx%d", t.Cut.Left, t.Cut.Top))
	}
	if t.Cut.Right != 0 {
		args = append(args, "-gravity", "East", "-chop", fmt.Sprintf("%dx0", t.Cut.Right))
	}
	if t.Cut.Bottom != 0 {
		args = append(args, "-gravity", "South", "-chop", fmt.Sprintf("0x%d", t.Cut.Bottom))
	}

	if t.Resize.Enabled() {
		args = append(args, "-resize", t.Resize.String())
	}
	if t.Strip {
		args = append(args, "-strip")
	}
	if t.Quality > 0 {
		args = append(args, "-quality", strconv.Itoa(t.Quality))
	}

	return append(args, filepath.Join(destDir, OutputName(p.Index, p.Source)))
}
