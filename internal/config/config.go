// Package config holds the tool settings, crop and resize geometry, and
// saved profiles shared by the jpeg2epub commands.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// AppName names the config directory and the build dir prefix.
const AppName = "jpeg2epub"

// CropMargin is the number of pixels removed from each edge of a page.
type CropMargin struct {
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
}

// IsZero reports whether no edge is cropped.
func (c CropMargin) IsZero() bool { return c == CropMargin{} }

func (c CropMargin) String() string {
	return fmt.Sprintf("%d %d %d %d", c.Top, c.Right, c.Bottom, c.Left)
}

// Resize is the bounding box pages are scaled into. Zero on either axis
// disables resizing.
type Resize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Enabled reports whether both dimensions are set.
func (r Resize) Enabled() bool { return r.Width > 0 && r.Height > 0 }

func (r Resize) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

var errGeometry = errors.New("invalid geometry")

// ParseCut parses "top right bottom left" into a CropMargin. An empty
// string yields the zero margin.
func ParseCut(s string) (CropMargin, error) {
	if strings.TrimSpace(s) == "" {
		return CropMargin{}, nil
	}
	v, err := parseInts(s, 4)
	if err != nil {
		return CropMargin{}, fmt.Errorf("cut %q: %w (want \"top right bottom left\")", s, err)
	}
	return CropMargin{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}, nil
}

// ParseResize parses "width height" into a Resize. An empty string yields
// the zero value.
func ParseResize(s string) (Resize, error) {
	if strings.TrimSpace(s) == "" {
		return Resize{}, nil
	}
	v, err := parseInts(s, 2)
	if err != nil {
		return Resize{}, fmt.Errorf("resize %q: %w (want \"width height\")", s, err)
	}
	return Resize{Width: v[0], Height: v[1]}, nil
}

func parseInts(s string, n int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("%w: %d values, want %d", errGeometry, len(fields), n)
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: %q is not a non-negative integer", errGeometry, f)
		}
		out[i] = v
	}
	return out, nil
}

// BookName picks the document name: an explicit name wins, then the input
// file's base name, then the input directory's.
func BookName(name, inputFile, inputDir string) string {
	if name != "" {
		return name
	}
	for _, p := range []string{inputFile, inputDir} {
		if p == "" {
			continue
		}
		base := filepath.Base(filepath.Clean(p))
		if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" && stem != "." && stem != string(filepath.Separator) {
			return stem
		}
	}
	return "unknown"
}
