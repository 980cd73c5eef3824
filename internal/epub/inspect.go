package epub

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	epubread "github.com/simp-lee/epub"

	"jpeg2epub/pkg/imgutil"
)

// Summary describes a packed book.
type Summary struct {
	Title      string
	Language   string
	Identifier string
	Version    string
	Pages      int
	Images     int
	// Cover is the archive path of the cover image, empty when none is found.
	Cover string
}

// Inspect opens the EPUB at path and summarises it.
func Inspect(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("epub: open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Summary{}, fmt.Errorf("epub: stat %s: %w", path, err)
	}
	return inspect(f, info.Size())
}

func inspect(r io.ReaderAt, size int64) (Summary, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Summary{}, fmt.Errorf("epub: open archive: %w", err)
	}
	if err := checkMimetype(zr); err != nil {
		return Summary{}, err
	}

	book, err := epubread.NewReader(r, size)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrInvalidEPUB, err)
	}
	defer book.Close()

	md := book.Metadata()
	s := Summary{
		Title:    first(md.Titles),
		Language: first(md.Language),
		Version:  md.Version,
		Pages:    len(book.Chapters()),
	}
	if len(md.Identifiers) > 0 {
		s.Identifier = md.Identifiers[0].Value
	}
	for _, f := range zr.File {
		if imgutil.KindFromExt(f.Name) != imgutil.KindUnknown {
			s.Images++
		}
	}

	cover, err := book.Cover()
	switch {
	case err == nil:
		s.Cover = cover.Path
	case !errors.Is(err, epubread.ErrNoCover):
		return Summary{}, fmt.Errorf("epub: read cover: %w", err)
	}
	return s, nil
}

// checkMimetype verifies the first entry is an uncompressed mimetype file
// with the EPUB media type.
func checkMimetype(zr *zip.Reader) error {
	if len(zr.File) == 0 || zr.File[0].Name != mimetypeName {
		return fmt.Errorf("epub: %s is not the first entry: %w", mimetypeName, ErrInvalidEPUB)
	}
	f := zr.File[0]
	if f.Method != zip.Store {
		return fmt.Errorf("epub: %s is compressed: %w", mimetypeName, ErrInvalidEPUB)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("epub: open %s: %w", mimetypeName, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, 64))
	if err != nil {
		return fmt.Errorf("epub: read %s: %w", mimetypeName, err)
	}
	if strings.TrimSpace(string(data)) != mimetype {
		return fmt.Errorf("epub: unexpected media type %q: %w", data, ErrInvalidEPUB)
	}
	return nil
}

func first(values []string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
