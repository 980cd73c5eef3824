// Package epub writes the directory tree of a fixed-layout picture book in
// EPUB 3 form and reads back the summary of a packed book.
package epub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Directory layout inside the book root. Hrefs in the package document use
// these names with forward slashes.
const (
	MetaInfDir = "META-INF"
	TextDir    = "Text"
	StylesDir  = "Styles"
	ImagesDir  = "Images"

	mimetypeName  = "mimetype"
	mimetype      = "application/epub+zip"
	containerName = "container.xml"
	packageName   = "content.opf"
	styleName     = "main.css"
	navName       = "nav.xhtml"
)

var (
	// ErrEmptyBook is returned by Write for a book without pages.
	ErrEmptyBook = errors.New("epub: book has no pages")

	// ErrInvalidEPUB reports a packed file that does not look like an EPUB.
	ErrInvalidEPUB = errors.New("epub: invalid EPUB file")
)

// Page is one picture of the book. Image is the file name under Images/.
type Page struct {
	Image string
}

// Book is everything Write needs to lay out a book.
type Book struct {
	Title    string
	Language string
	// Identifier is used as dc:identifier; a random urn:uuid is generated
	// when empty.
	Identifier string
	// Modified defaults to the current time.
	Modified time.Time
	Pages    []Page
}

// Dirs returns the directories of a book rooted at root.
func Dirs(root string) []string {
	return []string{
		root,
		filepath.Join(root, MetaInfDir),
		filepath.Join(root, TextDir),
		filepath.Join(root, StylesDir),
		filepath.Join(root, ImagesDir),
	}
}

// Write lays out b under root. The page images must already be in
// root/Images. Write returns the identifier it used.
func Write(root string, b Book) (string, error) {
	if len(b.Pages) == 0 {
		return "", ErrEmptyBook
	}
	if b.Identifier == "" {
		b.Identifier = "urn:uuid:" + uuid.NewString()
	}
	if b.Modified.IsZero() {
		b.Modified = time.Now()
	}
	if strings.TrimSpace(b.Title) == "" {
		b.Title = "unknown"
	}
	if b.Language == "" {
		b.Language = "und"
	}

	for _, dir := range Dirs(root) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("epub: create %s: %w", dir, err)
		}
	}
	for _, p := range b.Pages {
		if _, err := os.Stat(filepath.Join(root, ImagesDir, p.Image)); err != nil {
			return "", fmt.Errorf("epub: page image: %w", err)
		}
	}

	files := map[string][]byte{
		mimetypeName: []byte(mimetype),
		filepath.Join(MetaInfDir, containerName): containerDocument(),
		filepath.Join(StylesDir, styleName):      []byte(stylesheet),
	}

	nav, err := renderNav(b)
	if err != nil {
		return "", err
	}
	files[filepath.Join(TextDir, navName)] = nav

	for i, p := range b.Pages {
		page, err := renderPage(i, p)
		if err != nil {
			return "", err
		}
		files[filepath.Join(TextDir, pageFile(i))] = page
	}

	opf, err := packageDocument(b)
	if err != nil {
		return "", err
	}
	files[packageName] = opf

	for name, data := range files {
		if err := os.WriteFile(filepath.Join(root, name), data, 0o644); err != nil {
			return "", fmt.Errorf("epub: write %s: %w", name, err)
		}
	}
	return b.Identifier, nil
}

func pageFile(i int) string {
	return fmt.Sprintf("page_%d.xhtml", i)
}

func pageTitle(i int) string {
	return fmt.Sprintf("Page %d", i+1)
}

const stylesheet = `@page {
  margin: 0;
}

body {
  margin: 0;
  padding: 0;
  text-align: center;
}

div.page {
  height: 100vh;
}

img {
  max-width: 100%;
  max-height: 100%;
}
`
