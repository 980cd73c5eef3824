package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBook(t *testing.T, images ...string) (string, Book) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ImagesDir), 0o755))
	b := Book{
		Title:    "Ala & Kot",
		Language: "pl",
		Modified: time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("CET", 3600)),
	}
	for _, img := range images {
		require.NoError(t, os.WriteFile(filepath.Join(root, ImagesDir, img), []byte("img"), 0o644))
		b.Pages = append(b.Pages, Page{Image: img})
	}
	return root, b
}

// pack zips root the way the system zip tool is driven: mimetype first and
// stored, everything else deflated.
func pack(t *testing.T, root string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.CreateHeader(&zip.FileHeader{Name: mimetypeName, Method: zip.Store})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(root, mimetypeName))
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)

	err = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == mimetypeName {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func inspectBytes(data []byte) (Summary, error) {
	return inspect(bytes.NewReader(data), int64(len(data)))
}

// opfRead mirrors the package document fields the tests assert on.
type opfRead struct {
	XMLName  xml.Name `xml:"package"`
	Metadata struct {
		Titles      []string `xml:"http://purl.org/dc/elements/1.1/ title"`
		Languages   []string `xml:"http://purl.org/dc/elements/1.1/ language"`
		Identifiers []string `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	} `xml:"metadata"`
	Items []itemDoc `xml:"manifest>item"`
	Spine []itemRef `xml:"spine>itemref"`
}

// wellFormed fails the test when data is not well-formed XML.
func wellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, string(data))
	}
}

func TestWriteLayout(t *testing.T) {
	root, b := writeBook(t, "0.jpg", "1.jpg", "2.jpeg")
	id, err := Write(root, b)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "urn:uuid:"))

	mt, err := os.ReadFile(filepath.Join(root, mimetypeName))
	require.NoError(t, err)
	assert.Equal(t, "application/epub+zip", string(mt))

	for _, name := range []string{
		filepath.Join(MetaInfDir, containerName),
		filepath.Join(StylesDir, styleName),
		filepath.Join(TextDir, navName),
		filepath.Join(TextDir, "page_0.xhtml"),
		filepath.Join(TextDir, "page_1.xhtml"),
		filepath.Join(TextDir, "page_2.xhtml"),
		packageName,
	} {
		assert.FileExists(t, filepath.Join(root, name))
	}
	assert.NoFileExists(t, filepath.Join(root, TextDir, "page_3.xhtml"))
}

func TestWriteXHTMLIsWellFormed(t *testing.T) {
	root, b := writeBook(t, "0.jpg", "1.jpg")
	_, err := Write(root, b)
	require.NoError(t, err)

	for _, name := range []string{"page_0.xhtml", "page_1.xhtml", navName} {
		data, err := os.ReadFile(filepath.Join(root, TextDir, name))
		require.NoError(t, err)
		wellFormed(t, data)
	}

	page, err := os.ReadFile(filepath.Join(root, TextDir, "page_1.xhtml"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `<img src="../Images/1.jpg" alt="Page 2"/>`)
	assert.Contains(t, string(page), `href="../Styles/main.css"`)
	assert.Contains(t, string(page), `xmlns="http://www.w3.org/1999/xhtml"`)

	nav, err := os.ReadFile(filepath.Join(root, TextDir, navName))
	require.NoError(t, err)
	assert.Contains(t, string(nav), `epub:type="toc"`)
	assert.Contains(t, string(nav), `<a href="page_0.xhtml">Page 1</a>`)
	assert.Contains(t, string(nav), "Ala &amp; Kot")
}

func TestWritePackageDocument(t *testing.T) {
	root, b := writeBook(t, "0.jpg", "1.png")
	b.Identifier = "urn:uuid:fixed"
	_, err := Write(root, b)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, packageName))
	require.NoError(t, err)
	wellFormed(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("<?xml")))

	var pkg opfRead
	require.NoError(t, xml.Unmarshal(data, &pkg))
	assert.Equal(t, []string{"Ala & Kot"}, pkg.Metadata.Titles)
	assert.Equal(t, []string{"pl"}, pkg.Metadata.Languages)
	assert.Equal(t, []string{"urn:uuid:fixed"}, pkg.Metadata.Identifiers)
	assert.Contains(t, string(data), "<meta property=\"dcterms:modified\">2024-03-01T11:30:00Z</meta>")

	require.Len(t, pkg.Spine, 2)
	assert.Equal(t, "page_0", pkg.Spine[0].IDRef)
	assert.Equal(t, "page_1", pkg.Spine[1].IDRef)

	media := map[string]string{}
	props := map[string]string{}
	for _, item := range pkg.Items {
		media[item.Href] = item.MediaType
		props[item.Href] = item.Properties
	}
	assert.Equal(t, "image/jpeg", media["Images/0.jpg"])
	assert.Equal(t, "image/png", media["Images/1.png"])
	assert.Equal(t, "text/css", media["Styles/main.css"])
	assert.Equal(t, "application/xhtml+xml", media["Text/page_1.xhtml"])
	assert.Equal(t, "cover-image", props["Images/0.jpg"])
	assert.Equal(t, "nav", props["Text/nav.xhtml"])
	assert.Empty(t, props["Images/1.png"])
}

func TestWriteDefaults(t *testing.T) {
	root, b := writeBook(t, "0.jpg")
	b.Title = "  "
	b.Language = ""
	_, err := Write(root, b)
	require.NoError(t, err)

	s, err := inspectBytes(pack(t, root))
	require.NoError(t, err)
	assert.Equal(t, "unknown", s.Title)
	assert.Equal(t, "und", s.Language)
}

func TestWriteErrors(t *testing.T) {
	root, b := writeBook(t)
	_, err := Write(root, b)
	assert.ErrorIs(t, err, ErrEmptyBook)

	root, b = writeBook(t, "0.jpg")
	b.Pages = append(b.Pages, Page{Image: "1.jpg"})
	_, err = Write(root, b)
	assert.ErrorIs(t, err, os.ErrNotExist)

	root, b = writeBook(t, "0.gif")
	_, err = Write(root, b)
	assert.ErrorContains(t, err, "unsupported image type")
}

func TestInspectRoundTrip(t *testing.T) {
	root, b := writeBook(t, "0.jpg", "1.jpg", "2.jpg")
	id, err := Write(root, b)
	require.NoError(t, err)

	s, err := inspectBytes(pack(t, root))
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Title:      "Ala & Kot",
		Language:   "pl",
		Identifier: id,
		Version:    "3.0",
		Pages:      3,
		Images:     3,
		Cover:      "Images/0.jpg",
	}, s)
}

func TestInspectFile(t *testing.T) {
	root, b := writeBook(t, "0.jpg")
	_, err := Write(root, b)
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "book.epub")
	require.NoError(t, os.WriteFile(out, pack(t, root), 0o644))

	s, err := Inspect(out)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Pages)

	_, err = Inspect(filepath.Join(t.TempDir(), "missing.epub"))
	assert.Error(t, err)
}

func TestInspectRejects(t *testing.T) {
	build := func(entries ...[2]string) []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for _, e := range entries {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: e[0], Method: zip.Store})
			require.NoError(t, err)
			_, err = w.Write([]byte(e[1]))
			require.NoError(t, err)
		}
		require.NoError(t, zw.Close())
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", build()},
		{"mimetype not first", build([2]string{"a.txt", "x"}, [2]string{mimetypeName, mimetype})},
		{"wrong media type", build([2]string{mimetypeName, "text/plain"})},
		{"no container", build([2]string{mimetypeName, mimetype})},
		{"no rootfile", build(
			[2]string{mimetypeName, mimetype},
			[2]string{"META-INF/container.xml", "<container><rootfiles/></container>"},
		)},
		{"missing opf", build(
			[2]string{mimetypeName, mimetype},
			[2]string{"META-INF/container.xml", `<container><rootfiles><rootfile full-path="x.opf"/></rootfiles></container>`},
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := inspectBytes(tt.data)
			assert.ErrorIs(t, err, ErrInvalidEPUB)
		})
	}
}

func TestInspectCompressedMimetype(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(mimetypeName)
	require.NoError(t, err)
	_, err = w.Write([]byte(mimetype))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = inspectBytes(buf.Bytes())
	assert.ErrorIs(t, err, ErrInvalidEPUB)
}
