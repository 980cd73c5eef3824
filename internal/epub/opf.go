package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
	"time"

	"jpeg2epub/pkg/imgutil"
)

const (
	opfNamespace = "http://www.idpf.org/2007/opf"
	dcNamespace  = "http://purl.org/dc/elements/1.1/"

	packageMediaType = "application/oebps-package+xml"
	xhtmlMediaType   = "application/xhtml+xml"
	cssMediaType     = "text/css"

	identifierID = "book-id"
	coverID      = "cover-image"
)

// containerDoc is META-INF/container.xml.
type containerDoc struct {
	XMLName   xml.Name      `xml:"container"`
	Version   string        `xml:"version,attr"`
	Xmlns     string        `xml:"xmlns,attr"`
	RootFiles []rootFileDoc `xml:"rootfiles>rootfile"`
}

type rootFileDoc struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// packageDoc is the OPF package document as written.
type packageDoc struct {
	XMLName          xml.Name    `xml:"package"`
	Xmlns            string      `xml:"xmlns,attr"`
	Version          string      `xml:"version,attr"`
	UniqueIdentifier string      `xml:"unique-identifier,attr"`
	Metadata         metadataDoc `xml:"metadata"`
	Items            []itemDoc   `xml:"manifest>item"`
	Spine            []itemRef   `xml:"spine>itemref"`
}

type metadataDoc struct {
	XmlnsDC    string    `xml:"xmlns:dc,attr"`
	Identifier dcElement `xml:"dc:identifier"`
	Title      dcElement `xml:"dc:title"`
	Language   dcElement `xml:"dc:language"`
	Metas      []metaDoc `xml:"meta"`
}

type dcElement struct {
	ID    string `xml:"id,attr,omitempty"`
	Value string `xml:",chardata"`
}

// metaDoc covers both the EPUB 3 property form and the EPUB 2 name/content
// form still read by older readers for the cover.
type metaDoc struct {
	Property string `xml:"property,attr,omitempty"`
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type itemDoc struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type itemRef struct {
	IDRef string `xml:"idref,attr"`
}

func containerDocument() []byte {
	doc := containerDoc{
		Version: "1.0",
		Xmlns:   "urn:oasis:names:tc:opendocument:xmlns:container",
		RootFiles: []rootFileDoc{
			{FullPath: packageName, MediaType: packageMediaType},
		},
	}
	// Marshalling a fixed value cannot fail.
	out, _ := marshal(doc)
	return out
}

func packageDocument(b Book) ([]byte, error) {
	doc := packageDoc{
		Xmlns:            opfNamespace,
		Version:          "3.0",
		UniqueIdentifier: identifierID,
		Metadata: metadataDoc{
			XmlnsDC:    dcNamespace,
			Identifier: dcElement{ID: identifierID, Value: b.Identifier},
			Title:      dcElement{Value: b.Title},
			Language:   dcElement{Value: b.Language},
			Metas: []metaDoc{
				{Property: "dcterms:modified", Value: b.Modified.UTC().Format(time.RFC3339)},
				{Name: "cover", Content: coverID},
			},
		},
	}

	doc.Items = append(doc.Items,
		itemDoc{ID: "nav", Href: path.Join(TextDir, navName), MediaType: xhtmlMediaType, Properties: "nav"},
		itemDoc{ID: "css", Href: path.Join(StylesDir, styleName), MediaType: cssMediaType},
	)
	for i, p := range b.Pages {
		id := fmt.Sprintf("page_%d", i)
		doc.Items = append(doc.Items, itemDoc{ID: id, Href: path.Join(TextDir, pageFile(i)), MediaType: xhtmlMediaType})
		doc.Spine = append(doc.Spine, itemRef{IDRef: id})
	}
	for i, p := range b.Pages {
		kind := imgutil.KindFromExt(p.Image)
		if kind == imgutil.KindUnknown {
			return nil, fmt.Errorf("epub: unsupported image type %q", p.Image)
		}
		item := itemDoc{
			ID:        fmt.Sprintf("img_%d", i),
			Href:      path.Join(ImagesDir, p.Image),
			MediaType: kind.MediaType(),
		}
		if i == 0 {
			item.ID = coverID
			item.Properties = "cover-image"
		}
		doc.Items = append(doc.Items, item)
	}

	return marshal(doc)
}

func marshal(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("epub: marshal: %w", err)
	}
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.Write(out)
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}
