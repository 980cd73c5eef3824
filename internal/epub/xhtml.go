package epub

import (
	"bytes"
	"fmt"
	"path"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	xhtmlNamespace = "http://www.w3.org/1999/xhtml"
	opsNamespace   = "http://www.idpf.org/2007/ops"
)

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendChildren(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		parent.AppendChild(c)
	}
	return parent
}

// document builds an XHTML document with the given title and body content.
func document(title string, body ...*html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "xmlns", xhtmlNamespace, "xmlns:epub", opsNamespace)
	head := appendChildren(element(atom.Head),
		element(atom.Meta, "charset", "utf-8"),
		appendChildren(element(atom.Title), text(title)),
		element(atom.Link, "rel", "stylesheet", "type", "text/css", "href", path.Join("..", StylesDir, styleName)),
	)
	doc.AppendChild(appendChildren(root, head, appendChildren(element(atom.Body), body...)))
	return doc
}

func render(doc *html.Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("epub: render xhtml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func renderPage(i int, p Page) ([]byte, error) {
	title := pageTitle(i)
	img := element(atom.Img, "src", path.Join("..", ImagesDir, p.Image), "alt", title)
	return render(document(title, appendChildren(element(atom.Div, "class", "page"), img)))
}

func renderNav(b Book) ([]byte, error) {
	list := element(atom.Ol)
	for i := range b.Pages {
		link := appendChildren(element(atom.A, "href", pageFile(i)), text(pageTitle(i)))
		list.AppendChild(appendChildren(element(atom.Li), link))
	}
	nav := appendChildren(element(atom.Nav, "epub:type", "toc", "id", "toc"),
		appendChildren(element(atom.H1), text(b.Title)),
		list,
	)
	return render(document(b.Title, nav))
}
