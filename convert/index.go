package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteIndex writes an HTML page listing artifacts. Uncompressed artifacts
// are shown inline; compressed ones are linked. Paths are written relative
// to the artifact directory, so the page belongs next to the artifacts.
func WriteIndex(w io.Writer, title string, artifacts []Artifact) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(withText(element(atom.Title), title))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(withText(element(atom.H1), title))

	table := element(atom.Table)
	header := element(atom.Tr)
	for _, col := range []string{"Name", "Size", "Format", "Bytes", "BLAKE2b-256", "Preview"} {
		header.AppendChild(withText(element(atom.Th), col))
	}
	table.AppendChild(header)
	for _, a := range artifacts {
		table.AppendChild(artifactRow(a))
	}
	body.AppendChild(table)
	root.AppendChild(body)

	return html.Render(w, doc)
}

func artifactRow(a Artifact) *html.Node {
	tr := element(atom.Tr)
	tr.AppendChild(withText(element(atom.Td), a.Name))
	tr.AppendChild(withText(element(atom.Td), fmt.Sprintf("%d×%d", a.Width, a.Height)))
	tr.AppendChild(withText(element(atom.Td), a.Format.String()))
	tr.AppendChild(withText(element(atom.Td), strconv.FormatInt(a.Written, 10)))
	tr.AppendChild(withText(element(atom.Td), a.Digest))

	href := filepath.ToSlash(filepath.Base(a.Path))
	preview := element(atom.Td)
	if a.Compressed {
		preview.AppendChild(withText(element(atom.A, attr("href", href)), "download"))
	} else {
		preview.AppendChild(element(atom.Img,
			attr("src", href),
			attr("alt", a.Name),
			attr("width", strconv.Itoa(a.Width)),
			attr("height", strconv.Itoa(a.Height)),
		))
	}
	tr.AppendChild(preview)
	return tr
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return n
}
