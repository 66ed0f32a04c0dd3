// Package render converts post Markdown into a standalone HTML page.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns Markdown into HTML. Raw HTML in the source is omitted.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GitHub-flavored Markdown enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Fragment renders content to an HTML fragment.
func (r *Renderer) Fragment(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Page renders content inside a minimal HTML document titled title.
func (r *Renderer) Page(title, content string) (string, error) {
	body, err := r.Fragment(content)
	if err != nil {
		return "", err
	}

	escaped := html.EscapeString(title)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n</head>\n<body>\n<article>\n<h1>%s</h1>\n", escaped, escaped)
	buf.WriteString(body)
	buf.WriteString("</article>\n</body>\n</html>\n")

	return buf.String(), nil
}
