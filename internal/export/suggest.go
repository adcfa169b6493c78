// Package export derives report filenames for the PDF export forms.
package export

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultHeading is used when a page has no primary heading.
const DefaultHeading = "Research_Analysis"

// space is ASCII whitespace plus vertical tab, the Unicode space separators
// (U+00A0 from &nbsp;, U+3000, ...) and the byte order mark.
const space = `\s\v\p{Z}\x{FEFF}`

var (
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9` + space + `]`)
	whitespace = regexp.MustCompile(`[` + space + `]+`)
)

// Suggest turns a page heading into a report filename:
// "Found 12 papers on LLMs!" becomes "found_12_papers_on_llms_report.pdf".
func Suggest(heading string) string {
	if heading == "" {
		heading = DefaultHeading
	}
	name := disallowed.ReplaceAllString(heading, "")
	name = whitespace.ReplaceAllString(name, "_")
	return strings.ToLower(name) + "_report.pdf"
}

// SuggestsAfter reports whether a successful request to path produces a page
// whose heading should seed the export filename.
func SuggestsAfter(path string) bool {
	return path == "/api/step2" || path == "/api/upload-pdf"
}

// Heading returns the trimmed text of the first <h2> in an HTML document or
// fragment, or "" when there is none.
func Heading(r io.Reader) string {
	doc, err := html.Parse(r)
	if err != nil {
		return ""
	}
	h2 := findFirst(doc, atom.H2)
	if h2 == nil {
		return ""
	}
	var b strings.Builder
	collectText(h2, &b)
	return strings.TrimSpace(b.String())
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
