package ingest

import (
	"strings"

	"golang.org/x/net/html"
)

// VisibleText extracts the visible text of an HTML document, skipping
// scripts and styles. Block-level elements become paragraph breaks so
// the chunker still sees natural boundaries. Unparseable input is
// returned unchanged.
func VisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "head":
				return
			case "br":
				buf.WriteString("\n")
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteString("\n\n")
		}
	}

	walk(doc)

	return collapseBlankLines(strings.TrimSpace(buf.String()))
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "li", "ul", "ol",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"table", "tr", "blockquote", "pre":
		return true
	}
	return false
}

// collapseBlankLines squeezes runs of blank lines into one paragraph break
func collapseBlankLines(text string) string {
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	// Trim trailing spaces the walker leaves before breaks
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}
