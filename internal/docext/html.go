package docext

import (
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// extractHTMLFile reads an HTML file and returns its visible text.
func extractHTMLFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ExtractHTML(f)
}

// ExtractHTML parses HTML and returns the visible text: every text node
// stripped of surrounding whitespace, empty nodes dropped, blocks joined
// by newlines. Script and style contents are excluded.
func ExtractHTML(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				blocks = append(blocks, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(blocks, "\n"), nil
}
