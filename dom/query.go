package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// ParseDocument parses a complete HTML document.
func ParseDocument(doc string) (*html.Node, error) {
	return html.Parse(strings.NewReader(doc))
}

// QuerySelector returns the first element below doc matching a CSS
// selector, or nil if no element matches.
func QuerySelector(doc *html.Node, selector string) (*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel.MatchFirst(doc), nil
}

// QuerySelectorAll returns all elements below doc matching a CSS selector,
// in document order.
func QuerySelectorAll(doc *html.Node, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return sel.MatchAll(doc), nil
}

// FindEditable locates the editable region of an HTML document and returns
// a tree for it. The region is found by a CSS selector, e.g.
// "[contenteditable=true]".
func FindEditable(doc *html.Node, selector string) (*Tree, error) {
	root, err := QuerySelector(doc, selector)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("no editable element matches %q", selector)
	}
	return NewTree(root)
}
