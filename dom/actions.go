package dom

import (
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/dom/style/css"
	"github.com/npillmayer/wysiwyg/dom/style/douceuradapter"
	"golang.org/x/net/html"
)

// Matcher is a predicate on nodes of an editable tree. Matchers select the
// elements an edit operation has to isolate or to work on.
type Matcher func(n *html.Node) bool

// NodeIsText is a predicate to match text-nodes.
var NodeIsText Matcher = func(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// NodeIsElement is a predicate to match element nodes.
var NodeIsElement Matcher = func(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// HasTag returns a matcher for elements of a given tag, e.g. "a".
func HasTag(tag string) Matcher {
	return func(n *html.Node) bool {
		return NodeIsElement(n) && n.Data == tag
	}
}

// HasStyle returns a matcher for elements whose inline style carries the
// marker of a style key.
func HasStyle(key style.Key) Matcher {
	return func(n *html.Node) bool {
		return NodeIsElement(n) && key.IsActive(douceuradapter.StyleOf(n))
	}
}

// IsBlockLevel is a predicate to match elements which are formatted as
// blocks, according to their CSS display mode.
var IsBlockLevel Matcher = func(n *html.Node) bool {
	if !NodeIsElement(n) {
		return false
	}
	return css.Display(n, douceuradapter.StyleOf(n)).IsBlockLevel()
}

// Attr returns the value of an attribute of element n.
func Attr(n *html.Node, key string) (string, bool) {
	if !NodeIsElement(n) {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// hasOnlyStyle is true if element n carries no attributes other than an
// (empty or non-empty) style.
func hasOnlyStyle(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "style" {
			return false
		}
	}
	return true
}
