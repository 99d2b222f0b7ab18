package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/wysiwyg/dom/selection"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrRangeNotCollapsible is returned if an operation needs a range spanning
// content, but the range given is collapsed.
var ErrRangeNotCollapsible = errors.New("range does not span any content")

// ErrNotAnElement is returned if a tree should be rooted at a node which is
// not an element.
var ErrNotAnElement = errors.New("editable root must be an element node")

// ErrNodeAttached is returned if a node to insert still has a parent.
var ErrNodeAttached = errors.New("node to insert is attached to a tree")

// Tree is an editable region of an HTML document. All operations of a tree
// are restricted to the nodes below its root element; the root itself is
// never split, wrapped or unwrapped.
//
// Trees are not safe for concurrent use. Clients have to serialize access.
type Tree struct {
	root *html.Node
}

// NewTree creates a tree for an existing editable root element.
func NewTree(root *html.Node) (*Tree, error) {
	if root == nil || root.Type != html.ElementNode {
		return nil, ErrNotAnElement
	}
	return &Tree{root: root}, nil
}

// Parse creates a detached editable root, i.e. a <div>, and populates it
// from an HTML fragment.
func Parse(content string) (*Tree, error) {
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Div.String(),
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "contenteditable", Val: "true"}},
	}
	t := &Tree{root: root}
	if err := t.SetContent(content); err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the editable root element.
func (t *Tree) Root() *html.Node {
	return t.root
}

// IsDescendantOfRoot is true if n is a node strictly below the root.
func (t *Tree) IsDescendantOfRoot(n *html.Node) bool {
	return n != nil && n != t.root && selection.Contains(t.root, n)
}

// Serialize renders the content of the root element as HTML, i.e. what a
// browser would report as the root's inner HTML.
func (t *Tree) Serialize() (string, error) {
	var buf bytes.Buffer
	for c := t.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("cannot serialize editable content: %w", err)
		}
	}
	return buf.String(), nil
}

// SetContent replaces the content of the root element by an HTML fragment,
// parsed in the context of the root.
func (t *Tree) SetContent(content string) error {
	nodes, err := html.ParseFragment(strings.NewReader(content), t.root)
	if err != nil {
		return fmt.Errorf("cannot parse editable content: %w", err)
	}
	for c := t.root.FirstChild; c != nil; c = t.root.FirstChild {
		t.root.RemoveChild(c)
	}
	for _, n := range nodes {
		t.root.AppendChild(n)
	}
	tracer().Debugf("editable root populated with %d top-level nodes", len(nodes))
	return nil
}

// TextContent returns the concatenated text of all text nodes below the root.
func (t *Tree) TextContent() string {
	return selection.Contents(t.root).Text()
}

// IsEmpty is true if the root has no content at all.
func (t *Tree) IsEmpty() bool {
	return t.root.FirstChild == nil
}

// Normalize normalizes a range with respect to the root of t.
func (t *Tree) Normalize(r selection.Range) (selection.Range, error) {
	return selection.Normalize(t.root, r)
}

// NodesIntersecting returns every node below the root whose extent overlaps
// r, in document order. This includes text and element nodes partially
// covered by r, as well as the elements enclosing r. A collapsed range
// intersects nothing.
func (t *Tree) NodesIntersecting(r selection.Range) ([]*html.Node, error) {
	r, err := t.Normalize(r)
	if err != nil {
		return nil, err
	}
	return selection.Intersecting(t.root, r), nil
}

// Offsets converts r into text offsets relative to the root.
func (t *Tree) Offsets(r selection.Range) (int, int, error) {
	return selection.Offsets(t.root, r)
}

// RangeFromOffsets anchors a range to the text between two text offsets.
func (t *Tree) RangeFromOffsets(from, to int) selection.Range {
	return selection.FromOffsets(t.root, from, to)
}

// Ancestors returns the elements enclosing n, from n itself (if it is an
// element) up to, but excluding, the root.
func (t *Tree) Ancestors(n *html.Node) []*html.Node {
	var anc []*html.Node
	for ; n != nil && n != t.root; n = n.Parent {
		if n.Type == html.ElementNode {
			anc = append(anc, n)
		}
	}
	return anc
}

// AnyMatches checks the nodes intersecting r and all of their enclosing
// elements (below the root) against a matcher. It is true if at least one
// element matches.
func (t *Tree) AnyMatches(r selection.Range, match Matcher) (bool, error) {
	nodes, err := t.NodesIntersecting(r)
	if err != nil {
		return false, err
	}
	for _, n := range nodes {
		for _, a := range t.Ancestors(n) {
			if match(a) {
				return true, nil
			}
		}
	}
	return false, nil
}
