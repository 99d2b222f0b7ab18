package selection

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Point is a boundary point within a document tree. For text nodes, Offset
// is a byte position into the node's UTF-8 text; for element nodes it is
// the index of a child, i.e. the boundary lies before child #Offset.
type Point struct {
	Node   *html.Node
	Offset int
}

func (pt Point) String() string {
	return fmt.Sprintf("(%s,%d)", nodeName(pt.Node), pt.Offset)
}

// Range is an anchored span of a document tree, delimited by two boundary
// points. A range is a plain value: it is created from the host's live
// selection, consumed by an edit operation and replaced by the range the
// operation returns.
type Range struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// New creates a range from two boundary points.
func New(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int) Range {
	return Range{
		StartNode:   startNode,
		StartOffset: startOffset,
		EndNode:     endNode,
		EndOffset:   endOffset,
	}
}

// Caret creates a collapsed range at a single boundary point.
func Caret(node *html.Node, offset int) Range {
	return New(node, offset, node, offset)
}

// Select creates a range spanning node n as a whole.
func Select(n *html.Node) Range {
	if n.Parent == nil {
		return New(n, 0, n, Length(n))
	}
	i := IndexOf(n)
	return New(n.Parent, i, n.Parent, i+1)
}

// Contents creates a range spanning the content of node n.
func Contents(n *html.Node) Range {
	return New(n, 0, n, Length(n))
}

// Start returns the start boundary point.
func (r Range) Start() Point {
	return Point{r.StartNode, r.StartOffset}
}

// End returns the end boundary point.
func (r Range) End() Point {
	return Point{r.EndNode, r.EndOffset}
}

// IsZero is true for a range without endpoints, i.e. no selection at all.
func (r Range) IsZero() bool {
	return r.StartNode == nil && r.EndNode == nil
}

// IsCollapsed is true if start and end denote the same boundary point.
// This checks identity, not equivalence: (T,len(T)) and (T.Parent,i+1) are
// different points. Use Normalize to get canonical endpoints.
func (r Range) IsCollapsed() bool {
	return r.StartNode == r.EndNode && r.StartOffset == r.EndOffset
}

func (r Range) String() string {
	return fmt.Sprintf("Range[%s…%s]", r.Start(), r.End())
}

// Text returns the text content spanned by the range, concatenated in
// document order. Detached or malformed ranges yield the empty string.
func (r Range) Text() string {
	if r.StartNode == nil || r.EndNode == nil {
		return ""
	}
	ca := CommonAncestor(r.StartNode, r.EndNode)
	if ca == nil {
		return ""
	}
	if ca.Type == html.TextNode {
		lo, hi := clamp(r.StartOffset, ca), clamp(r.EndOffset, ca)
		if lo >= hi {
			return ""
		}
		return ca.Data[lo:hi]
	}
	start, _ := keyOf(ca, r.Start())
	end, _ := keyOf(ca, r.End())
	var b strings.Builder
	eachText(ca, func(t *html.Node, k []int) {
		lo, hi := 0, len(t.Data)
		if t == r.StartNode {
			lo = clamp(r.StartOffset, t)
		} else if compareKeys(append(k, len(t.Data)), start) <= 0 {
			return
		}
		if t == r.EndNode {
			hi = clamp(r.EndOffset, t)
		} else if compareKeys(append(k, 0), end) >= 0 {
			return
		}
		if lo < hi {
			b.WriteString(t.Data[lo:hi])
		}
	})
	return b.String()
}

// --- Tree helpers ----------------------------------------------------------

// Length returns the number of offsets of a node: the byte length of a
// text node, or the number of children of an element.
func Length(n *html.Node) int {
	if n == nil {
		return 0
	}
	if n.Type == html.TextNode {
		return len(n.Data)
	}
	l := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		l++
	}
	return l
}

// IndexOf returns the position of n within the children of its parent.
func IndexOf(n *html.Node) int {
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// ChildAt returns child #i of n, or nil if there is no such child.
func ChildAt(n *html.Node, i int) *html.Node {
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	if i < 0 {
		return nil
	}
	return c
}

// Contains is true if n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// CommonAncestor returns the deepest node which is an ancestor-or-self of
// both a and b, or nil if a and b live in different trees.
func CommonAncestor(a, b *html.Node) *html.Node {
	ancestors := make(map[*html.Node]bool)
	for n := a; n != nil; n = n.Parent {
		ancestors[n] = true
	}
	for n := b; n != nil; n = n.Parent {
		if ancestors[n] {
			return n
		}
	}
	return nil
}

func clamp(offset int, n *html.Node) int {
	if offset < 0 {
		return 0
	}
	if l := Length(n); offset > l {
		return l
	}
	return offset
}

// snap moves a text offset to the nearest rune start, backwards or forwards.
func snap(pt Point, forward bool) Point {
	if pt.Node.Type != html.TextNode {
		return pt
	}
	s := pt.Node.Data
	for pt.Offset > 0 && pt.Offset < len(s) && !utf8.RuneStart(s[pt.Offset]) {
		if forward {
			pt.Offset++
		} else {
			pt.Offset--
		}
	}
	return pt
}

func nodeName(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.ElementNode:
		return n.Data
	case html.DocumentNode:
		return "#document"
	}
	return "#node"
}
