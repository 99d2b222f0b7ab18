package dom

import (
	"strings"

	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/dom/style/douceuradapter"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// --- Splitting -------------------------------------------------------------

// splitText splits text node t at a byte offset. It returns the node
// following the split position, which may be nil if the offset is at the
// end of the last child.
func splitText(t *html.Node, offset int) *html.Node {
	if offset <= 0 {
		return t
	}
	if offset >= len(t.Data) {
		return t.NextSibling
	}
	rest := &html.Node{Type: html.TextNode, Data: t.Data[offset:]}
	t.Data = t.Data[:offset]
	t.Parent.InsertBefore(rest, t.NextSibling)
	return rest
}

// cloneElement creates a shallow copy of element n, without children.
func cloneElement(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		Data:      n.Data,
		DataAtom:  n.DataAtom,
		Namespace: n.Namespace,
	}
	clone.Attr = append([]html.Attribute(nil), n.Attr...)
	return clone
}

// splitElementBefore splits element n in front of its child c. c and all
// following children move to a clone of n, which is inserted right after n.
func splitElementBefore(n, c *html.Node) *html.Node {
	clone := cloneElement(n)
	for c != nil {
		next := c.NextSibling
		n.RemoveChild(c)
		clone.AppendChild(c)
		c = next
	}
	n.Parent.InsertBefore(clone, n.NextSibling)
	return clone
}

// splitBoundary splits the tree at boundary point pt, up to (and excluding)
// an ancestor upto. It returns the child of upto directly following the
// boundary, or nil if the boundary is at the end of upto.
func splitBoundary(pt selection.Point, upto *html.Node) *html.Node {
	n := pt.Node
	var after *html.Node
	if n.Type == html.TextNode {
		after = splitText(n, pt.Offset)
		n = n.Parent
	} else {
		after = selection.ChildAt(n, pt.Offset)
	}
	for n != upto {
		switch after {
		case n.FirstChild:
			after = n
		case nil:
			after = n.NextSibling
		default:
			after = splitElementBefore(n, after)
		}
		n = n.Parent
	}
	return after
}

// container returns the node a boundary point is positioned in, i.e. the
// parent of a text node or the element itself.
func container(pt selection.Point) *html.Node {
	if pt.Node.Type == html.TextNode {
		return pt.Node.Parent
	}
	return pt.Node
}

// splitTop returns the ancestor-or-self of n up to which a boundary inside
// of n may be split: the nearest block-level element, but no higher than ca.
// Block-level elements are never split by inline edits.
func splitTop(n, ca *html.Node) *html.Node {
	for n != ca && !IsBlockLevel(n) {
		n = n.Parent
	}
	return n
}

func newMark() *html.Node {
	return &html.Node{Type: html.CommentNode, Data: "mark"}
}

// cut splits the tree at the boundaries of the normalized, non-collapsed
// range r. The end of r is split up to endTop, the start up to startTop.
// Both cut positions are marked with placeholder nodes, which the caller
// has to remove.
func cut(r selection.Range, startTop, endTop *html.Node) (startMark, endMark *html.Node) {
	endMark, startMark = newMark(), newMark()
	endTop.InsertBefore(endMark, splitBoundary(r.End(), endTop))
	startTop.InsertBefore(startMark, splitBoundary(r.Start(), startTop))
	return
}

// cutInline cuts r, splitting inline elements only.
func cutInline(r selection.Range) (ca, startMark, endMark *html.Node) {
	ca = commonContainer(r)
	startTop := splitTop(container(r.Start()), ca)
	endTop := splitTop(container(r.End()), ca)
	startMark, endMark = cut(r, startTop, endTop)
	return
}

// unmark removes a pair of placeholder nodes and returns the range between
// their former positions.
func unmark(startMark, endMark *html.Node) selection.Range {
	sp := startMark.Parent
	s := selection.IndexOf(startMark)
	sp.RemoveChild(startMark)
	ep := endMark.Parent
	e := selection.IndexOf(endMark)
	ep.RemoveChild(endMark)
	return selection.New(sp, s, ep, e)
}

// commonContainer returns the deepest element enclosing both ends of r.
func commonContainer(r selection.Range) *html.Node {
	ca := selection.CommonAncestor(r.StartNode, r.EndNode)
	if ca.Type == html.TextNode {
		ca = ca.Parent
	}
	return ca
}

// selectedRuns walks the content between two placeholder marks below ca
// and calls f for every maximal run of consecutive siblings which lie
// completely between the marks. Elements containing a mark are descended
// into, as are selected elements satisfying descend. f may move or remove
// the nodes of the run.
func selectedRuns(ca, startMark, endMark *html.Node, descend Matcher, f func([]*html.Node)) {
	inside := false
	var visit func(*html.Node) bool
	visit = func(parent *html.Node) bool {
		var run []*html.Node
		flush := func() {
			if len(run) > 0 {
				f(run)
			}
			run = nil
		}
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c == startMark:
				flush()
				inside = true
			case c == endMark:
				flush()
				return true
			case selection.Contains(c, startMark) || selection.Contains(c, endMark):
				flush()
				if visit(c) {
					return true
				}
			case inside && descend(c):
				flush()
				if visit(c) {
					return true
				}
			case inside:
				run = append(run, c)
			}
		}
		flush()
		return false
	}
	visit(ca)
}

// outermost returns the outermost ancestor-or-self of n which satisfies
// match. The search does not leave the nearest enclosing block.
func (t *Tree) outermost(n *html.Node, match Matcher) *html.Node {
	var top *html.Node
	for ; n != nil && n != t.root && !IsBlockLevel(n); n = n.Parent {
		if match(n) {
			top = n
		}
	}
	return top
}

// Isolate splits the tree at the boundaries of r such that every inline
// element satisfying match is either completely inside or completely
// outside the returned range. Block-level elements are not split. The
// returned range spans the same content as r.
func (t *Tree) Isolate(r selection.Range, match Matcher) (selection.Range, error) {
	r, err := t.Normalize(r)
	if err != nil || r.IsCollapsed() {
		return r, err
	}
	startTop, endTop := container(r.Start()), container(r.End())
	if top := t.outermost(r.StartNode, match); top != nil {
		startTop = top.Parent
	}
	if top := t.outermost(r.EndNode, match); top != nil {
		endTop = top.Parent
	}
	isolated := unmark(cut(r, startTop, endTop))
	tracer().Debugf("isolated %s", isolated)
	return isolated, nil
}

// Encloses is true if node n lies completely inside of range r.
func (t *Tree) Encloses(r selection.Range, n *html.Node) bool {
	r, err := t.Normalize(r)
	if err != nil || r.IsCollapsed() || !t.IsDescendantOfRoot(n) {
		return false
	}
	return selection.Encloses(t.root, r, n)
}

// --- Wrapping --------------------------------------------------------------

// NewElement creates a detached element node with inline styles.
func NewElement(tag string, styles *style.PropertyMap) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	douceuradapter.SetStyleOf(el, styles)
	return el
}

// Wrap encloses the content selected by r in new elements of type tag,
// carrying the given inline styles. Inline nodes partially covered by r
// are split.
//
// Inline wrappers never enclose block-level elements: if r crosses blocks,
// wrapping descends into them and each run of inline content gets its own
// wrapper. Wrap returns all wrappers created, in document order.
func (t *Tree) Wrap(r selection.Range, tag string, styles *style.PropertyMap) ([]*html.Node, error) {
	r, err := t.Normalize(r)
	if err != nil {
		return nil, err
	}
	if r.IsCollapsed() {
		return nil, ErrRangeNotCollapsible
	}
	ca, startMark, endMark := cutInline(r)
	var wrappers []*html.Node
	selectedRuns(ca, startMark, endMark, IsBlockLevel, func(run []*html.Node) {
		if isBlank(run) {
			return
		}
		w := NewElement(tag, styles)
		run[0].Parent.InsertBefore(w, run[0])
		for _, n := range run {
			n.Parent.RemoveChild(n)
			w.AppendChild(n)
		}
		wrappers = append(wrappers, w)
	})
	unmark(startMark, endMark)
	tracer().Debugf("wrapped selection into %d <%s> element(s)", len(wrappers), tag)
	return wrappers, nil
}

// isBlank is true for runs of nodes consisting of whitespace text only,
// like the line breaks between block elements.
func isBlank(run []*html.Node) bool {
	for _, n := range run {
		if n.Type != html.TextNode || strings.Trim(n.Data, " \t\r\n\f") != "" {
			return false
		}
	}
	return true
}

// Unwrap replaces element n by its children. The root and detached nodes
// are left alone.
func (t *Tree) Unwrap(n *html.Node) {
	if n == nil || n == t.root || n.Parent == nil {
		return
	}
	parent := n.Parent
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
}

// RemoveStyle takes the marker of a style key out of the inline style of
// element el. It reports whether el has been left without any inline style.
// RemoveStyle does not unwrap el.
func (t *Tree) RemoveStyle(el *html.Node, key style.Key) bool {
	pmap := douceuradapter.StyleOf(el)
	key.Remove(pmap)
	douceuradapter.SetStyleOf(el, pmap)
	return pmap.Empty()
}

// IsRedundant is true for a span element without styles and without other
// attributes. Such wrappers may be unwrapped without changing the rendering.
func IsRedundant(n *html.Node) bool {
	return NodeIsElement(n) && n.Data == "span" && hasOnlyStyle(n) &&
		douceuradapter.StyleOf(n).Empty()
}

// --- Deleting and inserting ------------------------------------------------

// DeleteContents removes the content selected by r from the tree. Inline
// nodes partially covered by r are split first, thus keeping the unselected
// parts. Block-level elements partially covered by r keep their unselected
// content. It returns the boundary point where the content has been
// removed, which is the position of the start of r.
func (t *Tree) DeleteContents(r selection.Range) (selection.Point, error) {
	return t.replaceContents(r, nil)
}

// ReplaceContents replaces the content selected by r with a detached node
// n. n takes the position of the start of r. Deletion and insertion either
// both happen or, on error, none of them.
func (t *Tree) ReplaceContents(r selection.Range, n *html.Node) error {
	if n == nil || n.Parent != nil {
		return ErrNodeAttached
	}
	_, err := t.replaceContents(r, n)
	return err
}

func (t *Tree) replaceContents(r selection.Range, n *html.Node) (selection.Point, error) {
	r, err := t.Normalize(r)
	if err != nil {
		return selection.Point{}, err
	}
	if r.IsCollapsed() {
		if n != nil {
			err = t.InsertAt(r.Start(), n)
		}
		return r.Start(), err
	}
	ca, startMark, endMark := cutInline(r)
	never := func(*html.Node) bool { return false }
	selectedRuns(ca, startMark, endMark, never, func(run []*html.Node) {
		for _, c := range run {
			c.Parent.RemoveChild(c)
		}
	})
	if n != nil {
		startMark.Parent.InsertBefore(n, startMark)
	}
	at := unmark(startMark, endMark).Start()
	return at, nil
}

// InsertAt inserts a detached node n at a boundary point. A text node is
// split if pt is positioned inside of it.
func (t *Tree) InsertAt(pt selection.Point, n *html.Node) error {
	if pt.Node == nil || !selection.Contains(t.root, pt.Node) {
		return selection.ErrDetachedRange
	}
	parent := container(pt)
	var after *html.Node
	if pt.Node.Type == html.TextNode {
		after = splitText(pt.Node, pt.Offset)
	} else {
		after = selection.ChildAt(pt.Node, pt.Offset)
	}
	parent.InsertBefore(n, after)
	return nil
}

// MergeText cleans up the subtree below n after edits: empty text nodes are
// removed, adjacent text nodes are merged, and adjacent formatting elements
// of the same type and with equal attributes are joined.
func (t *Tree) MergeText(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.TextNode && c.Data == "":
			n.RemoveChild(c)
		case c.Type == html.TextNode && next != nil && next.Type == html.TextNode:
			c.Data += next.Data
			n.RemoveChild(next)
			continue
		case isJoinable(c, next):
			for g := next.FirstChild; g != nil; g = next.FirstChild {
				next.RemoveChild(g)
				c.AppendChild(g)
			}
			n.RemoveChild(next)
			continue
		case c.Type == html.ElementNode:
			t.MergeText(c)
		}
		c = next
	}
}

// joinable lists inline formatting elements which may be joined if they
// are adjacent and carry equal attributes. Links and void elements are
// never joined.
var joinable = map[atom.Atom]bool{
	atom.Span: true, atom.B: true, atom.I: true, atom.Em: true, atom.Strong: true,
	atom.S: true, atom.Strike: true, atom.U: true, atom.Del: true, atom.Ins: true,
	atom.Sub: true, atom.Sup: true, atom.Small: true, atom.Code: true, atom.Mark: true,
	atom.Font: true,
}

func isJoinable(a, b *html.Node) bool {
	if !NodeIsElement(a) || !NodeIsElement(b) || a.Data != b.Data || !joinable[a.DataAtom] {
		return false
	}
	if len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i] != b.Attr[i] {
			return false
		}
	}
	return true
}
