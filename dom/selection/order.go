package selection

import (
	"errors"

	"golang.org/x/net/html"
)

// ErrDetachedRange is returned if an endpoint of a range is not attached
// to the tree it is used with.
var ErrDetachedRange = errors.New("range is not attached to the editable root")

// keyOf computes a sort key for a boundary point: the path of child indices
// from root down to the point's node, followed by the offset.
func keyOf(root *html.Node, pt Point) ([]int, bool) {
	var path []int
	n := pt.Node
	for ; n != nil && n != root; n = n.Parent {
		path = append(path, IndexOf(n))
	}
	if n == nil {
		return nil, false
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return append(path, pt.Offset), true
}

// compareKeys compares keys lexicographically. A proper prefix is smaller.
func compareKeys(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		} else if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Compare compares two boundary points in document order. It returns -1, 0
// or +1 for a before, equal to or after b. Points in different trees
// cannot be compared.
func Compare(a, b Point) (int, error) {
	if a.Node == nil || b.Node == nil {
		return 0, ErrDetachedRange
	}
	ca := CommonAncestor(a.Node, b.Node)
	if ca == nil {
		return 0, ErrDetachedRange
	}
	ka, _ := keyOf(ca, a)
	kb, _ := keyOf(ca, b)
	return compareKeys(ka, kb), nil
}

// Normalize checks that r is anchored below root and returns its canonical
// form:
//
//   - offsets are clamped to the length of their nodes and text offsets
//     are snapped to rune boundaries
//   - reversed ranges are swapped
//   - the start point is moved forward out of nodes it sits at the end of
//   - the end point is moved backward out of nodes it sits at the start of
//
// If the normalized range does not span any content, the resulting range
// is collapsed at its start point.
func Normalize(root *html.Node, r Range) (Range, error) {
	if root == nil || r.StartNode == nil || r.EndNode == nil {
		return r, ErrDetachedRange
	}
	if !Contains(root, r.StartNode) || !Contains(root, r.EndNode) {
		return r, ErrDetachedRange
	}
	start := snap(Point{r.StartNode, clamp(r.StartOffset, r.StartNode)}, false)
	end := snap(Point{r.EndNode, clamp(r.EndOffset, r.EndNode)}, true)
	ks, _ := keyOf(root, start)
	ke, _ := keyOf(root, end)
	if compareKeys(ks, ke) > 0 {
		start, end = end, start
	}
	for start.Node != root && start.Offset >= Length(start.Node) {
		start = Point{start.Node.Parent, IndexOf(start.Node) + 1}
	}
	for end.Node != root && end.Offset == 0 {
		end = Point{end.Node.Parent, IndexOf(end.Node)}
	}
	ks, _ = keyOf(root, start)
	ke, _ = keyOf(root, end)
	if compareKeys(ks, ke) >= 0 {
		return Caret(start.Node, start.Offset), nil
	}
	return New(start.Node, start.Offset, end.Node, end.Offset), nil
}

// eachText calls f for every text node below n, in document order. f
// receives the path of child indices from n to the text node.
func eachText(n *html.Node, f func(t *html.Node, path []int)) {
	var walk func(*html.Node, []int)
	walk = func(n *html.Node, path []int) {
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p := append(append([]int(nil), path...), i)
			if c.Type == html.TextNode {
				f(c, p)
			} else {
				walk(c, p)
			}
			i++
		}
	}
	walk(n, nil)
}

// TextOffset returns the number of text bytes below root which precede
// a boundary point.
func TextOffset(root *html.Node, pt Point) (int, error) {
	key, ok := keyOf(root, pt)
	if !ok {
		return 0, ErrDetachedRange
	}
	offset := 0
	eachText(root, func(t *html.Node, path []int) {
		if t == pt.Node {
			offset += clamp(pt.Offset, t)
		} else if compareKeys(append(path, len(t.Data)), key) <= 0 {
			offset += len(t.Data)
		}
	})
	return offset, nil
}

// Offsets converts a range into a pair of text offsets relative to root.
// Text offsets survive structural edits which do not add or remove text.
func Offsets(root *html.Node, r Range) (from, to int, err error) {
	if r, err = Normalize(root, r); err != nil {
		return 0, 0, err
	}
	if from, err = TextOffset(root, r.Start()); err != nil {
		return 0, 0, err
	}
	if r.IsCollapsed() {
		return from, from, nil
	}
	to, err = TextOffset(root, r.End())
	return from, to, err
}

// FromOffsets is the inverse of Offsets. It anchors a range to text nodes
// below root. At a boundary between two text nodes the start point prefers
// the following node and the end point prefers the preceding one, thus
// keeping the range inside the text it selects. Offsets beyond the
// text content are clamped.
func FromOffsets(root *html.Node, from, to int) Range {
	if to < from {
		from, to = to, from
	}
	var texts []*html.Node
	eachText(root, func(t *html.Node, _ []int) {
		if len(t.Data) > 0 {
			texts = append(texts, t)
		}
	})
	if len(texts) == 0 {
		l := Length(root)
		return New(root, l, root, l)
	}
	last := texts[len(texts)-1]
	start := Point{last, len(last.Data)}
	acc := 0
	for _, t := range texts {
		if from < acc+len(t.Data) {
			start = Point{t, max(from-acc, 0)}
			break
		}
		acc += len(t.Data)
	}
	start = snap(start, false)
	if to == from {
		return Caret(start.Node, start.Offset)
	}
	end := Point{last, len(last.Data)}
	acc = 0
	for _, t := range texts {
		if to <= acc+len(t.Data) {
			end = Point{t, max(to-acc, 0)}
			break
		}
		acc += len(t.Data)
	}
	end = snap(end, true)
	tracer().Debugf("text offsets %d…%d anchored to %s…%s", from, to, start, end)
	return New(start.Node, start.Offset, end.Node, end.Offset)
}

// Intersecting returns every node below root whose extent overlaps the
// normalized range r, in document order. Ancestors precede their
// descendants and nodes containing the range are included. root itself
// is never part of the result, neither are nodes outside of root.
func Intersecting(root *html.Node, r Range) []*html.Node {
	if r.IsCollapsed() {
		return nil
	}
	ks, ok1 := keyOf(root, r.Start())
	ke, ok2 := keyOf(root, r.End())
	if !ok1 || !ok2 {
		return nil
	}
	var result []*html.Node
	var walk func(*html.Node, []int)
	walk = func(n *html.Node, path []int) {
		i := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			from := append(append([]int(nil), path...), i)
			to := append(append([]int(nil), path...), i+1)
			if compareKeys(from, ke) < 0 && compareKeys(to, ks) > 0 {
				result = append(result, c)
				walk(c, from)
			}
			i++
		}
	}
	walk(root, nil)
	return result
}

// Encloses is true if node n lies completely inside of the normalized
// range r.
func Encloses(root *html.Node, r Range, n *html.Node) bool {
	if n == nil || n == root || n.Parent == nil {
		return false
	}
	i := IndexOf(n)
	from, ok1 := keyOf(root, Point{n.Parent, i})
	to, ok2 := keyOf(root, Point{n.Parent, i + 1})
	ks, ok3 := keyOf(root, r.Start())
	ke, ok4 := keyOf(root, r.End())
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return compareKeys(ks, from) <= 0 && compareKeys(to, ke) <= 0
}
