package engine

import (
	"errors"

	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/dom/style"
	"golang.org/x/net/html"
)

// IsStyleActive checks if a style key is active within a selection. A key
// is active if at least one element inside of r or enclosing r carries the
// key's marker. For a collapsed selection, the elements enclosing the caret
// are checked.
func IsStyleActive(t *dom.Tree, r selection.Range, key style.Key) (bool, error) {
	return isActive(t, r, dom.HasStyle(key))
}

func isActive(t *dom.Tree, r selection.Range, match dom.Matcher) (bool, error) {
	nr, err := t.Normalize(r)
	if err != nil {
		return false, err
	}
	if nr.IsCollapsed() {
		for _, a := range t.Ancestors(nr.StartNode) {
			if match(a) {
				return true, nil
			}
		}
		return false, nil
	}
	return t.AnyMatches(nr, match)
}

// ToggleStyle toggles a style key for the content of a selection. If the
// style is active anywhere within r, it is removed from all of r.
// Otherwise the content of r is wrapped into spans carrying the style.
//
// ToggleStyle returns the selection covering the same text as r after
// the edit.
func ToggleStyle(t *dom.Tree, r selection.Range, key style.Key) (selection.Range, error) {
	nr, err := t.Normalize(r)
	if err != nil {
		return r, err
	}
	if nr.IsCollapsed() {
		return r, ErrEmptySelection
	}
	from, to, err := t.Offsets(nr)
	if err != nil {
		return r, err
	}
	active, err := t.AnyMatches(nr, dom.HasStyle(key))
	if err != nil {
		return r, err
	}
	if active {
		tracer().Debugf("%s is active in text %d…%d, removing it", key, from, to)
		if err = removeStyle(t, nr, key, from, to); err != nil {
			return r, err
		}
	} else {
		tracer().Debugf("%s is inactive in text %d…%d, applying it", key, from, to)
		if _, err = t.Wrap(nr, "span", key.Styles()); err != nil {
			return r, err
		}
	}
	t.MergeText(t.Root())
	return t.RangeFromOffsets(from, to), nil
}

// removeStyle removes the marker of key from every element within r.
// Elements only partially covered by r are blocks (or enclose blocks), which
// cannot be split. For them the marker is removed as well, but the parts
// of their content outside of r are re-wrapped with the style.
func removeStyle(t *dom.Tree, r selection.Range, key style.Key, from, to int) error {
	iso, err := t.Isolate(r, dom.HasStyle(key))
	if err != nil {
		return err
	}
	nodes, err := t.NodesIntersecting(iso)
	if err != nil {
		return err
	}
	type span struct{ from, to int }
	var outside []span
	var carriers []*html.Node
	for _, n := range nodes {
		if !dom.HasStyle(key)(n) {
			continue
		}
		carriers = append(carriers, n)
		if t.Encloses(iso, n) {
			continue
		}
		nf, nt, err := t.Offsets(selection.Contents(n))
		if err != nil {
			return err
		}
		if nf < from {
			outside = append(outside, span{nf, from})
		}
		if to < nt {
			outside = append(outside, span{to, nt})
		}
	}
	for _, n := range carriers {
		if t.RemoveStyle(n, key) && dom.IsRedundant(n) {
			t.Unwrap(n)
		}
	}
	for _, o := range outside {
		tracer().Debugf("re-applying %s to text %d…%d", key, o.from, o.to)
		_, err := t.Wrap(t.RangeFromOffsets(o.from, o.to), "span", key.Styles())
		if err != nil && !errors.Is(err, dom.ErrRangeNotCollapsible) {
			return err
		}
	}
	return nil
}
