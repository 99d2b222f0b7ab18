package engine

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/maybe"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Resolver asks for a link target. Nothing means the user abandoned the
// creation of the link.
type Resolver func() maybe.Maybe[string]

// IsLinkActive checks if a selection touches a link.
func IsLinkActive(t *dom.Tree, r selection.Range) (bool, error) {
	return isActive(t, r, dom.HasTag("a"))
}

// ToggleLink creates or removes a link for the content of a selection.
//
// If r touches one or more links, all of them are unwrapped; the returned
// selection is collapsed after the text of the last link removed.
// Otherwise resolve is called for a link target. If it yields a target,
// the content of r is replaced by a link carrying the selected text, and
// the returned selection is collapsed right after the new link. If it
// yields nothing, or a blank target, the tree is left untouched and r is
// returned.
func ToggleLink(t *dom.Tree, r selection.Range, resolve Resolver) (selection.Range, error) {
	nr, err := t.Normalize(r)
	if err != nil {
		return r, err
	}
	if nr.IsCollapsed() {
		return r, ErrEmptySelection
	}
	active, err := t.AnyMatches(nr, dom.HasTag("a"))
	if err != nil {
		return r, err
	}
	if active {
		return removeLinks(t, nr)
	}
	var target string
	switch m := resolve().Match(); m {
	case m.Just(&target):
	case m.Nothing():
		tracer().Debugf("link creation abandoned")
		return r, nil
	}
	if target = strings.TrimSpace(target); target == "" {
		tracer().Debugf("blank link target, link creation abandoned")
		return r, nil
	}
	if err = ValidateLinkTarget(target); err != nil {
		return r, err
	}
	return insertLink(t, nr, target)
}

// ValidateLinkTarget checks that target is usable as the href of a link.
func ValidateLinkTarget(target string) error {
	if strings.ContainsAny(target, " \t\r\n") {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidLinkTarget, target)
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLinkTarget, err)
	}
	if strings.EqualFold(u.Scheme, "javascript") {
		return fmt.Errorf("%w: scheme %q not allowed", ErrInvalidLinkTarget, u.Scheme)
	}
	return nil
}

func removeLinks(t *dom.Tree, r selection.Range) (selection.Range, error) {
	nodes, err := t.NodesIntersecting(r)
	if err != nil {
		return r, err
	}
	seen := make(map[*html.Node]bool)
	var anchors []*html.Node
	end := 0
	for _, n := range nodes {
		for _, a := range t.Ancestors(n) {
			if !dom.HasTag("a")(a) || seen[a] {
				continue
			}
			seen[a] = true
			anchors = append(anchors, a)
			_, to, err := t.Offsets(selection.Contents(a))
			if err != nil {
				return r, err
			}
			end = max(end, to)
		}
	}
	for _, a := range anchors {
		t.Unwrap(a)
	}
	t.MergeText(t.Root())
	tracer().Debugf("removed %d link(s)", len(anchors))
	return t.RangeFromOffsets(end, end), nil
}

func insertLink(t *dom.Tree, r selection.Range, target string) (selection.Range, error) {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.A.String(),
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: target}},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: r.Text()})
	if err := t.ReplaceContents(r, a); err != nil {
		return r, err
	}
	t.MergeText(t.Root())
	tracer().Debugf("inserted link to %s", target)
	return selection.Caret(a.Parent, selection.IndexOf(a)+1), nil
}
