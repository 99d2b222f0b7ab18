package engine

import (
	"fmt"

	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/dom/style/douceuradapter"
	"golang.org/x/net/html"
)

// ApplyValue wraps the content of a selection into spans styled with a
// single CSS declaration, e.g. "color: red". Other than style keys, value
// styles are not toggled: applying a value always wraps.
func ApplyValue(t *dom.Tree, r selection.Range, property, value string) (selection.Range, error) {
	kv, err := douceuradapter.Declaration(property, value)
	if err != nil {
		return r, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
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
	styles := style.NewPropertyMap()
	styles.Add(kv.Key, kv.Value)
	if _, err = t.Wrap(nr, "span", styles); err != nil {
		return r, err
	}
	t.MergeText(t.Root())
	tracer().Debugf("applied %s: %s to text %d…%d", kv.Key, kv.Value, from, to)
	return t.RangeFromOffsets(from, to), nil
}

// InsertParagraph inserts an empty paragraph at the start of a selection.
// The returned selection is a caret inside the new paragraph.
func InsertParagraph(t *dom.Tree, r selection.Range) (selection.Range, error) {
	nr, err := t.Normalize(r)
	if err != nil {
		return r, err
	}
	p := dom.NewElement("p", nil)
	p.AppendChild(&html.Node{Type: html.TextNode, Data: "\u00a0"})
	if err = t.InsertAt(nr.Start(), p); err != nil {
		return r, err
	}
	return selection.Caret(p, 0), nil
}
