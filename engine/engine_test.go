package engine

import (
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/domdbg"
	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/dom/style/douceuradapter"
	"github.com/npillmayer/wysiwyg/maybe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, content string) *dom.Tree {
	tree, err := dom.Parse(content)
	require.NoError(t, err)
	return tree
}

func serialize(t *testing.T, tree *dom.Tree) string {
	s, err := tree.Serialize()
	require.NoError(t, err)
	return s
}

// selectText selects the first occurrence of s in the text content.
func selectText(t *testing.T, tree *dom.Tree, s string) selection.Range {
	from := strings.Index(tree.TextContent(), s)
	require.GreaterOrEqual(t, from, 0, "text %q not found", s)
	return tree.RangeFromOffsets(from, from+len(s))
}

// styling computes the effective styling for every byte of text: the set of
// formatting tags and active style keys of all enclosing elements.
func styling(tree *dom.Tree) []string {
	var out []string
	var walk func(*html.Node, map[string]bool)
	walk = func(n *html.Node, ctx map[string]bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				desc := make([]string, 0, len(ctx))
				for d := range ctx {
					desc = append(desc, d)
				}
				sort.Strings(desc)
				for range c.Data {
					out = append(out, strings.Join(desc, ","))
				}
				continue
			}
			inner := make(map[string]bool, len(ctx)+2)
			for d := range ctx {
				inner[d] = true
			}
			if c.Data != "span" {
				inner["<"+c.Data+">"] = true
			}
			for _, k := range style.Keys() {
				if k.IsActive(douceuradapter.StyleOf(c)) {
					inner[k.String()] = true
				}
			}
			walk(c, inner)
		}
	}
	walk(tree.Root(), map[string]bool{})
	return out
}

func TestToggleStyleApplies(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, "<p>Hello world</p>")
	r, err := ToggleStyle(tree, selectText(t, tree, "world"), style.Bold)
	require.NoError(t, err)
	assert.Equal(t, `<p>Hello <span style="font-weight: bold">world</span></p>`, serialize(t, tree))
	assert.Equal(t, "world", r.Text())
	active, err := IsStyleActive(tree, r, style.Bold)
	require.NoError(t, err)
	assert.True(t, active)
	active, err = IsStyleActive(tree, r, style.Italic)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestToggleStyleTwiceRestores(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	content := "<p>Hello world</p>"
	tree := parse(t, content)
	r, err := ToggleStyle(tree, selectText(t, tree, "world"), style.Bold)
	require.NoError(t, err)
	r, err = ToggleStyle(tree, r, style.Bold)
	require.NoError(t, err)
	assert.Equal(t, content, serialize(t, tree))
	assert.Equal(t, "world", r.Text())
}

func TestToggleStyleTwiceForAllSelections(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	content := "<p>ab<i>cd</i>ef</p><p>gh</p>"
	original := parse(t, content)
	want, text := styling(original), original.TextContent()
	for _, key := range style.Keys() {
		for from := 0; from < len(text); from++ {
			for to := from + 1; to <= len(text); to++ {
				tree := parse(t, content)
				r, err := ToggleStyle(tree, tree.RangeFromOffsets(from, to), key)
				require.NoError(t, err)
				assert.Equal(t, text[from:to], r.Text())
				_, err = ToggleStyle(tree, r, key)
				require.NoError(t, err)
				if tree.TextContent() != text {
					t.Fatalf("%s %d…%d: text changed to %q", key, from, to, tree.TextContent())
				}
				if got := styling(tree); !assert.Equal(t, want, got) {
					t.Logf("%s %d…%d: tree =\n%s", key, from, to, domdbg.Outline(tree.Root()))
				}
			}
		}
	}
}

func TestToggleStyleDisjunctive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<p>a<span style="font-weight: bold">b</span>c</p>`)
	r := selectText(t, tree, "abc")
	active, err := IsStyleActive(tree, r, style.Bold)
	require.NoError(t, err)
	assert.True(t, active, "a single bold character activates the whole selection")
	r, err = ToggleStyle(tree, r, style.Bold)
	require.NoError(t, err)
	assert.Equal(t, `<p>abc</p>`, serialize(t, tree))
	_, err = ToggleStyle(tree, r, style.Bold)
	require.NoError(t, err)
	assert.Equal(t, `<p><span style="font-weight: bold">abc</span></p>`, serialize(t, tree))
}

func TestToggleStyleRemovesLeadingStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<span style="font-weight: bold">A</span>B`)
	r := selectText(t, tree, "AB")
	_, err := ToggleStyle(tree, r, style.Bold)
	require.NoError(t, err)
	assert.Equal(t, `AB`, serialize(t, tree))
}

func TestToggleStyleUnwrapFlattening(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<span style="font-weight: bold"><b>X</b></span>Y`)
	_, err := ToggleStyle(tree, selectText(t, tree, "X"), style.Bold)
	require.NoError(t, err)
	assert.Equal(t, `<b>X</b>Y`, serialize(t, tree))
}

func TestToggleStyleKeepsOtherStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<span style="font-style: italic; font-weight: bold">abc</span>`)
	_, err := ToggleStyle(tree, selectText(t, tree, "b"), style.Bold)
	require.NoError(t, err)
	expected := `<span style="font-style: italic; font-weight: bold">a</span>` +
		`<span style="font-style: italic">b</span>` +
		`<span style="font-style: italic; font-weight: bold">c</span>`
	assert.Equal(t, expected, serialize(t, tree))
}

func TestToggleStylePartialBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<p style="font-weight: bold">abcd</p>`)
	r, err := ToggleStyle(tree, selectText(t, tree, "bc"), style.Bold)
	require.NoError(t, err)
	expected := `<p><span style="font-weight: bold">a</span>bc<span style="font-weight: bold">d</span></p>`
	assert.Equal(t, expected, serialize(t, tree))
	assert.Equal(t, "bc", r.Text())
}

func TestToggleStyleEmptySelection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, "<p>abc</p>")
	before := serialize(t, tree)
	caret := tree.RangeFromOffsets(1, 1)
	r, err := ToggleStyle(tree, caret, style.Italic)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, caret, r)
	assert.Equal(t, before, serialize(t, tree))
}

func TestToggleStyleDetached(t *testing.T) {
	tree := parse(t, "<p>abc</p>")
	other := parse(t, "xyz")
	_, err := ToggleStyle(tree, selection.Contents(other.Root()), style.Bold)
	assert.ErrorIs(t, err, selection.ErrDetachedRange)
}

func TestIsStyleActiveAtCaret(t *testing.T) {
	tree := parse(t, `a<span style="text-decoration: line-through">bc</span>`)
	active, err := IsStyleActive(tree, tree.RangeFromOffsets(2, 2), style.StrikeThrough)
	require.NoError(t, err)
	assert.True(t, active)
}

// --- Links -----------------------------------------------------------------

func resolveTo(target string) Resolver {
	return func() maybe.Maybe[string] {
		return maybe.Just(target)
	}
}

func TestToggleLinkRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	content := "<p>Visit example now</p>"
	tree := parse(t, content)
	r, err := ToggleLink(tree, selectText(t, tree, "example"), resolveTo("https://example.com"))
	require.NoError(t, err)
	assert.Equal(t, `<p>Visit <a href="https://example.com">example</a> now</p>`, serialize(t, tree))
	assert.True(t, r.IsCollapsed())
	assert.Equal(t, selection.IndexOf(tree.Root().FirstChild.FirstChild.NextSibling)+1, r.StartOffset)
	active, err := IsLinkActive(tree, selectText(t, tree, "example"))
	require.NoError(t, err)
	assert.True(t, active)
	//
	r, err = ToggleLink(tree, selectText(t, tree, "example"), resolveTo("unused"))
	require.NoError(t, err)
	assert.Equal(t, content, serialize(t, tree))
	from, _, err := tree.Offsets(r)
	require.NoError(t, err)
	assert.Equal(t, len("Visit example"), from)
}

func TestToggleLinkAbandoned(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	content := "<p>Visit <b>example</b> now</p>"
	for _, resolve := range []Resolver{
		func() maybe.Maybe[string] { return maybe.Nothing[string]() },
		resolveTo("   "),
	} {
		tree := parse(t, content)
		sel := selectText(t, tree, "it exa")
		r, err := ToggleLink(tree, sel, resolve)
		require.NoError(t, err)
		assert.Equal(t, sel, r)
		assert.Equal(t, content, serialize(t, tree), "abandoned link must not touch the tree")
	}
}

func TestToggleLinkInvalidTarget(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	content := "<p>Visit example now</p>"
	for _, target := range []string{"http://exa mple.com", "javascript:alert(1)", "http://[::1"} {
		tree := parse(t, content)
		_, err := ToggleLink(tree, selectText(t, tree, "example"), resolveTo(target))
		assert.ErrorIs(t, err, ErrInvalidLinkTarget, target)
		assert.Equal(t, content, serialize(t, tree))
	}
}

func TestToggleLinkPartialRemovesWholeLink(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<a href="x">link</a> and <a href="y">another</a> text`)
	r, err := ToggleLink(tree, selectText(t, tree, "nk and ano"), resolveTo("unused"))
	require.NoError(t, err)
	assert.Equal(t, `link and another text`, serialize(t, tree))
	from, to, err := tree.Offsets(r)
	require.NoError(t, err)
	assert.Equal(t, len("link and another"), from)
	assert.Equal(t, from, to)
}

func TestToggleLinkAcrossStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, `<p>ab<b>cd</b>ef</p>`)
	_, err := ToggleLink(tree, selectText(t, tree, "bcd"), resolveTo("/page"))
	require.NoError(t, err)
	assert.Equal(t, `<p>a<a href="/page">bcd</a>ef</p>`, serialize(t, tree))
}

func TestToggleLinkEmptySelection(t *testing.T) {
	tree := parse(t, "<p>abc</p>")
	_, err := ToggleLink(tree, tree.RangeFromOffsets(1, 1), resolveTo("x"))
	assert.ErrorIs(t, err, ErrEmptySelection)
}

// --- Values and paragraphs -------------------------------------------------

func TestApplyValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, "<p>red text</p>")
	r, err := ApplyValue(tree, selectText(t, tree, "red"), "color", "Red")
	require.NoError(t, err)
	assert.Equal(t, `<p><span style="color: red">red</span> text</p>`, serialize(t, tree))
	assert.Equal(t, "red", r.Text())
	_, err = ApplyValue(tree, selectText(t, tree, "text"), "font-size", "12px; display: none")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ApplyValue(tree, tree.RangeFromOffsets(0, 0), "font-size", "12px")
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestInsertParagraph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.engine")
	defer teardown()
	//
	tree := parse(t, "Hello world")
	r, err := InsertParagraph(tree, tree.RangeFromOffsets(5, 5))
	require.NoError(t, err)
	assert.Equal(t, "Hello<p>\u00a0</p> world", serialize(t, tree))
	assert.Equal(t, "p", r.StartNode.Data)
	assert.True(t, r.IsCollapsed())
}
