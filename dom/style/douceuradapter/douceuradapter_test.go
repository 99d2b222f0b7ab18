package douceuradapter

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestParseInline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	pmap, err := ParseInline("font-weight: bold; Color: red !important")
	require.NoError(t, err)
	p, ok := pmap.Property("font-weight")
	assert.True(t, ok)
	assert.Equal(t, style.Property("bold"), p)
	p, _ = pmap.Property("color")
	assert.Equal(t, style.Property("red"), p)
	d, _ := Parse("color: red !important")
	assert.True(t, d.IsImportant("color"))
	assert.Equal(t, []string{"color"}, d.Properties())
}

func TestParseUnterminated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	pmap, err := ParseInline("font-weight: bold")
	require.NoError(t, err)
	p, _ := pmap.Property("font-weight")
	assert.Equal(t, style.Property("bold"), p)
	pmap, err = ParseInline("a: b; color: red")
	require.NoError(t, err)
	p, _ = pmap.Property("a")
	assert.Equal(t, style.Property("b"), p)
	p, _ = pmap.Property("color")
	assert.Equal(t, style.Property("red"), p)
	pmap, err = ParseInline("color: red;")
	require.NoError(t, err)
	p, _ = pmap.Property("color")
	assert.Equal(t, style.Property("red"), p)
	n := &html.Node{Type: html.ElementNode, Data: "span",
		Attr: []html.Attribute{{Key: "style", Val: "font-weight: bold"}}}
	assert.True(t, style.Bold.IsActive(StyleOf(n)))
}

func TestDeclaration(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	kv, err := Declaration("color", " #ff0000 ")
	require.NoError(t, err)
	assert.Equal(t, "color", kv.Key)
	assert.Equal(t, style.Property("#ff0000"), kv.Value)
	for _, v := range []string{"", "  ", "red; font-weight: bold", "red}"} {
		_, err := Declaration("color", v)
		assert.ErrorIs(t, err, ErrInvalidDeclaration, "value %q", v)
	}
}

func TestStyleOf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	n := &html.Node{Type: html.ElementNode, Data: "span"}
	assert.True(t, StyleOf(n).Empty())
	SetStyleOf(n, style.Italic.Styles())
	assert.Equal(t, []html.Attribute{{Key: "style", Val: "font-style: italic"}}, n.Attr)
	pmap := StyleOf(n)
	style.Italic.Remove(pmap)
	SetStyleOf(n, pmap)
	assert.Empty(t, n.Attr)
}
