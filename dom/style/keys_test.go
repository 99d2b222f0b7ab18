package style

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestKeyNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	for _, k := range Keys() {
		key, ok := KeyFromName(k.String())
		if !ok || key != k {
			t.Errorf("cannot find key %s by name", k)
		}
	}
	_, ok := KeyFromName("underline")
	assert.False(t, ok)
	assert.Equal(t, "Key(7)", Key(7).String())
	assert.False(t, Key(7).IsActive(Bold.Styles()))
}

func TestKeyActive(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	pmap := NewPropertyMap()
	pmap.Add("text-decoration", "underline line-through")
	pmap.Add("color", "red")
	assert.True(t, StrikeThrough.IsActive(pmap))
	assert.False(t, Bold.IsActive(pmap))
	StrikeThrough.Remove(pmap)
	p, _ := pmap.Property("text-decoration")
	assert.Equal(t, Property("underline"), p)
	assert.Equal(t, "color: red; text-decoration: underline", pmap.Inline())
}

func TestKeyRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	pmap := Bold.Styles()
	assert.Equal(t, "font-weight: bold", pmap.Inline())
	Bold.Remove(pmap)
	if !pmap.Empty() {
		t.Errorf("expected property map to be empty, is %s", pmap)
	}
	assert.Equal(t, "", pmap.Inline())
}
