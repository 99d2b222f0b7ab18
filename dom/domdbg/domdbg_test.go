package domdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/wysiwyg/dom"
)

func TestOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	tree, err := dom.Parse(`<p>a<span style="font-weight: bold">b</span></p>`)
	if err != nil {
		t.Fatal(err)
	}
	out := Outline(tree.Root())
	t.Logf("outline =\n%s", out)
	for _, part := range []string{"<div>", "<p>", `"a"`, "<span> {font-weight: bold}", `"b"`} {
		if !strings.Contains(out, part) {
			t.Errorf("expected outline to contain %s, doesn't", part)
		}
	}
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.dom")
	defer teardown()
	//
	tree, err := dom.Parse(`<p>some text<span style="color: red">red</span></p>`)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = ToGraphViz(tree.Root(), &buf, nil); err != nil {
		t.Fatal(err)
	}
	dot := buf.String()
	if !strings.HasPrefix(dot, "digraph g {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("expected a digraph, got\n%s", dot)
	}
	if !strings.Contains(dot, "Color") || !strings.Contains(dot, "red") {
		t.Errorf("expected color group of span in diagram, missing:\n%s", dot)
	}
	if !strings.Contains(dot, "some␣text") {
		t.Errorf("expected text node label with visible blanks")
	}
}
