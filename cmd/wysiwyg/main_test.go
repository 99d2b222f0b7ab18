package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBold(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.editor")
	defer teardown()
	//
	t.Setenv("WYSIWYG_STORE", "memory")
	dot := filepath.Join(t.TempDir(), "content.dot")
	var out bytes.Buffer
	err := run([]string{"-content", "<p>Hello World</p>", "-select", "6:11", "-dot", dot, "bold"}, &out)
	require.NoError(t, err)
	assert.Equal(t, `<p>Hello <span style="font-weight: bold">World</span></p>`,
		strings.TrimSpace(out.String()))
	b, err := os.ReadFile(dot)
	require.NoError(t, err)
	if !strings.HasPrefix(string(b), "digraph g {") {
		t.Errorf("expected a GraphViz digraph in %s", dot)
	}
}

func TestRunErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wysiwyg.editor")
	defer teardown()
	//
	t.Setenv("WYSIWYG_STORE", "memory")
	var out bytes.Buffer
	err := run([]string{"-content", "<p>Hello</p>", "-select", "2"}, &out)
	assert.Error(t, err, "selection without end")
	// fails after the editor has been opened
	dot := filepath.Join(t.TempDir(), "missing", "content.dot")
	err = run([]string{"-content", "<p>Hello</p>", "-nosave", "-dot", dot}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "<p>Hello</p>")
}
