/*
Package dom adapts HTML node trees for inline editing.

Status

Early draft, API may change frequently.

Overview

The content of an editor is a fragment of HTML, living below an editable
root element. We use the node type of golang.org/x/net/html throughout,
there is no separate document object model. A Tree wraps the editable
root and offers the structural operations needed for inline styling:
finding the nodes touched by a selection, splitting nodes at selection
boundaries, wrapping and unwrapping content, and serializing the result.

Tree Operations

Selections are given as ranges (see package dom/selection). Edit
operations split text and element nodes at the boundaries of a range.
Splitting an element clones it (tag and attributes) and moves the content
after the boundary into the clone. This way no content is ever lost, and
the serialized form still describes the same styling per character.

Inline wrappers never enclose block-level content. If a selection
crosses block-level elements, every run of inline content gets a wrapper
of its own. Whether an element is block-level is decided by its CSS
display mode (package dom/style/css).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'wysiwyg.dom'
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.dom")
}
