/*
Package selection implements ranges over an editable HTML tree.

A range is delimited by two boundary points, each a pair of a node and an
offset. Boundary points are ordered in document order. A lot of different
pairs of (node, offset) denote the same position in the tree, e.g. the end
of a text node and the position after it within its parent. Normalize
maps ranges onto canonical endpoints which are as tight as possible.

Edit operations mutate the tree and thereby invalidate boundary points
into split or merged text nodes. For re-anchoring a selection after an
edit, ranges may be converted into text offsets relative to the editable
root (and back). Text offsets count bytes of text content in document
order and are not affected by wrapping or unwrapping elements.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package selection

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wysiwyg.dom'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.dom")
}
