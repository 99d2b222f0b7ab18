/*
Package engine implements the formatting commands of the editor.

Formatting is always scoped to a selection. Toggling a style first checks
whether the style is active anywhere within the selection. An active
style is removed from every element inside the selection, otherwise the
selection is wrapped into a new span carrying the style. Links work the
same way, using anchor elements instead of styled spans.

Every command takes the current selection and returns the selection to
use after the edit. Selections are re-anchored by text offsets, thus the
returned selection covers the same text as the one given, even though
the nodes of the tree have been split or merged.

Failed commands leave the tree unchanged. A collapsed selection is
reported as ErrEmptySelection, which clients usually ignore.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package engine

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wysiwyg.engine'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.engine")
}

// ErrEmptySelection is returned for commands which need a selection
// spanning content, if the selection is collapsed.
var ErrEmptySelection = errors.New("selection is empty")

// ErrInvalidLinkTarget is returned if a link target is not a valid URL.
var ErrInvalidLinkTarget = errors.New("invalid link target")

// ErrInvalidValue is returned if a style value is not acceptable for a
// CSS property.
var ErrInvalidValue = errors.New("invalid style value")
