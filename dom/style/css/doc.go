/*
Package css provides functionality for CSS styling.

CSS properties are plentyful and some of them are complicated.
This package trys to shield clients from the cumbersome handling of
CSS properties resulting of the textual nature of CSS properties.

For editing inline styles, the most important question to ask a CSS
property is wether an element takes part in an inline formatting
context or starts a block of its own. Inline wrappers (spans, links)
must never enclose block-level content.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

// see
// https://developer.mozilla.org/en-US/docs/Web/CSS/Reference#dom-css_cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wysiwyg.dom'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.dom")
}
