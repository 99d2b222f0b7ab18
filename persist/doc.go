/*
Package persist keeps the content of an editor in a key-value store.

A Coordinator tracks whether the content of an editable tree differs from
what has been stored last. It saves the serialized content on request,
periodically in the background, and tells hosts whether leaving the
editor would lose edits.

Content is stored as a single string under a storage key. Stores exist
for memory (go-cache), Redis and Postgres (via gorm). Clients may plug in
other stores by implementing the Store interface.

Concurrency

The coordinator reads the tree from its autosave goroutine. To never read
a tree in the middle of an edit, it serializes the tree only while
holding the lock of the editor owning the tree.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package persist

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wysiwyg.persist'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.persist")
}
