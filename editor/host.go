package editor

import (
	"sync"

	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/maybe"
	"golang.org/x/net/html"
)

// Host is the environment an editor lives in. It owns the editable root
// element and the user's selection.
type Host interface {
	Root() *html.Node
	Selection() selection.Range
	SetSelection(selection.Range)
}

// Prompter asks the user for a value. Prompt blocks until the user either
// answers or cancels; a cancelled prompt yields Nothing.
type Prompter interface {
	Prompt(message string) maybe.Maybe[string]
}

// Navigator lets an editor veto leaving the page. A guard is asked before
// navigating away; if it asks to block, the host should warn the user
// with the message given. AddUnloadGuard returns a function to remove the
// guard again.
type Navigator interface {
	AddUnloadGuard(guard func() (block bool, message string)) (remove func())
}

// LocalHost is a host living in memory. It implements Host, Prompter and
// Navigator. Prompts are answered from a queue of prepared answers.
type LocalHost struct {
	mx      sync.Mutex
	tree    *dom.Tree
	sel     selection.Range
	answers []maybe.Maybe[string]
	prompts []string
	guards  map[int]func() (bool, string)
	next    int
}

var _ Host = (*LocalHost)(nil)
var _ Prompter = (*LocalHost)(nil)
var _ Navigator = (*LocalHost)(nil)

// NewLocalHost creates a host with an editable root holding content.
func NewLocalHost(content string) (*LocalHost, error) {
	tree, err := dom.Parse(content)
	if err != nil {
		return nil, err
	}
	return &LocalHost{
		tree:   tree,
		sel:    selection.Caret(tree.Root(), 0),
		guards: make(map[int]func() (bool, string)),
	}, nil
}

// Root is part of interface Host.
func (h *LocalHost) Root() *html.Node {
	return h.tree.Root()
}

// Selection is part of interface Host.
func (h *LocalHost) Selection() selection.Range {
	h.mx.Lock()
	defer h.mx.Unlock()
	return h.sel
}

// SetSelection is part of interface Host.
func (h *LocalHost) SetSelection(r selection.Range) {
	h.mx.Lock()
	defer h.mx.Unlock()
	h.sel = r
}

// Select selects text by offsets into the text content of the root.
// Callers must not run it concurrently with edits.
func (h *LocalHost) Select(from, to int) {
	h.SetSelection(h.tree.RangeFromOffsets(from, to))
}

// Answer queues answers for upcoming prompts.
func (h *LocalHost) Answer(answers ...string) {
	h.mx.Lock()
	defer h.mx.Unlock()
	for _, a := range answers {
		h.answers = append(h.answers, maybe.Just(a))
	}
}

// Cancel queues a cancelled prompt.
func (h *LocalHost) Cancel() {
	h.mx.Lock()
	defer h.mx.Unlock()
	h.answers = append(h.answers, maybe.Nothing[string]())
}

// Prompt is part of interface Prompter. Without a queued answer, the
// prompt is cancelled.
func (h *LocalHost) Prompt(message string) maybe.Maybe[string] {
	h.mx.Lock()
	defer h.mx.Unlock()
	h.prompts = append(h.prompts, message)
	if len(h.answers) == 0 {
		return maybe.Nothing[string]()
	}
	a := h.answers[0]
	h.answers = h.answers[1:]
	return a
}

// Prompts returns the messages of all prompts so far.
func (h *LocalHost) Prompts() []string {
	h.mx.Lock()
	defer h.mx.Unlock()
	return append([]string(nil), h.prompts...)
}

// AddUnloadGuard is part of interface Navigator.
func (h *LocalHost) AddUnloadGuard(guard func() (bool, string)) func() {
	h.mx.Lock()
	defer h.mx.Unlock()
	id := h.next
	h.next++
	h.guards[id] = guard
	return func() {
		h.mx.Lock()
		defer h.mx.Unlock()
		delete(h.guards, id)
	}
}

// Guards returns the number of registered unload guards.
func (h *LocalHost) Guards() int {
	h.mx.Lock()
	defer h.mx.Unlock()
	return len(h.guards)
}

// Unload asks all guards whether leaving is fine. It returns true and a
// message if any of them blocks.
func (h *LocalHost) Unload() (bool, string) {
	h.mx.Lock()
	guards := make([]func() (bool, string), 0, len(h.guards))
	for _, g := range h.guards {
		guards = append(guards, g)
	}
	h.mx.Unlock()
	for _, g := range guards {
		if block, msg := g(); block {
			return true, msg
		}
	}
	return false, ""
}
