/*
Package editor connects the formatting engine to a host environment.

An Editor owns the content of an editable root element supplied by a Host.
Toolbar actions are dispatched to the formatting commands of package
engine, using the host's current selection and updating it afterwards.
Content is restored from a store when the editor is created, saved
periodically while it is open, and hosts are asked to warn the user
before leaving an editor with unsaved edits.

Editors are created with New and have to be released with Close, which
stops the autosave timer and removes the navigation guard from the host.
*/
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guiguan/caster"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wysiwyg/config"
	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/selection"
	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/engine"
	"github.com/npillmayer/wysiwyg/maybe"
	"github.com/npillmayer/wysiwyg/persist"
)

// tracer traces with key 'wysiwyg.editor'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.editor")
}

// ErrUnknownAction is returned for actions an editor does not know.
var ErrUnknownAction = errors.New("unknown editor action")

// ErrClosed is returned for operations on a closed editor.
var ErrClosed = errors.New("editor is closed")

// errAbandoned flags commands the user cancelled.
var errAbandoned = errors.New("abandoned")

// Messages for prompts.
const (
	ColorPrompt    = "Enter a color (name or hex code):"
	FontSizePrompt = "Enter a font size (e.g. 12px, 1em):"
	LinkPrompt     = "Enter the link URL:"
)

// SaveAction is the toolbar action saving the content. It is always part
// of the toolbar.
const SaveAction = "save"

// Editor is an editor instance for a single editable root.
type Editor struct {
	sync.Mutex // held during edits and while the content is read
	host       Host
	tree       *dom.Tree
	opts       *config.Options
	coord      *persist.Coordinator
	prompter   Prompter
	nav        Navigator
	unguard    func()
	onChange   func()
	cast       *caster.Caster
	closed     bool
	closeOnce  sync.Once
}

// Option configures an editor.
type Option func(*Editor)

// WithPrompter sets the prompter for values. If no prompter is set and the
// host is a Prompter, the host is used. Without a prompter all prompts
// are cancelled.
func WithPrompter(p Prompter) Option {
	return func(e *Editor) {
		e.prompter = p
	}
}

// WithNavigator sets where to register the navigation guard. If none is
// set and the host is a Navigator, the host is used.
func WithNavigator(n Navigator) Option {
	return func(e *Editor) {
		e.nav = n
	}
}

// WithOnChange sets a function to call after every edit.
func WithOnChange(f func()) Option {
	return func(e *Editor) {
		e.onChange = f
	}
}

// New creates an editor for the editable root of host. Content stored
// under the configured storage key replaces the content of the root.
// opts may be nil, resulting in the default configuration.
func New(host Host, store persist.Store, opts *config.Options, options ...Option) (*Editor, error) {
	if opts == nil {
		opts = config.Default()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tree, err := dom.NewTree(host.Root())
	if err != nil {
		return nil, err
	}
	e := &Editor{
		host: host,
		tree: tree,
		opts: opts,
		cast: caster.New(nil),
	}
	for _, option := range options {
		option(e)
	}
	if p, ok := host.(Prompter); ok && e.prompter == nil {
		e.prompter = p
	}
	if n, ok := host.(Navigator); ok && e.nav == nil {
		e.nav = n
	}
	e.coord = persist.NewCoordinator(tree, store, opts.StorageKey,
		persist.WithLock(e),
		persist.WithAutosaveHook(e.autosaved))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	restored, err := e.coord.Restore(ctx)
	if err != nil {
		e.cast.Close()
		return nil, err
	}
	if restored {
		host.SetSelection(selection.Caret(tree.Root(), 0))
	}
	if e.nav != nil {
		e.unguard = e.nav.AddUnloadGuard(e.coord.BeforeUnload)
	}
	if err = e.coord.Start(opts.AutoSaveInterval); err != nil {
		e.Close()
		return nil, err
	}
	tracer().Infof("editor started, storage key %q", opts.StorageKey)
	return e, nil
}

// Tree returns the editable tree. Clients reading or changing it have to
// hold the editor's lock.
func (e *Editor) Tree() *dom.Tree {
	return e.tree
}

// Toolbar returns the actions of the toolbar in order. The save action
// is always last.
func (e *Editor) Toolbar() []string {
	buttons := make([]string, 0, len(e.opts.Buttons)+1)
	buttons = append(buttons, e.opts.Buttons...)
	return append(buttons, SaveAction)
}

// Invoke dispatches a toolbar action. Actions on an empty selection do
// nothing and do not return an error.
func (e *Editor) Invoke(action string) error {
	var err error
	switch action {
	case "bold", "italic", "strikeThrough":
		key, _ := style.KeyFromName(action)
		err = e.ToggleStyle(key)
	case "color":
		err = e.ChangeColor()
	case "fontSize":
		err = e.ChangeFontSize()
	case "link":
		err = e.ToggleLink()
	case SaveAction:
		err = e.Save(context.Background())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if errors.Is(err, engine.ErrEmptySelection) || errors.Is(err, dom.ErrRangeNotCollapsible) {
		tracer().Debugf("%s: nothing selected", action)
		return nil
	}
	return err
}

// ToggleStyle toggles a style for the current selection.
func (e *Editor) ToggleStyle(key style.Key) error {
	return e.edit(key.String(), func(r selection.Range) (selection.Range, error) {
		return engine.ToggleStyle(e.tree, r, key)
	})
}

// IsStyleActive checks if a style is active for the current selection.
func (e *Editor) IsStyleActive(key style.Key) (bool, error) {
	e.Lock()
	defer e.Unlock()
	return engine.IsStyleActive(e.tree, e.host.Selection(), key)
}

// ToggleLink removes links from the current selection or, if there are
// none, prompts for a link target and links the selected text.
func (e *Editor) ToggleLink() error {
	abandoned := false
	err := e.edit("link", func(r selection.Range) (selection.Range, error) {
		nr, err := engine.ToggleLink(e.tree, r, func() maybe.Maybe[string] {
			target := maybe.AndThen(maybe.NonBlank, e.prompt(LinkPrompt))
			abandoned = target.IsNothing()
			return target
		})
		if err == nil && abandoned {
			err = errAbandoned
		}
		return nr, err
	})
	return err
}

// ChangeColor prompts for a color and applies it to the current selection.
func (e *Editor) ChangeColor() error {
	return e.applyValue("color", "color", ColorPrompt)
}

// ChangeFontSize prompts for a font size and applies it to the current
// selection.
func (e *Editor) ChangeFontSize() error {
	return e.applyValue("fontSize", "font-size", FontSizePrompt)
}

func (e *Editor) applyValue(action, property, message string) error {
	var value string
	switch m := maybe.AndThen(maybe.NonBlank, e.prompt(message)).Match(); m {
	case m.Just(&value):
	case m.Nothing():
		tracer().Debugf("%s: prompt cancelled", action)
		return nil
	}
	return e.edit(action, func(r selection.Range) (selection.Range, error) {
		return engine.ApplyValue(e.tree, r, property, value)
	})
}

// InsertParagraph inserts an empty paragraph at the current selection and
// places the caret into it.
func (e *Editor) InsertParagraph() error {
	return e.edit("paragraph", func(r selection.Range) (selection.Range, error) {
		return engine.InsertParagraph(e.tree, r)
	})
}

// edit runs a command on the current selection while holding the lock.
func (e *Editor) edit(action string, cmd func(selection.Range) (selection.Range, error)) error {
	e.Lock()
	if e.closed {
		e.Unlock()
		return ErrClosed
	}
	r, err := cmd(e.host.Selection())
	if err == nil {
		e.host.SetSelection(r)
	}
	e.Unlock()
	if errors.Is(err, errAbandoned) {
		tracer().Debugf("%s: abandoned", action)
		return nil
	} else if err != nil {
		tracer().Debugf("%s: %v", action, err)
		return err
	}
	if e.onChange != nil {
		e.onChange()
	}
	e.publish(Event{Kind: Changed, Action: action})
	return nil
}

func (e *Editor) prompt(message string) maybe.Maybe[string] {
	if e.prompter == nil {
		return maybe.Nothing[string]()
	}
	answer := e.prompter.Prompt(message)
	tracer().Debugf("prompt %q answered with %q", message, answer.WithDefault("<cancelled>"))
	return answer
}

// Save stores the content of the editor. Callers must not hold the
// editor's lock.
func (e *Editor) Save(ctx context.Context) error {
	if e.isClosed() {
		return ErrClosed
	}
	err := e.coord.Save(ctx)
	e.saved(SaveAction, err)
	return err
}

func (e *Editor) autosaved(err error) {
	e.saved("autosave", err)
}

func (e *Editor) saved(action string, err error) {
	if err != nil {
		e.publish(Event{Kind: SaveFailed, Action: action, Err: err})
		return
	}
	e.publish(Event{Kind: Saved, Action: action, At: e.coord.LastSaved()})
}

// IsDirty is true if the editor holds unsaved edits.
func (e *Editor) IsDirty() bool {
	return e.coord.IsDirty()
}

// LastSaved returns the time of the last save, or the zero time.
func (e *Editor) LastSaved() time.Time {
	return e.coord.LastSaved()
}

// Content returns the serialized content of the editor.
func (e *Editor) Content() (string, error) {
	e.Lock()
	defer e.Unlock()
	return e.tree.Serialize()
}

func (e *Editor) isClosed() bool {
	e.Lock()
	defer e.Unlock()
	return e.closed
}

// Close releases the editor: autosaving stops, the navigation guard is
// removed and event subscriptions end. Unsaved edits are not saved.
// Calling Close more than once does nothing.
func (e *Editor) Close() error {
	e.closeOnce.Do(func() {
		e.Lock()
		e.closed = true
		e.Unlock()
		e.coord.Stop()
		if e.unguard != nil {
			e.unguard()
		}
		e.cast.Close()
		tracer().Infof("editor closed")
	})
	return nil
}
