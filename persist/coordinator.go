package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/npillmayer/wysiwyg/dom"
)

// UnloadMessage is the advisory message given to hosts before leaving an
// editor with unsaved edits.
const UnloadMessage = "You have unsaved changes. Do you really want to leave?"

// Coordinator keeps track of changes to the content of a tree and stores
// the content.
type Coordinator struct {
	lock    sync.Locker // held while reading the tree
	tree    *dom.Tree
	store   Store
	key     string
	timeout time.Duration
	hook    func(error)
	mx      sync.Mutex // guards the fields below
	saved   string
	known   bool // is saved valid?
	last    time.Time
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLock sets the lock to hold while reading the tree. Clients mutating
// the tree have to hold the same lock.
func WithLock(lock sync.Locker) Option {
	return func(c *Coordinator) {
		c.lock = lock
	}
}

// WithTimeout limits the time a background save may take. Default is 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.timeout = d
	}
}

// WithAutosaveHook sets a function to be called after every background
// save, with the error of the save or nil.
func WithAutosaveHook(hook func(error)) Option {
	return func(c *Coordinator) {
		c.hook = hook
	}
}

// NewCoordinator creates a coordinator storing the content of tree under
// key. Until Restore is called, no content is known to be stored.
func NewCoordinator(tree *dom.Tree, store Store, key string, opts ...Option) *Coordinator {
	c := &Coordinator{
		tree:    tree,
		store:   store,
		key:     key,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lock == nil {
		c.lock = &sync.Mutex{}
	}
	return c
}

// Key returns the storage key.
func (c *Coordinator) Key() string {
	return c.key
}

// Restore loads stored content, if any, into the tree. It returns false
// if the store does not hold content for the key, leaving the tree
// untouched.
func (c *Coordinator) Restore(ctx context.Context) (bool, error) {
	content, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return false, fmt.Errorf("cannot load content for key %q: %w", c.key, err)
	}
	if !found {
		tracer().Debugf("no content stored for key %q", c.key)
		return false, nil
	}
	c.lock.Lock()
	if err = c.tree.SetContent(content); err == nil {
		// the tree may normalize the markup
		content, err = c.tree.Serialize()
	}
	c.lock.Unlock()
	if err != nil {
		return false, err
	}
	c.mx.Lock()
	c.saved, c.known = content, true
	c.mx.Unlock()
	tracer().Infof("restored %d bytes of content for key %q", len(content), c.key)
	return true, nil
}

func (c *Coordinator) serialize() (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.tree.Serialize()
}

// IsDirty is true if the content of the tree differs from the content
// stored last. If no content is known to be stored, any content is dirty.
func (c *Coordinator) IsDirty() bool {
	s, err := c.serialize()
	if err != nil {
		tracer().Errorf("cannot serialize tree: %v", err)
		return true
	}
	c.mx.Lock()
	defer c.mx.Unlock()
	if !c.known {
		return s != ""
	}
	return s != c.saved
}

// Save stores the content of the tree. If storing fails, a *PersistError
// is returned.
func (c *Coordinator) Save(ctx context.Context) error {
	s, err := c.serialize()
	if err != nil {
		return &PersistError{Key: c.key, Err: err}
	}
	if err = c.store.Set(ctx, c.key, s); err != nil {
		tracer().Errorf("saving content for key %q failed: %v", c.key, err)
		return &PersistError{Key: c.key, Err: err}
	}
	c.mx.Lock()
	c.saved, c.known, c.last = s, true, time.Now()
	c.mx.Unlock()
	tracer().Debugf("saved %d bytes of content for key %q", len(s), c.key)
	return nil
}

// LastSaved returns the time of the last successful save, or the zero
// time.
func (c *Coordinator) LastSaved() time.Time {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.last
}

// BeforeUnload is asked by hosts before leaving the editor. If there are
// unsaved edits, it asks to block navigation and returns a message for
// the user.
func (c *Coordinator) BeforeUnload() (bool, string) {
	if c.IsDirty() {
		return true, UnloadMessage
	}
	return false, ""
}

// --- Autosave --------------------------------------------------------------

// ErrInvalidInterval is returned for autosave intervals <= 0.
var ErrInvalidInterval = errors.New("autosave interval must be positive")

// Start starts saving the content periodically, whenever it is dirty.
// Starting a running autosave does nothing.
func (c *Coordinator) Start(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.stop != nil {
		return nil
	}
	c.stop, c.done = make(chan struct{}), make(chan struct{})
	go c.autosave(interval, c.stop, c.done)
	tracer().Debugf("autosave every %v", interval)
	return nil
}

// Stop stops autosaving and waits for a running save to complete.
// Callers must not hold the tree lock.
func (c *Coordinator) Stop() {
	c.mx.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mx.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
	tracer().Debugf("autosave stopped")
}

func (c *Coordinator) autosave(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !c.IsDirty() {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
			err := c.Save(ctx)
			cancel()
			if c.hook != nil {
				c.hook(err)
			}
		}
	}
}
