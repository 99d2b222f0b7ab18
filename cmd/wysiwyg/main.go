/*
Command wysiwyg applies editor actions to stored content.

Usage:

	wysiwyg [flags] action...

Content is loaded from the configured store (see package config), or,
if nothing is stored yet, taken from flag -content or from the editable
element of an HTML document (flags -doc and -selector). Every action is
applied to the text selected by -select, which takes text offsets
"from:to". Actions prompting for a value (color, fontSize, link) are
answered from the values of -answer, in order.

Flag -dot writes a GraphViz diagram of the resulting content tree.

Example:

	wysiwyg -content '<p>Hello World</p>' -select 6:11 bold
	wysiwyg -select 0:5 -answer https://example.com link save
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/wysiwyg/config"
	"github.com/npillmayer/wysiwyg/dom"
	"github.com/npillmayer/wysiwyg/dom/domdbg"
	"github.com/npillmayer/wysiwyg/editor"
	"github.com/npillmayer/wysiwyg/persist"
)

type answers []string

func (a *answers) String() string {
	return strings.Join(*a, ",")
}

func (a *answers) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var answered answers
	fs := flag.NewFlagSet("wysiwyg", flag.ContinueOnError)
	content := fs.String("content", "", "initial HTML content")
	doc := fs.String("doc", "", "HTML document holding the initial content")
	selector := fs.String("selector", "[contenteditable]", "CSS selector of the editable element in -doc")
	sel := fs.String("select", "", "text selection as from:to")
	outline := fs.Bool("outline", false, "print an outline of the content tree")
	dot := fs.String("dot", "", "write a GraphViz diagram of the content tree to this file")
	nosave := fs.Bool("nosave", false, "do not save the result")
	fs.Var(&answered, "answer", "answer to a prompt (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	//
	opts, err := config.Load()
	if err != nil {
		return err
	}
	initial := *content
	if *doc != "" {
		if initial, err = editable(*doc, *selector); err != nil {
			return err
		}
	}
	from, to, err := parseSelection(*sel)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()
	host, err := editor.NewLocalHost(initial)
	if err != nil {
		return err
	}
	e, err := editor.New(host, store, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	host.Answer(answered...)
	color.Cyan("toolbar: %s", strings.Join(e.Toolbar(), " | "))
	for _, action := range fs.Args() {
		if action != editor.SaveAction {
			host.Select(from, to)
		}
		if err := e.Invoke(action); err != nil {
			color.Red("%s: %v", action, err)
			continue
		}
		color.Green("%s: ok", action)
	}
	result, err := e.Content()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, result)
	if *outline {
		fmt.Fprintln(out, domdbg.Outline(e.Tree().Root()))
	}
	if *dot != "" {
		if err := writeDiagram(e, *dot); err != nil {
			return err
		}
	}
	if *nosave || !e.IsDirty() {
		return nil
	}
	if err := e.Invoke(editor.SaveAction); err != nil {
		color.Red("save: %v", err)
		return nil
	}
	color.Green("saved under key %q", opts.StorageKey)
	return nil
}

func writeDiagram(e *editor.Editor, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	e.Lock()
	err = domdbg.ToGraphViz(e.Tree().Root(), f, nil)
	e.Unlock()
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func editable(filename, selector string) (string, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	root, err := dom.ParseDocument(string(b))
	if err != nil {
		return "", err
	}
	tree, err := dom.FindEditable(root, selector)
	if err != nil {
		return "", err
	}
	return tree.Serialize()
}

func parseSelection(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	f, t, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.New("selection has to be given as from:to")
	}
	from, err := strconv.Atoi(f)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection start: %w", err)
	}
	to, err := strconv.Atoi(t)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid selection end: %w", err)
	}
	return from, to, nil
}

func openStore(opts *config.Options) (persist.Store, func(), error) {
	switch opts.Store {
	case config.StoreRedis:
		r := persist.NewRedisStore(opts.RedisURL)
		return r, func() { r.Close() }, nil
	case config.StorePostgres:
		g, err := persist.OpenGormStore(opts.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { g.Close() }, nil
	}
	return persist.NewMemoryStore(), func() {}, nil
}
