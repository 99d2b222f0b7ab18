/*
Package maybe provides optional values.

The editor asks its host for values which the user may or may not supply:
link targets, colors, font sizes. A Maybe carries such a value, or
nothing if the user cancelled the prompt. Maybes are matched like this:

	var target string
	switch m := answer.Match(); m {
	case m.Just(&target):
		// use target
	case m.Nothing():
		// abandoned
	}

The interface follows Elm's Maybe type (Just, Nothing, withDefault, map,
andThen).
*/
package maybe

import "strings"

// Maybe is an optional value of type T.
type Maybe[T any] interface {
	Match() Matcher[T]
	WithDefault(T) T
	Map(func(T) T) Maybe[T]
	IsNothing() bool
}

type maybe[T any] struct {
	value T
	tag   bool
}

// Just wraps a value.
func Just[T any](x T) Maybe[T] {
	return maybe[T]{value: x, tag: true}
}

// Nothing is the absent value.
func Nothing[T any]() Maybe[T] {
	return maybe[T]{tag: false}
}

// NonBlank is Just(s) for strings containing something other than
// whitespace, and Nothing otherwise. The value is trimmed.
func NonBlank(s string) Maybe[string] {
	if s = strings.TrimSpace(s); s == "" {
		return Nothing[string]()
	}
	return Just(s)
}

func (m maybe[T]) Match() Matcher[T] {
	return matcher[T]{m: m}
}

func (m maybe[T]) WithDefault(def T) T {
	if m.tag {
		return m.value
	}
	return def
}

func (m maybe[T]) Map(f func(T) T) Maybe[T] {
	if m.tag {
		return Just(f(m.value))
	}
	return m
}

func (m maybe[T]) IsNothing() bool {
	return !m.tag
}

// AndThen chains a computation which may fail.
func AndThen[T, S any](f func(T) Maybe[S], x Maybe[T]) Maybe[S] {
	var v T
	switch m := x.Match(); m {
	case m.Just(&v):
		return f(v)
	case m.Nothing():
	}
	return Nothing[S]()
}

// Map applies f to a value, if present.
func Map[T any](f func(T) T, x Maybe[T]) Maybe[T] {
	var v T
	switch m := x.Match(); m {
	case m.Just(&v):
		return Just(f(v))
	case m.Nothing():
	}
	return x
}

// --- Matching --------------------------------------------------------------

// Matcher is used in switch statements to destructure a Maybe. T has to
// be comparable for the switch to work.
type Matcher[T any] interface {
	Just(*T) Matcher[T]
	Nothing() Matcher[T]
}

type matcher[T any] struct {
	m maybe[T]
}

func (mm matcher[T]) Just(v *T) Matcher[T] {
	if mm.m.tag {
		*v = mm.m.value
		return mm
	}
	return nil
}

func (mm matcher[T]) Nothing() Matcher[T] {
	if !mm.m.tag {
		return mm
	}
	return nil
}
