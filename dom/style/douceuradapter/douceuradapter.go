/*
Package douceuradapter reads and writes inline styles of HTML elements,
using the douceur CSS parser.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/wysiwyg/dom/style"
	"golang.org/x/net/html"
)

// tracer traces with key 'wysiwyg.dom'.
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.dom")
}

// ErrInvalidDeclaration is returned if a property value cannot be used as
// a single CSS declaration.
var ErrInvalidDeclaration = errors.New("invalid CSS declaration")

// Declarations is an adapter for the declaration block of an inline style.
type Declarations []*css.Declaration

// Parse parses the value of an HTML style attribute, e.g.
//
//     font-weight: bold; color: red
//
func Parse(attr string) (Declarations, error) {
	if strings.TrimSpace(attr) == "" {
		return nil, nil
	}
	// douceur loses the value of an unterminated last declaration
	if !strings.HasSuffix(strings.TrimSpace(attr), ";") {
		attr += ";"
	}
	decl, err := parser.ParseDeclarations(attr)
	if err != nil {
		return nil, err
	}
	return Declarations(decl), nil
}

// Properties returns the property keys of the declarations,
// e.g. "font-weight"
func (d Declarations) Properties() []string {
	props := make([]string, 0, len(d))
	for _, decl := range d {
		props = append(props, decl.Property)
	}
	return props
}

// Value returns the property value for given key, e.g. "bold".
// If a key is declared more than once, the last declaration wins.
func (d Declarations) Value(key string) style.Property {
	var p style.Property
	for _, decl := range d {
		if decl.Property == key {
			p = style.Property(decl.Value)
		}
	}
	return p
}

// IsImportant returns true if a style key is marked as important ("!").
func (d Declarations) IsImportant(key string) bool {
	for _, decl := range d {
		if decl.Property == key {
			return decl.Important
		}
	}
	return false
}

// PropertyMap converts the declarations into a property map.
func (d Declarations) PropertyMap() *style.PropertyMap {
	pmap := style.NewPropertyMap()
	for _, decl := range d {
		pmap.Add(strings.ToLower(decl.Property), style.Property(decl.Value))
	}
	return pmap
}

// ParseInline parses the value of an HTML style attribute into a property map.
func ParseInline(attr string) (*style.PropertyMap, error) {
	d, err := Parse(attr)
	if err != nil {
		return style.NewPropertyMap(), err
	}
	return d.PropertyMap(), nil
}

// Declaration checks that value is acceptable as the single value of
// property, e.g. Declaration("color", "#ff0000"). Values sneaking in
// additional declarations are rejected.
func Declaration(property, value string) (style.KeyValue, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, ";{}") {
		return style.KeyValue{}, fmt.Errorf("%w: %s: %q", ErrInvalidDeclaration, property, value)
	}
	d, err := Parse(property + ": " + value)
	if err != nil {
		return style.KeyValue{}, fmt.Errorf("%w: %s", ErrInvalidDeclaration, err.Error())
	}
	if len(d) != 1 || d[0].Property != property || strings.TrimSpace(d[0].Value) == "" {
		return style.KeyValue{}, fmt.Errorf("%w: %s: %q", ErrInvalidDeclaration, property, value)
	}
	return style.KeyValue{Key: property, Value: style.Property(d[0].Value)}, nil
}

// StyleOf returns the inline styles of an element node. Unparsable style
// attributes yield an empty property map.
func StyleOf(n *html.Node) *style.PropertyMap {
	if n == nil || n.Type != html.ElementNode {
		return style.NewPropertyMap()
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			pmap, err := ParseInline(a.Val)
			if err != nil {
				tracer().Errorf("cannot parse style of <%s>: %v", n.Data, err)
			}
			return pmap
		}
	}
	return style.NewPropertyMap()
}

// SetStyleOf writes a property map back to an element's style attribute.
// An empty property map removes the attribute.
func SetStyleOf(n *html.Node, pmap *style.PropertyMap) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	inline := pmap.Inline()
	attrs := n.Attr[:0]
	found := false
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			if inline == "" {
				continue
			}
			a.Val = inline
			found = true
		}
		attrs = append(attrs, a)
	}
	if !found && inline != "" {
		attrs = append(attrs, html.Attribute{Key: "style", Val: inline})
	}
	n.Attr = attrs
}
