package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'wysiwyg.dom'
func tracer() tracing.Trace {
	return tracing.Select("wysiwyg.dom")
}

// Property is a raw value for a CSS property. For example, with
//
//     font-weight: bold
//
// a property value of "bold" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return strings.TrimSpace(string(p)) == ""
}

// Tokens splits a property value into its whitespace separated parts.
// For example, "underline line-through" yields two tokens.
func (p Property) Tokens() []string {
	return strings.Fields(string(p))
}

// HasToken checks if tok is one of the whitespace separated parts of p.
func (p Property) HasToken(tok string) bool {
	for _, t := range p.Tokens() {
		if t == tok {
			return true
		}
	}
	return false
}

// WithoutToken returns p with every occurence of tok removed.
func (p Property) WithoutToken(tok string) Property {
	var rest []string
	for _, t := range p.Tokens() {
		if t != tok {
			rest = append(rest, t)
		}
	}
	return Property(strings.Join(rest, " "))
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- CSS Property Groups ----------------------------------------------

// PropertyGroup is a collection of propertes sharing a common topic.
// Inline styles of an editable element know only a small number of
// properties, but we keep them grouped the same way a stylesheet would.
//
// The mapping of property into groups is documented with
// GroupNameFromPropertyKey[...].
type PropertyGroup struct {
	name      string
	propsDict map[string]Property
}

// NewPropertyGroup creates a new empty property group, given its name.
func NewPropertyGroup(groupname string) *PropertyGroup {
	pg := &PropertyGroup{}
	pg.name = groupname
	return pg
}

// Name returns the name of the property group.
func (pg *PropertyGroup) Name() string {
	return pg.name
}

// Stringer for property groups; used for debugging.
func (pg *PropertyGroup) String() string {
	s := "[" + pg.name + "] =\n"
	for _, kv := range pg.Properties() {
		s += fmt.Sprintf("  %s = %s\n", kv.Key, kv.Value)
	}
	return s
}

// Properties returns all properties of a group, sorted by key.
func (pg *PropertyGroup) Properties() []KeyValue {
	r := make([]KeyValue, 0, len(pg.propsDict))
	for k, v := range pg.propsDict {
		r = append(r, KeyValue{k, v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// IsSet is a predicated wether a property is set within this group.
func (pg *PropertyGroup) IsSet(key string) bool {
	if pg.propsDict == nil {
		return false
	}
	v, ok := pg.propsDict[key]
	return ok && !v.IsEmpty()
}

// Get a property's value.
func (pg *PropertyGroup) Get(key string) (Property, bool) {
	if pg.propsDict == nil {
		return NullStyle, false
	}
	p, ok := pg.propsDict[key]
	return p, ok
}

// Set a property's value. Overwrites an existing value, if present.
//
// Style property values are always converted to lower case.
func (pg *PropertyGroup) Set(key string, p Property) {
	p = Property(strings.ToLower(strings.TrimSpace(string(p))))
	if pg.propsDict == nil {
		pg.propsDict = make(map[string]Property)
	}
	pg.propsDict[key] = p
}

// Add a property's value. Does not overwrite an existing value, i.e., does nothing
// if a value is already set.
func (pg *PropertyGroup) Add(key string, p Property) {
	if pg.IsSet(key) {
		return
	}
	pg.Set(key, p)
}

// Delete removes a property from the group. It returns true if the group
// is empty afterwards.
func (pg *PropertyGroup) Delete(key string) bool {
	delete(pg.propsDict, key)
	return len(pg.propsDict) == 0
}

// Size returns the number of properties set in this group.
func (pg *PropertyGroup) Size() int {
	return len(pg.propsDict)
}

// GroupNameFromPropertyKey returns the style property group name for a
// style property.
// Example:
//    GroupNameFromPropertyKey("font-weight") => "Font"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	groupname, found := groupNameFromPropertyKey[key]
	if !found {
		groupname = PGX
	}
	return groupname
}

// Symbolic names for string literals, denoting PropertyGroups.
const (
	PGFont    = "Font"
	PGText    = "Text"
	PGColor   = "Color"
	PGDisplay = "Display"
	PGX       = "X"
)

var groupNameFromPropertyKey = map[string]string{
	"font-weight":      PGFont,
	"font-style":       PGFont,
	"font-size":        PGFont,
	"font-family":      PGFont,
	"text-decoration":  PGText,
	"text-align":       PGText,
	"white-space":      PGText,
	"letter-spacing":   PGText,
	"color":            PGColor,
	"background-color": PGColor,
	"display":          PGDisplay,
	"visibility":       PGDisplay,
}

// --- Property Map -----------------------------------------------------

// PropertyMap holds CSS properties. nil is a legal (empty) property map.
// A property map is the entity styling an element of the editable tree:
// it holds the element's inline style, segmented into property groups.
type PropertyMap struct {
	m map[string]*PropertyGroup // into struct to make it opaque for clients
}

// NewPropertyMap returns a new empty property map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{}
}

func (pmap *PropertyMap) String() string {
	s := "Property Map = {\n"
	if pmap != nil {
		for _, v := range pmap.m {
			s += v.String()
		}
	}
	s += "}"
	return s
}

// Empty is true if no property is set in pmap.
func (pmap *PropertyMap) Empty() bool {
	if pmap == nil {
		return true
	}
	for _, g := range pmap.m {
		if g.Size() > 0 {
			return false
		}
	}
	return true
}

// Group returns the property group for a group name or nil.
func (pmap *PropertyMap) Group(groupname string) *PropertyGroup {
	if pmap == nil {
		return nil
	}
	group := pmap.m[groupname]
	return group
}

// Property returns a style property value, together with an indicator
// wether it has been found in the properties map.
// No cascading is performed
func (pmap *PropertyMap) Property(key string) (Property, bool) {
	groupname := GroupNameFromPropertyKey(key)
	group := pmap.Group(groupname)
	if group == nil {
		return NullStyle, false
	}
	return group.Get(key)
}

// Add adds a property to this property map, overwriting an existing value, e.g.,
//
//    pm.Add("font-weight", "bold")
//
func (pmap *PropertyMap) Add(key string, value Property) {
	if pmap == nil {
		return
	}
	if pmap.m == nil {
		pmap.m = make(map[string]*PropertyGroup)
	}
	groupname := GroupNameFromPropertyKey(key)
	group, found := pmap.m[groupname]
	if !found {
		group = NewPropertyGroup(groupname)
		pmap.m[groupname] = group
	}
	group.Set(key, value)
}

// Delete removes a property from this property map. Groups which become
// empty are dropped.
func (pmap *PropertyMap) Delete(key string) {
	groupname := GroupNameFromPropertyKey(key)
	group := pmap.Group(groupname)
	if group == nil {
		return
	}
	if group.Delete(key) {
		delete(pmap.m, groupname)
	}
}

// Properties returns all properties of all groups, sorted by key.
func (pmap *PropertyMap) Properties() []KeyValue {
	if pmap == nil {
		return nil
	}
	var r []KeyValue
	for _, g := range pmap.m {
		r = append(r, g.Properties()...)
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// Inline renders a property map as the value of an HTML style attribute, e.g.
//
//    font-style: italic; font-weight: bold
//
// Properties are ordered by key, which makes the output stable.
func (pmap *PropertyMap) Inline() string {
	var b strings.Builder
	for i, kv := range pmap.Properties() {
		if kv.Value.IsEmpty() {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(kv.Value.String())
	}
	return b.String()
}
