package style

import "fmt"

// Key denotes a toggleable text style, e.g. bold.
//
// Every key maps to exactly one CSS property slot of an element's inline
// style and to a marker value which signals that the style is active.
// New keys are added by extending the enumeration and the slot table,
// nothing else has to change.
type Key uint8

// Toggleable text styles.
const (
	Bold Key = iota
	Italic
	StrikeThrough
)

type slot struct {
	name     string   // action name, as used for toolbar buttons
	property string   // CSS property holding the style
	marker   Property // property token which signals "active"
}

var slots = [...]slot{
	Bold:          {"bold", "font-weight", "bold"},
	Italic:        {"italic", "font-style", "italic"},
	StrikeThrough: {"strikeThrough", "text-decoration", "line-through"},
}

// Keys returns all known style keys in order.
func Keys() []Key {
	keys := make([]Key, len(slots))
	for i := range slots {
		keys[i] = Key(i)
	}
	return keys
}

// KeyFromName finds a style key for its action name ("bold", "italic", …).
func KeyFromName(name string) (Key, bool) {
	for i, s := range slots {
		if s.name == name {
			return Key(i), true
		}
	}
	return 0, false
}

func (k Key) valid() bool {
	return int(k) < len(slots)
}

func (k Key) String() string {
	if !k.valid() {
		return fmt.Sprintf("Key(%d)", k)
	}
	return slots[k].name
}

// Property returns the CSS property a style key is stored in.
func (k Key) Property() string {
	if !k.valid() {
		return ""
	}
	return slots[k].property
}

// Marker returns the property value which marks a style key as active.
func (k Key) Marker() Property {
	if !k.valid() {
		return NullStyle
	}
	return slots[k].marker
}

// IsActive checks if a property map carries the style key's marker.
func (k Key) IsActive(pmap *PropertyMap) bool {
	if !k.valid() {
		return false
	}
	p, ok := pmap.Property(k.Property())
	return ok && p.HasToken(k.Marker().String())
}

// Styles returns a fresh property map with only this key's marker set.
func (k Key) Styles() *PropertyMap {
	pmap := NewPropertyMap()
	pmap.Add(k.Property(), k.Marker())
	return pmap
}

// Remove takes the key's marker out of a property map. Other tokens of the
// same property survive, e.g. removing strike-through from
// "underline line-through" leaves "underline".
func (k Key) Remove(pmap *PropertyMap) {
	p, ok := pmap.Property(k.Property())
	if !ok {
		return
	}
	if rest := p.WithoutToken(k.Marker().String()); !rest.IsEmpty() {
		pmap.Add(k.Property(), rest)
		return
	}
	pmap.Delete(k.Property())
}
