package css

import (
	"fmt"

	"github.com/npillmayer/wysiwyg/dom/style"
	"golang.org/x/net/html"
)

// DisplayMode is a type for CSS property "display".
//
type DisplayMode uint16

// Flags for box context and display mode (outer and inner).
const (
	NoMode          DisplayMode = iota   // unset or error condition
	DisplayNone     DisplayMode = 0x0001 // CSS outer display = none
	BlockMode       DisplayMode = 0x0002 // CSS block context (inner or outer)
	InlineMode      DisplayMode = 0x0004 // CSS inline context
	FlowRootMode    DisplayMode = 0x0010 // CSS flow-root display property
	ListItemMode    DisplayMode = 0x0020 // CSS list-item display
	FlexMode        DisplayMode = 0x0040 // CSS inner display = flex
	GridMode        DisplayMode = 0x0080 // CSS inner display = grid
	TableMode       DisplayMode = 0x0100 // CSS table display property (inner or outer)
	InnerBlockMode  DisplayMode = 0x0200 // CSS inner block mode (inline-block)
	InnerInlineMode DisplayMode = 0x0400 // CSS inner inline mode (paragraphs)
)

var displayModeNames = map[DisplayMode]string{
	NoMode:          "NoMode",
	DisplayNone:     "DisplayNone",
	BlockMode:       "BlockMode",
	InlineMode:      "InlineMode",
	FlowRootMode:    "FlowRootMode",
	ListItemMode:    "ListItemMode",
	FlexMode:        "FlexMode",
	GridMode:        "GridMode",
	TableMode:       "TableMode",
	InnerBlockMode:  "InnerBlockMode",
	InnerInlineMode: "InnerInlineMode",
}

func (disp DisplayMode) String() string {
	if s, ok := displayModeNames[disp]; ok {
		return s
	}
	return fmt.Sprintf("DisplayMode(%#04x)", uint16(disp))
}

// IsBlockLevel is true for modes formatted as blocks, i.e. paragraphs,
// list items and tables. Inline wrappers must never enclose such content.
func (disp DisplayMode) IsBlockLevel() bool {
	return disp&0x000f == BlockMode
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// Symbol returns a Unicode symbol for a mode.
func (disp DisplayMode) Symbol() string {
	if disp.Contains(ListItemMode) {
		return "▣"
	} else if disp.Contains(TableMode) {
		return "▥"
	} else if disp.Contains(BlockMode) || disp.Contains(InnerBlockMode) {
		return "▩"
	} else if disp.Contains(InlineMode) || disp.Contains(InnerInlineMode) {
		return "►"
	} else if disp.Contains(FlexMode) {
		return "▤"
	} else if disp.Contains(GridMode) {
		return "◰"
	} else if disp == NoMode {
		return "–"
	}
	return "?"
}

// ParseDisplay returns mode flags from a display property string (outer and inner).
func ParseDisplay(display string) (DisplayMode, error) {
	if display == "" {
		return NoMode, nil
	}
	switch display {
	case "none":
		return DisplayNone, nil
	case "block":
		return BlockMode | InnerBlockMode, nil
	case "inline":
		return InlineMode | InnerInlineMode, nil
	case "list-item":
		return ListItemMode | BlockMode, nil
	case "block-inline":
		return BlockMode | InnerInlineMode, nil
	case "inline-block":
		return InlineMode | InnerBlockMode, nil
	case "flow-root":
		return BlockMode | FlowRootMode, nil
	case "flex":
		return BlockMode | FlexMode, nil
	case "grid":
		return BlockMode | GridMode, nil
	case "table":
		return BlockMode | TableMode, nil
	case "inline-table":
		return InlineMode | TableMode, nil
	}
	return BlockMode, fmt.Errorf("unknown display mode: %s", display)
}

// Display returns the display mode of an HTML node. An inline style
// property "display" takes precedence over the user-agent default of
// the element type. Unknown modes count as block-level.
func Display(node *html.Node, inline *style.PropertyMap) DisplayMode {
	p, ok := inline.Property("display")
	if !ok || p.IsEmpty() {
		p = style.DisplayPropertyForHTMLNode(node)
	}
	mode, err := ParseDisplay(p.String())
	if err != nil {
		tracer().Debugf(err.Error())
	}
	return mode
}
