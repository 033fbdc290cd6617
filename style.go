// Package unsegen implements a terminal UI rendering core: a cell-grid
// buffer, a non-owning windowing layer over it, a stateful grapheme-aware
// cursor/writing engine, and (in the terminal subpackage) the
// diff-and-present pipeline that turns a frame into a minimal ANSI byte
// stream. It does not implement widgets, layouts, or input decoding —
// those are external collaborators layered on top of Window and Cursor.
package unsegen

import "github.com/lucasb-eyer/go-colorful"

// Attribute represents a single text-format bit. Several can be
// combined with bitwise OR.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrStrikethrough
)

// Has reports whether attr is set within a.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// With returns a new attribute set with attr added.
func (a Attribute) With(attr Attribute) Attribute { return a | attr }

// Without returns a new attribute set with attr removed.
func (a Attribute) Without(attr Attribute) Attribute { return a &^ attr }

// ColorMode tags which representation a Color value carries.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	Color16
	Color256
	ColorRGB
)

// Color is a tagged union over the terminal's color representations:
// the terminal default, one of the 16 basic ANSI colors, one of the 256
// indexed palette colors, or a 24-bit RGB triple.
type Color struct {
	Mode    ColorMode
	R, G, B uint8
	Index   uint8
}

// DefaultColor returns the terminal's default color (emits no SGR color
// sequence; relies on the preceding global reset).
func DefaultColor() Color { return Color{Mode: ColorDefault} }

// BasicColor returns one of the 16 basic ANSI colors (0-15).
func BasicColor(index uint8) Color { return Color{Mode: Color16, Index: index} }

// PaletteColor returns one of the 256 indexed palette colors.
func PaletteColor(index uint8) Color { return Color{Mode: Color256, Index: index} }

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

// Hex returns a 24-bit true color parsed from a "#rrggbb" string. An
// unparseable string yields DefaultColor(), matching the cursor
// writing-engine's policy of never failing caller-visible operations
// over cosmetic input (see Cursor.Write's clipping contract).
func Hex(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return DefaultColor()
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b)
}

// LerpColor blends from a to b in the perceptually uniform Lab color
// space, t=0 returning a and t=1 returning b. Both endpoints are
// converted through go-colorful regardless of their original ColorMode;
// the result is always ColorRGB, since interpolating indexed or default
// colors is not well defined.
func LerpColor(a, b Color, t float64) Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	blended := ca.BlendLab(cb, t)
	r, g, b := blended.Clamped().RGB255()
	return RGB(r, g, b)
}

// Named colors for the 16-color palette.
var (
	Black   = BasicColor(0)
	Red     = BasicColor(1)
	Green   = BasicColor(2)
	Yellow  = BasicColor(3)
	Blue    = BasicColor(4)
	Magenta = BasicColor(5)
	Cyan    = BasicColor(6)
	White   = BasicColor(7)

	BrightBlack   = BasicColor(8)
	BrightRed     = BasicColor(9)
	BrightGreen   = BasicColor(10)
	BrightYellow  = BasicColor(11)
	BrightBlue    = BasicColor(12)
	BrightMagenta = BasicColor(13)
	BrightCyan    = BasicColor(14)
	BrightWhite   = BasicColor(15)
)

// Equal reports structural equality between two colors.
func (c Color) Equal(other Color) bool { return c == other }

// Style is an immutable triple of foreground color, background color,
// and text-format attributes. Equality is structural.
type Style struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// DefaultStyle returns the plain style: default colors, no attributes.
func DefaultStyle() Style {
	return Style{FG: DefaultColor(), BG: DefaultColor()}
}

// Equal reports structural equality between two styles.
func (s Style) Equal(other Style) bool { return s == other }

// BoolModifier specifies one of the four unary functions on bool: set
// true, set false, toggle, or leave unchanged. It is the building block
// of StyleModifier's per-attribute deltas.
type BoolModifier uint8

const (
	// Keep leaves the target bool unchanged.
	Keep BoolModifier = iota
	// SetTrue forces the target bool to true.
	SetTrue
	// SetFalse forces the target bool to false.
	SetFalse
	// Toggle flips the target bool.
	Toggle
)

// BoolModifierFrom converts a plain bool into the modifier that forces
// the target to that value.
func BoolModifierFrom(on bool) BoolModifier {
	if on {
		return SetTrue
	}
	return SetFalse
}

// OnTopOf combines m with other so that applying the result to a bool
// is equivalent to first applying other, then applying m:
//
//	m.OnTopOf(other).Modify(&b)  ==  other.Modify(&b); m.Modify(&b)
//
// True/False are absorbing (they win regardless of other); Toggle
// composed with Toggle cancels to Keep; Keep defers entirely to other.
func (m BoolModifier) OnTopOf(other BoolModifier) BoolModifier {
	switch m {
	case SetTrue:
		return SetTrue
	case SetFalse:
		return SetFalse
	case Toggle:
		switch other {
		case SetTrue:
			return SetFalse
		case SetFalse:
			return SetTrue
		case Toggle:
			return Keep
		default: // Keep
			return Toggle
		}
	default: // Keep
		return other
	}
}

// Modify applies m to target in place.
func (m BoolModifier) Modify(target *bool) {
	switch m {
	case SetTrue:
		*target = true
	case SetFalse:
		*target = false
	case Toggle:
		*target = !*target
	case Keep:
		// no-op
	}
}

// AttrModifier is a per-bit modifier over Attribute: one BoolModifier
// per text-format flag.
type AttrModifier struct {
	Bold, Dim, Italic, Underline, Blink, Inverse, Strikethrough BoolModifier
}

// OnTopOf composes two attribute modifiers component-wise, per
// BoolModifier.OnTopOf.
func (m AttrModifier) OnTopOf(other AttrModifier) AttrModifier {
	return AttrModifier{
		Bold:          m.Bold.OnTopOf(other.Bold),
		Dim:           m.Dim.OnTopOf(other.Dim),
		Italic:        m.Italic.OnTopOf(other.Italic),
		Underline:     m.Underline.OnTopOf(other.Underline),
		Blink:         m.Blink.OnTopOf(other.Blink),
		Inverse:       m.Inverse.OnTopOf(other.Inverse),
		Strikethrough: m.Strikethrough.OnTopOf(other.Strikethrough),
	}
}

// Modify applies every component modifier to attr in place.
func (m AttrModifier) Modify(attr *Attribute) {
	bits := []struct {
		mod  BoolModifier
		flag Attribute
	}{
		{m.Bold, AttrBold}, {m.Dim, AttrDim}, {m.Italic, AttrItalic},
		{m.Underline, AttrUnderline}, {m.Blink, AttrBlink},
		{m.Inverse, AttrInverse}, {m.Strikethrough, AttrStrikethrough},
	}
	for _, b := range bits {
		has := attr.Has(b.flag)
		b.mod.Modify(&has)
		if has {
			*attr = attr.With(b.flag)
		} else {
			*attr = attr.Without(b.flag)
		}
	}
}

// StyleModifier is a partial function from Style to Style: each color
// is either left alone or set to a fixed value, and the attribute set
// carries a per-bit BoolModifier. StyleModifier composition obeys:
//
//	compose(a, b).Apply(s) == a.Apply(b.Apply(s))
//
// for every style s — the fundamental law in spec.md §3 "Style delta".
type StyleModifier struct {
	fg, bg   *Color
	attr     AttrModifier
	hasAttr  bool
}

// NewStyleModifier returns a modifier that changes nothing.
func NewStyleModifier() StyleModifier { return StyleModifier{} }

// FGColor returns a copy of m that additionally sets the foreground.
func (m StyleModifier) FGColor(c Color) StyleModifier {
	cc := c
	m.fg = &cc
	return m
}

// BGColor returns a copy of m that additionally sets the background.
func (m StyleModifier) BGColor(c Color) StyleModifier {
	cc := c
	m.bg = &cc
	return m
}

// WithAttr returns a copy of m that additionally applies attr.
func (m StyleModifier) WithAttr(attr AttrModifier) StyleModifier {
	m.attr = attr
	m.hasAttr = true
	return m
}

// Bold returns a copy of m whose bold component is set per val.
func (m StyleModifier) Bold(val BoolModifier) StyleModifier {
	m.attr.Bold = val
	m.hasAttr = true
	return m
}

// Italic returns a copy of m whose italic component is set per val.
func (m StyleModifier) Italic(val BoolModifier) StyleModifier {
	m.attr.Italic = val
	m.hasAttr = true
	return m
}

// Underline returns a copy of m whose underline component is set per val.
func (m StyleModifier) Underline(val BoolModifier) StyleModifier {
	m.attr.Underline = val
	m.hasAttr = true
	return m
}

// Inverse returns a copy of m whose inverse component is set per val.
func (m StyleModifier) Inverse(val BoolModifier) StyleModifier {
	m.attr.Inverse = val
	m.hasAttr = true
	return m
}

// OnTopOf combines m with other so that applying the result is
// equivalent to first applying other, then applying m.
func (m StyleModifier) OnTopOf(other StyleModifier) StyleModifier {
	result := StyleModifier{
		fg:      m.fg,
		bg:      m.bg,
		hasAttr: m.hasAttr || other.hasAttr,
	}
	if result.fg == nil {
		result.fg = other.fg
	}
	if result.bg == nil {
		result.bg = other.bg
	}
	result.attr = m.attr.OnTopOf(other.attr)
	return result
}

// Modify applies m to style in place.
func (m StyleModifier) Modify(style *Style) {
	if m.fg != nil {
		style.FG = *m.fg
	}
	if m.bg != nil {
		style.BG = *m.bg
	}
	if m.hasAttr {
		m.attr.Modify(&style.Attr)
	}
}

// Apply returns style with m applied, leaving style itself unmodified.
func (m StyleModifier) Apply(style Style) Style {
	m.Modify(&style)
	return style
}

// ApplyToDefault applies m to DefaultStyle(). A convenience for the
// common case of converting a standalone modifier into a concrete
// style.
func (m StyleModifier) ApplyToDefault() Style {
	return m.Apply(DefaultStyle())
}
