package columns

// Align is the horizontal alignment class of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	default:
		return "right"
	}
}

// Width is an ordinal column width class.
type Width int

const (
	WidthNarrow Width = iota
	WidthNormal
	WidthWide
	WidthExtraWide
)

// Chars returns the width in spreadsheet character units.
func (w Width) Chars() float64 {
	switch w {
	case WidthNarrow:
		return 8
	case WidthWide:
		return 16
	case WidthExtraWide:
		return 22
	default:
		return 12
	}
}

// Format is the number-format class of a column.
type Format int

const (
	FormatInteger Format = iota
	FormatCurrency0
	FormatCurrency1
	FormatPercent0
	FormatPercent1
)

// Code returns the spreadsheet number-format code for the class.
func (f Format) Code() string {
	switch f {
	case FormatInteger:
		return "0"
	case FormatCurrency1:
		return `"$"#,##0.0`
	case FormatPercent0:
		return "0%"
	case FormatPercent1:
		return "0.0%"
	default:
		return `"$"#,##0`
	}
}

// IsPercent reports whether values are fractions rendered as percentages.
func (f Format) IsPercent() bool { return f == FormatPercent0 || f == FormatPercent1 }

// Decimals returns the number of displayed decimal places.
func (f Format) Decimals() int32 {
	switch f {
	case FormatCurrency1, FormatPercent1:
		return 1
	default:
		return 0
	}
}

// Color is a qualitative presentation hint. It never feeds computation.
type Color int

const (
	ColorNone Color = iota
	ColorSuccess
	ColorWarning
	ColorDanger
	ColorPrimary
	ColorMuted
)

var colorNames = [...]string{"none", "success", "warning", "danger", "primary", "muted"}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "none"
	}
	return colorNames[c]
}

// RGB returns the hex text colour used by renderers; empty for ColorNone.
func (c Color) RGB() string {
	switch c {
	case ColorSuccess:
		return "198754"
	case ColorWarning:
		return "B7791F"
	case ColorDanger:
		return "DC3545"
	case ColorPrimary:
		return "0D6EFD"
	case ColorMuted:
		return "6C757D"
	default:
		return ""
	}
}
