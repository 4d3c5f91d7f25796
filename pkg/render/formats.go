package render

import "fmt"

// Format constants for output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// Render produces the requested format from a DOT string. FormatDOT
// returns the input unchanged, so callers can treat all formats alike.
func Render(dot, format string, scale float64) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return SVG(dot)
	case FormatPNG:
		return PNG(dot, scale)
	case FormatPDF:
		return PDF(dot)
	default:
		return nil, ValidateFormat(format)
	}
}
