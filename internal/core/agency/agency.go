// Package agency defines the company's country agencies.
// Each agency owns its own document numbering sequences.
package agency

// Code is the short agency identifier used in document numbers.
type Code string

const (
	Ghana       Code = "GH"
	CoteDIvoire Code = "CI"
	BurkinaFaso Code = "BF"
)

// All returns every known agency code.
func All() []Code {
	return []Code{Ghana, CoteDIvoire, BurkinaFaso}
}

// Valid reports whether the code names a known agency.
func (c Code) Valid() bool {
	switch c {
	case Ghana, CoteDIvoire, BurkinaFaso:
		return true
	default:
		return false
	}
}

// String returns the short code.
func (c Code) String() string {
	return string(c)
}

// Country returns the agency's country name for display.
func (c Code) Country() string {
	switch c {
	case Ghana:
		return "Ghana"
	case CoteDIvoire:
		return "Côte d'Ivoire"
	case BurkinaFaso:
		return "Burkina Faso"
	default:
		return "Unknown"
	}
}
