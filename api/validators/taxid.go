package validators

import "regexp"

// Indian tax identifier formats. GSTIN is 15 characters: a two digit state
// code, a ten character PAN, an entity digit, the literal Z, and a check
// character. PAN is five letters, four digits, and a final letter.
var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// ValidGSTIN reports whether value matches the GSTIN format. Account
// provisioning stores tax identifiers as given; this check backs the
// compliance surfaces that need well formed ids.
func ValidGSTIN(value string) bool {
	return gstinPattern.MatchString(value)
}

// ValidPAN reports whether value matches the PAN format.
func ValidPAN(value string) bool {
	return panPattern.MatchString(value)
}
