// Package itin — IATA geography helpers.
//
// geo.go — nation equivalence rules shared by the validating-carrier
// tie-break and the acceptance validator.
//
// Two carve-outs apply module-wide, matching international settlement
// practice:
//   - The United States and Canada are treated as one country.
//   - Scandinavia (Sweden, Norway, Denmark) is treated as one country.
package itin

// Nations with special treatment in the equivalence rules.
const (
	NationUS Nation = "US"
	NationCA Nation = "CA"
	NationSE Nation = "SE"
	NationNO Nation = "NO"
	NationDK Nation = "DK"
)

// Scandinavian reports whether n is one of the Scandinavian nations
// (Sweden, Norway, Denmark).
func Scandinavian(n Nation) bool {
	return n == NationSE || n == NationNO || n == NationDK
}

// usCanada reports whether n is the United States or Canada.
func usCanada(n Nation) bool {
	return n == NationUS || n == NationCA
}

// SameCountry reports whether a and b count as the same country for
// validating-carrier and combinability purposes. Beyond literal equality,
// US/Canada form one country and the Scandinavian nations form one country.
func SameCountry(a, b Nation) bool {
	if a == b {
		return true
	}
	if usCanada(a) && usCanada(b) {
		return true
	}
	if Scandinavian(a) && Scandinavian(b) {
		return true
	}

	return false
}
