package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

var cardSeparators = strings.NewReplacer(" ", "", "-", "")

// NormalizeCard drops the spaces and dashes people type between digit groups.
func NormalizeCard(s string) string {
	return cardSeparators.Replace(strings.TrimSpace(s))
}

// IsLuna reports whether s is a digit string with a valid Luhn checksum.
func IsLuna(s string) bool {
	return s != "" && goluhn.Validate(s) == nil
}
