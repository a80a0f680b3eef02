package transform

import (
	"strconv"

	"k8s.io/utils/ptr"
)

const (
	// DefaultRandomLength is the length callers use when they have none.
	DefaultRandomLength = 32
	// MaxRandomLength is the longest random string the platform generates.
	MaxRandomLength = 450
)

// RandomAlphaNumeric generates a random string of letters and digits.
func RandomAlphaNumeric(length int) (*Node, error) {
	return random(KindRandomAlphaNumeric, length)
}

// RandomNumeric generates a random string of digits.
func RandomNumeric(length int) (*Node, error) {
	return random(KindRandomNumeric, length)
}

func random(kind Kind, length int) (*Node, error) {
	if length <= 0 {
		return nil, invalid(kind, "length", "must be a positive integer, got %d", length)
	}
	if length > MaxRandomLength {
		return nil, invalid(kind, "length", "maximum allowed length is %d characters, got %d", MaxRandomLength, length)
	}
	return newBuilder(kind).set("length", Int(length)).node(), nil
}

// GenerateRandomStringParams configures the generateRandomString rule. Nil
// flags default to true.
type GenerateRandomStringParams struct {
	Length              int
	IncludeNumbers      *bool
	IncludeSpecialChars *bool
}

// GenerateRandomString produces a random string through the rule library.
// The platform expects every attribute of this rule as a string.
func GenerateRandomString(p GenerateRandomStringParams) (*Node, error) {
	if p.Length <= 0 {
		return nil, invalid(KindRule, "length", "must be a positive integer, got %d", p.Length)
	}
	b := newBuilder(KindRule).
		set("name", String(RuleLibrary)).
		set("operation", String("generateRandomString")).
		set("length", String(strconv.Itoa(p.Length))).
		set("includeNumbers", String(strconv.FormatBool(ptr.Deref(p.IncludeNumbers, true)))).
		set("includeSpecialChars", String(strconv.FormatBool(ptr.Deref(p.IncludeSpecialChars, true))))
	return b.node(), nil
}
