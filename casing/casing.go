// Package casing converts free text into camel case ("YearlyIncome") and
// member case ("yearlyIncome") identifiers.
//
// Case folding always follows English rules from golang.org/x/text/cases so
// output does not depend on the host locale.
package casing

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNilValue is returned by the pointer variants when given a nil value.
var ErrNilValue = errors.New("casing: nil value")

// ToCamelCase lower-cases and trims value, capitalises its first character
// and removes every separator ('_', '.', or white space), capitalising the
// character that follows it. "Yearly Income" and "yearly.income" both become
// "YearlyIncome".
//
// A separator followed directly by another separator consumes it: the second
// one is capitalised and kept, so "a__b" becomes "A_b". A trailing separator is
// dropped.
func ToCamelCase(value string) string {
	trimmed := strings.TrimSpace(cases.Lower(language.English).String(value))
	if trimmed == "" {
		return ""
	}

	upper := cases.Upper(language.English)
	runes := []rune(trimmed)

	var b strings.Builder
	b.Grow(len(trimmed))
	b.WriteString(upper.String(string(runes[0])))
	for i := 1; i < len(runes); i++ {
		if !isSeparator(runes[i]) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		if i < len(runes) {
			b.WriteString(upper.String(string(runes[i])))
		}
	}
	return b.String()
}

// ToMemberCase returns ToCamelCase(value) with its first character
// lower-cased, e.g. "Yearly Income" becomes "yearlyIncome".
func ToMemberCase(value string) string {
	camel := ToCamelCase(value)
	if camel == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(camel)
	return cases.Lower(language.English).String(string(r)) + camel[size:]
}

// CamelCaseOf is ToCamelCase for optional values. It fails with ErrNilValue
// when value is nil.
func CamelCaseOf(value *string) (string, error) {
	if value == nil {
		return "", ErrNilValue
	}
	return ToCamelCase(*value), nil
}

// MemberCaseOf is ToMemberCase for optional values. It fails with ErrNilValue
// when value is nil.
func MemberCaseOf(value *string) (string, error) {
	if value == nil {
		return "", ErrNilValue
	}
	return ToMemberCase(*value), nil
}

// IsNullOrEmpty reports whether value is nil or holds only white space.
func IsNullOrEmpty(value *string) bool {
	return value == nil || IsBlank(*value)
}

// IsBlank reports whether value is empty after trimming white space.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func isSeparator(r rune) bool {
	return r == '_' || r == '.' || unicode.IsSpace(r)
}
