// Package textutil holds naming and text helpers shared by the built-in
// translators.
package textutil

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts PascalCase or camelCase to snake_case.
// Acronyms stay together: "HTTPSConnection" -> "https_connection".
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

// ToPascalCase converts snake_case, kebab-case or dotted names to PascalCase.
func ToPascalCase(s string) string {
	var result strings.Builder
	for _, part := range SplitByDelimiters(s, "_-. ") {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}

// ToCamelCase lowercases the leading run of capitals of a PascalCase
// name: "URLPath" -> "urlPath", "Name" -> "name".
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	runes := []rune(pascal)
	for i := 0; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		// keep the capital that starts the next word
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// SplitByDelimiters splits s at any character in delimiters, dropping
// empty parts.
func SplitByDelimiters(s, delimiters string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
}

// IsAlphanumeric reports whether s contains only ASCII letters and digits.
func IsAlphanumeric(s string) bool {
	for _, ch := range s {
		if !((ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')) {
			return false
		}
	}
	return true
}

// Identifier replaces characters that cannot appear in an identifier
// with '_' and prefixes a leading digit.
func Identifier(s string) string {
	if s == "" {
		return "_"
	}
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// Lines splits multi-line text, dropping one trailing newline.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
