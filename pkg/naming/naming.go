// Package naming maps names declared in API documents to TypeScript
// identifiers.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9_$]+`)

// reserved cannot name a type declaration.
var reserved = map[string]bool{
	"any": true, "bigint": true, "boolean": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true, "debugger": true,
	"default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"never": true, "new": true, "null": true, "number": true, "object": true,
	"return": true, "string": true, "super": true, "switch": true, "symbol": true,
	"this": true, "throw": true, "true": true, "try": true, "typeof": true,
	"undefined": true, "unknown": true, "var": true, "void": true, "while": true,
	"with": true,
}

// generated holds the names the emitted artifacts declare or import, and
// the globals their type expressions rely on.
var generated = map[string]bool{
	"AbstractApiFetchParameters": true, "Api": true, "ApiFetchFunction": true,
	"ApiMapping": true, "ApiMappingItem": true, "ApiOperationIds": true,
	"ApiParameters": true, "ApiSuccess": true, "ApiTypes": true,
	"CreateApiOptions": true, "ParameterType": true,
	"AxiosInstance": true, "AxiosRequestConfig": true, "AxiosResponse": true,
	"Array": true, "File": true, "FormData": true, "Promise": true, "Record": true,
	"apiBaseUrl": true, "apiMapping": true, "applyParametersToAxiosRequestConfig": true,
	"axios": true, "createApi": true, "createApiFetchFunction": true, "keys": true,
}

// IsGenerated reports whether name is already bound in the emitted
// artifacts, so a definition must not take it.
func IsGenerated(name string) bool {
	return generated[name]
}

// RemoveAccents removes accents from a string, converting accented characters to their base forms
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// SplitWords splits s on every run of characters that cannot appear in an
// identifier, after removing accents.
func SplitWords(s string) []string {
	s = strings.TrimSpace(RemoveAccents(s))
	if s == "" {
		return nil
	}
	parts := nonAlnum.Split(s, -1)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// IsIdentifier reports whether name can be written unquoted as a property
// or type name.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == '_' || char == '$' || (i > 0 && char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

// TypeName returns name when it is usable as a type declaration name.
// Otherwise the words of name are joined with their first letters upper
// cased, e.g. "pet-status" and "Page«Pet»" become "PetStatus" and "PagePet".
func TypeName(name string) string {
	if IsIdentifier(name) && !reserved[name] {
		return name
	}

	var b strings.Builder
	for _, w := range SplitWords(name) {
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	out := b.String()
	switch {
	case out == "":
		return "_"
	case out[0] >= '0' && out[0] <= '9':
		return "_" + out
	case reserved[out]:
		return out + "_"
	}
	return out
}
