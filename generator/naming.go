package generator

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// exportedName converts an identifier into an exported, CamelCase identifier.
// Underscores are treated as word separators: "get_value" becomes "GetValue".
// It returns an empty string if the result isn't a valid identifier.
func exportedName(name string) string {
	// Casers are stateful, so we need a new one for every call
	caser := cases.Title(language.Und, cases.NoLower)

	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(caser.String(part))
	}

	res := b.String()
	if !token.IsIdentifier(res) || !token.IsExported(res) {
		return ""
	}
	return res
}

// methodName returns the name of the round-trip method for a variant of the actor's message set.
// The actor's name is removed from the start of the variant's name when what's left is a word of its own, so "CounterGet" becomes "Get" for the actor "Counter".
func methodName(actorName string, variant string) string {
	name := variant
	rest, ok := strings.CutPrefix(variant, actorName)
	if ok && rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsUpper(r) || r == '_' {
			name = rest
		}
	}
	return exportedName(name)
}

// unexportedPrefix joins a lower-case prefix and a name, e.g. "new" and "counter" into "newCounter".
func unexportedPrefix(prefix string, name string) string {
	exp := exportedName(name)
	if exp == "" {
		// Fall back to the plain name
		return prefix + name
	}
	return prefix + exp
}
