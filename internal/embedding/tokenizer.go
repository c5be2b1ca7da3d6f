package embedding

import "strings"

// minTokenLength is the shortest token kept by Tokenize.
const minTokenLength = 3

// dottedCapitalI lowers to "i" plus a combining dot above, not to a bare "i".
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// Tokenize lowercases text, treats every character outside [a-z0-9] as a
// separator and returns the remaining tokens longer than two characters.
// Empty input yields an empty (nil) slice.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(dottedCapitalI.Replace(text)), func(r rune) bool {
		return !isTokenRune(r)
	})

	tokens := fields[:0]
	for _, field := range fields {
		if len(field) >= minTokenLength {
			tokens = append(tokens, field)
		}
	}

	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
