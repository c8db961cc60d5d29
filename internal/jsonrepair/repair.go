// Package jsonrepair reconstructs well-formed JSON from truncated oracle
// output. It is a best-effort structural closer, not a parser: it assumes
// truncation happened at a token boundary consistent with a well-formed
// prefix.
package jsonrepair

import "strings"

// Repair closes open strings, arrays, and objects in possibly-truncated
// JSON text. It is pure and deterministic, never fails, and leaves
// already-valid input unchanged. The result may still not parse; callers
// must verify downstream.
func Repair(text string) string {
	var stack []byte
	inString := false
	escape := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escape:
				escape = false
			case c == '\\':
				escape = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == c {
				stack = stack[:len(stack)-1]
			}
			// Mismatched closers are left unresolved; the downstream
			// parse will reject them.
		}
	}

	result := text
	stripped := strings.TrimRight(result, " \t\r\n")

	switch {
	case inString:
		result += `"`
	case strings.HasSuffix(stripped, ":"):
		// Key with no value: give it a placeholder.
		result += "null"
	case strings.HasSuffix(stripped, ","):
		result = stripped[:len(stripped)-1]
	}

	// Close remaining scopes innermost-first.
	for i := len(stack) - 1; i >= 0; i-- {
		result += string(stack[i])
	}

	return result
}
