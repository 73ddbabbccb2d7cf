package sources

import "strings"

// Abbreviate returns a short team code. Names of four characters or fewer are
// upper-cased verbatim, known names come from table, and anything else uses
// its first three letters upper-cased.
func Abbreviate(name string, table map[string]string) string {
	if name == "" {
		return "???"
	}
	if len([]rune(name)) <= 4 {
		return strings.ToUpper(name)
	}
	if short, ok := table[name]; ok {
		return short
	}
	return strings.ToUpper(string([]rune(name)[:3]))
}
