package dashboard

import (
	"strings"
	"unicode"
)

// Domain terms whose mechanical label reads badly.
var defaultLabels = map[string]string{
	"First_Communion":           "First Holy Communion",
	"Date_1st_Communion":        "Date of First Communion",
	"Church_of_1st_Communion":   "Church of First Communion",
	"Civil_Court_Marriage_Date": "Civil Marriage Date",
}

// Labeler turns spreadsheet field keys into display labels.
type Labeler struct {
	overrides map[string]string
}

// NewLabeler returns a Labeler with the built-in overrides plus extra, which
// take precedence.
func NewLabeler(extra map[string]string) *Labeler {
	overrides := make(map[string]string, len(defaultLabels)+len(extra))
	for k, v := range defaultLabels {
		overrides[k] = v
	}
	for k, v := range extra {
		overrides[k] = v
	}
	return &Labeler{overrides: overrides}
}

// Label formats key: overrides first, then a _YN suffix becomes
// " (Yes/No)", underscores become spaces and each word is capitalised.
func (l *Labeler) Label(key string) string {
	if v, ok := l.overrides[key]; ok {
		return v
	}
	if strings.HasSuffix(key, "_YN") {
		key = strings.TrimSuffix(key, "_YN") + " (Yes/No)"
	}
	return titleWords(strings.ReplaceAll(key, "_", " "))
}

// titleWords upper-cases the first word character after every non-word
// character, where word characters are ASCII letters, digits and '_'.
// Other characters are left as they are.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range s {
		w := isWordRune(r)
		if w && !prevWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevWord = w
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
