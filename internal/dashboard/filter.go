package dashboard

import (
	"strings"

	"github.com/csg33k/household-census/internal/domain"
)

// Query is the dashboard's filter input. Column and Value together form the
// column filter; when both are set, Text is ignored.
type Query struct {
	Text   string
	Column string
	Value  string
}

func (q Query) normalized() Query {
	return Query{
		Text:   strings.ToLower(strings.TrimSpace(q.Text)),
		Column: strings.TrimSpace(q.Column),
		Value:  strings.ToLower(strings.TrimSpace(q.Value)),
	}
}

// ColumnActive reports whether the column filter overrides free-text search.
func (q Query) ColumnActive() bool {
	n := q.normalized()
	return n.Column != "" && n.Value != ""
}

// Filter returns the records matching q in their original order. Matching is
// case-insensitive substring containment.
func Filter(records []domain.Record, q Query) []domain.Record {
	q = q.normalized()
	if q.Text == "" && (q.Column == "" || q.Value == "") {
		return records
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.Record, q Query) bool {
	if q.Column != "" && q.Value != "" {
		return matchesColumn(r, q.Column, q.Value)
	}
	return matchesText(r, q.Text)
}

func matchesText(r domain.Record, text string) bool {
	if contains(r.Household, domain.KeyBlockName, text) || contains(r.Household, domain.KeyAddress, text) {
		return true
	}
	for _, people := range [][]domain.Fields{r.Members, r.Children} {
		for _, p := range people {
			if contains(p, domain.KeyFirstName, text) || contains(p, domain.KeyLastName, text) {
				return true
			}
		}
	}
	return false
}

func matchesColumn(r domain.Record, column, value string) bool {
	if contains(r.Household, column, value) {
		return true
	}
	for _, people := range [][]domain.Fields{r.Members, r.Children} {
		for _, p := range people {
			if contains(p, column, value) {
				return true
			}
		}
	}
	return false
}

// contains expects needle already lower-cased. Absent and empty fields never
// match.
func contains(f domain.Fields, key, needle string) bool {
	v := f.Get(key)
	if v == "" {
		return false
	}
	return strings.Contains(strings.ToLower(v), needle)
}
