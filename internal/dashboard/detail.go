package dashboard

import (
	"fmt"
	"strings"

	"github.com/csg33k/household-census/internal/domain"
)

// NotAvailable stands in for empty or null values.
const NotAvailable = "N/A"

var (
	householdHidden = keySet(domain.KeyHouseholdID, domain.KeyTimestamp)
	memberHidden    = keySet(domain.KeyHouseholdID, domain.KeyMemberID, domain.KeyTimestamp)
	childHidden     = keySet(domain.KeyHouseholdID, domain.KeyChildID, domain.KeyTimestamp)
)

type Line struct {
	Label string
	Value string
}

func (l Line) String() string { return l.Label + ": " + l.Value }

type Block struct {
	Heading string
	Lines   []Line
}

// DetailView is the read-only projection of one record shown in the detail
// panel and in the PDF.
type DetailView struct {
	HouseholdID     string
	Title           string
	General         []Line
	MembersHeading  string
	Members         []Block
	ChildrenHeading string
	Children        []Block
}

// Render projects r for display. Fields keep their API order; identifiers
// and timestamps are left out.
func Render(r domain.Record, l *Labeler) DetailView {
	v := DetailView{
		HouseholdID:     r.HouseholdID(),
		Title:           "Household Record: " + r.HouseholdID(),
		General:         lines(r.Household, householdHidden, l),
		MembersHeading:  fmt.Sprintf("Adult Members (%d)", len(r.Members)),
		ChildrenHeading: fmt.Sprintf("Children Particulars (%d)", len(r.Children)),
	}
	for i, m := range r.Members {
		v.Members = append(v.Members, Block{
			Heading: fmt.Sprintf("Member %d: %s", i+1, fullName(m)),
			Lines:   lines(m, memberHidden, l),
		})
	}
	for i, c := range r.Children {
		age := c.Get(domain.KeyAge)
		if age == "" {
			age = NotAvailable
		}
		v.Children = append(v.Children, Block{
			Heading: fmt.Sprintf("Child %d: %s (Age: %s)", i+1, fullName(c), age),
			Lines:   lines(c, childHidden, l),
		})
	}
	return v
}

func lines(f domain.Fields, hidden map[string]struct{}, l *Labeler) []Line {
	out := make([]Line, 0, len(f))
	for _, fld := range f {
		if _, skip := hidden[fld.Key]; skip {
			continue
		}
		val := fld.Value
		if fld.Empty() {
			val = NotAvailable
		}
		out = append(out, Line{Label: l.Label(fld.Key), Value: val})
	}
	return out
}

func fullName(f domain.Fields) string {
	return strings.TrimSpace(f.Get(domain.KeyFirstName) + " " + f.Get(domain.KeyLastName))
}

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}
