package dashboard

import (
	"sort"
	"strings"

	"github.com/csg33k/household-census/internal/domain"
)

// Column is one option of the column filter select.
type Column struct {
	Key   string
	Label string
}

// FilterColumns derives the column filter options from the first record:
// its household, first member and first child keys, sorted, without
// identifiers, timestamps or the derived age.
func FilterColumns(records []domain.Record) []Column {
	if len(records) == 0 {
		return nil
	}
	sample := records[0]
	seen := map[string]struct{}{}
	add := func(f domain.Fields) {
		for _, k := range f.Keys() {
			seen[k] = struct{}{}
		}
	}
	add(sample.Household)
	if len(sample.Members) > 0 {
		add(sample.Members[0])
	}
	if len(sample.Children) > 0 {
		add(sample.Children[0])
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		if strings.HasSuffix(k, "_ID") || k == domain.KeyTimestamp || k == domain.KeyAge {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cols := make([]Column, len(keys))
	for i, k := range keys {
		cols[i] = Column{Key: k, Label: strings.ReplaceAll(k, "_", " ")}
	}
	return cols
}

// Row is one line of the records table.
type Row struct {
	HouseholdID string
	BlockName   string
	Address     string
	ContactNo   string
	Members     int
	Children    int
}

func Rows(records []domain.Record) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			HouseholdID: r.HouseholdID(),
			BlockName:   r.Household.Get(domain.KeyBlockName),
			Address:     r.Household.Get(domain.KeyAddress),
			ContactNo:   r.Household.Get(domain.KeyContactNo),
			Members:     len(r.Members),
			Children:    len(r.Children),
		}
	}
	return rows
}
