package xlsx_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/household-census/internal/adapters/xlsx"
	"github.com/csg33k/household-census/internal/domain"
)

// rows reads a sheet with trailing blank cells dropped.
func rows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	out, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", sheet, err)
	}
	for i, r := range out {
		for len(r) > 0 && r[len(r)-1] == "" {
			r = r[:len(r)-1]
		}
		out[i] = r
	}
	return out
}

func TestExport(t *testing.T) {
	records := []domain.Record{
		{
			Household: domain.Fields{{Key: "Household_ID", Value: "H1"}, {Key: "Block_Name", Value: "North"}},
			Members: []domain.Fields{
				{{Key: "First_Name", Value: "Thabo"}, {Key: "Baptized_YN", Value: "Yes"}},
				{{Key: "Household_ID", Value: "H1"}, {Key: "First_Name", Value: "Mpho"}},
			},
		},
		{
			Household: domain.Fields{{Key: "Household_ID", Value: "H2"}, {Key: "Block_Name", Value: "South"}, {Key: "Contact_No", Value: "7712"}},
			Children:  []domain.Fields{{{Key: "First_Name", Value: "Lesedi"}, {Key: "Age", Value: "6"}}},
		},
	}

	var buf bytes.Buffer
	if err := xlsx.Export(records, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{xlsx.SheetHouseholds, xlsx.SheetMembers, xlsx.SheetChildren}) {
		t.Fatalf("sheets = %v", got)
	}

	hh := rows(t, f, xlsx.SheetHouseholds)
	want := [][]string{
		{"Household_ID", "Block_Name", "Contact_No"},
		{"H1", "North"},
		{"H2", "South", "7712"},
	}
	if !reflect.DeepEqual(hh, want) {
		t.Errorf("households = %v, want %v", hh, want)
	}

	mem := rows(t, f, xlsx.SheetMembers)
	if len(mem) != 3 || mem[0][0] != "Household_ID" || mem[1][0] != "H1" || mem[2][1] != "Mpho" {
		t.Errorf("members = %v", mem)
	}

	kids := rows(t, f, xlsx.SheetChildren)
	if len(kids) != 2 || kids[1][0] != "H2" || kids[1][2] != "6" {
		t.Errorf("children = %v", kids)
	}
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := xlsx.Export(nil, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty workbook expected, got no bytes")
	}
}
