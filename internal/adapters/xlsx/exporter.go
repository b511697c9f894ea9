// Package xlsx exports dashboard records to an Excel workbook with one sheet
// per entity: Households, Members and Children.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/csg33k/household-census/internal/domain"
)

const (
	SheetHouseholds = "Households"
	SheetMembers    = "Members"
	SheetChildren   = "Children"
)

// Export writes records to w. Each sheet's columns are the union of the
// keys seen in first-seen order. Member and Child rows lead with the
// owning Household_ID.
func Export(records []domain.Record, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetHouseholds); err != nil {
		return err
	}
	for _, name := range []string{SheetMembers, SheetChildren} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"EDEDED"}},
	})
	if err != nil {
		return err
	}

	var households, members, children []domain.Fields
	var memberOwners, childOwners []string
	for _, r := range records {
		households = append(households, r.Household)
		for _, m := range r.Members {
			members = append(members, m)
			memberOwners = append(memberOwners, r.HouseholdID())
		}
		for _, c := range r.Children {
			children = append(children, c)
			childOwners = append(childOwners, r.HouseholdID())
		}
	}

	if err := writeSheet(f, SheetHouseholds, bold, households, nil); err != nil {
		return err
	}
	if err := writeSheet(f, SheetMembers, bold, members, memberOwners); err != nil {
		return err
	}
	if err := writeSheet(f, SheetChildren, bold, children, childOwners); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, rows []domain.Fields, owners []string) error {
	cols := columns(rows, owners != nil)

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	if len(cols) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for i, row := range rows {
		vals := make([]any, len(cols))
		for j, key := range cols {
			v := row.Get(key)
			if owners != nil && key == domain.KeyHouseholdID && v == "" {
				v = owners[i]
			}
			vals[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func columns(rows []domain.Fields, withOwner bool) []string {
	var cols []string
	seen := map[string]bool{}
	if withOwner {
		cols = append(cols, domain.KeyHouseholdID)
		seen[domain.KeyHouseholdID] = true
	}
	for _, r := range rows {
		for _, fld := range r {
			if !seen[fld.Key] {
				seen[fld.Key] = true
				cols = append(cols, fld.Key)
			}
		}
	}
	return cols
}
