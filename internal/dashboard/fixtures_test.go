package dashboard

import "github.com/csg33k/household-census/internal/domain"

func fields(kv ...string) domain.Fields {
	f := make(domain.Fields, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f = append(f, domain.Field{Key: kv[i], Value: kv[i+1]})
	}
	return f
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			Household: fields("Household_ID", "H1", "Block_Name", "Maru-a-Pula", "Residential_Address", "Plot 101", "Contact_No", "71000001", "Timestamp", "2024-03-01"),
			Members: []domain.Fields{
				fields("Member_ID", "M1", "Household_ID", "H1", "First_Name", "Kagiso", "Last_Name", "Molefe", "Baptized_YN", "Yes"),
				fields("Member_ID", "M2", "Household_ID", "H1", "First_Name", "Naledi", "Last_Name", "Molefe", "Baptized_YN", "No"),
			},
			Children: []domain.Fields{
				fields("Child_ID", "C1", "Household_ID", "H1", "First_Name", "Tumi", "Last_Name", "Molefe", "Age", "9", "Baptized_YN", "Yes"),
			},
		},
		{
			Household: fields("Household_ID", "H2", "Block_Name", "Extension 12", "Residential_Address", "Plot 2040", "Contact_No", "72000002"),
			Members: []domain.Fields{
				fields("Member_ID", "M3", "Household_ID", "H2", "First_Name", "Boitumelo", "Last_Name", "Sebego", "Baptized_YN", "No"),
			},
		},
		{
			Household: fields("Household_ID", "H3", "Block_Name", "Gaborone West", "Residential_Address", "Phase 2", "Contact_No", "73000003"),
			Children: []domain.Fields{
				fields("Child_ID", "C2", "Household_ID", "H3", "First_Name", "Lorato", "Last_Name", "Kgosi", "Age", "4"),
			},
		},
	}
}

func ids(records []domain.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.HouseholdID()
	}
	return out
}
