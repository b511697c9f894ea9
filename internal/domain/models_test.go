package domain_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/csg33k/household-census/internal/domain"
)

func TestFieldsUnmarshal_KeepsOrderAndValues(t *testing.T) {
	raw := `{"Household_ID":"H1","Block_Name":"A","Contact_No":26771234567,"Flag":true,"Notes":null,"Timestamp":"2024-01-02"}`

	var f domain.Fields
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	wantKeys := []string{"Household_ID", "Block_Name", "Contact_No", "Flag", "Notes", "Timestamp"}
	if got := f.Keys(); !reflect.DeepEqual(got, wantKeys) {
		t.Fatalf("keys = %v, want %v", got, wantKeys)
	}
	if got := f.Get("Contact_No"); got != "26771234567" {
		t.Errorf("Contact_No = %q, want number text verbatim", got)
	}
	if got := f.Get("Flag"); got != "true" {
		t.Errorf("Flag = %q, want %q", got, "true")
	}
	notes, ok := f.Lookup("Notes")
	if !ok || !notes.Null || !notes.Empty() {
		t.Errorf("Notes = %+v, want null field", notes)
	}
}

func TestFieldsUnmarshal_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	var f domain.Fields
	if err := json.Unmarshal([]byte(`{"A":"1","B":"2","A":"3"}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := f.Keys(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("keys = %v", got)
	}
	if got := f.Get("A"); got != "3" {
		t.Errorf("A = %q, want %q", got, "3")
	}
}

func TestFieldsUnmarshal_RejectsNonObject(t *testing.T) {
	var f domain.Fields
	if err := json.Unmarshal([]byte(`["a"]`), &f); err == nil {
		t.Fatal("expected error for array input")
	}
}

func TestPayloadMarshal_OrderedObject(t *testing.T) {
	p := domain.Payload{
		Household: domain.Fields{
			{Key: domain.KeyBlockName, Value: "Block 7"},
			{Key: domain.KeyAddress, Value: "Plot 12"},
			{Key: domain.KeyContactNo, Value: ""},
		},
		Members:  []domain.Fields{{{Key: domain.KeyFirstName, Value: "Neo"}}},
		Children: []domain.Fields{},
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"household":{"Block_Name":"Block 7","Residential_Address":"Plot 12","Contact_No":""},"members":[{"First_Name":"Neo"}],"children":[]}`
	if string(b) != want {
		t.Errorf("payload =\n%s\nwant\n%s", b, want)
	}
}

func TestRecordDecode(t *testing.T) {
	raw := `{"Household":{"Household_ID":"H9","Block_Name":"B"},"Members":[{"First_Name":"Kago"}],"Children":[]}`
	var r domain.Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.HouseholdID() != "H9" {
		t.Errorf("HouseholdID = %q", r.HouseholdID())
	}
	if len(r.Members) != 1 || r.Members[0].Get(domain.KeyFirstName) != "Kago" {
		t.Errorf("members = %+v", r.Members)
	}
	if len(r.Children) != 0 {
		t.Errorf("children = %+v", r.Children)
	}
}

func TestFieldsSet(t *testing.T) {
	var f domain.Fields
	f.Set("Age", "")
	f.Set("Age", "7")
	if len(f) != 1 || f.Get("Age") != "7" {
		t.Errorf("fields = %+v", f)
	}
}
