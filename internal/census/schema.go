// Package census holds the intake form: section schemas, the per-page draft
// of repeatable Member/Child sections, the age calculator and the
// submission pipeline.
package census

import "github.com/csg33k/household-census/internal/domain"

type SectionKind string

const (
	KindMember SectionKind = "member"
	KindChild  SectionKind = "child"
)

type InputType string

const (
	InputText   InputType = "text"
	InputDate   InputType = "date"
	InputTel    InputType = "tel"
	InputSelect InputType = "select"
	InputNumber InputType = "number"
)

// ShowValue is the companion select value that reveals a conditional group.
const ShowValue = "Yes"

var yesNo = []string{"", "Yes", "No"}

// FieldSpec describes one tagged input of a section.
type FieldSpec struct {
	Key      string
	Label    string
	Type     InputType
	Options  []string
	ReadOnly bool
}

// Group is a set of fields shown only while its Trigger select reads "Yes".
type Group struct {
	Name    string
	Trigger FieldSpec
	Fields  []FieldSpec
}

type Schema struct {
	Kind   SectionKind
	Title  string
	Fields []FieldSpec
	Groups []Group
}

func (s Schema) Group(name string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// Keys lists every tagged input key in form order.
func (s Schema) Keys() []string {
	var keys []string
	for _, f := range s.Fields {
		keys = append(keys, f.Key)
	}
	for _, g := range s.Groups {
		keys = append(keys, g.Trigger.Key)
		for _, f := range g.Fields {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

func GroupVisible(triggerValue string) bool { return triggerValue == ShowValue }

func SchemaFor(kind SectionKind) Schema {
	if kind == KindChild {
		return childSchema
	}
	return memberSchema
}

var (
	baptismGroup = Group{
		Name:    "baptism",
		Trigger: FieldSpec{Key: "Baptized_YN", Label: "Baptized?", Type: InputSelect, Options: yesNo},
		Fields: []FieldSpec{
			{Key: "Date_of_Baptism", Label: "Date of Baptism", Type: InputDate},
			{Key: "Church_of_Baptism", Label: "Church of Baptism", Type: InputText},
		},
	}
	communionGroup = Group{
		Name:    "communion",
		Trigger: FieldSpec{Key: "First_Communion", Label: "First Holy Communion?", Type: InputSelect, Options: yesNo},
		Fields: []FieldSpec{
			{Key: "Date_1st_Communion", Label: "Date of First Communion", Type: InputDate},
			{Key: "Church_of_1st_Communion", Label: "Church of First Communion", Type: InputText},
		},
	}
	confirmationGroup = Group{
		Name:    "confirmation",
		Trigger: FieldSpec{Key: "Confirmed_YN", Label: "Confirmed?", Type: InputSelect, Options: yesNo},
		Fields: []FieldSpec{
			{Key: "Date_of_Confirmation", Label: "Date of Confirmation", Type: InputDate},
			{Key: "Church_of_Confirmation", Label: "Church of Confirmation", Type: InputText},
		},
	}
	marriageGroup = Group{
		Name:    "marriage",
		Trigger: FieldSpec{Key: "Married_YN", Label: "Married in Church?", Type: InputSelect, Options: yesNo},
		Fields: []FieldSpec{
			{Key: "Church_Marriage_Date", Label: "Church Marriage Date", Type: InputDate},
			{Key: "Civil_Court_Marriage_Date", Label: "Civil Marriage Date", Type: InputDate},
		},
	}
	dikabeloGroup = Group{
		Name:    "dikabelo",
		Trigger: FieldSpec{Key: "Dikabelo_YN", Label: "Contributes Dikabelo?", Type: InputSelect, Options: yesNo},
		Fields: []FieldSpec{
			{Key: "Dikabelo_Card_No", Label: "Dikabelo Card No.", Type: InputText},
		},
	}

	memberSchema = Schema{
		Kind:  KindMember,
		Title: "Adult Member",
		Fields: []FieldSpec{
			{Key: domain.KeyFirstName, Label: "First Name", Type: InputText},
			{Key: domain.KeyLastName, Label: "Last Name", Type: InputText},
			{Key: "Gender", Label: "Gender", Type: InputSelect, Options: []string{"", "Male", "Female"}},
			{Key: domain.KeyDateOfBirth, Label: "Date of Birth", Type: InputDate},
			{Key: "Cell_No", Label: "Cell No.", Type: InputTel},
			{Key: "Occupation", Label: "Occupation", Type: InputText},
		},
		Groups: []Group{baptismGroup, communionGroup, confirmationGroup, marriageGroup, dikabeloGroup},
	}

	childSchema = Schema{
		Kind:  KindChild,
		Title: "Child",
		Fields: []FieldSpec{
			{Key: domain.KeyFirstName, Label: "First Name", Type: InputText},
			{Key: domain.KeyLastName, Label: "Last Name", Type: InputText},
			{Key: "Gender", Label: "Gender", Type: InputSelect, Options: []string{"", "Male", "Female"}},
			{Key: domain.KeyDateOfBirth, Label: "Date of Birth", Type: InputDate},
			{Key: domain.KeyAge, Label: "Age", Type: InputNumber, ReadOnly: true},
			{Key: "School_Grade", Label: "School / Grade", Type: InputText},
		},
		Groups: []Group{baptismGroup, communionGroup, confirmationGroup},
	}
)
