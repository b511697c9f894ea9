// Package templates renders the census form and the admin dashboard.
// Pages and htmx fragments are html/template definitions exposed as templ
// components so handlers render everything the same way.
package templates

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"

	"github.com/csg33k/household-census/internal/census"
	"github.com/csg33k/household-census/internal/dashboard"
	"github.com/csg33k/household-census/internal/domain"
)

//go:embed html/*.html
var files embed.FS

var (
	base      = template.Must(template.New("base").Funcs(funcs).ParseFS(files, "html/layout.html", "html/form_parts.html", "html/admin_parts.html"))
	formTmpl  = template.Must(template.Must(base.Clone()).ParseFS(files, "html/form.html"))
	adminTmpl = template.Must(template.Must(base.Clone()).ParseFS(files, "html/admin.html"))
)

func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

// Status is the alert shown in the form's status area.
type Status struct {
	Kind    string // success, error or info
	Message string
}

func SuccessStatus(msg string) *Status { return &Status{Kind: "success", Message: msg} }

func ErrorStatus(msg string) *Status { return &Status{Kind: "error", Message: msg} }

// ── Census form ───────────────────────────────────────────────────────────────

type FormPage struct {
	Title     string
	CSRFToken string
	Notice    template.HTML
	Form      FormView
}

type FormView struct {
	DraftID  string
	Members  []SectionView
	Children []SectionView
	Status   *Status
}

type SectionView struct {
	DraftID string
	ID      string
	Title   string
	Ordinal int
	Fields  []FieldView
	Groups  []GroupView
}

type FieldView struct {
	SectionID string
	Key       string
	Name      string
	Label     string
	Type      census.InputType
	Options   []string
	Value     string
	ReadOnly  bool
	// ElementID wraps the Age input; AgeTarget on a child's date of birth
	// points at it.
	ElementID string
	AgeTarget string
}

type GroupView struct {
	SectionID string
	Name      string
	ElementID string
	Trigger   FieldView
	Fields    []FieldView
	Visible   bool
}

func NewFormView(draftID string, d *census.Draft, st *Status) FormView {
	v := FormView{DraftID: draftID, Status: st}
	for _, s := range d.Sections(census.KindMember) {
		v.Members = append(v.Members, NewSectionView(draftID, s))
	}
	for _, s := range d.Sections(census.KindChild) {
		v.Children = append(v.Children, NewSectionView(draftID, s))
	}
	return v
}

func NewSectionView(draftID string, s census.Section) SectionView {
	schema := s.Schema()
	v := SectionView{
		DraftID: draftID,
		ID:      s.ID,
		Title:   schema.Title,
		Ordinal: s.Ordinal,
	}
	for _, f := range schema.Fields {
		fv := fieldView(s, f)
		if s.Kind == census.KindChild && f.Key == domain.KeyDateOfBirth {
			fv.AgeTarget = ageElementID(s.ID)
		}
		v.Fields = append(v.Fields, fv)
	}
	for _, g := range schema.Groups {
		v.Groups = append(v.Groups, NewGroupView(s, g))
	}
	return v
}

func NewGroupView(s census.Section, g census.Group) GroupView {
	gv := GroupView{
		SectionID: s.ID,
		Name:      g.Name,
		ElementID: "group-" + s.ID + "-" + g.Name,
		Trigger:   fieldView(s, g.Trigger),
		Visible:   s.GroupVisible(g),
	}
	for _, f := range g.Fields {
		gv.Fields = append(gv.Fields, fieldView(s, f))
	}
	return gv
}

func fieldView(s census.Section, f census.FieldSpec) FieldView {
	fv := FieldView{
		SectionID: s.ID,
		Key:       f.Key,
		Name:      s.InputName(f.Key),
		Label:     f.Label,
		Type:      f.Type,
		Options:   f.Options,
		Value:     s.Value(f.Key),
		ReadOnly:  f.ReadOnly,
	}
	if f.Key == domain.KeyAge {
		fv.ElementID = ageElementID(s.ID)
	}
	return fv
}

func ageElementID(sectionID string) string { return "age-" + sectionID }

func Form(p FormPage) templ.Component { return component(formTmpl, "layout", p) }

// CensusForm is the whole form, swapped in after a successful submission.
func CensusForm(v FormView) templ.Component { return component(base, "census-form", v) }

func Section(v SectionView) templ.Component { return component(base, "section", v) }

func GroupFields(v GroupView) templ.Component { return component(base, "group", v) }

func AgeInput(s census.Section) templ.Component {
	return component(base, "age-input", fieldView(s, census.FieldSpec{
		Key:      domain.KeyAge,
		Label:    "Age",
		Type:     census.InputNumber,
		ReadOnly: true,
	}))
}

func StatusAlert(st Status) templ.Component { return component(base, "status", st) }

// Notice converts the markdown form notice to HTML. Raw HTML in the source
// is not passed through.
func Notice(md string) (template.HTML, error) {
	if md == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// ── Admin dashboard ───────────────────────────────────────────────────────────

type AdminPage struct {
	Title     string
	CSRFToken string
	SessionID string
	Fetching  string
}

// DashboardView is a session view plus the out-of-band swap flags of the
// fragment being rendered.
type DashboardView struct {
	dashboard.View
	OOB        bool
	OOBRecords bool
}

// Inline is v without out-of-band flags, for fragments nested in an
// element that is itself swapped out of band.
func (v DashboardView) Inline() DashboardView { return DashboardView{View: v.View} }

// ValuePlaceholder names the selected filter column in the value input.
func (v DashboardView) ValuePlaceholder() string {
	for _, c := range v.Columns {
		if c.Key == v.Query.Column {
			return "Search value for " + c.Label
		}
	}
	return "Value to search in selected column"
}

type DetailData struct {
	SessionID string
	Detail    dashboard.DetailView
	Records   DashboardView
}

func Admin(p AdminPage) templ.Component { return component(adminTmpl, "layout", p) }

func AdminData(v dashboard.View) templ.Component {
	return component(base, "admin-data", DashboardView{View: v})
}

// Records renders the records table. withFilters adds out-of-band swaps of
// the filter controls so their state follows the server's query.
func Records(v dashboard.View, withFilters bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := base.ExecuteTemplate(w, "records", DashboardView{View: v}); err != nil {
			return err
		}
		if withFilters {
			return base.ExecuteTemplate(w, "filter-value", DashboardView{View: v, OOB: true})
		}
		return nil
	})
}

// ResetFilters renders the records table with the whole filter bar swapped
// out of band.
func ResetFilters(v dashboard.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := base.ExecuteTemplate(w, "records", DashboardView{View: v}); err != nil {
			return err
		}
		return base.ExecuteTemplate(w, "filters", DashboardView{View: v, OOB: true})
	})
}

// Detail renders the detail panel and re-renders the table out of band so
// the active row moves.
func Detail(v dashboard.View, d dashboard.DetailView) templ.Component {
	return component(base, "detail", DetailData{
		SessionID: v.ID,
		Detail:    d,
		Records:   DashboardView{View: v, OOBRecords: true},
	})
}

func Journal(entries []domain.SubmissionAttempt) templ.Component {
	return component(base, "journal", entries)
}
