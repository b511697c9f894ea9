package handlers

import (
	"errors"
	"net/http"

	"github.com/csg33k/household-census/internal/census"
	"github.com/csg33k/household-census/internal/domain"
	"github.com/csg33k/household-census/internal/templates"
)

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	d := census.NewDraft()
	id := h.Drafts.Put(d)
	render(w, r, templates.Form(templates.FormPage{
		Title:     "Household Census Form",
		CSRFToken: csrfToken(r),
		Notice:    h.Notice,
		Form:      templates.NewFormView(id, d, nil),
	}))
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	id, d, ok := h.draft(w, r)
	if !ok {
		return
	}
	render(w, r, templates.Section(templates.NewSectionView(id, d.AddMember())))
}

func (h *Handler) addChild(w http.ResponseWriter, r *http.Request) {
	id, d, ok := h.draft(w, r)
	if !ok {
		return
	}
	render(w, r, templates.Section(templates.NewSectionView(id, d.AddChild())))
}

// removeSection answers with an empty body so htmx drops the section.
func (h *Handler) removeSection(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.draft(w, r)
	if !ok {
		return
	}
	if err := d.Remove(r.PathValue("id"), r.FormValue("confirmed") == "true"); err != nil {
		sectionError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) toggleGroup(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.draft(w, r)
	if !ok {
		return
	}
	d.Sync(r.PostForm)

	sec, found := d.Section(r.PathValue("id"))
	if !found {
		sectionError(w, census.ErrSectionNotFound)
		return
	}
	g, found := sec.Schema().Group(r.PathValue("group"))
	if !found {
		sectionError(w, census.ErrUnknownGroup)
		return
	}
	sec, g, _, err := d.Toggle(sec.ID, g.Name, r.FormValue(sec.InputName(g.Trigger.Key)))
	if err != nil {
		sectionError(w, err)
		return
	}
	render(w, r, templates.GroupFields(templates.NewGroupView(sec, g)))
}

func (h *Handler) childAge(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.draft(w, r)
	if !ok {
		return
	}
	d.Sync(r.PostForm)

	sec, found := d.Section(r.PathValue("id"))
	if !found {
		sectionError(w, census.ErrSectionNotFound)
		return
	}
	sec, err := d.SetDateOfBirth(sec.ID, r.FormValue(sec.InputName(domain.KeyDateOfBirth)), h.now())
	if err != nil {
		sectionError(w, err)
		return
	}
	render(w, r, templates.AgeInput(sec))
}

// submit sends the household to the census API. Success swaps in a fresh
// form with one member section; every other outcome only updates the
// status area so nothing the user typed is lost.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, d, ok := h.draft(w, r)
	if !ok {
		return
	}
	d.Sync(r.PostForm)

	res, err := h.Census.Submit(r.Context(), d.Collect(r.PostForm))
	if errors.Is(err, census.ErrNoMembers) {
		retargetStatus(w)
		render(w, r, templates.StatusAlert(*templates.ErrorStatus(res.Message)))
		return
	}
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	if res.Outcome != domain.OutcomeSuccess {
		retargetStatus(w)
		render(w, r, templates.StatusAlert(*templates.ErrorStatus(res.Message)))
		return
	}
	d.Reset()
	render(w, r, templates.CensusForm(templates.NewFormView(id, d, templates.SuccessStatus(res.Message))))
}
