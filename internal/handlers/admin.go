package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/csg33k/household-census/internal/adapters/pdf"
	"github.com/csg33k/household-census/internal/adapters/xlsx"
	"github.com/csg33k/household-census/internal/dashboard"
	"github.com/csg33k/household-census/internal/templates"
)

// admin renders the dashboard shell; the records are fetched by the
// shell's load request so the page shows the fetching status first.
func (h *Handler) admin(w http.ResponseWriter, r *http.Request) {
	id := h.Sessions.Put(dashboard.NewSession())
	render(w, r, templates.Admin(templates.AdminPage{
		Title:     "Census Admin Dashboard",
		CSRFToken: csrfToken(r),
		SessionID: id,
		Fetching:  dashboard.StatusFetching,
	}))
}

func (h *Handler) loadDashboard(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Load(r.Context(), h.Source, h.Logger)
	render(w, r, templates.AdminData(s.View(id)))
}

// records re-filters on every keystroke. Changing the column also
// re-renders the value input so it enables or disables with the column.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if r.FormValue("reset") != "" {
		s.Apply(dashboard.Query{})
		render(w, r, templates.ResetFilters(s.View(id)))
		return
	}
	s.Apply(dashboard.Query{
		Text:   r.FormValue("q"),
		Column: r.FormValue("column"),
		Value:  r.FormValue("value"),
	})
	render(w, r, templates.Records(s.View(id), r.Header.Get("HX-Trigger-Name") == "column"))
}

func (h *Handler) recordDetail(w http.ResponseWriter, r *http.Request) {
	id, s, ok := h.session(w, r)
	if !ok {
		return
	}
	rec, found := s.Select(r.PathValue("id"))
	if !found {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	render(w, r, templates.Detail(s.View(id), dashboard.Render(rec, h.Labels)))
}

func (h *Handler) recordPDF(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	rec, found := s.Find(r.PathValue("id"))
	if !found {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := pdf.GeneratePDF(dashboard.Render(rec, h.Labels), h.now(), &buf); err != nil {
		h.Logger.Error("render household pdf", "household", rec.HouseholdID(), "err", err)
		http.Error(w, err.Error(), 500)
		return
	}
	filename := fmt.Sprintf("household_%s.pdf", url.PathEscape(rec.HouseholdID()))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

// exportXLSX downloads the currently displayed (filtered) records.
func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := xlsx.Export(s.Displayed(), &buf); err != nil {
		h.Logger.Error("export xlsx", "err", err)
		http.Error(w, err.Error(), 500)
		return
	}
	filename := fmt.Sprintf("census_%s.xlsx", h.now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf.Bytes())
}

func (h *Handler) journal(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Journal.Recent(r.Context(), journalLimit)
	if err != nil {
		h.Logger.Error("read submission journal", "err", err)
		http.Error(w, err.Error(), 500)
		return
	}
	render(w, r, templates.Journal(entries))
}
