package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"

	"github.com/csg33k/household-census/internal/census"
	"github.com/csg33k/household-census/internal/dashboard"
	"github.com/csg33k/household-census/internal/ports"
	"github.com/csg33k/household-census/internal/session"
)

const journalLimit = 20

// Deps are the collaborators the handlers need. Live may be nil, which
// disables the dashboard websocket endpoint.
type Deps struct {
	Source   ports.RecordSource
	Census   *census.Service
	Journal  ports.SubmissionJournal
	Live     http.Handler
	Drafts   *session.Store[*census.Draft]
	Sessions *session.Store[*dashboard.Session]
	Labels   *dashboard.Labeler
	Notice   template.HTML
	Logger   *slog.Logger
}

type Handler struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Handler {
	if d.Labels == nil {
		d.Labels = dashboard.NewLabeler(nil)
	}
	return &Handler{Deps: d, now: time.Now}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("POST /form/members", h.addMember)
	mux.HandleFunc("POST /form/children", h.addChild)
	mux.HandleFunc("DELETE /form/sections/{id}", h.removeSection)
	mux.HandleFunc("POST /form/sections/{id}/toggle/{group}", h.toggleGroup)
	mux.HandleFunc("POST /form/sections/{id}/age", h.childAge)
	mux.HandleFunc("POST /submit", h.submit)

	mux.HandleFunc("GET /admin", h.admin)
	mux.HandleFunc("POST /admin/load", h.loadDashboard)
	mux.HandleFunc("GET /admin/records", h.records)
	mux.HandleFunc("GET /admin/records/{id}", h.recordDetail)
	mux.HandleFunc("GET /admin/records/{id}/pdf", h.recordPDF)
	mux.HandleFunc("GET /admin/export.xlsx", h.exportXLSX)
	mux.HandleFunc("GET /admin/journal", h.journal)
	if h.Live != nil {
		mux.Handle("GET /admin/ws", h.Live)
	}
	return mux
}

// render writes a templ component to the response.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), 500)
	}
}

// retargetStatus sends the response body to the form's status area instead
// of the requesting element, leaving the rest of the form untouched.
func retargetStatus(w http.ResponseWriter) {
	w.Header().Set("HX-Retarget", "#status-message")
	w.Header().Set("HX-Reswap", "innerHTML")
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) (string, *census.Draft, bool) {
	id := r.FormValue("draft")
	d, err := h.Drafts.Get(id)
	if err != nil {
		http.Error(w, "Your form session has expired. Reload the page to start again.", http.StatusGone)
		return "", nil, false
	}
	return id, d, true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, *dashboard.Session, bool) {
	id := r.FormValue("session")
	s, err := h.Sessions.Get(id)
	if err != nil {
		http.Error(w, "This dashboard session has expired. Reload the page.", http.StatusGone)
		return "", nil, false
	}
	return id, s, true
}

func sectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, census.ErrSectionNotFound), errors.Is(err, census.ErrUnknownGroup):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, census.ErrRemovalNotConfirmed), errors.Is(err, census.ErrNotChildSection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), 500)
	}
}

func csrfToken(r *http.Request) string { return csrf.Token(r) }
