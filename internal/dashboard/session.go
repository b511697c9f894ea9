package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/csg33k/household-census/internal/domain"
	"github.com/csg33k/household-census/internal/ports"
)

// StatusFetching is shown until the record list has been fetched.
const StatusFetching = "Fetching all records..."

// Session is the state of one dashboard page: the fetched records, the
// current filter and its projection, and the selected row. A page reload
// starts a new Session. Methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	loaded       bool
	summary      domain.Summary
	summaryError string
	status       string

	all       []domain.Record
	displayed []domain.Record
	columns   []Column
	query     Query
	activeID  string
}

func NewSession() *Session {
	return &Session{status: StatusFetching}
}

// Load fetches the summary and then the records. Each failure is reported
// once as status text; nothing is retried.
func (s *Session) Load(ctx context.Context, src ports.RecordSource, logger *slog.Logger) {
	summary, sumErr := src.Summary(ctx)
	records, recErr := src.Records(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	if sumErr != nil {
		s.summaryError = fetchStatus("summary", sumErr)
		logger.Warn("dashboard summary fetch failed", "err", sumErr)
	} else {
		s.summary = summary
		s.summaryError = ""
	}

	if recErr != nil {
		s.status = fetchStatus("records", recErr)
		logger.Warn("dashboard records fetch failed", "err", recErr)
		return
	}
	s.status = ""
	s.all = records
	s.displayed = records
	s.columns = FilterColumns(records)
	s.query = Query{}
	s.activeID = ""
	logger.Info("dashboard records loaded", "records", len(records))
}

func fetchStatus(what string, err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("Error fetching %s: %s", what, apiErr.Message)
	}
	return fmt.Sprintf("Failed to connect to API for %s. Check your API URL.", what)
}

// Apply re-runs the filter over every fetched record and stores the result
// as the displayed view.
func (s *Session) Apply(q Query) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
	s.displayed = Filter(s.all, q)
	return s.displayed
}

// Select marks the record with the given household ID active, replacing any
// previous selection.
func (s *Session) Select(householdID string) (domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.all {
		if r.HouseholdID() == householdID {
			s.activeID = householdID
			return r, true
		}
	}
	return domain.Record{}, false
}

// Find looks a record up without changing the selection.
func (s *Session) Find(householdID string) (domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.all {
		if r.HouseholdID() == householdID {
			return r, true
		}
	}
	return domain.Record{}, false
}

// Displayed returns the current filtered view.
func (s *Session) Displayed() []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayed
}

// View is a consistent copy of the session for rendering.
type View struct {
	ID           string
	Loaded       bool
	Summary      domain.Summary
	SummaryError string
	Status       string
	Columns      []Column
	Query        Query
	Rows         []Row
	ActiveID     string
	Total        int
}

func (s *Session) View(id string) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:           id,
		Loaded:       s.loaded,
		Summary:      s.summary,
		SummaryError: s.summaryError,
		Status:       s.status,
		Columns:      s.columns,
		Query:        s.query,
		Rows:         Rows(s.displayed),
		ActiveID:     s.activeID,
		Total:        len(s.all),
	}
}
