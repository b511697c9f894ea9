package census

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/csg33k/household-census/internal/domain"
	"github.com/csg33k/household-census/internal/ports"
)

// ErrNoMembers is returned before any network call when the payload holds
// no adult members.
var ErrNoMembers = errors.New("no adult members in submission")

const (
	MsgNoMembers    = "Please add at least one adult member."
	MsgSuccess      = "Data submitted successfully! Thank you."
	MsgNetworkError = "Network Error: Could not submit data. Check your API URL and internet connection."
)

// Result is what the form shows after an attempt.
type Result struct {
	Outcome domain.Outcome
	Message string
}

type Service struct {
	writer   ports.CensusWriter
	journal  ports.SubmissionJournal
	notifier ports.SubmissionNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires the submission pipeline. journal and notifier may be nil.
func NewService(w ports.CensusWriter, j ports.SubmissionJournal, n ports.SubmissionNotifier, logger *slog.Logger) *Service {
	return &Service{writer: w, journal: j, notifier: n, logger: logger, now: time.Now}
}

// Submit sends one household to the write endpoint and reports the outcome.
// The only returned error is ErrNoMembers; remote failures are carried in
// the Result so the caller can render them.
func (s *Service) Submit(ctx context.Context, p *domain.Payload) (Result, error) {
	if len(p.Members) == 0 {
		s.logger.Info("submission refused", "reason", "no members", "children", len(p.Children))
		return Result{Outcome: domain.OutcomeInvalid, Message: MsgNoMembers}, ErrNoMembers
	}

	start := s.now()
	err := s.writer.Submit(ctx, p)
	elapsed := s.now().Sub(start)

	res, remote := classify(err)
	attrs := []any{"outcome", res.Outcome, "members", len(p.Members), "children", len(p.Children), "duration", elapsed}
	if err != nil {
		s.logger.Warn("submission failed", append(attrs, "err", err)...)
	} else {
		s.logger.Info("submission accepted", attrs...)
	}

	s.record(ctx, &domain.SubmissionAttempt{
		Outcome:   res.Outcome,
		Members:   len(p.Members),
		Children:  len(p.Children),
		Message:   remote,
		Duration:  elapsed,
		CreatedAt: start.UTC(),
	})
	return res, nil
}

func classify(err error) (Result, string) {
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return Result{Outcome: domain.OutcomeSuccess, Message: MsgSuccess}, ""
	case errors.As(err, &apiErr):
		return Result{
			Outcome: domain.OutcomeRejected,
			Message: fmt.Sprintf("Submission rejected: %s", apiErr.Message),
		}, apiErr.Message
	default:
		return Result{Outcome: domain.OutcomeFailed, Message: MsgNetworkError}, err.Error()
	}
}

func (s *Service) record(ctx context.Context, a *domain.SubmissionAttempt) {
	if s.journal != nil {
		// a cancelled request must not lose the journal entry
		if err := s.journal.Append(context.WithoutCancel(ctx), a); err != nil {
			s.logger.Error("journal append failed", "err", err)
		}
	}
	if s.notifier != nil {
		s.notifier.SubmissionRecorded(*a)
	}
}
