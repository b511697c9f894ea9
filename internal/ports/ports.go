package ports

import (
	"context"

	"github.com/csg33k/household-census/internal/domain"
)

// RecordSource defines the read side of the census API.
type RecordSource interface {
	Summary(ctx context.Context) (domain.Summary, error)
	Records(ctx context.Context) ([]domain.Record, error)
}

// CensusWriter defines the write side of the census API.
type CensusWriter interface {
	// Submit posts one household payload. It returns an error wrapping
	// domain.ErrTransport when the API cannot be reached, or a
	// *domain.APIError when the API rejects the payload.
	Submit(ctx context.Context, p *domain.Payload) error
}

// SubmissionJournal defines persistence for submission attempt outcomes.
type SubmissionJournal interface {
	Append(ctx context.Context, a *domain.SubmissionAttempt) error
	Recent(ctx context.Context, limit int) ([]domain.SubmissionAttempt, error)
}

// SubmissionNotifier is told about every journaled attempt.
type SubmissionNotifier interface {
	SubmissionRecorded(a domain.SubmissionAttempt)
}
