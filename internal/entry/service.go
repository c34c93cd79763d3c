package entry

import (
	"context"
	"strings"
	"time"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

// Store defines the persistence operations the entry and vote ledger needs.
// AddVoterIfAbsent must be atomic with respect to concurrent callers: the
// membership check, the vote insert, and the tally increment are one
// indivisible operation.
type Store interface {
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	CountEntries(ctx context.Context, competitionID string) (int64, error)
	InsertEntry(ctx context.Context, e *models.Entry) error
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	ListEntriesByCompetition(ctx context.Context, competitionID string) ([]models.Entry, error)
	AddVoterIfAbsent(ctx context.Context, entryID, voterID string, at time.Time) (bool, error)
	SetEntryApproval(ctx context.Context, entryID string, approved bool) error
}

// VoteResult reports the outcome of a cast vote. A duplicate vote is not a
// failure: Accepted is false and the tally is unchanged.
type VoteResult struct {
	Accepted   bool
	TotalVotes int
}

// Service owns entries and their vote sets.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Submit stores a new entry for user in the given competition. The
// competition must exist, still accept entries, and have room left.
func (s *Service) Submit(ctx context.Context, user *models.User, competitionID string, req *models.EntryRequest) (*models.Entry, error) {
	if err := validateEntry(req); err != nil {
		return nil, err
	}

	comp, err := s.store.GetCompetition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if !comp.AcceptsEntries() {
		return nil, apperr.ErrCompetitionClosed
	}

	count, err := s.store.CountEntries(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if count >= int64(comp.MaxEntries) {
		return nil, apperr.ErrEntryLimitReached
	}

	e := &models.Entry{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		MediaURL:      req.MediaURL,
		CompetitionID: comp.ID,
		ContestantID:  user.ID,
		Votes:         []models.Vote{},
		TotalVotes:    0,
		IsApproved:    false,
		SubmittedAt:   s.now(),
	}
	if err := s.store.InsertEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// CastVote records user's vote on the entry. Voting twice is benign: the
// second call reports Accepted false and leaves the tally untouched, even
// when both calls race.
func (s *Service) CastVote(ctx context.Context, user *models.User, entryID string) (*VoteResult, error) {
	accepted, err := s.store.AddVoterIfAbsent(ctx, entryID, user.ID, s.now())
	if err != nil {
		return nil, err
	}

	// The insert distinguishes "already voted" from "no such entry" only
	// by a follow-up read.
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	return &VoteResult{Accepted: accepted, TotalVotes: e.TotalVotes}, nil
}

// Tally returns the number of distinct voters recorded against the entry.
func (s *Service) Tally(ctx context.Context, entryID string) (int, error) {
	e, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return 0, err
	}
	return e.TotalVotes, nil
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, entryID string) (*models.Entry, error) {
	return s.store.GetEntry(ctx, entryID)
}

// ListByCompetition returns a competition's entries, highest tally first.
func (s *Service) ListByCompetition(ctx context.Context, competitionID string) ([]models.Entry, error) {
	if _, err := s.store.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}
	return s.store.ListEntriesByCompetition(ctx, competitionID)
}

// SetApproval flips an entry's approval flag. Admin only.
func (s *Service) SetApproval(ctx context.Context, user *models.User, entryID string, approved bool) error {
	if !user.IsAdmin() {
		return apperr.ErrForbidden
	}
	return s.store.SetEntryApproval(ctx, entryID, approved)
}

func validateEntry(req *models.EntryRequest) error {
	ve := &apperr.ValidationError{}

	if strings.TrimSpace(req.Title) == "" {
		ve.Add("title", "please provide an entry title")
	}
	if req.Description == "" {
		ve.Add("description", "please provide a description")
	}
	if req.MediaURL == "" {
		ve.Add("media_url", "please provide a media url")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}
