package competition

import (
	"context"
	"strings"
	"time"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/auth"
	"github.com/amolv/contesthub/internal/models"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
	defaultMaxEntries = 100
)

// Store defines the persistence operations the lifecycle manager needs.
type Store interface {
	InsertCompetition(ctx context.Context, c *models.Competition) error
	ListCompetitions(ctx context.Context) ([]models.Competition, error)
	GetCompetition(ctx context.Context, id string) (*models.Competition, error)
	ReplaceCompetition(ctx context.Context, c *models.Competition) error
	DeleteCompetition(ctx context.Context, id string) error
	DeleteEntriesByCompetition(ctx context.Context, competitionID string) error
}

// Service owns competition records and their status state machine.
// Authorization is resolved here, before any mutation is attempted.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create validates the payload and stores a new competition owned by user,
// starting in the upcoming status.
func (s *Service) Create(ctx context.Context, user *models.User, req *models.CompetitionRequest) (*models.Competition, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	c := &models.Competition{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		CreatorID:   user.ID,
		StartDate:   *req.StartDate,
		EndDate:     *req.EndDate,
		MaxEntries:  defaultMaxEntries,
		Status:      models.StatusUpcoming,
		CreatedAt:   s.now(),
	}
	if req.MaxEntries != nil {
		c.MaxEntries = *req.MaxEntries
	}
	if req.EntryFee != nil {
		c.EntryFee = *req.EntryFee
	}
	if req.PrizePool != nil {
		c.PrizePool = *req.PrizePool
	}

	if err := s.store.InsertCompetition(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every competition, newest first.
func (s *Service) List(ctx context.Context) ([]models.Competition, error) {
	return s.store.ListCompetitions(ctx)
}

// Get returns one competition by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Competition, error) {
	return s.store.GetCompetition(ctx, id)
}

// Update applies a patch to an existing competition. Only the creator or an
// admin may mutate; date changes are re-validated and status changes must
// follow the monotonic lifecycle.
func (s *Service) Update(ctx context.Context, user *models.User, id string, patch *models.CompetitionPatch) (*models.Competition, error) {
	c, err := s.store.GetCompetition(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanManage(user, c.CreatorID) {
		return nil, apperr.ErrForbidden
	}

	if err := applyPatch(c, patch); err != nil {
		return nil, err
	}

	if err := s.store.ReplaceCompetition(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a competition and every entry it holds, so no entry is
// left pointing at a deleted competition.
func (s *Service) Delete(ctx context.Context, user *models.User, id string) error {
	c, err := s.store.GetCompetition(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanManage(user, c.CreatorID) {
		return apperr.ErrForbidden
	}

	if err := s.store.DeleteCompetition(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteEntriesByCompetition(ctx, id)
}

// applyPatch mutates c in place, validating the result.
func applyPatch(c *models.Competition, patch *models.CompetitionPatch) error {
	ve := &apperr.ValidationError{}

	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" || len(t) > maxTitleLen {
			ve.Add("title", "title must be 1-100 characters")
		} else {
			c.Title = t
		}
	}
	if patch.Description != nil {
		if *patch.Description == "" || len(*patch.Description) > maxDescriptionLen {
			ve.Add("description", "description must be 1-500 characters")
		} else {
			c.Description = *patch.Description
		}
	}
	if patch.Category != nil {
		if !models.ValidCategory(*patch.Category) {
			ve.Add("category", "unknown category")
		} else {
			c.Category = *patch.Category
		}
	}
	if patch.StartDate != nil {
		c.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		c.EndDate = *patch.EndDate
	}
	if !c.StartDate.Before(c.EndDate) {
		ve.Add("start_date", "start date must be before end date")
	}
	if patch.MaxEntries != nil {
		if *patch.MaxEntries < 1 {
			ve.Add("max_entries", "max entries must be positive")
		} else {
			c.MaxEntries = *patch.MaxEntries
		}
	}
	if patch.EntryFee != nil {
		if *patch.EntryFee < 0 {
			ve.Add("entry_fee", "entry fee cannot be negative")
		} else {
			c.EntryFee = *patch.EntryFee
		}
	}
	if patch.PrizePool != nil {
		if *patch.PrizePool < 0 {
			ve.Add("prize_pool", "prize pool cannot be negative")
		} else {
			c.PrizePool = *patch.PrizePool
		}
	}

	if !ve.Empty() {
		return ve
	}

	if patch.Status != nil {
		if !canTransition(c.Status, *patch.Status) {
			return apperr.ErrInvalidTransition
		}
		c.Status = *patch.Status
	}

	return nil
}

// validateRequest checks a creation payload field by field.
func validateRequest(req *models.CompetitionRequest) error {
	ve := &apperr.ValidationError{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		ve.Add("title", "please provide a competition title")
	} else if len(title) > maxTitleLen {
		ve.Add("title", "title cannot be more than 100 characters")
	}

	if req.Description == "" {
		ve.Add("description", "please provide a description")
	} else if len(req.Description) > maxDescriptionLen {
		ve.Add("description", "description cannot be more than 500 characters")
	}

	if !models.ValidCategory(req.Category) {
		ve.Add("category", "please provide a valid category")
	}

	switch {
	case req.StartDate == nil:
		ve.Add("start_date", "please provide a start date")
	case req.EndDate == nil:
		ve.Add("end_date", "please provide an end date")
	case !req.StartDate.Before(*req.EndDate):
		ve.Add("start_date", "start date must be before end date")
	}

	if req.MaxEntries != nil && *req.MaxEntries < 1 {
		ve.Add("max_entries", "max entries must be positive")
	}
	if req.EntryFee != nil && *req.EntryFee < 0 {
		ve.Add("entry_fee", "entry fee cannot be negative")
	}
	if req.PrizePool != nil && *req.PrizePool < 0 {
		ve.Add("prize_pool", "prize pool cannot be negative")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}
