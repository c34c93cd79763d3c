package entry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

// fakeStore implements Store in memory. AddVoterIfAbsent holds the mutex
// for the whole check-and-insert, mirroring the single-document atomicity
// the Mongo store gets from UpdateOne.
type fakeStore struct {
	mu      sync.Mutex
	comps   map[string]models.Competition
	entries map[string]*models.Entry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		comps:   map[string]models.Competition{},
		entries: map[string]*models.Entry{},
	}
}

func (f *fakeStore) addCompetition(status string, maxEntries int) *models.Competition {
	c := models.Competition{
		ID:         primitive.NewObjectID(),
		Title:      "Test",
		Status:     status,
		MaxEntries: maxEntries,
	}
	f.comps[c.ID.Hex()] = c
	return &c
}

func (f *fakeStore) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comps[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) CountEntries(ctx context.Context, competitionID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.entries {
		if e.CompetitionID.Hex() == competitionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) InsertEntry(ctx context.Context, e *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = primitive.NewObjectID()
	clone := *e
	f.entries[e.ID.Hex()] = &clone
	return nil
}

func (f *fakeStore) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	clone := *e
	clone.Votes = append([]models.Vote(nil), e.Votes...)
	return &clone, nil
}

func (f *fakeStore) ListEntriesByCompetition(ctx context.Context, competitionID string) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Entry
	for _, e := range f.entries {
		if e.CompetitionID.Hex() == competitionID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) AddVoterIfAbsent(ctx context.Context, entryID, voterID string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return false, nil
	}
	for _, v := range e.Votes {
		if v.VoterID == voterID {
			return false, nil
		}
	}
	e.Votes = append(e.Votes, models.Vote{VoterID: voterID, VotedAt: at})
	e.TotalVotes = len(e.Votes)
	return true, nil
}

func (f *fakeStore) SetEntryApproval(ctx context.Context, entryID string, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return apperr.ErrNotFound
	}
	e.IsApproved = approved
	return nil
}

var (
	contestant = &models.User{ID: "u-contestant", Role: models.RoleMember}
	voter      = &models.User{ID: "u-voter", Role: models.RoleMember}
	moderator  = &models.User{ID: "u-moderator", Role: models.RoleAdmin}
)

func validEntry() *models.EntryRequest {
	return &models.EntryRequest{
		Title:       "My submission",
		Description: "A submission.",
		MediaURL:    "/api/media/abc.png",
	}
}

func TestSubmitEntry(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	e, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	require.NoError(t, err)
	assert.Equal(t, contestant.ID, e.ContestantID)
	assert.Equal(t, comp.ID, e.CompetitionID)
	assert.False(t, e.IsApproved)
	assert.Zero(t, e.TotalVotes)
	assert.NotNil(t, e.Votes)
}

func TestSubmitEntryCompetitionMissing(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.Submit(context.Background(), contestant, primitive.NewObjectID().Hex(), validEntry())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubmitEntryClosedCompetition(t *testing.T) {
	for _, status := range []string{models.StatusCompleted, models.StatusCancelled} {
		t.Run(status, func(t *testing.T) {
			store := newFakeStore()
			comp := store.addCompetition(status, 10)
			svc := NewService(store)

			_, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
			assert.ErrorIs(t, err, apperr.ErrCompetitionClosed)
		})
	}
}

func TestSubmitEntryLimitReached(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 2)
	svc := NewService(store)

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
		require.NoError(t, err)
	}

	_, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	assert.ErrorIs(t, err, apperr.ErrEntryLimitReached)
}

func TestSubmitEntryValidation(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	req := &models.EntryRequest{}
	_, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), req)
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Len(t, ve.Fields, 3)
}

func TestCastVoteIdempotent(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	e, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	require.NoError(t, err)

	first, err := svc.CastVote(context.Background(), voter, e.ID.Hex())
	require.NoError(t, err)
	assert.True(t, first.Accepted)
	assert.Equal(t, 1, first.TotalVotes)

	second, err := svc.CastVote(context.Background(), voter, e.ID.Hex())
	require.NoError(t, err)
	assert.False(t, second.Accepted, "repeat vote must be reported, not recorded")
	assert.Equal(t, 1, second.TotalVotes)

	stored, err := svc.Get(context.Background(), e.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, stored.Votes, 1)
	assert.Equal(t, stored.TotalVotes, len(stored.Votes))
}

func TestCastVoteEntryMissing(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.CastVote(context.Background(), voter, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// TestCastVoteConcurrentSameVoter fires simultaneous votes from one voter
// and verifies exactly one lands.
func TestCastVoteConcurrentSameVoter(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	e, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	require.NoError(t, err)

	const attempts = 16
	var accepted int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.CastVote(context.Background(), voter, e.ID.Hex())
			if err != nil {
				t.Error(err)
				return
			}
			if result.Accepted {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted, "exactly one of the racing votes may land")

	stored, err := svc.Get(context.Background(), e.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalVotes)
	assert.Len(t, stored.Votes, 1)
}

// TestCastVoteConcurrentDistinctVoters verifies the tally never drifts from
// the vote-set size under concurrent load.
func TestCastVoteConcurrentDistinctVoters(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	e, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	require.NoError(t, err)

	const voters = 25
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			u := &models.User{ID: fmt.Sprintf("voter-%d", n), Role: models.RoleMember}
			result, err := svc.CastVote(context.Background(), u, e.ID.Hex())
			if err != nil {
				t.Error(err)
				return
			}
			assert.True(t, result.Accepted)
		}(i)
	}
	wg.Wait()

	stored, err := svc.Get(context.Background(), e.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, voters, stored.TotalVotes)
	assert.Len(t, stored.Votes, voters)

	tally, err := svc.Tally(context.Background(), e.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, voters, tally)
}

func TestSetApprovalAdminOnly(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	e, err := svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	require.NoError(t, err)

	err = svc.SetApproval(context.Background(), contestant, e.ID.Hex(), true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = svc.SetApproval(context.Background(), moderator, e.ID.Hex(), true)
	require.NoError(t, err)

	stored, err := svc.Get(context.Background(), e.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
}

func TestListByCompetition(t *testing.T) {
	store := newFakeStore()
	comp := store.addCompetition(models.StatusActive, 10)
	svc := NewService(store)

	_, err := svc.ListByCompetition(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Submit(context.Background(), contestant, comp.ID.Hex(), validEntry())
	require.NoError(t, err)

	entries, err := svc.ListByCompetition(context.Background(), comp.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
