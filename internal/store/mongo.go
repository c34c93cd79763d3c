package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amolv/contesthub/internal/apperr"
	"github.com/amolv/contesthub/internal/models"
)

// MongoStore persists competitions and entries (with embedded votes) in
// MongoDB.
type MongoStore struct {
	competitions *mongo.Collection
	entries      *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		competitions: db.Collection("competitions"),
		entries:      db.Collection("entries"),
	}
}

// ---------------------------------------------------------------------------
// Competitions
// ---------------------------------------------------------------------------

// InsertCompetition stores a new competition and fills in its generated id.
func (s *MongoStore) InsertCompetition(ctx context.Context, c *models.Competition) error {
	res, err := s.competitions.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("insert competition: %w", err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListCompetitions returns all competitions, newest first. Ties on
// created_at fall back to insertion order via _id.
func (s *MongoStore) ListCompetitions(ctx context.Context) ([]models.Competition, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.competitions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	defer cur.Close(ctx)

	var comps []models.Competition
	if err := cur.All(ctx, &comps); err != nil {
		return nil, fmt.Errorf("decode competitions: %w", err)
	}
	return comps, nil
}

// GetCompetition loads one competition. Unknown or malformed ids yield
// apperr.ErrNotFound.
func (s *MongoStore) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	var c models.Competition
	if err := s.competitions.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get competition: %w", err)
	}
	return &c, nil
}

// ReplaceCompetition overwrites the stored competition document.
func (s *MongoStore) ReplaceCompetition(ctx context.Context, c *models.Competition) error {
	res, err := s.competitions.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("replace competition: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteCompetition removes a competition document.
func (s *MongoStore) DeleteCompetition(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	res, err := s.competitions.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete competition: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Entries & votes
// ---------------------------------------------------------------------------

// InsertEntry stores a new entry and fills in its generated id.
func (s *MongoStore) InsertEntry(ctx context.Context, e *models.Entry) error {
	res, err := s.entries.InsertOne(ctx, e)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetEntry loads one entry. Unknown or malformed ids yield apperr.ErrNotFound.
func (s *MongoStore) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	var e models.Entry
	if err := s.entries.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

// ListEntriesByCompetition returns a competition's entries, highest tally
// first.
func (s *MongoStore) ListEntriesByCompetition(ctx context.Context, competitionID string) ([]models.Entry, error) {
	oid, err := primitive.ObjectIDFromHex(competitionID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "total_votes", Value: -1},
		{Key: "submitted_at", Value: 1},
	})
	cur, err := s.entries.Find(ctx, bson.M{"competition_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return entries, nil
}

// CountEntries returns how many entries a competition holds.
func (s *MongoStore) CountEntries(ctx context.Context, competitionID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(competitionID)
	if err != nil {
		return 0, apperr.ErrNotFound
	}
	n, err := s.entries.CountDocuments(ctx, bson.M{"competition_id": oid})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// DeleteEntriesByCompetition removes every entry of a competition. Called
// when the competition itself is deleted so entries are never orphaned.
func (s *MongoStore) DeleteEntriesByCompetition(ctx context.Context, competitionID string) error {
	oid, err := primitive.ObjectIDFromHex(competitionID)
	if err != nil {
		return apperr.ErrNotFound
	}
	if _, err := s.entries.DeleteMany(ctx, bson.M{"competition_id": oid}); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	return nil
}

// AddVoterIfAbsent records a vote for voterID on the entry unless that
// voter is already present. The voter-set membership test, the push, and
// the total_votes increment are one UpdateOne, so two concurrent votes by
// the same voter can never both match: MongoDB serializes writes to a
// single document.
//
// Returns true if the vote was recorded, false if the entry does not exist
// or the voter had already voted; the caller disambiguates those two.
func (s *MongoStore) AddVoterIfAbsent(ctx context.Context, entryID, voterID string, at time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return false, apperr.ErrNotFound
	}
	res, err := s.entries.UpdateOne(ctx,
		bson.M{
			"_id":            oid,
			"votes.voter_id": bson.M{"$ne": voterID},
		},
		bson.M{
			"$push": bson.M{"votes": models.Vote{VoterID: voterID, VotedAt: at}},
			"$inc":  bson.M{"total_votes": 1},
		},
	)
	if err != nil {
		return false, fmt.Errorf("add voter: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// SetEntryApproval flips an entry's approval flag.
func (s *MongoStore) SetEntryApproval(ctx context.Context, entryID string, approved bool) error {
	oid, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return apperr.ErrNotFound
	}
	res, err := s.entries.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"is_approved": approved}},
	)
	if err != nil {
		return fmt.Errorf("set approval: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
