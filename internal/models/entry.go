package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vote records a single voter against an entry. A voter appears at most
// once in an entry's votes array.
type Vote struct {
	VoterID string    `json:"voter_id" bson:"voter_id"`
	VotedAt time.Time `json:"voted_at" bson:"voted_at"`
}

// Entry is a contestant's submission to a competition, stored in MongoDB
// with its votes embedded. TotalVotes always equals len(Votes); both are
// updated in the same atomic write.
type Entry struct {
	ID            primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	Title         string             `json:"title"          bson:"title"`
	Description   string             `json:"description"    bson:"description"`
	MediaURL      string             `json:"media_url"      bson:"media_url"`
	CompetitionID primitive.ObjectID `json:"competition_id" bson:"competition_id"`
	ContestantID  string             `json:"contestant_id"  bson:"contestant_id"`
	Votes         []Vote             `json:"votes"          bson:"votes"`
	TotalVotes    int                `json:"total_votes"    bson:"total_votes"`
	IsApproved    bool               `json:"is_approved"    bson:"is_approved"`
	SubmittedAt   time.Time          `json:"submitted_at"   bson:"submitted_at"`
}

// EntryRequest is the JSON body for POST /api/competitions/{id}/entries.
type EntryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"media_url"`
}

// ApprovalRequest is the JSON body for PATCH /api/entries/{id}/approval.
type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

// VoteResponse is the body for POST /api/entries/{id}/votes.
type VoteResponse struct {
	Success    bool `json:"success"`
	Accepted   bool `json:"accepted"`
	TotalVotes int  `json:"total_votes"`
}
