package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Competition categories.
const (
	CategoryMusic       = "music"
	CategoryArt         = "art"
	CategoryWriting     = "writing"
	CategoryPhotography = "photography"
	CategoryTechnology  = "technology"
	CategoryOther       = "other"
)

// Competition lifecycle statuses.
const (
	StatusUpcoming  = "upcoming"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryMusic, CategoryArt, CategoryWriting, CategoryPhotography, CategoryTechnology, CategoryOther:
		return true
	}
	return false
}

// Competition is a single competition document stored in MongoDB.
type Competition struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Title       string             `json:"title"       bson:"title"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category"    bson:"category"`
	CreatorID   string             `json:"creator_id"  bson:"creator_id"`
	StartDate   time.Time          `json:"start_date"  bson:"start_date"`
	EndDate     time.Time          `json:"end_date"    bson:"end_date"`
	MaxEntries  int                `json:"max_entries" bson:"max_entries"`
	EntryFee    float64            `json:"entry_fee"   bson:"entry_fee"`
	PrizePool   float64            `json:"prize_pool"  bson:"prize_pool"`
	Status      string             `json:"status"      bson:"status"`
	CreatedAt   time.Time          `json:"created_at"  bson:"created_at"`
}

// AcceptsEntries reports whether the competition can receive new entries.
func (c *Competition) AcceptsEntries() bool {
	return c.Status == StatusUpcoming || c.Status == StatusActive
}

// CompetitionRequest is the JSON body for POST /api/competitions.
type CompetitionRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxEntries  *int       `json:"max_entries"`
	EntryFee    *float64   `json:"entry_fee"`
	PrizePool   *float64   `json:"prize_pool"`
}

// CompetitionPatch is the JSON body for PUT /api/competitions/{id}.
// Nil fields are left untouched.
type CompetitionPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MaxEntries  *int       `json:"max_entries"`
	EntryFee    *float64   `json:"entry_fee"`
	PrizePool   *float64   `json:"prize_pool"`
	Status      *string    `json:"status"`
}
