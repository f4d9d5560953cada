// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — plain values with struct tags,
// no ORM annotations. The persistence layer maps them to rows explicitly.
package model

import "time"

// DateLayout is the wire and storage format for calendar dates.
// Journal entries are keyed by calendar date, never by time of day.
const DateLayout = "2006-01-02"

// Day truncates a timestamp to its calendar date in UTC.
// All entry dates pass through here so that (owner, date) comparisons are
// exact regardless of where the timestamp came from.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Analysis is the AI-derived enrichment of a journal entry.
//
// The group is all-or-nothing: an entry either carries a fully populated
// *Analysis or nil. It is constructed complete (by the analysis client) and
// assigned in one step by the service layer — never mutated field-by-field —
// so a half-analyzed entry is not a representable state.
type Analysis struct {
	MoodScore    float64            `json:"moodScore"`    // conceptually in [-1.0, 1.0]
	Emotions     map[string]float64 `json:"emotions"`     // e.g. {"joy": 0.8, "sadness": 0.2}
	CoreConcerns []string           `json:"coreConcerns"` // e.g. ["work stress"]
	Summary      string             `json:"summary"`
	GrowthTips   []string           `json:"growthTips"`
}

// JournalEntry represents one user's journal entry for one calendar day.
//
// ID is a UUID assigned at creation and immutable, as are OwnerID and
// EntryDate. (OwnerID, EntryDate) is a natural key — the stores enforce at
// most one entry per owner per day with a unique index.
type JournalEntry struct {
	ID        string    `json:"id"        db:"id"`
	OwnerID   string    `json:"ownerId"   db:"user_id"`
	EntryDate time.Time `json:"entryDate" db:"entry_date"` // date-only, UTC midnight
	RawText   string    `json:"rawText"   db:"raw_text"`
	Analysis  *Analysis `json:"analysis,omitempty"` // nil when analysis is absent
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MoodPoint is a single point in the mood chart: one analyzed day.
// Entries without a mood score never become points.
type MoodPoint struct {
	Date      time.Time `json:"date"`
	MoodScore float64   `json:"moodScore"`
}
