package handler

import (
	"time"

	"github.com/harman-04/My-Mind-Mirror/internal/model"
)

// View types are the shapes the API exposes. They are built from the
// internal models in one place so the wire format can evolve without
// touching the service layer.

// EntryView is the single-entry shape. The five analysis fields are
// nullable as a group: all present after a successful analysis, all null
// when analysis failed or has not run.
type EntryView struct {
	ID           string              `json:"id"`
	EntryDate    string              `json:"entryDate"` // YYYY-MM-DD
	RawText      string              `json:"rawText"`
	MoodScore    *float64            `json:"moodScore"`
	Emotions     map[string]float64  `json:"emotions"`
	CoreConcerns []string            `json:"coreConcerns"`
	Summary      *string             `json:"summary"`
	GrowthTips   []string            `json:"growthTips"`
	CreatedAt    string              `json:"createdAt"`
	UpdatedAt    string              `json:"updatedAt"`
}

// MoodPointView is one mood-chart point; moodScore is always non-null here.
type MoodPointView struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	MoodScore float64 `json:"moodScore"`
}

func newEntryView(e *model.JournalEntry) EntryView {
	v := EntryView{
		ID:        e.ID,
		EntryDate: e.EntryDate.Format(model.DateLayout),
		RawText:   e.RawText,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a := e.Analysis; a != nil {
		v.MoodScore = &a.MoodScore
		v.Emotions = a.Emotions
		v.CoreConcerns = a.CoreConcerns
		v.Summary = &a.Summary
		v.GrowthTips = a.GrowthTips
	}
	return v
}

func newEntryViews(entries []model.JournalEntry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for i := range entries {
		views = append(views, newEntryView(&entries[i]))
	}
	return views
}

func newMoodPointViews(points []model.MoodPoint) []MoodPointView {
	views := make([]MoodPointView, 0, len(points))
	for _, p := range points {
		views = append(views, MoodPointView{
			Date:      p.Date.Format(model.DateLayout),
			MoodScore: p.MoodScore,
		})
	}
	return views
}

// UserView is the account shape returned by auth endpoints. The password
// hash never appears here.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func newUserView(u *model.User) UserView {
	return UserView{ID: u.ID, Username: u.Username}
}
