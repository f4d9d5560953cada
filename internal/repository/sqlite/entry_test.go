package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harman-04/My-Mind-Mirror/internal/apperror"
	"github.com/harman-04/My-Mind-Mirror/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestUser inserts a user row so entries can reference it.
func newTestUser(t *testing.T, db *DB, username string) string {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%q) error = %v", username, err)
	}
	return user.ID
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntryCreateAndGet_WithAnalysis(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")

	entry := &model.JournalEntry{
		OwnerID:   userID,
		EntryDate: date(2026, 9, 1),
		RawText:   "rough day",
		Analysis: &model.Analysis{
			MoodScore:    -0.4,
			Emotions:     map[string]float64{"sadness": 0.7},
			CoreConcerns: []string{"work"},
			Summary:      "a stressful day",
			GrowthTips:   []string{"rest"},
		},
	}

	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if entry.ID == "" {
		t.Fatal("Create() must assign an ID")
	}

	got, err := db.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.OwnerID != userID {
		t.Errorf("OwnerID = %q, want %q", got.OwnerID, userID)
	}
	if !got.EntryDate.Equal(date(2026, 9, 1)) {
		t.Errorf("EntryDate = %v, want 2026-09-01", got.EntryDate)
	}
	if got.RawText != "rough day" {
		t.Errorf("RawText = %q, want %q", got.RawText, "rough day")
	}
	if got.Analysis == nil {
		t.Fatal("Analysis group lost in round trip")
	}
	if got.Analysis.MoodScore != -0.4 {
		t.Errorf("MoodScore = %v, want -0.4", got.Analysis.MoodScore)
	}
	if got.Analysis.Emotions["sadness"] != 0.7 {
		t.Errorf("Emotions[sadness] = %v, want 0.7", got.Analysis.Emotions["sadness"])
	}
	if len(got.Analysis.CoreConcerns) != 1 || got.Analysis.CoreConcerns[0] != "work" {
		t.Errorf("CoreConcerns = %v, want [work]", got.Analysis.CoreConcerns)
	}
	if got.Analysis.Summary != "a stressful day" {
		t.Errorf("Summary = %q, want %q", got.Analysis.Summary, "a stressful day")
	}
	if len(got.Analysis.GrowthTips) != 1 || got.Analysis.GrowthTips[0] != "rest" {
		t.Errorf("GrowthTips = %v, want [rest]", got.Analysis.GrowthTips)
	}
}

func TestEntryCreateAndGet_WithoutAnalysis(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")

	entry := &model.JournalEntry{
		OwnerID:   userID,
		EntryDate: date(2026, 9, 1),
		RawText:   "unanalyzed",
	}
	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Analysis != nil {
		t.Errorf("Analysis = %+v, want nil", got.Analysis)
	}
}

func TestEntryGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEntryCreate_SameDayConflict(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")

	first := &model.JournalEntry{OwnerID: userID, EntryDate: date(2026, 9, 1), RawText: "first"}
	if err := db.Create(context.Background(), first); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	second := &model.JournalEntry{OwnerID: userID, EntryDate: date(2026, 9, 1), RawText: "second"}
	err := db.Create(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict for a second entry on the same day", err)
	}

	// A different owner may write the same day.
	bobID := newTestUser(t, db, "bob")
	other := &model.JournalEntry{OwnerID: bobID, EntryDate: date(2026, 9, 1), RawText: "bob's day"}
	if err := db.Create(context.Background(), other); err != nil {
		t.Errorf("Create() for a different owner on the same day error = %v", err)
	}
}

func TestEntryFindByOwnerAndDate(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")

	entry := &model.JournalEntry{OwnerID: userID, EntryDate: date(2026, 9, 1), RawText: "today"}
	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Any time-of-day on the same calendar date must resolve to the entry.
	afternoon := time.Date(2026, 9, 1, 15, 42, 0, 0, time.UTC)
	got, err := db.FindByOwnerAndDate(context.Background(), userID, afternoon)
	if err != nil {
		t.Fatalf("FindByOwnerAndDate() error = %v", err)
	}
	if got.ID != entry.ID {
		t.Errorf("found entry %q, want %q", got.ID, entry.ID)
	}

	_, err = db.FindByOwnerAndDate(context.Background(), userID, date(2026, 9, 2))
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for a day with no entry", err)
	}
}

func TestEntryFindByOwnerAndDateRange(t *testing.T) {
	db := newTestDB(t)
	aliceID := newTestUser(t, db, "alice")
	bobID := newTestUser(t, db, "bob")

	days := []time.Time{
		date(2026, 8, 1),
		date(2026, 8, 15),
		date(2026, 8, 31),
		date(2026, 9, 1),
	}
	for _, d := range days {
		e := &model.JournalEntry{OwnerID: aliceID, EntryDate: d, RawText: "entry"}
		if err := db.Create(context.Background(), e); err != nil {
			t.Fatalf("Create(%s) error = %v", d.Format(model.DateLayout), err)
		}
	}
	bobEntry := &model.JournalEntry{OwnerID: bobID, EntryDate: date(2026, 8, 15), RawText: "bob"}
	if err := db.Create(context.Background(), bobEntry); err != nil {
		t.Fatalf("Create() for bob error = %v", err)
	}

	// Bounds are inclusive and scoped to the owner.
	entries, err := db.FindByOwnerAndDateRange(context.Background(), aliceID,
		date(2026, 8, 1), date(2026, 8, 31))
	if err != nil {
		t.Fatalf("FindByOwnerAndDateRange() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.OwnerID != aliceID {
			t.Errorf("range query leaked entry owned by %q", e.OwnerID)
		}
	}

	empty, err := db.FindByOwnerAndDateRange(context.Background(), aliceID,
		date(2026, 7, 1), date(2026, 7, 31))
	if err != nil {
		t.Fatalf("FindByOwnerAndDateRange() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d entries for an empty month, want 0", len(empty))
	}
}

func TestEntryUpdate_ReplacesTextAndAnalysis(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")

	entry := &model.JournalEntry{
		OwnerID:   userID,
		EntryDate: date(2026, 9, 1),
		RawText:   "original",
		Analysis: &model.Analysis{
			MoodScore:  0.5,
			Emotions:   map[string]float64{"joy": 0.9},
			Summary:    "good",
			GrowthTips: []string{},
		},
	}
	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Clear the analysis group on update — every column must go NULL together.
	entry.RawText = "revised"
	entry.Analysis = nil
	if err := db.Update(context.Background(), entry); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.GetByID(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.RawText != "revised" {
		t.Errorf("RawText = %q, want %q", got.RawText, "revised")
	}
	if got.Analysis != nil {
		t.Errorf("Analysis = %+v, want nil after clearing update", got.Analysis)
	}
}

func TestEntryUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	entry := &model.JournalEntry{ID: "no-such-id", RawText: "x"}
	err := db.Update(context.Background(), entry)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEntryDelete(t *testing.T) {
	db := newTestDB(t)
	userID := newTestUser(t, db, "alice")

	entry := &model.JournalEntry{OwnerID: userID, EntryDate: date(2026, 9, 1), RawText: "x"}
	if err := db.Create(context.Background(), entry); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := db.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.GetByID(context.Background(), entry.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error after delete = %v, want ErrNotFound", err)
	}

	if err := db.Delete(context.Background(), entry.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
