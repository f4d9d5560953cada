// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier shape:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → ownership rules, upsert-by-day, analysis orchestration
//	Repository (data)  → reads/writes the database
//
// JournalService is the orchestrator: every journal mutation flows through
// it, and it is the only place that decides what happens to an entry's
// analysis fields.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/harman-04/My-Mind-Mirror/internal/analysis"
	"github.com/harman-04/My-Mind-Mirror/internal/apperror"
	"github.com/harman-04/My-Mind-Mirror/internal/model"
	"github.com/harman-04/My-Mind-Mirror/internal/repository"
)

const (
	// MaxEntryTextLength caps raw journal text (~50KB).
	MaxEntryTextLength = 50000

	// defaultHistoryDays is the lookback window when a range bound is omitted.
	defaultHistoryDays = 30
)

// JournalService handles business logic for journal entries.
type JournalService struct {
	repo     repository.EntryRepository
	analyzer analysis.Analyzer
	logger   *slog.Logger
	now      func() time.Time // swapped in tests to pin "today"
}

// NewJournalService creates a JournalService with its dependencies.
func NewJournalService(repo repository.EntryRepository, analyzer analysis.Analyzer, logger *slog.Logger) *JournalService {
	return &JournalService{
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitToday records the owner's journal text for the current calendar day.
//
// Upsert-by-day: if the owner already has an entry for today, that entry is
// reused (same identity) and mutated; otherwise a new one is created. Either
// way the text is analyzed and the entry's analysis group is replaced as a
// whole — fully populated on success, cleared on failure. A failed
// re-analysis therefore wipes any analysis from an earlier submit the same
// day rather than leaving stale results attached to new text.
func (s *JournalService) SubmitToday(ctx context.Context, ownerID, text string) (*model.JournalEntry, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	today := model.Day(s.now())

	entry, err := s.repo.FindByOwnerAndDate(ctx, ownerID, today)
	switch {
	case err == nil:
		// Reuse today's entry — update-in-place semantics.
	case errors.Is(err, apperror.ErrNotFound):
		entry = &model.JournalEntry{OwnerID: ownerID, EntryDate: today}
	default:
		return nil, fmt.Errorf("looking up today's entry: %w", err)
	}

	entry.RawText = text
	entry.Analysis = s.analyze(ctx, text)

	if entry.ID == "" {
		err = s.repo.Create(ctx, entry)
		if errors.Is(err, apperror.ErrConflict) {
			// A concurrent submit created today's entry between our lookup and
			// insert. The unique index rejected us; converge on the winner's row.
			return s.retryAsUpdate(ctx, ownerID, today, entry)
		}
		if err != nil {
			return nil, fmt.Errorf("creating journal entry: %w", err)
		}
	} else {
		if err := s.repo.Update(ctx, entry); err != nil {
			return nil, fmt.Errorf("updating journal entry: %w", err)
		}
	}

	s.logger.Info("journal entry saved",
		slog.String("id", entry.ID),
		slog.String("ownerID", ownerID),
		slog.String("date", today.Format(model.DateLayout)),
		slog.Bool("analyzed", entry.Analysis != nil),
	)

	return entry, nil
}

// retryAsUpdate resolves a lost same-day create race: fetch the row the
// concurrent writer inserted and apply our text/analysis to it.
func (s *JournalService) retryAsUpdate(ctx context.Context, ownerID string, day time.Time, ours *model.JournalEntry) (*model.JournalEntry, error) {
	existing, err := s.repo.FindByOwnerAndDate(ctx, ownerID, day)
	if err != nil {
		return nil, fmt.Errorf("refetching after create conflict: %w", err)
	}

	existing.RawText = ours.RawText
	existing.Analysis = ours.Analysis
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("updating after create conflict: %w", err)
	}
	return existing, nil
}

// Update rewrites the text of an existing entry and re-runs analysis.
//
// Fails with NotFound if no entry has the given id, Forbidden if the entry
// belongs to someone else. Entry date and owner are never altered here.
func (s *JournalService) Update(ctx context.Context, id, ownerID, text string) (*model.JournalEntry, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != ownerID {
		s.logger.Warn("update denied: entry not owned by caller",
			slog.String("id", id),
			slog.String("ownerID", ownerID),
		)
		return nil, apperror.Forbidden("you are not authorized to update this journal entry")
	}

	entry.RawText = text
	entry.Analysis = s.analyze(ctx, text)

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("updating journal entry %s: %w", id, err)
	}

	s.logger.Info("journal entry updated",
		slog.String("id", entry.ID),
		slog.Bool("analyzed", entry.Analysis != nil),
	)

	return entry, nil
}

// Delete permanently removes an entry. Same NotFound/Forbidden rules as Update.
func (s *JournalService) Delete(ctx context.Context, id, ownerID string) error {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.OwnerID != ownerID {
		s.logger.Warn("delete denied: entry not owned by caller",
			slog.String("id", id),
			slog.String("ownerID", ownerID),
		)
		return apperror.Forbidden("you are not authorized to delete this journal entry")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("journal entry deleted", slog.String("id", id))
	return nil
}

// Get returns the entry only if it exists and belongs to ownerID.
//
// An ownership mismatch is reported as the same NotFound as a missing id, so
// callers cannot probe whether other users have an entry with a given id.
func (s *JournalService) Get(ctx context.Context, id, ownerID string) (*model.JournalEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != ownerID {
		return nil, apperror.NotFound("journal entry", id)
	}
	return entry, nil
}

// History returns the owner's entries with entry dates in [start, end].
//
// Bounds are YYYY-MM-DD strings; an empty bound defaults to a
// [today-30, today] window, an unparsable one fails with InvalidRange.
// Result order is unspecified — only the mood series is sorted.
func (s *JournalService) History(ctx context.Context, ownerID, start, end string) ([]model.JournalEntry, error) {
	startDate, endDate, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindByOwnerAndDateRange(ctx, ownerID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("listing journal history: %w", err)
	}

	return entries, nil
}

// MoodSeries returns one (date, moodScore) point per analyzed entry in the
// range, sorted ascending by date. Entries without analysis are skipped.
// Duplicate dates cannot occur — one entry per owner per day.
func (s *JournalService) MoodSeries(ctx context.Context, ownerID, start, end string) ([]model.MoodPoint, error) {
	startDate, endDate, err := s.resolveRange(start, end)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindByOwnerAndDateRange(ctx, ownerID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("listing entries for mood series: %w", err)
	}

	points := make([]model.MoodPoint, 0, len(entries))
	for _, e := range entries {
		if e.Analysis == nil {
			continue
		}
		points = append(points, model.MoodPoint{
			Date:      e.EntryDate,
			MoodScore: e.Analysis.MoodScore,
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points, nil
}

// analyze runs the text through the analyzer and absorbs any failure.
//
// Analysis failure never fails the surrounding save — the entry is kept with
// its raw text and a nil analysis group. Returning nil here (rather than a
// partially-filled struct) is what guarantees the all-or-nothing invariant.
func (s *JournalService) analyze(ctx context.Context, text string) *model.Analysis {
	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.logger.Warn("analysis failed; saving entry without AI data",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return result
}

// resolveRange turns the optional YYYY-MM-DD bound strings into concrete
// dates. Empty bounds default to [today-30, today].
func (s *JournalService) resolveRange(start, end string) (time.Time, time.Time, error) {
	today := model.Day(s.now())
	startDate := today.AddDate(0, 0, -defaultHistoryDays)
	endDate := today

	if start != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, start, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.InvalidRange("startDate", start)
		}
		startDate = parsed
	}
	if end != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, end, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.InvalidRange("endDate", end)
		}
		endDate = parsed
	}

	return startDate, endDate, nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return apperror.ValidationFailed("text", "journal text is required")
	}
	if len(text) > MaxEntryTextLength {
		return apperror.ValidationFailed("text",
			fmt.Sprintf("journal text must be %d characters or less", MaxEntryTextLength))
	}
	return nil
}
