package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/harman-04/My-Mind-Mirror/internal/apperror"
	"github.com/harman-04/My-Mind-Mirror/internal/model"
	"github.com/harman-04/My-Mind-Mirror/internal/repository"
)

// compile-time check that *DB implements repository.EntryRepository
var _ repository.EntryRepository = (*DB)(nil)

const entryColumns = `id, user_id, entry_date, raw_text,
	mood_score, emotions, core_concerns, summary, growth_tips,
	created_at, updated_at`

// encodeAnalysis flattens an optional analysis group into the nullable
// columns. All five values come from the same *Analysis, so a row can never
// hold a partial group.
func encodeAnalysis(a *model.Analysis) (moodScore *float64, emotions, concerns, summary, tips *string, err error) {
	if a == nil {
		return nil, nil, nil, nil, nil, nil
	}

	emotionsJSON, err := json.Marshal(a.Emotions)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("encoding emotions: %w", err)
	}
	concernsJSON, err := json.Marshal(a.CoreConcerns)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("encoding core concerns: %w", err)
	}
	tipsJSON, err := json.Marshal(a.GrowthTips)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("encoding growth tips: %w", err)
	}

	emotionsText := string(emotionsJSON)
	concernsText := string(concernsJSON)
	tipsText := string(tipsJSON)
	return &a.MoodScore, &emotionsText, &concernsText, &a.Summary, &tipsText, nil
}

func scanEntry(row pgx.Row) (*model.JournalEntry, error) {
	var (
		e         model.JournalEntry
		moodScore *float64
		emotions  *string
		concerns  *string
		summary   *string
		tips      *string
	)
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.EntryDate, &e.RawText,
		&moodScore, &emotions, &concerns, &summary, &tips,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.EntryDate = model.Day(e.EntryDate)

	// NULL mood_score means the analysis group is absent.
	if moodScore != nil {
		a := &model.Analysis{MoodScore: *moodScore}
		if summary != nil {
			a.Summary = *summary
		}
		if emotions != nil {
			if err := json.Unmarshal([]byte(*emotions), &a.Emotions); err != nil {
				return nil, fmt.Errorf("decoding emotions: %w", err)
			}
		}
		if concerns != nil {
			if err := json.Unmarshal([]byte(*concerns), &a.CoreConcerns); err != nil {
				return nil, fmt.Errorf("decoding core concerns: %w", err)
			}
		}
		if tips != nil {
			if err := json.Unmarshal([]byte(*tips), &a.GrowthTips); err != nil {
				return nil, fmt.Errorf("decoding growth tips: %w", err)
			}
		}
		e.Analysis = a
	}

	return &e, nil
}

// Create inserts a new journal entry, assigning its UUID and timestamps.
// A second entry for the same (owner, date) returns apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, entry *model.JournalEntry) error {
	entry.ID = uuid.NewString()

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	moodScore, emotions, concerns, summary, tips, err := encodeAnalysis(entry.Analysis)
	if err != nil {
		return fmt.Errorf("postgres: creating journal entry: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO journal_entries (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID,
		entry.OwnerID,
		model.Day(entry.EntryDate),
		entry.RawText,
		moodScore, emotions, concerns, summary, tips,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("journal entry",
				entry.OwnerID+"/"+entry.EntryDate.Format(model.DateLayout))
		}
		return fmt.Errorf("postgres: creating journal entry: %w", err)
	}

	return nil
}

// GetByID retrieves a single journal entry by its ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.JournalEntry, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE id = $1`, id)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("journal entry", id)
		}
		return nil, fmt.Errorf("postgres: getting journal entry %s: %w", id, err)
	}
	return entry, nil
}

// FindByOwnerAndDate returns the owner's entry for the given calendar date.
func (db *DB) FindByOwnerAndDate(ctx context.Context, ownerID string, date time.Time) (*model.JournalEntry, error) {
	day := model.Day(date)

	row := db.pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries
		 WHERE user_id = $1 AND entry_date = $2`,
		ownerID, day)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("journal entry", ownerID+"/"+day.Format(model.DateLayout))
		}
		return nil, fmt.Errorf("postgres: finding entry for %s on %s: %w",
			ownerID, day.Format(model.DateLayout), err)
	}
	return entry, nil
}

// FindByOwnerAndDateRange returns all entries in [start, end], inclusive.
func (db *DB) FindByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]model.JournalEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM journal_entries
		 WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3`,
		ownerID, model.Day(start), model.Day(end))
	if err != nil {
		return nil, fmt.Errorf("postgres: listing journal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scanning journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating journal entries: %w", err)
	}

	return entries, nil
}

// Update replaces the mutable fields of an existing entry.
func (db *DB) Update(ctx context.Context, entry *model.JournalEntry) error {
	entry.UpdatedAt = time.Now()

	moodScore, emotions, concerns, summary, tips, err := encodeAnalysis(entry.Analysis)
	if err != nil {
		return fmt.Errorf("postgres: updating journal entry %s: %w", entry.ID, err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE journal_entries
		 SET raw_text = $1, mood_score = $2, emotions = $3, core_concerns = $4,
		     summary = $5, growth_tips = $6, updated_at = $7
		 WHERE id = $8`,
		entry.RawText,
		moodScore, emotions, concerns, summary, tips,
		entry.UpdatedAt,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating journal entry %s: %w", entry.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("journal entry", entry.ID)
	}

	return nil
}

// Delete permanently removes a journal entry by its ID.
func (db *DB) Delete(ctx context.Context, id string) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting journal entry %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("journal entry", id)
	}

	return nil
}
