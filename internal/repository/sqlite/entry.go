package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harman-04/My-Mind-Mirror/internal/apperror"
	"github.com/harman-04/My-Mind-Mirror/internal/model"
	"github.com/harman-04/My-Mind-Mirror/internal/repository"
)

// compile-time check that *DB implements repository.EntryRepository
var _ repository.EntryRepository = (*DB)(nil)

const entryColumns = `id, user_id, entry_date, raw_text,
	mood_score, emotions, core_concerns, summary, growth_tips,
	created_at, updated_at`

// analysisColumns flattens an optional *model.Analysis into the nullable DB
// columns. All five columns are written together from the same value, so a
// row can never hold a partial analysis.
type analysisColumns struct {
	moodScore    sql.NullFloat64
	emotions     sql.NullString
	coreConcerns sql.NullString
	summary      sql.NullString
	growthTips   sql.NullString
}

func encodeAnalysis(a *model.Analysis) (analysisColumns, error) {
	var cols analysisColumns
	if a == nil {
		return cols, nil
	}

	emotions, err := json.Marshal(a.Emotions)
	if err != nil {
		return cols, fmt.Errorf("encoding emotions: %w", err)
	}
	concerns, err := json.Marshal(a.CoreConcerns)
	if err != nil {
		return cols, fmt.Errorf("encoding core concerns: %w", err)
	}
	tips, err := json.Marshal(a.GrowthTips)
	if err != nil {
		return cols, fmt.Errorf("encoding growth tips: %w", err)
	}

	cols.moodScore = sql.NullFloat64{Float64: a.MoodScore, Valid: true}
	cols.emotions = sql.NullString{String: string(emotions), Valid: true}
	cols.coreConcerns = sql.NullString{String: string(concerns), Valid: true}
	cols.summary = sql.NullString{String: a.Summary, Valid: true}
	cols.growthTips = sql.NullString{String: string(tips), Valid: true}
	return cols, nil
}

// decode reconstitutes the analysis group. A NULL mood_score means the group
// is absent and every other column is ignored.
func (c analysisColumns) decode() (*model.Analysis, error) {
	if !c.moodScore.Valid {
		return nil, nil
	}

	a := &model.Analysis{
		MoodScore: c.moodScore.Float64,
		Summary:   c.summary.String,
	}
	if err := json.Unmarshal([]byte(c.emotions.String), &a.Emotions); err != nil {
		return nil, fmt.Errorf("decoding emotions: %w", err)
	}
	if err := json.Unmarshal([]byte(c.coreConcerns.String), &a.CoreConcerns); err != nil {
		return nil, fmt.Errorf("decoding core concerns: %w", err)
	}
	if err := json.Unmarshal([]byte(c.growthTips.String), &a.GrowthTips); err != nil {
		return nil, fmt.Errorf("decoding growth tips: %w", err)
	}
	return a, nil
}

func scanEntry(scan func(dest ...any) error) (*model.JournalEntry, error) {
	var (
		e        model.JournalEntry
		dateText string
		cols     analysisColumns
	)
	err := scan(
		&e.ID, &e.OwnerID, &dateText, &e.RawText,
		&cols.moodScore, &cols.emotions, &cols.coreConcerns, &cols.summary, &cols.growthTips,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.EntryDate, err = time.ParseInLocation(model.DateLayout, dateText, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing entry_date %q: %w", dateText, err)
	}

	e.Analysis, err = cols.decode()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// isUniqueViolation reports whether err is the driver's UNIQUE-constraint
// failure. modernc.org/sqlite exposes no typed error for this, so we match
// the stable message prefix SQLite itself produces.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Create inserts a new journal entry, assigning its UUID and timestamps.
// A second entry for the same (owner, date) returns apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, entry *model.JournalEntry) error {
	entry.ID = uuid.NewString()

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	cols, err := encodeAnalysis(entry.Analysis)
	if err != nil {
		return fmt.Errorf("sqlite: creating journal entry: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO journal_entries (`+entryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.OwnerID,
		entry.EntryDate.Format(model.DateLayout),
		entry.RawText,
		cols.moodScore, cols.emotions, cols.coreConcerns, cols.summary, cols.growthTips,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("journal entry",
				entry.OwnerID+"/"+entry.EntryDate.Format(model.DateLayout))
		}
		return fmt.Errorf("sqlite: creating journal entry: %w", err)
	}

	return nil
}

// GetByID retrieves a single journal entry by its ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.JournalEntry, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE id = ?`, id)

	entry, err := scanEntry(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("journal entry", id)
		}
		return nil, fmt.Errorf("sqlite: getting journal entry %s: %w", id, err)
	}
	return entry, nil
}

// FindByOwnerAndDate returns the owner's entry for the given calendar date,
// or NotFound. The unique index guarantees at most one row matches.
func (db *DB) FindByOwnerAndDate(ctx context.Context, ownerID string, date time.Time) (*model.JournalEntry, error) {
	dateText := model.Day(date).Format(model.DateLayout)

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries
		 WHERE user_id = ? AND entry_date = ?`,
		ownerID, dateText)

	entry, err := scanEntry(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("journal entry", ownerID+"/"+dateText)
		}
		return nil, fmt.Errorf("sqlite: finding entry for %s on %s: %w", ownerID, dateText, err)
	}
	return entry, nil
}

// FindByOwnerAndDateRange returns all of the owner's entries with entry_date
// in [start, end], both bounds inclusive. Order is unspecified.
func (db *DB) FindByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]model.JournalEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries
		 WHERE user_id = ? AND entry_date >= ? AND entry_date <= ?`,
		ownerID,
		model.Day(start).Format(model.DateLayout),
		model.Day(end).Format(model.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing journal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning journal entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating journal entries: %w", err)
	}

	return entries, nil
}

// Update replaces the mutable fields of an existing entry (raw text and the
// whole analysis group). Owner and entry date are never rewritten.
func (db *DB) Update(ctx context.Context, entry *model.JournalEntry) error {
	entry.UpdatedAt = time.Now()

	cols, err := encodeAnalysis(entry.Analysis)
	if err != nil {
		return fmt.Errorf("sqlite: updating journal entry %s: %w", entry.ID, err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE journal_entries
		 SET raw_text = ?, mood_score = ?, emotions = ?, core_concerns = ?,
		     summary = ?, growth_tips = ?, updated_at = ?
		 WHERE id = ?`,
		entry.RawText,
		cols.moodScore, cols.emotions, cols.coreConcerns, cols.summary, cols.growthTips,
		entry.UpdatedAt,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating journal entry %s: %w", entry.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("journal entry", entry.ID)
	}

	return nil
}

// Delete permanently removes a journal entry by its ID.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM journal_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting journal entry %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("journal entry", id)
	}

	return nil
}
