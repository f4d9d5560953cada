// Package repository declares the storage contracts the service layer depends
// on. Two implementations exist: sqlite (default) and postgres. The service
// only ever sees these interfaces, so backends are swapped in server wiring.
package repository

import (
	"context"
	"time"

	"github.com/harman-04/My-Mind-Mirror/internal/model"
)

// EntryRepository persists journal entries.
//
// Contract notes that the service layer relies on:
//   - FindByOwnerAndDate returns at most one entry (the stores enforce a
//     unique index on (user_id, entry_date)).
//   - FindByOwnerAndDateRange bounds are inclusive; result order is
//     unspecified — ordering is the caller's concern.
//   - Create returns apperror.ErrConflict when the natural key is already
//     taken, which is how a concurrent same-day submit loses the race.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.JournalEntry) error
	GetByID(ctx context.Context, id string) (*model.JournalEntry, error)
	FindByOwnerAndDate(ctx context.Context, ownerID string, date time.Time) (*model.JournalEntry, error)
	FindByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]model.JournalEntry, error)
	Update(ctx context.Context, entry *model.JournalEntry) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}
