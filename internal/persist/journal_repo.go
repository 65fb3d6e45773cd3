package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TripRow is one completed fishing trip in the analytics journal. Rows are
// append-only and are never read back into the simulation.
type TripRow struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Slot       int
	BoatType   string
	Phase      string
	Revenue    int
	Catch      int
	Tutorial   bool
	SimSeconds float64
	RecordedAt time.Time
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// InsertTrips writes a batch of trips in a single transaction. On error
// nothing from the batch is stored.
func (r *JournalRepo) InsertTrips(ctx context.Context, rows []TripRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO trip_journal (id, session_id, slot, boat_type, phase, revenue, catch, tutorial, sim_seconds, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.SessionID, t.Slot, t.BoatType, t.Phase, t.Revenue, t.Catch, t.Tutorial, t.SimSeconds, t.RecordedAt,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}

// SessionTotals sums revenue and catch for one session.
func (r *JournalRepo) SessionTotals(ctx context.Context, session uuid.UUID) (trips, revenue, catch int64, err error) {
	err = r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(revenue), 0), COALESCE(SUM(catch), 0)
		 FROM trip_journal WHERE session_id = $1`,
		session,
	).Scan(&trips, &revenue, &catch)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("journal totals: %w", err)
	}
	return trips, revenue, catch, nil
}
