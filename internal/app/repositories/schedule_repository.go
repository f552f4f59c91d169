package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/esteban/tecplanner/internal/app/models"
)

// StorageKey is the fixed key under which the full schedule collection
// is persisted as one JSON document.
const StorageKey = "tecplanner:schedules"

// ScheduleStore persists the full schedule collection as a single
// document.
type ScheduleStore interface {
	Load(ctx context.Context) ([]models.Schedule, error)
	Save(ctx context.Context, schedules []models.Schedule) error
}

// PostgresScheduleStore keeps the collection in a key-value document
// table. The whole collection is written on every change, mirroring
// the persist-on-change contract of the scheduling layer.
type PostgresScheduleStore struct {
	db *pgxpool.Pool
}

// NewPostgresScheduleStore creates a new schedule store.
func NewPostgresScheduleStore(db *pgxpool.Pool) *PostgresScheduleStore {
	return &PostgresScheduleStore{
		db: db,
	}
}

// Load reads and decodes the stored collection. A missing document is
// an empty collection, not an error.
func (r *PostgresScheduleStore) Load(ctx context.Context) ([]models.Schedule, error) {
	query := `
		SELECT document
		FROM planner_documents
		WHERE key = $1
	`

	var raw []byte
	err := r.db.QueryRow(ctx, query, StorageKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading schedule document: %w", err)
	}

	return DecodeStoredSchedules(raw)
}

// Save serializes the collection and upserts it under the storage key.
func (r *PostgresScheduleStore) Save(ctx context.Context, schedules []models.Schedule) error {
	document, err := json.Marshal(schedules)
	if err != nil {
		return fmt.Errorf("error encoding schedule document: %w", err)
	}

	query := `
		INSERT INTO planner_documents (key, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET document = $2, updated_at = now()
	`

	if _, err := r.db.Exec(ctx, query, StorageKey, document); err != nil {
		return fmt.Errorf("error writing schedule document: %w", err)
	}
	return nil
}
