package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"todotrack/internal/todolist"
)

// PostgresStore persists lists in two tables: todo_items holds the item
// fields, todo_progressions holds the dated entries in append order. Replace
// rewrites the owner's rows in one transaction so readers never observe a
// half-applied mutation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS todo_items (
			owner_id    UUID NOT NULL,
			item_id     INTEGER NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			category    TEXT NOT NULL,
			PRIMARY KEY (owner_id, item_id)
		);
		CREATE TABLE IF NOT EXISTS todo_progressions (
			owner_id UUID NOT NULL,
			item_id  INTEGER NOT NULL,
			seq      INTEGER NOT NULL,
			date     TIMESTAMPTZ NOT NULL,
			percent  DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (owner_id, item_id, seq),
			FOREIGN KEY (owner_id, item_id)
				REFERENCES todo_items (owner_id, item_id) ON DELETE CASCADE
		);
	`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, ownerID uuid.UUID) ([]todolist.ItemSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_id, title, description, category
		FROM todo_items
		WHERE owner_id = $1
		ORDER BY item_id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	var snapshots []todolist.ItemSnapshot
	index := make(map[int]int)
	for rows.Next() {
		var snap todolist.ItemSnapshot
		if err := rows.Scan(&snap.ID, &snap.Title, &snap.Description, &snap.Category); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		index[snap.ID] = len(snapshots)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil
	}

	progRows, err := s.pool.Query(ctx, `
		SELECT item_id, date, percent
		FROM todo_progressions
		WHERE owner_id = $1
		ORDER BY item_id, seq
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load progressions: %w", err)
	}
	defer progRows.Close()

	for progRows.Next() {
		var itemID int
		var prog todolist.ProgressionSnapshot
		if err := progRows.Scan(&itemID, &prog.Date, &prog.Percent); err != nil {
			return nil, fmt.Errorf("scan progression: %w", err)
		}
		pos, ok := index[itemID]
		if !ok {
			return nil, fmt.Errorf("progression references unknown item %d", itemID)
		}
		snapshots[pos].Progressions = append(snapshots[pos].Progressions, prog)
	}
	if err := progRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progressions: %w", err)
	}

	return snapshots, nil
}

func (s *PostgresStore) Replace(ctx context.Context, ownerID uuid.UUID, snapshots []todolist.ItemSnapshot) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM todo_items WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}

	for _, snap := range snapshots {
		if _, err := tx.Exec(ctx, `
			INSERT INTO todo_items (owner_id, item_id, title, description, category)
			VALUES ($1, $2, $3, $4, $5)
		`, ownerID, snap.ID, snap.Title, snap.Description, snap.Category); err != nil {
			return fmt.Errorf("insert item %d: %w", snap.ID, err)
		}
		for seq, prog := range snap.Progressions {
			if _, err := tx.Exec(ctx, `
				INSERT INTO todo_progressions (owner_id, item_id, seq, date, percent)
				VALUES ($1, $2, $3, $4, $5)
			`, ownerID, snap.ID, seq, prog.Date, prog.Percent); err != nil {
				return fmt.Errorf("insert progression %d/%d: %w", snap.ID, seq, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}
