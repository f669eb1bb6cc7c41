package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/dungeongen/internal/game/dungeon"
)

// ErrLayoutNotFound is returned when a layout lookup yields no results.
var ErrLayoutNotFound = errors.New("layout not found")

// LayoutSummary is the header row of a stored layout.
type LayoutSummary struct {
	ID         uuid.UUID
	Catalog    string
	Seed       uint64
	Attempts   int
	Iterations int
	RoomCount  int
	CreatedAt  time.Time
}

// LayoutRepository stores accepted layouts and their rooms.
type LayoutRepository struct {
	db *pgxpool.Pool
}

// NewLayoutRepository creates a LayoutRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewLayoutRepository(db *pgxpool.Pool) *LayoutRepository {
	return &LayoutRepository{db: db}
}

// Save stores layout under a fresh ID.
//
// Precondition: layout must have at least the start room; catalog names the
// catalog the layout was drawn from.
// Postcondition: Returns the new layout ID, or an error with nothing stored.
func (r *LayoutRepository) Save(ctx context.Context, catalog string, layout *dungeon.Layout) (uuid.UUID, error) {
	id := uuid.New()
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO layouts (id, catalog, seed, attempts, iterations, room_count)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, catalog, int64(layout.Seed), layout.Attempts, layout.Iterations, len(layout.Rooms),
		)
		if err != nil {
			return fmt.Errorf("inserting layout: %w", err)
		}

		rows := make([][]any, 0, len(layout.Rooms))
		for seq, p := range layout.Rooms {
			rows = append(rows, []any{
				id, seq, p.Template.ID, p.Coord.X, p.Coord.Y,
				p.Door.Coord.X, p.Door.Coord.Y, string(p.Door.Direction),
				p.Depth, p.Distance,
			})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"layout_rooms"},
			[]string{"layout_id", "seq", "template_id", "x", "y", "door_x", "door_y", "door_dir", "depth", "distance"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copying layout rooms: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Get loads a stored layout, resolving template IDs against catalog.
//
// Postcondition: Returns the layout with rooms in their stored order,
// ErrLayoutNotFound, or an error naming a template catalog does not hold.
func (r *LayoutRepository) Get(ctx context.Context, id uuid.UUID, catalog *dungeon.Catalog) (*dungeon.Layout, error) {
	var (
		seed   int64
		layout dungeon.Layout
	)
	err := r.db.QueryRow(ctx,
		`SELECT seed, attempts, iterations FROM layouts WHERE id = $1`, id,
	).Scan(&seed, &layout.Attempts, &layout.Iterations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLayoutNotFound
		}
		return nil, fmt.Errorf("querying layout: %w", err)
	}
	layout.Seed = uint64(seed)

	rows, err := r.db.Query(ctx,
		`SELECT template_id, x, y, door_x, door_y, door_dir, depth, distance
		 FROM layout_rooms WHERE layout_id = $1 ORDER BY seq`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying layout rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			templateID, dir string
			p               dungeon.Placement
		)
		if err := rows.Scan(&templateID, &p.Coord.X, &p.Coord.Y,
			&p.Door.Coord.X, &p.Door.Coord.Y, &dir, &p.Depth, &p.Distance); err != nil {
			return nil, fmt.Errorf("scanning layout room: %w", err)
		}
		tmpl, ok := catalog.Lookup(templateID)
		if !ok {
			return nil, fmt.Errorf("layout %s references template %q missing from catalog", id, templateID)
		}
		p.Template = tmpl
		p.Door.Direction = dungeon.Direction(dir)
		layout.Rooms = append(layout.Rooms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layout rooms: %w", err)
	}
	return &layout, nil
}

// ListRecent returns up to limit layout headers, newest first.
//
// Precondition: limit > 0.
func (r *LayoutRepository) ListRecent(ctx context.Context, limit int) ([]LayoutSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, catalog, seed, attempts, iterations, room_count, created_at
		 FROM layouts ORDER BY created_at DESC, id LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}
	defer rows.Close()

	var out []LayoutSummary
	for rows.Next() {
		var (
			s    LayoutSummary
			seed int64
		)
		if err := rows.Scan(&s.ID, &s.Catalog, &seed, &s.Attempts, &s.Iterations, &s.RoomCount, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning layout summary: %w", err)
		}
		s.Seed = uint64(seed)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layouts: %w", err)
	}
	return out, nil
}

// Delete removes a stored layout and its rooms.
//
// Postcondition: Returns ErrLayoutNotFound if no layout had the ID.
func (r *LayoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM layouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLayoutNotFound
	}
	return nil
}
