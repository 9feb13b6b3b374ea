package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for project persistence.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, id int64, u Update) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed project repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const projectColumns = "id, name, description, created_at, updated_at"

// Create validates and inserts p, filling in its ID and timestamps.
func (r *SQLiteRepository) Create(ctx context.Context, p *Project) error {
	if err := Validate(p); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	ts := now.Format(time.RFC3339)

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO projects (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)",
		p.Name, p.Description, ts, ts,
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading project id: %w", err)
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// List returns all projects ordered by ID.
func (r *SQLiteRepository) List(ctx context.Context) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Get retrieves a project by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*Project, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	return scanProject(row)
}

// Update replaces the name and description of project id and returns the
// stored result. No other column is touched apart from updated_at.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, u Update) (*Project, error) {
	u = u.Normalize()
	if err := u.Validate(); err != nil {
		return nil, err
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		u.Name, u.Description, time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating project %d: %w", id, err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 { //nolint:errcheck // always succeeds on SQLite
		return nil, ErrProjectNotFound
	}

	return r.Get(ctx, id)
}

// Delete removes a project by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}

	if rows, _ := result.RowsAffected(); rows == 0 { //nolint:errcheck // always succeeds on SQLite
		return ErrProjectNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*Project, error) {
	var p Project
	var createdAt, updatedAt string

	if err := s.Scan(&p.ID, &p.Name, &p.Description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

// parseTime reads an RFC3339 timestamp, returning the zero time if malformed.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
