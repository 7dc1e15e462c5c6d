package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const workspaceColumns = "id, name, description, color, is_default, settings, created_at, updated_at"

// CreateWorkspace stores a caller-supplied workspace. Unlike snippets and
// todos, the caller provides the id and timestamps.
func (s *SQLiteStore) CreateWorkspace(ctx context.Context, ws Workspace) (*Workspace, error) {
	if ws.Settings == nil {
		ws.Settings = JSONMap{}
	}
	query := `
		INSERT INTO workspaces (` + workspaceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		ws.ID, ws.Name, ws.Description, ws.Color, ws.IsDefault,
		ws.Settings, ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &ws, nil
}

// ListWorkspaces returns all workspaces, newest first
func (s *SQLiteStore) ListWorkspaces(ctx context.Context) ([]*Workspace, error) {
	workspaces := make([]*Workspace, 0)
	err := sqlx.SelectContext(ctx, s.db, &workspaces,
		"SELECT "+workspaceColumns+" FROM workspaces ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetWorkspace fetches a workspace by id; ErrNotFound when no row matches
func (s *SQLiteStore) GetWorkspace(ctx context.Context, id string) (*Workspace, error) {
	var ws Workspace
	err := sqlx.GetContext(ctx, s.db, &ws,
		"SELECT "+workspaceColumns+" FROM workspaces WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &ws, nil
}

// UpdateWorkspace applies a field-level sparse update and always bumps
// updated_at
func (s *SQLiteStore) UpdateWorkspace(ctx context.Context, id string, upd WorkspaceUpdate) (*Workspace, error) {
	b := sq.Update("workspaces")
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Description != nil {
		b = b.Set("description", *upd.Description)
	}
	if upd.Color != nil {
		b = b.Set("color", *upd.Color)
	}
	if upd.IsDefault != nil {
		b = b.Set("is_default", *upd.IsDefault)
	}
	if upd.Settings != nil {
		b = b.Set("settings", JSONMap(upd.Settings))
	}
	b = b.Set("updated_at", nowRFC3339()).Where(sq.Eq{"id": id})

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build workspace update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetWorkspace(ctx, id)
}

// DeleteWorkspace removes a workspace
func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM workspaces WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}
