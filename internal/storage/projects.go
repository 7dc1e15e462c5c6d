package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const projectColumns = "id, workspace_id, name, description, project_type, template, parent_id, path, color, icon, tags, settings, metadata, is_folder, created_at, updated_at"

// CreateProject stores a caller-supplied project
func (s *SQLiteStore) CreateProject(ctx context.Context, p Project) (*Project, error) {
	if p.Tags == nil {
		p.Tags = StringList{}
	}
	if p.Settings == nil {
		p.Settings = JSONMap{}
	}
	if p.Metadata == nil {
		p.Metadata = JSONMap{}
	}
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.WorkspaceID, p.Name, p.Description, p.ProjectType,
		p.Template, p.ParentID, p.Path, p.Color, p.Icon,
		p.Tags, p.Settings, p.Metadata, p.IsFolder, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &p, nil
}

// ListProjects returns all projects, newest first
func (s *SQLiteStore) ListProjects(ctx context.Context) ([]*Project, error) {
	projects := make([]*Project, 0)
	err := sqlx.SelectContext(ctx, s.db, &projects,
		"SELECT "+projectColumns+" FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a project by id; ErrNotFound when no row matches
func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := sqlx.GetContext(ctx, s.db, &p,
		"SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// UpdateProject applies a field-level sparse update and always bumps
// updated_at
func (s *SQLiteStore) UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error) {
	b := sq.Update("projects")
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Description != nil {
		b = b.Set("description", *upd.Description)
	}
	if upd.ProjectType != nil {
		b = b.Set("project_type", *upd.ProjectType)
	}
	if upd.Template != nil {
		b = b.Set("template", *upd.Template)
	}
	if upd.ParentID != nil {
		b = b.Set("parent_id", *upd.ParentID)
	}
	if upd.Path != nil {
		b = b.Set("path", *upd.Path)
	}
	if upd.Color != nil {
		b = b.Set("color", *upd.Color)
	}
	if upd.Icon != nil {
		b = b.Set("icon", *upd.Icon)
	}
	if upd.Tags != nil {
		b = b.Set("tags", StringList(upd.Tags))
	}
	if upd.Settings != nil {
		b = b.Set("settings", JSONMap(upd.Settings))
	}
	if upd.Metadata != nil {
		b = b.Set("metadata", JSONMap(upd.Metadata))
	}
	if upd.IsFolder != nil {
		b = b.Set("is_folder", *upd.IsFolder)
	}
	b = b.Set("updated_at", nowRFC3339()).Where(sq.Eq{"id": id})

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build project update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project; snippets and todos keep their (now
// dangling) project reference, which matches the schema's lack of a
// foreign key here
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
