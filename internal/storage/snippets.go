package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const snippetColumns = "id, title, description, code, language, tags, folder_id, project_id, is_favorite, usage_count, created_at, updated_at"

// CreateSnippet stores a new snippet with a generated id, favorite off and
// a zero usage counter
func (s *SQLiteStore) CreateSnippet(ctx context.Context, req CreateSnippetRequest) (*Snippet, error) {
	now := nowMillis()
	snippet := &Snippet{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Language:    req.Language,
		Tags:        StringList(req.Tags),
		FolderID:    req.FolderID,
		ProjectID:   req.ProjectID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if snippet.Tags == nil {
		snippet.Tags = StringList{}
	}

	query := `
		INSERT INTO snippets (` + snippetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		snippet.ID, snippet.Title, snippet.Description, snippet.Code,
		snippet.Language, snippet.Tags, snippet.FolderID, snippet.ProjectID,
		snippet.IsFavorite, snippet.UsageCount, snippet.CreatedAt, snippet.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create snippet: %w", err)
	}
	return snippet, nil
}

// GetSnippet fetches a snippet by id; ErrNotFound when no row matches
func (s *SQLiteStore) GetSnippet(ctx context.Context, id string) (*Snippet, error) {
	return getSnippet(ctx, s.db, id)
}

func getSnippet(ctx context.Context, q querier, id string) (*Snippet, error) {
	var snippet Snippet
	err := sqlx.GetContext(ctx, q, &snippet,
		"SELECT "+snippetColumns+" FROM snippets WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snippet: %w", err)
	}
	return &snippet, nil
}

// ListSnippets returns all snippets, most recently updated first
func (s *SQLiteStore) ListSnippets(ctx context.Context) ([]*Snippet, error) {
	snippets := make([]*Snippet, 0)
	err := sqlx.SelectContext(ctx, s.db, &snippets,
		"SELECT "+snippetColumns+" FROM snippets ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets: %w", err)
	}
	return snippets, nil
}

// ListSnippetsByProject returns the snippets attached to one project,
// most recently updated first
func (s *SQLiteStore) ListSnippetsByProject(ctx context.Context, projectID string) ([]*Snippet, error) {
	snippets := make([]*Snippet, 0)
	err := sqlx.SelectContext(ctx, s.db, &snippets,
		"SELECT "+snippetColumns+" FROM snippets WHERE project_id = ? ORDER BY updated_at DESC", projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippets by project: %w", err)
	}
	return snippets, nil
}

// UpdateSnippet applies a sparse update: nil fields keep their current
// persisted values, which requires reading the row first
func (s *SQLiteStore) UpdateSnippet(ctx context.Context, req UpdateSnippetRequest) (*Snippet, error) {
	current, err := s.GetSnippet(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.Description != nil {
		next.Description = req.Description
	}
	if req.Code != nil {
		next.Code = *req.Code
	}
	if req.Language != nil {
		next.Language = *req.Language
	}
	if req.Tags != nil {
		next.Tags = StringList(req.Tags)
	}
	if req.FolderID != nil {
		next.FolderID = req.FolderID
	}
	if req.ProjectID != nil {
		next.ProjectID = req.ProjectID
	}
	if req.IsFavorite != nil {
		next.IsFavorite = *req.IsFavorite
	}
	if req.UsageCount != nil {
		next.UsageCount = *req.UsageCount
	}
	next.UpdatedAt = nowMillis()

	query := `
		UPDATE snippets
		SET title = ?, description = ?, code = ?, language = ?, tags = ?,
		    folder_id = ?, project_id = ?, is_favorite = ?, usage_count = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = s.db.ExecContext(ctx, query,
		next.Title, next.Description, next.Code, next.Language, next.Tags,
		next.FolderID, next.ProjectID, next.IsFavorite, next.UsageCount,
		next.UpdatedAt, next.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update snippet: %w", err)
	}
	return &next, nil
}

// DeleteSnippet removes a snippet; the search mirror follows via trigger
func (s *SQLiteStore) DeleteSnippet(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snippets WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}
	return nil
}

// SearchSnippets filters by keyword substring (title, description, code),
// exact language and tag substrings, all ANDed, most recently updated
// first. Every predicate value is bound, never interpolated.
func (s *SQLiteStore) SearchSnippets(ctx context.Context, query SnippetSearchQuery) ([]*Snippet, error) {
	b := sq.Select(snippetColumns).From("snippets")

	if query.Keyword != "" {
		pattern := "%" + query.Keyword + "%"
		b = b.Where(sq.Or{
			sq.Like{"title": pattern},
			sq.Like{"description": pattern},
			sq.Like{"code": pattern},
		})
	}
	if query.Language != nil {
		b = b.Where(sq.Eq{"language": *query.Language})
	}
	for _, tag := range query.Tags {
		b = b.Where(sq.Like{"tags": "%" + tag + "%"})
	}

	sqlStr, args, err := b.OrderBy("updated_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snippet search: %w", err)
	}

	snippets := make([]*Snippet, 0)
	if err := sqlx.SelectContext(ctx, s.db, &snippets, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to search snippets: %w", err)
	}
	return snippets, nil
}

// SearchSnippetsText queries the trigram search mirror. Results come back
// best match first (FTS5 rank).
func (s *SQLiteStore) SearchSnippetsText(ctx context.Context, query string, limit int) ([]*Snippet, error) {
	if limit <= 0 {
		limit = 50
	}
	sqlStr := `
		SELECT s.id, s.title, s.description, s.code, s.language, s.tags,
		       s.folder_id, s.project_id, s.is_favorite, s.usage_count,
		       s.created_at, s.updated_at
		FROM snippets s
		JOIN snippets_fts ON s.id = snippets_fts.id
		WHERE snippets_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`
	snippets := make([]*Snippet, 0)
	if err := sqlx.SelectContext(ctx, s.db, &snippets, sqlStr, query, limit); err != nil {
		return nil, fmt.Errorf("failed to search snippet text: %w", err)
	}
	return snippets, nil
}

// IncrementSnippetUsage bumps the usage counter without touching other
// fields
func (s *SQLiteStore) IncrementSnippetUsage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE snippets SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?",
		nowMillis(), id)
	if err != nil {
		return fmt.Errorf("failed to increment snippet usage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleSnippetFavorite flips the favorite flag and returns the updated
// snippet
func (s *SQLiteStore) ToggleSnippetFavorite(ctx context.Context, id string) (*Snippet, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE snippets SET is_favorite = NOT is_favorite, updated_at = ? WHERE id = ?",
		nowMillis(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle snippet favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetSnippet(ctx, id)
}

// ExportSnippetsJSON serializes every snippet to an indented JSON document
func (s *SQLiteStore) ExportSnippetsJSON(ctx context.Context) (string, error) {
	snippets, err := s.ListSnippets(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snippets, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export snippets: %w", err)
	}
	return string(data), nil
}
