package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

const gitRepoColumns = "id, name, description, path, is_default, remotes, created_at, updated_at"

// CreateGitRepository stores a caller-supplied repository reference. The
// filesystem path is unique; a duplicate insert fails.
func (s *SQLiteStore) CreateGitRepository(ctx context.Context, repo GitRepository) (*GitRepository, error) {
	if repo.Remotes == nil {
		repo.Remotes = RemoteList{}
	}
	query := `
		INSERT INTO git_repositories (` + gitRepoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		repo.ID, repo.Name, repo.Description, repo.Path, repo.IsDefault,
		repo.Remotes, repo.CreatedAt, repo.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create git repository: %w", err)
	}
	return &repo, nil
}

// ListGitRepositories returns all repositories, newest first
func (s *SQLiteStore) ListGitRepositories(ctx context.Context) ([]*GitRepository, error) {
	repos := make([]*GitRepository, 0)
	err := sqlx.SelectContext(ctx, s.db, &repos,
		"SELECT "+gitRepoColumns+" FROM git_repositories ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list git repositories: %w", err)
	}
	return repos, nil
}

// GetGitRepository fetches a repository by id; ErrNotFound when no row
// matches
func (s *SQLiteStore) GetGitRepository(ctx context.Context, id string) (*GitRepository, error) {
	var repo GitRepository
	err := sqlx.GetContext(ctx, s.db, &repo,
		"SELECT "+gitRepoColumns+" FROM git_repositories WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get git repository: %w", err)
	}
	return &repo, nil
}

// UpdateGitRepository applies a field-level sparse update and always bumps
// updated_at
func (s *SQLiteStore) UpdateGitRepository(ctx context.Context, id string, upd GitRepositoryUpdate) (*GitRepository, error) {
	b := sq.Update("git_repositories")
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Description != nil {
		b = b.Set("description", *upd.Description)
	}
	if upd.Path != nil {
		b = b.Set("path", *upd.Path)
	}
	if upd.IsDefault != nil {
		b = b.Set("is_default", *upd.IsDefault)
	}
	if upd.Remotes != nil {
		b = b.Set("remotes", RemoteList(upd.Remotes))
	}
	b = b.Set("updated_at", nowRFC3339()).Where(sq.Eq{"id": id})

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build git repository update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update git repository: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetGitRepository(ctx, id)
}

// DeleteGitRepository removes a repository reference
func (s *SQLiteStore) DeleteGitRepository(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM git_repositories WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete git repository: %w", err)
	}
	return nil
}
