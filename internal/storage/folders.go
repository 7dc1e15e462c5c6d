package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CreateFolder stores a new folder node
func (s *SQLiteStore) CreateFolder(ctx context.Context, name string, parentID *string) (*Folder, error) {
	folder := &Folder{
		ID:        uuid.NewString(),
		Name:      name,
		ParentID:  parentID,
		CreatedAt: nowMillis(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO folders (id, name, parent_id, created_at) VALUES (?, ?, ?, ?)",
		folder.ID, folder.Name, folder.ParentID, folder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	return folder, nil
}

// ListFolders returns all folders oldest-first, which keeps the folder
// tree display stable
func (s *SQLiteStore) ListFolders(ctx context.Context) ([]*Folder, error) {
	folders := make([]*Folder, 0)
	err := sqlx.SelectContext(ctx, s.db, &folders,
		"SELECT id, name, parent_id, created_at FROM folders ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// DeleteFolder detaches the folder's snippets and removes the folder in
// one transaction. Snippets are never cascade-deleted.
func (s *SQLiteStore) DeleteFolder(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE snippets SET folder_id = NULL WHERE folder_id = ?", id); err != nil {
			return fmt.Errorf("failed to detach snippets: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM folders WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		return nil
	})
	return err
}
