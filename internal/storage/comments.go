package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AddTodoComment appends a comment to a todo
func (s *SQLiteStore) AddTodoComment(ctx context.Context, todoID, content string, author *string) (*TodoComment, error) {
	comment := &TodoComment{
		ID:        uuid.NewString(),
		TodoID:    todoID,
		Content:   content,
		Author:    author,
		CreatedAt: nowMillis(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todo_comments (id, todo_id, content, author, created_at) VALUES (?, ?, ?, ?, ?)",
		comment.ID, comment.TodoID, comment.Content, comment.Author, comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

// ListTodoComments returns a todo's comments oldest-first
func (s *SQLiteStore) ListTodoComments(ctx context.Context, todoID string) ([]*TodoComment, error) {
	comments := make([]*TodoComment, 0)
	err := sqlx.SelectContext(ctx, s.db, &comments,
		"SELECT id, todo_id, content, author, created_at FROM todo_comments WHERE todo_id = ? ORDER BY created_at ASC",
		todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteTodoComment removes a single comment
func (s *SQLiteStore) DeleteTodoComment(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM todo_comments WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// AddTodoAttachment records a file reference against a todo. The file
// itself lives outside the database; only path and metadata are stored.
func (s *SQLiteStore) AddTodoAttachment(ctx context.Context, req CreateTodoAttachmentRequest) (*TodoAttachment, error) {
	attachment := &TodoAttachment{
		ID:        uuid.NewString(),
		TodoID:    req.TodoID,
		Filename:  req.Filename,
		Filepath:  req.Filepath,
		Size:      req.Size,
		MimeType:  req.MimeType,
		CreatedAt: nowMillis(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todo_attachments (id, todo_id, filename, filepath, size, mime_type, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		attachment.ID, attachment.TodoID, attachment.Filename, attachment.Filepath,
		attachment.Size, attachment.MimeType, attachment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}
	return attachment, nil
}

// ListTodoAttachments returns a todo's attachments oldest-first
func (s *SQLiteStore) ListTodoAttachments(ctx context.Context, todoID string) ([]*TodoAttachment, error) {
	attachments := make([]*TodoAttachment, 0)
	err := sqlx.SelectContext(ctx, s.db, &attachments,
		"SELECT id, todo_id, filename, filepath, size, mime_type, created_at FROM todo_attachments WHERE todo_id = ? ORDER BY created_at ASC",
		todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// DeleteTodoAttachment removes a single attachment record
func (s *SQLiteStore) DeleteTodoAttachment(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM todo_attachments WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
