package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// tagColor is one entry of the closed tag palette: a foreground and a
// matching pale background
type tagColor struct {
	Color   string
	BgColor string
}

// tagPalette maps every accepted color id to its hex pair. Tags store
// both the id and the resolved pair, so existing rows keep their colors
// even if the palette changes.
var tagPalette = map[string]tagColor{
	"red":     {"#ef4444", "#fef2f2"},
	"orange":  {"#f97316", "#fff7ed"},
	"amber":   {"#f59e0b", "#fffbeb"},
	"yellow":  {"#eab308", "#fefce8"},
	"lime":    {"#84cc16", "#f7fee7"},
	"green":   {"#22c55e", "#f0fdf4"},
	"emerald": {"#10b981", "#ecfdf5"},
	"teal":    {"#14b8a6", "#f0fdfa"},
	"cyan":    {"#06b6d4", "#ecfeff"},
	"sky":     {"#0ea5e9", "#f0f9ff"},
	"blue":    {"#3b82f6", "#eff6ff"},
	"indigo":  {"#6366f1", "#eef2ff"},
	"violet":  {"#8b5cf6", "#f5f3ff"},
	"purple":  {"#a855f7", "#faf5ff"},
	"fuchsia": {"#d946ef", "#fdf4ff"},
	"pink":    {"#ec4899", "#fdf2f8"},
	"rose":    {"#f43f5e", "#fff1f2"},
	"gray":    {"#6b7280", "#f9fafb"},
}

func resolveTagColor(colorID string) (tagColor, error) {
	c, ok := tagPalette[colorID]
	if !ok {
		return tagColor{}, fmt.Errorf("%w: %q", ErrUnknownColor, colorID)
	}
	return c, nil
}

const tagColumns = "id, name, color, bg_color, color_id, created_at"

// CreateTodoTag stores a new tag. The color id must name a palette entry;
// an unknown id fails before anything is written.
func (s *SQLiteStore) CreateTodoTag(ctx context.Context, req CreateTodoTagRequest) (*TodoTag, error) {
	c, err := resolveTagColor(req.ColorID)
	if err != nil {
		return nil, err
	}

	tag := &TodoTag{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Color:     c.Color,
		BgColor:   c.BgColor,
		ColorID:   req.ColorID,
		CreatedAt: nowMillis(),
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO todo_tags ("+tagColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		tag.ID, tag.Name, tag.Color, tag.BgColor, tag.ColorID, tag.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// ListTodoTags returns all tags oldest-first
func (s *SQLiteStore) ListTodoTags(ctx context.Context) ([]*TodoTag, error) {
	tags := make([]*TodoTag, 0)
	err := sqlx.SelectContext(ctx, s.db, &tags,
		"SELECT "+tagColumns+" FROM todo_tags ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetTodoTag fetches a tag by id; ErrNotFound when no row matches
func (s *SQLiteStore) GetTodoTag(ctx context.Context, id string) (*TodoTag, error) {
	var tag TodoTag
	err := sqlx.GetContext(ctx, s.db, &tag,
		"SELECT "+tagColumns+" FROM todo_tags WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}

// UpdateTodoTag renames a tag, recolors it from the palette, or both.
// With neither field set there is nothing to do and the call fails with
// ErrNoUpdates.
func (s *SQLiteStore) UpdateTodoTag(ctx context.Context, req UpdateTodoTagRequest) (*TodoTag, error) {
	if req.Name == nil && req.ColorID == nil {
		return nil, ErrNoUpdates
	}

	b := sq.Update("todo_tags")
	if req.Name != nil {
		b = b.Set("name", *req.Name)
	}
	if req.ColorID != nil {
		c, err := resolveTagColor(*req.ColorID)
		if err != nil {
			return nil, err
		}
		b = b.Set("color", c.Color).Set("bg_color", c.BgColor).Set("color_id", *req.ColorID)
	}
	b = b.Where(sq.Eq{"id": req.ID})

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tag update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.GetTodoTag(ctx, req.ID)
}

// DeleteTodoTag removes a tag; its relations go via referential cascade
func (s *SQLiteStore) DeleteTodoTag(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM todo_tags WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}
