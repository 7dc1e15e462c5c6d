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

const todoColumns = "id, title, description, status, priority, due_date, estimated_hours, actual_hours, progress, assignee, project_id, parent_id, recurring_config, dependencies, completed, archived, created_by, updated_by, created_at, updated_at, archived_at"

// todoColumnsT is todoColumns qualified with the "t" alias for joined
// queries
const todoColumnsT = "t.id, t.title, t.description, t.status, t.priority, t.due_date, t.estimated_hours, t.actual_hours, t.progress, t.assignee, t.project_id, t.parent_id, t.recurring_config, t.dependencies, t.completed, t.archived, t.created_by, t.updated_by, t.created_at, t.updated_at, t.archived_at"

// CreateTodo stores a new todo with a generated id. Status defaults to
// "todo"; progress, completed and archived start zeroed. Supplied tag ids
// become relations with ignore-on-conflict semantics. Parent and
// dependency ids are taken as-is; existence and acyclicity are the
// caller's contract.
func (s *SQLiteStore) CreateTodo(ctx context.Context, req CreateTodoRequest) (*Todo, error) {
	id := uuid.NewString()
	now := nowMillis()

	status := "todo"
	if req.Status != nil {
		status = *req.Status
	}
	deps := StringList(req.Dependencies)
	if deps == nil {
		deps = StringList{}
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO todos (` + todoColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			id, req.Title, req.Description, status, req.Priority, req.DueDate,
			req.EstimatedHours, nil, 0, req.Assignee, req.ProjectID, req.ParentID,
			req.RecurringConfig, deps, false, false,
			req.Assignee, req.Assignee, now, now, nil)
		if err != nil {
			return fmt.Errorf("failed to create todo: %w", err)
		}
		return insertTagRelations(ctx, tx, id, req.Tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetTodo(ctx, id)
}

// GetTodo assembles a todo: the row, its tag ids and one level of
// subtasks. ErrNotFound when no row matches.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*Todo, error) {
	return getTodoAssembled(ctx, s.db, id)
}

func getTodoAssembled(ctx context.Context, q querier, id string) (*Todo, error) {
	var todo Todo
	err := sqlx.GetContext(ctx, q, &todo,
		"SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	if err := resolveTodoRelations(ctx, q, &todo, true); err != nil {
		return nil, err
	}
	return &todo, nil
}

// resolveTodoRelations fills in tag ids and, when withSubtasks is set, one
// level of children
func resolveTodoRelations(ctx context.Context, q querier, todo *Todo, withSubtasks bool) error {
	tags, err := todoTagIDs(ctx, q, todo.ID)
	if err != nil {
		return err
	}
	todo.Tags = tags
	todo.Subtasks = []*Todo{}
	if !withSubtasks {
		return nil
	}
	subtasks, err := listSubtasks(ctx, q, todo.ID)
	if err != nil {
		return err
	}
	todo.Subtasks = subtasks
	return nil
}

func todoTagIDs(ctx context.Context, q querier, todoID string) ([]string, error) {
	ids := make([]string, 0)
	err := sqlx.SelectContext(ctx, q, &ids, `
		SELECT tt.id FROM todo_tags tt
		JOIN todo_tag_relations ttr ON tt.id = ttr.tag_id
		WHERE ttr.todo_id = ?
	`, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo tags: %w", err)
	}
	return ids, nil
}

// listSubtasks loads the direct children of a todo, oldest first. Children
// carry their tags but never their own subtasks; recursion stops at one
// level.
func listSubtasks(ctx context.Context, q querier, parentID string) ([]*Todo, error) {
	subtasks := make([]*Todo, 0)
	err := sqlx.SelectContext(ctx, q, &subtasks,
		"SELECT "+todoColumns+" FROM todos WHERE parent_id = ? ORDER BY created_at ASC", parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subtasks: %w", err)
	}
	for _, sub := range subtasks {
		if err := resolveTodoRelations(ctx, q, sub, false); err != nil {
			return nil, err
		}
	}
	return subtasks, nil
}

// ListTodos returns all todos fully assembled, newest first
func (s *SQLiteStore) ListTodos(ctx context.Context) ([]*Todo, error) {
	todos := make([]*Todo, 0)
	err := sqlx.SelectContext(ctx, s.db, &todos,
		"SELECT "+todoColumns+" FROM todos ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	for _, todo := range todos {
		if err := resolveTodoRelations(ctx, s.db, todo, true); err != nil {
			return nil, err
		}
	}
	return todos, nil
}

// UpdateTodo applies a sparse update. A non-nil Tags slice replaces the
// whole relation set; the row update and the relation swap share one
// transaction so a failure cannot leave the tags half-written.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, req UpdateTodoRequest) (*Todo, error) {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		return applyTodoUpdate(ctx, tx, req)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTodo(ctx, req.ID)
}

// applyTodoUpdate is shared between UpdateTodo and the batch "update"
// operation; q is always a transaction
func applyTodoUpdate(ctx context.Context, tx *sqlx.Tx, req UpdateTodoRequest) error {
	if req.ParentID != nil && *req.ParentID == req.ID {
		return ErrInvalidParent
	}

	now := nowMillis()
	b := sq.Update("todos")
	if req.Title != nil {
		b = b.Set("title", *req.Title)
	}
	if req.Description != nil {
		b = b.Set("description", *req.Description)
	}
	if req.Status != nil {
		b = b.Set("status", *req.Status)
	}
	if req.Priority != nil {
		b = b.Set("priority", *req.Priority)
	}
	if req.DueDate != nil {
		b = b.Set("due_date", *req.DueDate)
	}
	if req.EstimatedHours != nil {
		b = b.Set("estimated_hours", *req.EstimatedHours)
	}
	if req.ActualHours != nil {
		b = b.Set("actual_hours", *req.ActualHours)
	}
	if req.Progress != nil {
		b = b.Set("progress", *req.Progress)
	}
	if req.ParentID != nil {
		b = b.Set("parent_id", *req.ParentID)
	}
	if req.Completed != nil {
		b = b.Set("completed", *req.Completed)
	}
	if req.Archived != nil {
		b = b.Set("archived", *req.Archived)
		if *req.Archived {
			b = b.Set("archived_at", now)
		}
	}
	b = b.Set("updated_at", now).Where(sq.Eq{"id": req.ID})

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build todo update: %w", err)
	}
	res, err := tx.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if req.Tags != nil {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM todo_tag_relations WHERE todo_id = ?", req.ID); err != nil {
			return fmt.Errorf("failed to remove tag relations: %w", err)
		}
		if err := insertTagRelations(ctx, tx, req.ID, req.Tags); err != nil {
			return err
		}
	}
	return nil
}

func insertTagRelations(ctx context.Context, tx *sqlx.Tx, todoID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO todo_tag_relations (todo_id, tag_id) VALUES (?, ?)",
			todoID, tagID); err != nil {
			return fmt.Errorf("failed to add tag relation: %w", err)
		}
	}
	return nil
}

// DeleteTodo removes the todo's direct subtasks and then the todo itself,
// in one transaction. Only one level is cascaded: grandchildren are
// orphaned on purpose. Tag relations go via referential cascade.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM todos WHERE parent_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete subtasks: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM todos WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete todo: %w", err)
		}
		return nil
	})
}

// SearchTodos composes keyword, status, priority, completed, archived and
// tag-membership filters, all ANDed, newest-updated first. Tag ids OR
// together via an IN over the relation join. Every predicate value is
// bound.
func (s *SQLiteStore) SearchTodos(ctx context.Context, query TodoSearchQuery) ([]*Todo, error) {
	b := sq.Select(todoColumnsT).From("todos t")

	if len(query.Tags) > 0 {
		b = b.Distinct().
			LeftJoin("todo_tag_relations ttr ON t.id = ttr.todo_id").
			Where(sq.Eq{"ttr.tag_id": query.Tags})
	}
	if query.Keyword != nil && *query.Keyword != "" {
		pattern := "%" + *query.Keyword + "%"
		b = b.Where(sq.Or{
			sq.Like{"t.title": pattern},
			sq.Like{"t.description": pattern},
		})
	}
	if query.Status != nil {
		b = b.Where(sq.Eq{"t.status": *query.Status})
	}
	if query.Priority != nil {
		b = b.Where(sq.Eq{"t.priority": *query.Priority})
	}
	if query.Completed != nil {
		b = b.Where(sq.Eq{"t.completed": *query.Completed})
	}
	if query.Archived != nil {
		b = b.Where(sq.Eq{"t.archived": *query.Archived})
	}

	sqlStr, args, err := b.OrderBy("t.updated_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build todo search: %w", err)
	}

	todos := make([]*Todo, 0)
	if err := sqlx.SelectContext(ctx, s.db, &todos, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to search todos: %w", err)
	}
	for _, todo := range todos {
		if err := resolveTodoRelations(ctx, s.db, todo, true); err != nil {
			return nil, err
		}
	}
	return todos, nil
}

// BatchUpdateTodos applies one operation to every target id. The whole
// batch runs in a single transaction and rolls back together on any
// failure. "delete" returns an empty list since the targets no longer
// exist; the other kinds return the updated todos, skipping ids that no
// longer load.
func (s *SQLiteStore) BatchUpdateTodos(ctx context.Context, op BatchTodoOperation) ([]*Todo, error) {
	switch op.Operation {
	case BatchOpComplete, BatchOpArchive, BatchOpDelete, BatchOpUpdate:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBatchOp, op.Operation)
	}

	now := nowMillis()
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, todoID := range op.TodoIDs {
			switch op.Operation {
			case BatchOpComplete:
				if _, err := tx.ExecContext(ctx,
					"UPDATE todos SET completed = TRUE, status = 'completed', updated_at = ? WHERE id = ?",
					now, todoID); err != nil {
					return fmt.Errorf("failed to complete todo %s: %w", todoID, err)
				}
			case BatchOpArchive:
				if _, err := tx.ExecContext(ctx,
					"UPDATE todos SET archived = TRUE, archived_at = ?, updated_at = ? WHERE id = ?",
					now, now, todoID); err != nil {
					return fmt.Errorf("failed to archive todo %s: %w", todoID, err)
				}
			case BatchOpDelete:
				if _, err := tx.ExecContext(ctx,
					"DELETE FROM todos WHERE id = ?", todoID); err != nil {
					return fmt.Errorf("failed to delete todo %s: %w", todoID, err)
				}
			case BatchOpUpdate:
				if op.Updates == nil {
					continue
				}
				req := *op.Updates
				req.ID = todoID
				if err := applyTodoUpdate(ctx, tx, req); err != nil {
					return fmt.Errorf("failed to update todo %s: %w", todoID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if op.Operation == BatchOpDelete {
		return []*Todo{}, nil
	}

	result := make([]*Todo, 0, len(op.TodoIDs))
	for _, todoID := range op.TodoIDs {
		todo, err := s.GetTodo(ctx, todoID)
		if err != nil {
			continue
		}
		result = append(result, todo)
	}
	return result, nil
}
