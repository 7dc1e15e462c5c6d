package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTodoStats(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	inThreeDays := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")

	_, err := store.CreateTodo(ctx, CreateTodoRequest{
		Title:    "overdue",
		DueDate:  &yesterday,
		Priority: strPtr("high"),
		Assignee: strPtr("sam"),
	})
	require.NoError(t, err)
	_, err = store.CreateTodo(ctx, CreateTodoRequest{
		Title:   "due today",
		DueDate: &today,
		Status:  strPtr("in_progress"),
	})
	require.NoError(t, err)
	_, err = store.CreateTodo(ctx, CreateTodoRequest{
		Title:   "due soon",
		DueDate: &inThreeDays,
		Status:  strPtr("blocked"),
	})
	require.NoError(t, err)

	done, err := store.CreateTodo(ctx, CreateTodoRequest{Title: "done"})
	require.NoError(t, err)
	_, err = store.UpdateTodo(ctx, UpdateTodoRequest{ID: done.ID, Completed: boolPtr(true)})
	require.NoError(t, err)

	// Archived todos never count
	shelved, err := store.CreateTodo(ctx, CreateTodoRequest{Title: "shelved"})
	require.NoError(t, err)
	_, err = store.UpdateTodo(ctx, UpdateTodoRequest{ID: shelved.ID, Archived: boolPtr(true)})
	require.NoError(t, err)

	stats, err := store.GetTodoStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, stats.Total-stats.Completed, stats.Pending)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(1), stats.Blocked)
	assert.Equal(t, int64(1), stats.Overdue)
	assert.Equal(t, int64(1), stats.DueToday)
	assert.Equal(t, int64(2), stats.DueThisWeek)

	assert.Equal(t, int64(1), stats.ByPriority["high"])
	assert.Equal(t, int64(3), stats.ByPriority["none"])
	assert.Equal(t, int64(4), stats.ByProject["none"])
	assert.Equal(t, int64(1), stats.ByAssignee["sam"])
	assert.Equal(t, int64(3), stats.ByAssignee["unassigned"])
}

func TestGetTodoStats_Empty(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	stats, err := store.GetTodoStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Pending)
	assert.NotNil(t, stats.ByPriority)
	assert.Empty(t, stats.ByPriority)
}
