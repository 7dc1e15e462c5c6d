package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSnippet(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title:    "binary search",
		Code:     "func search(xs []int, x int) int { ... }",
		Language: "go",
		Tags:     []string{"algorithms", "search"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, snippet.ID)
	assert.False(t, snippet.IsFavorite)
	assert.Zero(t, snippet.UsageCount)
	assert.Equal(t, snippet.CreatedAt, snippet.UpdatedAt)

	retrieved, err := store.GetSnippet(ctx, snippet.ID)
	require.NoError(t, err)
	assert.Equal(t, snippet.Title, retrieved.Title)
	assert.Equal(t, snippet.Code, retrieved.Code)
	assert.Equal(t, StringList{"algorithms", "search"}, retrieved.Tags)
}

func TestCreateSnippet_NilTags(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title:    "no tags",
		Code:     "x",
		Language: "go",
	})
	require.NoError(t, err)

	retrieved, err := store.GetSnippet(ctx, snippet.ID)
	require.NoError(t, err)
	assert.NotNil(t, retrieved.Tags)
	assert.Empty(t, retrieved.Tags)
}

func TestGetSnippet_NotFound(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	_, err := store.GetSnippet(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSnippet_Partial(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title:       "original",
		Description: strPtr("keep me"),
		Code:        "v1",
		Language:    "go",
		Tags:        []string{"a"},
	})
	require.NoError(t, err)

	updated, err := store.UpdateSnippet(ctx, UpdateSnippetRequest{
		ID:   snippet.ID,
		Code: strPtr("v2"),
	})
	require.NoError(t, err)

	// Only code changed; everything else survives
	assert.Equal(t, "v2", updated.Code)
	assert.Equal(t, "original", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)
	assert.Equal(t, StringList{"a"}, updated.Tags)
}

func TestUpdateSnippet_ClearTags(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title:    "tagged",
		Code:     "x",
		Language: "go",
		Tags:     []string{"a", "b"},
	})
	require.NoError(t, err)

	updated, err := store.UpdateSnippet(ctx, UpdateSnippetRequest{
		ID:   snippet.ID,
		Tags: []string{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)
}

func TestUpdateSnippet_NotFound(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	_, err := store.UpdateSnippet(context.Background(), UpdateSnippetRequest{
		ID:    "missing",
		Title: strPtr("x"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSnippet(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "gone soon", Code: "x", Language: "go",
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteSnippet(ctx, snippet.ID))

	_, err = store.GetSnippet(ctx, snippet.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchSnippets(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	_, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "http client", Code: "net/http", Language: "go", Tags: []string{"web"},
	})
	require.NoError(t, err)
	_, err = store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "http server", Code: "express", Language: "javascript", Tags: []string{"web"},
	})
	require.NoError(t, err)

	// Keyword only matches both
	results, err := store.SearchSnippets(ctx, SnippetSearchQuery{Keyword: "http"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// Language filter narrows to one
	results, err = store.SearchSnippets(ctx, SnippetSearchQuery{
		Keyword:  "http",
		Language: strPtr("go"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "http client", results[0].Title)

	// Tag filter
	results, err = store.SearchSnippets(ctx, SnippetSearchQuery{Tags: []string{"web"}})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	// No match
	results, err = store.SearchSnippets(ctx, SnippetSearchQuery{Keyword: "grpc"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSnippets_RecentlyUpdatedFirst(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	first, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "first", Code: "x", Language: "go",
	})
	require.NoError(t, err)
	second, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "second", Code: "y", Language: "go",
	})
	require.NoError(t, err)
	_, err = store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "other language", Code: "z", Language: "python",
	})
	require.NoError(t, err)

	// Pin distinct timestamps so ordering cannot depend on clock
	// granularity: the first snippet becomes the most recently updated
	_, err = store.db.Exec("UPDATE snippets SET updated_at = ? WHERE id = ?", int64(2000), first.ID)
	require.NoError(t, err)
	_, err = store.db.Exec("UPDATE snippets SET updated_at = ? WHERE id = ?", int64(1000), second.ID)
	require.NoError(t, err)

	results, err := store.SearchSnippets(ctx, SnippetSearchQuery{Language: strPtr("go")})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, first.ID, results[0].ID)
	assert.Equal(t, second.ID, results[1].ID)
}

func TestListSnippets_RecentlyUpdatedFirst(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	older, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "older", Code: "x", Language: "go",
	})
	require.NoError(t, err)
	newer, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "newer", Code: "y", Language: "go",
	})
	require.NoError(t, err)

	_, err = store.db.Exec("UPDATE snippets SET updated_at = ? WHERE id = ?", int64(1000), older.ID)
	require.NoError(t, err)
	_, err = store.db.Exec("UPDATE snippets SET updated_at = ? WHERE id = ?", int64(2000), newer.ID)
	require.NoError(t, err)

	snippets, err := store.ListSnippets(ctx)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, newer.ID, snippets[0].ID)
	assert.Equal(t, older.ID, snippets[1].ID)

	// Touching the older one moves it back to the front
	_, err = store.UpdateSnippet(ctx, UpdateSnippetRequest{ID: older.ID, Code: strPtr("x2")})
	require.NoError(t, err)

	snippets, err = store.ListSnippets(ctx)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, older.ID, snippets[0].ID)
	assert.Equal(t, newer.ID, snippets[1].ID)
}

func TestSearchSnippetsText(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	created, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "quicksort partition", Code: "func partition(...)", Language: "go",
	})
	require.NoError(t, err)
	_, err = store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "unrelated", Code: "fmt.Println", Language: "go",
	})
	require.NoError(t, err)

	results, err := store.SearchSnippetsText(ctx, "quicksort", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].ID)

	// The mirror follows deletes via trigger
	require.NoError(t, store.DeleteSnippet(ctx, created.ID))
	results, err = store.SearchSnippetsText(ctx, "quicksort", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIncrementSnippetUsage(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "counted", Code: "x", Language: "go",
	})
	require.NoError(t, err)

	require.NoError(t, store.IncrementSnippetUsage(ctx, snippet.ID))
	require.NoError(t, store.IncrementSnippetUsage(ctx, snippet.ID))

	retrieved, err := store.GetSnippet(ctx, snippet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), retrieved.UsageCount)

	err = store.IncrementSnippetUsage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleSnippetFavorite(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "starred", Code: "x", Language: "go",
	})
	require.NoError(t, err)

	toggled, err := store.ToggleSnippetFavorite(ctx, snippet.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)

	toggled, err = store.ToggleSnippetFavorite(ctx, snippet.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)
}

func TestExportSnippetsJSON(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	_, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "exported", Code: "x", Language: "go",
	})
	require.NoError(t, err)

	out, err := store.ExportSnippetsJSON(ctx)
	require.NoError(t, err)

	var decoded []Snippet
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "exported", decoded[0].Title)
}
