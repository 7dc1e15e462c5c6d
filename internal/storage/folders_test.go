package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	parent, err := store.CreateFolder(ctx, "parent", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, parent.ID)
	assert.Nil(t, parent.ParentID)

	child, err := store.CreateFolder(ctx, "child", &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	folders, err := store.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "parent", folders[0].Name)
}

func TestDeleteFolder_DetachesSnippets(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	folder, err := store.CreateFolder(ctx, "doomed", nil)
	require.NoError(t, err)

	snippet, err := store.CreateSnippet(ctx, CreateSnippetRequest{
		Title: "survivor", Code: "x", Language: "go", FolderID: &folder.ID,
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteFolder(ctx, folder.ID))

	// The snippet survives with its folder reference cleared
	retrieved, err := store.GetSnippet(ctx, snippet.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.FolderID)

	folders, err := store.ListFolders(ctx)
	require.NoError(t, err)
	assert.Empty(t, folders)
}
