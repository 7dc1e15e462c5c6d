package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTodoComment(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	todo, err := store.CreateTodo(ctx, CreateTodoRequest{Title: "discussed"})
	require.NoError(t, err)

	first, err := store.AddTodoComment(ctx, todo.ID, "looks good", strPtr("sam"))
	require.NoError(t, err)
	_, err = store.AddTodoComment(ctx, todo.ID, "shipped", nil)
	require.NoError(t, err)

	comments, err := store.ListTodoComments(ctx, todo.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "sam", *comments[0].Author)
	assert.Nil(t, comments[1].Author)
}

func TestDeleteTodoComment(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	todo, err := store.CreateTodo(ctx, CreateTodoRequest{Title: "discussed"})
	require.NoError(t, err)

	comment, err := store.AddTodoComment(ctx, todo.ID, "temp", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteTodoComment(ctx, comment.ID))

	comments, err := store.ListTodoComments(ctx, todo.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestTodoAttachments(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	todo, err := store.CreateTodo(ctx, CreateTodoRequest{Title: "documented"})
	require.NoError(t, err)

	size := int64(2048)
	attachment, err := store.AddTodoAttachment(ctx, CreateTodoAttachmentRequest{
		TodoID:   todo.ID,
		Filename: "design.pdf",
		Filepath: "/attachments/design.pdf",
		Size:     &size,
		MimeType: strPtr("application/pdf"),
	})
	require.NoError(t, err)

	attachments, err := store.ListTodoAttachments(ctx, todo.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, attachment.ID, attachments[0].ID)
	require.NotNil(t, attachments[0].Size)
	assert.Equal(t, int64(2048), *attachments[0].Size)

	require.NoError(t, store.DeleteTodoAttachment(ctx, attachment.ID))

	attachments, err = store.ListTodoAttachments(ctx, todo.ID)
	require.NoError(t, err)
	assert.Empty(t, attachments)
}

func TestDeleteTodo_CascadesCommentsAndAttachments(t *testing.T) {
	store := setupTestDB(t)
	defer store.Close()

	ctx := context.Background()
	todo, err := store.CreateTodo(ctx, CreateTodoRequest{Title: "doomed"})
	require.NoError(t, err)

	_, err = store.AddTodoComment(ctx, todo.ID, "bye", nil)
	require.NoError(t, err)
	_, err = store.AddTodoAttachment(ctx, CreateTodoAttachmentRequest{
		TodoID: todo.ID, Filename: "f", Filepath: "/f",
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteTodo(ctx, todo.ID))

	comments, err := store.ListTodoComments(ctx, todo.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	attachments, err := store.ListTodoAttachments(ctx, todo.ID)
	require.NoError(t, err)
	assert.Empty(t, attachments)
}
