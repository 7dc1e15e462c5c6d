package storage

import (
	"context"
)

// Store defines the interface for persisting and querying snippets,
// organizational entities and the todo subsystem
type Store interface {
	// Snippet operations
	CreateSnippet(ctx context.Context, req CreateSnippetRequest) (*Snippet, error)
	GetSnippet(ctx context.Context, id string) (*Snippet, error)
	ListSnippets(ctx context.Context) ([]*Snippet, error)
	ListSnippetsByProject(ctx context.Context, projectID string) ([]*Snippet, error)
	UpdateSnippet(ctx context.Context, req UpdateSnippetRequest) (*Snippet, error)
	DeleteSnippet(ctx context.Context, id string) error
	SearchSnippets(ctx context.Context, query SnippetSearchQuery) ([]*Snippet, error)
	SearchSnippetsText(ctx context.Context, query string, limit int) ([]*Snippet, error)
	IncrementSnippetUsage(ctx context.Context, id string) error
	ToggleSnippetFavorite(ctx context.Context, id string) (*Snippet, error)
	ExportSnippetsJSON(ctx context.Context) (string, error)

	// Folder operations
	CreateFolder(ctx context.Context, name string, parentID *string) (*Folder, error)
	ListFolders(ctx context.Context) ([]*Folder, error)
	DeleteFolder(ctx context.Context, id string) error

	// Workspace operations
	CreateWorkspace(ctx context.Context, ws Workspace) (*Workspace, error)
	ListWorkspaces(ctx context.Context) ([]*Workspace, error)
	GetWorkspace(ctx context.Context, id string) (*Workspace, error)
	UpdateWorkspace(ctx context.Context, id string, upd WorkspaceUpdate) (*Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error

	// Project operations
	CreateProject(ctx context.Context, p Project) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Git repository operations
	CreateGitRepository(ctx context.Context, repo GitRepository) (*GitRepository, error)
	ListGitRepositories(ctx context.Context) ([]*GitRepository, error)
	GetGitRepository(ctx context.Context, id string) (*GitRepository, error)
	UpdateGitRepository(ctx context.Context, id string, upd GitRepositoryUpdate) (*GitRepository, error)
	DeleteGitRepository(ctx context.Context, id string) error

	// Todo operations
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*Todo, error)
	GetTodo(ctx context.Context, id string) (*Todo, error)
	ListTodos(ctx context.Context) ([]*Todo, error)
	UpdateTodo(ctx context.Context, req UpdateTodoRequest) (*Todo, error)
	DeleteTodo(ctx context.Context, id string) error
	SearchTodos(ctx context.Context, query TodoSearchQuery) ([]*Todo, error)
	BatchUpdateTodos(ctx context.Context, op BatchTodoOperation) ([]*Todo, error)

	// Todo tag operations
	CreateTodoTag(ctx context.Context, req CreateTodoTagRequest) (*TodoTag, error)
	ListTodoTags(ctx context.Context) ([]*TodoTag, error)
	GetTodoTag(ctx context.Context, id string) (*TodoTag, error)
	UpdateTodoTag(ctx context.Context, req UpdateTodoTagRequest) (*TodoTag, error)
	DeleteTodoTag(ctx context.Context, id string) error

	// Todo comment and attachment operations
	AddTodoComment(ctx context.Context, todoID, content string, author *string) (*TodoComment, error)
	ListTodoComments(ctx context.Context, todoID string) ([]*TodoComment, error)
	DeleteTodoComment(ctx context.Context, id string) error
	AddTodoAttachment(ctx context.Context, req CreateTodoAttachmentRequest) (*TodoAttachment, error)
	ListTodoAttachments(ctx context.Context, todoID string) ([]*TodoAttachment, error)
	DeleteTodoAttachment(ctx context.Context, id string) error

	// Stats operations
	GetTodoStats(ctx context.Context) (*TodoStats, error)

	// Database operations
	Close() error
}

// Snippet is a stored code fragment with language tag and metadata.
// Timestamps are integer milliseconds since epoch.
type Snippet struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Code        string     `db:"code" json:"code"`
	Language    string     `db:"language" json:"language"`
	Tags        StringList `db:"tags" json:"tags"`
	FolderID    *string    `db:"folder_id" json:"folderId,omitempty"`
	ProjectID   *string    `db:"project_id" json:"projectId,omitempty"`
	IsFavorite  bool       `db:"is_favorite" json:"isFavorite"`
	UsageCount  int64      `db:"usage_count" json:"usageCount"`
	CreatedAt   int64      `db:"created_at" json:"createdAt"`
	UpdatedAt   int64      `db:"updated_at" json:"updatedAt"`
}

// Folder is an organizational grouping node for snippets, tree-shaped via
// parent references
type Folder struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	ParentID  *string `db:"parent_id" json:"parentId,omitempty"`
	CreatedAt int64   `db:"created_at" json:"createdAt"`
}

// Workspace is a top-level organizational container.
// Workspace, Project and GitRepository timestamps are RFC3339 strings,
// supplied by the caller along with the id.
type Workspace struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Color       string  `db:"color" json:"color"`
	IsDefault   bool    `db:"is_default" json:"isDefault"`
	Settings    JSONMap `db:"settings" json:"settings"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt"`
}

// Project is an organizational container below a workspace
type Project struct {
	ID          string     `db:"id" json:"id"`
	WorkspaceID string     `db:"workspace_id" json:"workspaceId"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	ProjectType string     `db:"project_type" json:"projectType"`
	Template    *string    `db:"template" json:"template,omitempty"`
	ParentID    *string    `db:"parent_id" json:"parentId,omitempty"`
	Path        string     `db:"path" json:"path"`
	Color       string     `db:"color" json:"color"`
	Icon        string     `db:"icon" json:"icon"`
	Tags        StringList `db:"tags" json:"tags"`
	Settings    JSONMap    `db:"settings" json:"settings"`
	Metadata    JSONMap    `db:"metadata" json:"metadata"`
	IsFolder    bool       `db:"is_folder" json:"isFolder"`
	CreatedAt   string     `db:"created_at" json:"createdAt"`
	UpdatedAt   string     `db:"updated_at" json:"updatedAt"`
}

// GitRemote is a named remote of a tracked repository
type GitRemote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GitRepository is a reference to a repository on the local filesystem
type GitRepository struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description,omitempty"`
	Path        string     `db:"path" json:"path"`
	IsDefault   bool       `db:"is_default" json:"isDefault"`
	Remotes     RemoteList `db:"remotes" json:"remotes"`
	CreatedAt   string     `db:"created_at" json:"createdAt"`
	UpdatedAt   string     `db:"updated_at" json:"updatedAt"`
}

// Todo is a task entity supporting one level of subtasks, tagging,
// dependencies and lifecycle flags
type Todo struct {
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Description     *string    `db:"description" json:"description,omitempty"`
	Status          string     `db:"status" json:"status"`
	Priority        *string    `db:"priority" json:"priority,omitempty"`
	DueDate         *string    `db:"due_date" json:"dueDate,omitempty"`
	EstimatedHours  *float64   `db:"estimated_hours" json:"estimatedHours,omitempty"`
	ActualHours     *float64   `db:"actual_hours" json:"actualHours,omitempty"`
	Progress        int        `db:"progress" json:"progress"`
	Assignee        *string    `db:"assignee" json:"assignee,omitempty"`
	ProjectID       *string    `db:"project_id" json:"projectId,omitempty"`
	ParentID        *string    `db:"parent_id" json:"parentId,omitempty"`
	RecurringConfig *string    `db:"recurring_config" json:"recurringConfig,omitempty"`
	Dependencies    StringList `db:"dependencies" json:"dependencies"`
	Completed       bool       `db:"completed" json:"completed"`
	Archived        bool       `db:"archived" json:"archived"`
	CreatedBy       *string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy       *string    `db:"updated_by" json:"updatedBy,omitempty"`
	CreatedAt       int64      `db:"created_at" json:"createdAt"`
	UpdatedAt       int64      `db:"updated_at" json:"updatedAt"`
	ArchivedAt      *int64     `db:"archived_at" json:"archivedAt,omitempty"`

	// Resolved relations, not columns. Subtasks carry one level only;
	// subtasks of subtasks are never loaded.
	Tags     []string `db:"-" json:"tags"`
	Subtasks []*Todo  `db:"-" json:"subtasks"`
}

// TodoTag is a tag with colors resolved from the fixed palette
type TodoTag struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Color     string `db:"color" json:"color"`
	BgColor   string `db:"bg_color" json:"bgColor"`
	ColorID   string `db:"color_id" json:"colorId"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
}

// TodoComment is a free-text comment attached to a todo
type TodoComment struct {
	ID        string  `db:"id" json:"id"`
	TodoID    string  `db:"todo_id" json:"todoId"`
	Content   string  `db:"content" json:"content"`
	Author    *string `db:"author" json:"author,omitempty"`
	CreatedAt int64   `db:"created_at" json:"createdAt"`
}

// TodoAttachment is a file reference attached to a todo
type TodoAttachment struct {
	ID        string  `db:"id" json:"id"`
	TodoID    string  `db:"todo_id" json:"todoId"`
	Filename  string  `db:"filename" json:"filename"`
	Filepath  string  `db:"filepath" json:"filepath"`
	Size      *int64  `db:"size" json:"size,omitempty"`
	MimeType  *string `db:"mime_type" json:"mimeType,omitempty"`
	CreatedAt int64   `db:"created_at" json:"createdAt"`
}

// TodoStats contains aggregate counts over non-archived todos
type TodoStats struct {
	Total       int64            `json:"total"`
	Completed   int64            `json:"completed"`
	Pending     int64            `json:"pending"`
	InProgress  int64            `json:"inProgress"`
	Blocked     int64            `json:"blocked"`
	Overdue     int64            `json:"overdue"`
	DueToday    int64            `json:"dueToday"`
	DueThisWeek int64            `json:"dueThisWeek"`
	ByPriority  map[string]int64 `json:"byPriority"`
	ByProject   map[string]int64 `json:"byProject"`
	ByAssignee  map[string]int64 `json:"byAssignee"`
}

// CreateSnippetRequest carries the caller-supplied fields of a new snippet
type CreateSnippetRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Code        string   `json:"code"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags,omitempty"`
	FolderID    *string  `json:"folderId,omitempty"`
	ProjectID   *string  `json:"projectId,omitempty"`
}

// UpdateSnippetRequest is a sparse update: nil fields keep their current
// persisted values. A non-nil empty Tags slice clears the tag list.
type UpdateSnippetRequest struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Code        *string  `json:"code,omitempty"`
	Language    *string  `json:"language,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	FolderID    *string  `json:"folderId,omitempty"`
	ProjectID   *string  `json:"projectId,omitempty"`
	IsFavorite  *bool    `json:"isFavorite,omitempty"`
	UsageCount  *int64   `json:"usageCount,omitempty"`
}

// SnippetSearchQuery filters AND together; the keyword substring-matches
// title, description and code
type SnippetSearchQuery struct {
	Keyword  string   `json:"keyword"`
	Language *string  `json:"language,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// WorkspaceUpdate is a sparse workspace update; nil fields are untouched
type WorkspaceUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Color       *string        `json:"color,omitempty"`
	IsDefault   *bool          `json:"isDefault,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
}

// ProjectUpdate is a sparse project update; nil fields are untouched
type ProjectUpdate struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	ProjectType *string        `json:"projectType,omitempty"`
	Template    *string        `json:"template,omitempty"`
	ParentID    *string        `json:"parentId,omitempty"`
	Path        *string        `json:"path,omitempty"`
	Color       *string        `json:"color,omitempty"`
	Icon        *string        `json:"icon,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Settings    map[string]any `json:"settings,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IsFolder    *bool          `json:"isFolder,omitempty"`
}

// GitRepositoryUpdate is a sparse repository update; nil fields are untouched
type GitRepositoryUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Path        *string     `json:"path,omitempty"`
	IsDefault   *bool       `json:"isDefault,omitempty"`
	Remotes     []GitRemote `json:"remotes,omitempty"`
}

// CreateTodoRequest carries the caller-supplied fields of a new todo.
// Status defaults to "todo"; progress, completed and archived start zeroed.
type CreateTodoRequest struct {
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
	DueDate         *string  `json:"dueDate,omitempty"`
	EstimatedHours  *float64 `json:"estimatedHours,omitempty"`
	Assignee        *string  `json:"assignee,omitempty"`
	ProjectID       *string  `json:"projectId,omitempty"`
	ParentID        *string  `json:"parentId,omitempty"`
	RecurringConfig *string  `json:"recurringConfig,omitempty"`
	Dependencies    []string `json:"dependencies,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

// UpdateTodoRequest is a sparse update: nil fields keep their current
// values. A non-nil Tags slice replaces the entire tag relation set.
type UpdateTodoRequest struct {
	ID             string   `json:"id"`
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Status         *string  `json:"status,omitempty"`
	Priority       *string  `json:"priority,omitempty"`
	DueDate        *string  `json:"dueDate,omitempty"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty"`
	ActualHours    *float64 `json:"actualHours,omitempty"`
	Progress       *int     `json:"progress,omitempty"`
	ParentID       *string  `json:"parentId,omitempty"`
	Completed      *bool    `json:"completed,omitempty"`
	Archived       *bool    `json:"archived,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// TodoSearchQuery filters AND together; tag ids OR together
type TodoSearchQuery struct {
	Keyword   *string  `json:"keyword,omitempty"`
	Status    *string  `json:"status,omitempty"`
	Priority  *string  `json:"priority,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
	Archived  *bool    `json:"archived,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Batch operation kinds accepted by BatchUpdateTodos
const (
	BatchOpComplete = "complete"
	BatchOpArchive  = "archive"
	BatchOpDelete   = "delete"
	BatchOpUpdate   = "update"
)

// BatchTodoOperation applies one operation to every todo in TodoIDs.
// Updates is only consulted for the "update" kind.
type BatchTodoOperation struct {
	Operation string             `json:"operation"`
	TodoIDs   []string           `json:"todoIds"`
	Updates   *UpdateTodoRequest `json:"updates,omitempty"`
}

// CreateTodoTagRequest names a new tag and picks its palette color
type CreateTodoTagRequest struct {
	Name    string `json:"name"`
	ColorID string `json:"colorId"`
}

// UpdateTodoTagRequest is a sparse tag update; colors are re-resolved only
// when ColorID is set
type UpdateTodoTagRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	ColorID *string `json:"colorId,omitempty"`
}

// CreateTodoAttachmentRequest carries the fields of a new attachment
type CreateTodoAttachmentRequest struct {
	TodoID   string  `json:"todoId"`
	Filename string  `json:"filename"`
	Filepath string  `json:"filepath"`
	Size     *int64  `json:"size,omitempty"`
	MimeType *string `json:"mimeType,omitempty"`
}
