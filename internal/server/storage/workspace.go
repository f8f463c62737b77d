package storage

import (
	"context"

	"github.com/iudanet/teamchat/internal/models"
)

// WorkspaceStorage defines the interface for workspace persistence.
type WorkspaceStorage interface {
	// CreateWorkspace creates a new workspace.
	// Returns ErrDuplicateWorkspaceName on a unique-index violation.
	CreateWorkspace(ctx context.Context, workspace *models.Workspace) error

	// GetWorkspaceByID retrieves a workspace by id.
	// Returns ErrWorkspaceNotFound if no workspace exists.
	GetWorkspaceByID(ctx context.Context, workspaceID string) (*models.Workspace, error)

	// GetWorkspaceByName retrieves a workspace by exact name.
	// Returns ErrWorkspaceNotFound if no workspace exists.
	GetWorkspaceByName(ctx context.Context, name string) (*models.Workspace, error)

	// ListWorkspaces returns all workspaces ordered by creation time.
	ListWorkspaces(ctx context.Context) ([]*models.Workspace, error)

	// UpdateWorkspace persists name, description and updated_at.
	// Returns ErrWorkspaceNotFound if no workspace exists and
	// ErrDuplicateWorkspaceName on a unique-index violation.
	UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error

	// DeleteWorkspace deletes a workspace by id.
	// Returns ErrWorkspaceNotFound if no workspace exists.
	DeleteWorkspace(ctx context.Context, workspaceID string) error
}
