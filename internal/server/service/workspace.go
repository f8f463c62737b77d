package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
	"github.com/iudanet/teamchat/internal/validation"
)

// WorkspaceService implements the workspace lifecycle. Any authenticated
// user can create and list workspaces; only the creator may update or delete
// one.
type WorkspaceService struct {
	workspaces storage.WorkspaceStorage
	logger     *slog.Logger

	now func() time.Time
}

func NewWorkspaceService(workspaces storage.WorkspaceStorage, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		logger:     logger,
		now:        time.Now,
	}
}

// Create creates a workspace with a globally unique name.
func (s *WorkspaceService) Create(ctx context.Context, userID, name, description string) (*models.Workspace, error) {
	name, err := validation.WorkspaceName(name)
	if err != nil {
		return nil, validationError(err.Error())
	}
	description, err = validation.WorkspaceDescription(description)
	if err != nil {
		return nil, validationError(err.Error())
	}

	if _, err := s.workspaces.GetWorkspaceByName(ctx, name); err == nil {
		return nil, conflictError("workspace name is already taken")
	} else if !errors.Is(err, storage.ErrWorkspaceNotFound) {
		return nil, internalError("failed to check workspace name", err)
	}

	now := s.now().UTC()
	workspace := &models.Workspace{
		ID:          models.NewID(),
		Name:        name,
		Description: description,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.workspaces.CreateWorkspace(ctx, workspace); err != nil {
		if errors.Is(err, storage.ErrDuplicateWorkspaceName) {
			return nil, conflictError("workspace name is already taken")
		}
		return nil, internalError("failed to create workspace", err)
	}

	s.logger.Info("workspace created", "workspace_id", workspace.ID, "user_id", userID)
	return workspace, nil
}

// Get returns a workspace by id.
func (s *WorkspaceService) Get(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	workspaceID, err := validation.ObjectID(workspaceID, "workspace id")
	if err != nil {
		return nil, validationError(err.Error())
	}

	workspace, err := s.workspaces.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, storage.ErrWorkspaceNotFound) {
			return nil, notFoundError("workspace not found")
		}
		return nil, internalError("failed to get workspace", err)
	}
	return workspace, nil
}

// List returns all workspaces, oldest first.
func (s *WorkspaceService) List(ctx context.Context) ([]*models.Workspace, error) {
	workspaces, err := s.workspaces.ListWorkspaces(ctx)
	if err != nil {
		return nil, internalError("failed to list workspaces", err)
	}
	return workspaces, nil
}

// Update renames or re-describes a workspace. Creator only; renaming onto an
// existing name is a conflict.
func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID, name, description string) (*models.Workspace, error) {
	name, err := validation.WorkspaceName(name)
	if err != nil {
		return nil, validationError(err.Error())
	}
	description, err = validation.WorkspaceDescription(description)
	if err != nil {
		return nil, validationError(err.Error())
	}

	workspace, err := s.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace.CreatedBy != userID {
		return nil, forbiddenError("only the workspace creator can modify it")
	}

	if name != workspace.Name {
		if _, err := s.workspaces.GetWorkspaceByName(ctx, name); err == nil {
			return nil, conflictError("workspace name is already taken")
		} else if !errors.Is(err, storage.ErrWorkspaceNotFound) {
			return nil, internalError("failed to check workspace name", err)
		}
	}

	workspace.Name = name
	workspace.Description = description
	workspace.UpdatedAt = s.now().UTC()

	if err := s.workspaces.UpdateWorkspace(ctx, workspace); err != nil {
		if errors.Is(err, storage.ErrDuplicateWorkspaceName) {
			return nil, conflictError("workspace name is already taken")
		}
		if errors.Is(err, storage.ErrWorkspaceNotFound) {
			return nil, notFoundError("workspace not found")
		}
		return nil, internalError("failed to update workspace", err)
	}

	return workspace, nil
}

// Delete removes a workspace. Creator only.
func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID string) error {
	workspace, err := s.Get(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace.CreatedBy != userID {
		return forbiddenError("only the workspace creator can modify it")
	}

	if err := s.workspaces.DeleteWorkspace(ctx, workspace.ID); err != nil {
		if errors.Is(err, storage.ErrWorkspaceNotFound) {
			return notFoundError("workspace not found")
		}
		return internalError("failed to delete workspace", err)
	}

	s.logger.Info("workspace deleted", "workspace_id", workspace.ID, "user_id", userID)
	return nil
}
