package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

// CreateWorkspace creates a new workspace
func (s *Storage) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	query := `
		INSERT INTO workspaces (id, name, description, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		workspace.ID,
		workspace.Name,
		workspace.Description,
		workspace.CreatedBy,
		workspace.CreatedAt,
		workspace.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "workspaces.name") {
			return storage.ErrDuplicateWorkspaceName
		}
		return fmt.Errorf("failed to insert workspace: %w", err)
	}

	return nil
}

// GetWorkspaceByID retrieves a workspace by id
func (s *Storage) GetWorkspaceByID(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM workspaces
		WHERE id = ?
	`
	return s.scanWorkspace(s.db.QueryRowContext(ctx, query, workspaceID))
}

// GetWorkspaceByName retrieves a workspace by exact name
func (s *Storage) GetWorkspaceByName(ctx context.Context, name string) (*models.Workspace, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM workspaces
		WHERE name = ?
	`
	return s.scanWorkspace(s.db.QueryRowContext(ctx, query, name))
}

func (s *Storage) scanWorkspace(row *sql.Row) (*models.Workspace, error) {
	workspace := &models.Workspace{}

	err := row.Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.Description,
		&workspace.CreatedBy,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return workspace, nil
}

// ListWorkspaces returns all workspaces ordered by creation time
func (s *Storage) ListWorkspaces(ctx context.Context) ([]*models.Workspace, error) {
	query := `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM workspaces
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var workspaces []*models.Workspace

	for rows.Next() {
		workspace := &models.Workspace{}
		if err := rows.Scan(
			&workspace.ID,
			&workspace.Name,
			&workspace.Description,
			&workspace.CreatedBy,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return workspaces, nil
}

// UpdateWorkspace persists name, description and updated_at
func (s *Storage) UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	query := `UPDATE workspaces SET name = ?, description = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		workspace.Name,
		workspace.Description,
		workspace.UpdatedAt,
		workspace.ID,
	)

	if err != nil {
		if isUniqueViolation(err, "workspaces.name") {
			return storage.ErrDuplicateWorkspaceName
		}
		return fmt.Errorf("failed to update workspace: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrWorkspaceNotFound
	}

	return nil
}

// DeleteWorkspace deletes a workspace by id
func (s *Storage) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	query := `DELETE FROM workspaces WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrWorkspaceNotFound
	}

	return nil
}
