package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/pkg/api"
)

// WorkspaceHandler serves the /api/workspaces endpoints.
type WorkspaceHandler struct {
	workspaces *service.WorkspaceService
	logger     *slog.Logger
}

func NewWorkspaceHandler(workspaces *service.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, logger: logger}
}

func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.WorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	workspace, err := h.workspaces.Create(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, workspace)
}

func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.workspaces.List(r.Context())
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, workspaces)
}

func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspace, err := h.workspaces.Get(r.Context(), chi.URLParam(r, "workspaceID"))
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, workspace)
}

func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.WorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	workspace, err := h.workspaces.Update(r.Context(), user.ID, chi.URLParam(r, "workspaceID"), req.Name, req.Description)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, workspace)
}

func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := h.workspaces.Delete(r.Context(), user.ID, chi.URLParam(r, "workspaceID")); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
