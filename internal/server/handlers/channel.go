package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/pkg/api"
)

// ChannelHandler serves the channel and membership endpoints nested under a
// workspace.
type ChannelHandler struct {
	channels *service.ChannelService
	logger   *slog.Logger
}

func NewChannelHandler(channels *service.ChannelService, logger *slog.Logger) *ChannelHandler {
	return &ChannelHandler{channels: channels, logger: logger}
}

func channelResponse(view *service.ChannelView) api.ChannelResponse {
	return api.ChannelResponse{
		Channel: view.Channel,
		Locked:  view.Access.Locked,
		CanRead: view.Access.CanRead,
		CanPost: view.Access.CanPost,
	}
}

func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.ChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	channel, err := h.channels.Create(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), req.Name, req.Description, req.Visibility)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, channel)
}

func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	// ?visibility=public narrows the listing to public channels.
	if r.URL.Query().Get("visibility") == "public" {
		channels, err := h.channels.ListPublic(r.Context(), chi.URLParam(r, "workspaceID"))
		if err != nil {
			sendError(w, r, h.logger, err)
			return
		}
		sendJSON(w, http.StatusOK, channels)
		return
	}

	views, err := h.channels.List(r.Context(), user.ID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}

	out := make([]api.ChannelResponse, 0, len(views))
	for _, view := range views {
		out = append(out, channelResponse(view))
	}
	sendJSON(w, http.StatusOK, out)
}

func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	view, err := h.channels.Get(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"))
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, channelResponse(view))
}

func (h *ChannelHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.ChannelRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	channel, err := h.channels.Update(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), req.Name, req.Description)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, channel)
}

func (h *ChannelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := h.channels.Delete(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID")); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChannelHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.MemberRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	if err := h.channels.AddMember(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), req.UserID); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChannelHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	removed, err := h.channels.RemoveMember(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), chi.URLParam(r, "userID"))
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	if !removed {
		sendJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "membership not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
