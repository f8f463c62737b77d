package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/pkg/api"
)

// MessageHandler serves the message endpoints nested under a channel.
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	// A malformed limit falls back to the default page size.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.messages.List(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), limit)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.MessageRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	message, err := h.messages.Send(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), req.Content, req.AttachmentIDs)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	var req api.MessageRequest
	if err := decodeJSON(r, &req); err != nil {
		sendBadJSON(w)
		return
	}

	message, err := h.messages.Edit(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), chi.URLParam(r, "messageID"), req.Content)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusOK, message)
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	if err := h.messages.Delete(r.Context(), user.ID,
		chi.URLParam(r, "workspaceID"), chi.URLParam(r, "channelID"), chi.URLParam(r, "messageID")); err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
