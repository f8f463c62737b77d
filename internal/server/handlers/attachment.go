package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/teamchat/internal/server/service"
	"github.com/iudanet/teamchat/pkg/api"
)

// AttachmentHandler serves file upload and download.
type AttachmentHandler struct {
	attachments *service.AttachmentService
	logger      *slog.Logger
}

func NewAttachmentHandler(attachments *service.AttachmentService, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, logger: logger}
}

// Upload accepts a multipart form with a single "file" part.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, ok := authedUser(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "missing file part"})
		return
	}
	defer file.Close()

	attachment, err := h.attachments.Upload(r.Context(), user.ID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	sendJSON(w, http.StatusCreated, attachment)
}

// Download streams the attachment bytes with the stored content type.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	attachment, rc, err := h.attachments.Open(r.Context(), chi.URLParam(r, "attachmentID"))
	if err != nil {
		sendError(w, r, h.logger, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", attachment.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", attachment.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("failed to stream attachment", "attachment_id", attachment.ID, "error", err)
	}
}
