package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/blob"
	"github.com/iudanet/teamchat/internal/server/storage"
	"github.com/iudanet/teamchat/internal/validation"
)

// maxAttachmentSize caps uploads at 10 MiB.
const maxAttachmentSize = 10 << 20

// AttachmentService stores uploaded files: metadata in the relational store,
// bytes in the blob store under the attachment id.
type AttachmentService struct {
	attachments storage.AttachmentStorage
	blobs       blob.Store
	logger      *slog.Logger

	now func() time.Time
}

func NewAttachmentService(attachments storage.AttachmentStorage, blobs blob.Store, logger *slog.Logger) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		blobs:       blobs,
		logger:      logger,
		now:         time.Now,
	}
}

// Upload stores a file and returns its metadata. The declared size is
// enforced before any bytes move; the reader is additionally capped so a
// lying client cannot stream past the limit.
func (s *AttachmentService) Upload(ctx context.Context, userID, fileName, contentType string, size int64, r io.Reader) (*models.Attachment, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, validationError("file name is required")
	}
	if size <= 0 {
		return nil, validationError("file size must be positive")
	}
	if size > maxAttachmentSize {
		return nil, validationError("file exceeds the 10 MiB limit")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &models.Attachment{
		ID:          models.NewID(),
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  userID,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.blobs.Put(ctx, attachment.ID, contentType, size, io.LimitReader(r, maxAttachmentSize)); err != nil {
		return nil, internalError("failed to store attachment bytes", err)
	}
	if err := s.attachments.CreateAttachment(ctx, attachment); err != nil {
		// Metadata failed after the bytes landed; drop the orphan blob.
		if delErr := s.blobs.Delete(ctx, attachment.ID); delErr != nil {
			s.logger.Warn("failed to delete orphan blob", "attachment_id", attachment.ID, "error", delErr)
		}
		return nil, internalError("failed to store attachment metadata", err)
	}

	s.logger.Info("attachment uploaded", "attachment_id", attachment.ID, "user_id", userID, "size", size)
	return attachment, nil
}

// Open returns the metadata and a byte reader for an attachment. The caller
// closes the reader.
func (s *AttachmentService) Open(ctx context.Context, attachmentID string) (*models.Attachment, io.ReadCloser, error) {
	attachmentID, err := validation.ObjectID(attachmentID, "attachment id")
	if err != nil {
		return nil, nil, validationError(err.Error())
	}

	attachment, err := s.attachments.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, storage.ErrAttachmentNotFound) {
			return nil, nil, notFoundError("attachment not found")
		}
		return nil, nil, internalError("failed to get attachment", err)
	}

	rc, err := s.blobs.Get(ctx, attachment.ID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil, notFoundError("attachment not found")
		}
		return nil, nil, internalError("failed to open attachment bytes", err)
	}

	return attachment, rc, nil
}
