package models

import "time"

// Attachment is the metadata record for an uploaded file. The bytes live in
// the blob store under the attachment id.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
