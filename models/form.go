package models

import (
	"mime/multipart"
)

// UploadForm is an inbound widget submission: the user-chosen file plus
// the client key that owns the resulting preview binding.
type UploadForm struct {
	File   *multipart.FileHeader
	Client string
}

// ProcessedUpload is a validated submission with its content fully read.
type ProcessedUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}
