package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/previewbox/image_upload_previewer/models"
)

var (
	ErrNoFile      = errors.New("image field is required")
	ErrNotAnImage  = errors.New("file must be an image")
	ErrFileTooBig  = errors.New("file size exceeds the maximum limit")
	ErrEmptyClient = errors.New("client key is required")
)

// ValidateProcessUpload checks a widget submission and reads its content.
// The media-type check mirrors the file picker's image/* filter; nothing
// beyond type and size is validated.
func ValidateProcessUpload(form models.UploadForm, maxSize int64) (models.ProcessedUpload, error) {
	if form.File == nil {
		return models.ProcessedUpload{}, ErrNoFile
	}
	if form.Client == "" {
		return models.ProcessedUpload{}, ErrEmptyClient
	}

	contentType := form.File.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return models.ProcessedUpload{}, ErrNotAnImage
	}

	data, err := readFile(form.File, maxSize)
	if err != nil {
		return models.ProcessedUpload{}, err
	}
	return models.ProcessedUpload{
		Filename:    form.File.Filename,
		ContentType: contentType,
		Content:     data,
	}, nil
}

func readFile(file *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if file.Size > maxSize {
		return nil, ErrFileTooBig
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return data, nil
}
