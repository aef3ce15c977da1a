package validators

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/previewbox/image_upload_previewer/models"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 1, 2, 3}

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("parsing form file: %v", err)
	}
	return fh
}

func TestValidateProcessUpload(t *testing.T) {
	fh := fileHeader(t, "cat.png", "image/png", pngBytes)
	form := models.UploadForm{File: fh, Client: "10.0.0.1"}

	processed, err := ValidateProcessUpload(form, 1<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed.Filename != "cat.png" {
		t.Errorf("filename = %q, want cat.png", processed.Filename)
	}
	if processed.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", processed.ContentType)
	}
	if !bytes.Equal(processed.Content, pngBytes) {
		t.Error("content does not match uploaded bytes")
	}
}

func TestValidateProcessUpload_Errors(t *testing.T) {
	tests := []struct {
		name    string
		form    models.UploadForm
		maxSize int64
		want    error
	}{
		{
			name:    "missing file",
			form:    models.UploadForm{Client: "10.0.0.1"},
			maxSize: 1 << 20,
			want:    ErrNoFile,
		},
		{
			name:    "missing client",
			form:    models.UploadForm{File: fileHeader(t, "cat.png", "image/png", pngBytes)},
			maxSize: 1 << 20,
			want:    ErrEmptyClient,
		},
		{
			name:    "not an image",
			form:    models.UploadForm{File: fileHeader(t, "doc.pdf", "application/pdf", []byte("%PDF-1.4")), Client: "10.0.0.1"},
			maxSize: 1 << 20,
			want:    ErrNotAnImage,
		},
		{
			name:    "too big",
			form:    models.UploadForm{File: fileHeader(t, "cat.png", "image/png", pngBytes), Client: "10.0.0.1"},
			maxSize: 4,
			want:    ErrFileTooBig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateProcessUpload(tt.form, tt.maxSize)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}
