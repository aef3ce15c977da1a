package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/previewbox/image_upload_previewer/models"
)

// FieldName is the single multipart field the upstream endpoint expects.
const FieldName = "image"

// Client relays an upload to the processing endpoint and hands back
// whatever bytes come back.
type Client struct {
	Endpoint string
	HTTP     *http.Client
}

// Result is the upstream response body, treated as an opaque blob. The
// status code is not inspected; any byte sequence is accepted.
type Result struct {
	ContentType string
	Body        []byte
}

func New(endpoint string) *Client {
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{},
	}
}

// Send builds a fresh multipart body with exactly one field, FieldName,
// carrying the file's bytes with its original filename and declared
// content type, and POSTs it to the endpoint. The caller's context bounds
// the exchange; no timeout is applied here and nothing is retried.
func (c *Client) Send(ctx context.Context, upload models.ProcessedUpload) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreatePart(partHeader(upload))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload response: %w", err)
	}

	return &Result{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// partHeader preserves the original filename and content type in the
// multipart encoding. multipart.Writer.CreateFormFile would force
// application/octet-stream, so the part header is built by hand.
func partHeader(upload models.ProcessedUpload) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldName, escapeQuotes(upload.Filename)))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
