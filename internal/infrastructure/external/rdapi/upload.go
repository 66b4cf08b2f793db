package rdapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
)

// RequestUploadURL asks the backend for a presigned upload slot. The
// backend enforces its own size limit.
func (c *Client) RequestUploadURL(ctx context.Context, filename, contentType string, size int64) (*port.UploadTarget, error) {
	q := url.Values{
		"filename":    {filename},
		"contentType": {contentType},
		"fileSize":    {strconv.FormatInt(size, 10)},
	}
	var out port.UploadTarget
	if err := c.get(ctx, "/proposal/upload-url", q, &out); err != nil {
		return nil, err
	}
	if out.UploadURL == "" || out.FileURL == "" {
		return nil, fmt.Errorf("backend returned an incomplete upload target")
	}
	return &out, nil
}

// Upload puts the document to the presigned url
func (c *Client) Upload(ctx context.Context, target *port.UploadTarget, contentType string, body io.Reader, size int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.UploadURL, body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	resp, err := c.uploader.Do(req)
	if err != nil {
		return &NetworkError{Method: http.MethodPut, Path: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodPut,
			Path:       "upload",
			Message:    errorMessage(resp.StatusCode, data),
		}
	}

	c.logger.Info("Document uploaded", zap.String("file_url", target.FileURL), zap.Int64("size", size))
	return nil
}
