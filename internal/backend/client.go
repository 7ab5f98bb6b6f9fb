package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rahulvramesh/shelf/internal/types"
)

// StatusError is a non-2xx reply. Its message is the response body as sent
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return http.StatusText(e.Code)
	}
	return e.Message
}

// Unwrap maps well-known status codes to the package sentinels
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden:
		return ErrReadOnly
	}
	return nil
}

// Client implements Backend against a remote shelf server
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient creates a client for the server at baseURL. Requests carry no
// deadline of their own; they end when the caller's context does
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListFiles(ctx context.Context, opts ListOptions) ([]types.FileRecord, error) {
	q := url.Values{}
	if opts.Category != "" {
		q.Set("category", string(opts.Category))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	path := "/api/files"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var files []types.FileRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Client) Categories(ctx context.Context) ([]types.CategoryInfo, error) {
	var cats []types.CategoryInfo
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) GetFile(ctx context.Context, id string) (*types.FileContent, error) {
	var fc types.FileContent
	if err := c.do(ctx, http.MethodGet, "/api/files/"+url.PathEscape(id), nil, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (c *Client) SaveFile(ctx context.Context, id, content string) error {
	return c.do(ctx, http.MethodPut, "/api/files/"+url.PathEscape(id), types.SaveRequest{Content: content}, nil)
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkDelete(ctx context.Context, ids []string) (*types.BulkDeleteResult, error) {
	var res types.BulkDeleteResult
	if err := c.do(ctx, http.MethodPost, "/api/files/bulk-delete", types.BulkDeleteRequest{IDs: ids}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Rescan(ctx context.Context) (*types.ScanResult, error) {
	var res types.ScanResult
	if err := c.do(ctx, http.MethodPost, "/api/rescan", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) AnalyzeCleanup(ctx context.Context) (*types.CleanupResult, error) {
	var res types.CleanupResult
	if err := c.do(ctx, http.MethodGet, "/api/cleanup", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
