// Package api talks to the resume parser service over its three HTTP
// endpoints. It treats the service as opaque: any well-formed JSON body is
// handed back regardless of status code.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/zhouzirui/resume-console/internal/model/chat"
)

// Error represents a transport-level failure: the request never produced a
// usable JSON body.
type Error struct {
	Method  string
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Response is a parsed reply from the service.
type Response struct {
	StatusCode int
	StatusText string
	Body       json.RawMessage
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Upload is a document selected for extraction.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Options configures the client.
type Options struct {
	// Timeout of 0 means requests never time out.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls the resume parser service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client rooted at baseURL.
func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Extract uploads file as multipart field "file" to /extract.
func (c *Client) Extract(ctx context.Context, file Upload) (*Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%s`, strconv.Quote(filepath.Base(file.Filename))))
	header.Set("Content-Type", contentTypeFor(file.Filename))

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, &Error{Method: http.MethodPost, Path: "/extract", Message: "failed to build upload", Cause: err}
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, &Error{Method: http.MethodPost, Path: "/extract", Message: "failed to read file", Cause: err}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Method: http.MethodPost, Path: "/extract", Message: "failed to build upload", Cause: err}
	}

	return c.do(ctx, http.MethodPost, "/extract", &body, writer.FormDataContentType())
}

// Jobs requests job recommendations from /jobs.
func (c *Client) Jobs(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, "/jobs", nil, "")
}

// Chat posts one chat turn to /chat.
func (c *Client) Chat(ctx context.Context, req chat.Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Method: http.MethodPost, Path: "/chat", Message: "failed to encode request", Cause: err}
	}
	return c.do(ctx, http.MethodPost, "/chat", bytes.NewReader(payload), "application/json")
}

// Health checks /health.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &Error{Method: http.MethodGet, Path: "/health", Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Message: "failed to create request", Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Message: "failed to read response body", Cause: err}
	}

	if !json.Valid(raw) {
		return nil, &Error{Method: method, Path: path, Message: fmt.Sprintf("invalid JSON response (HTTP %d)", resp.StatusCode)}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Body:       json.RawMessage(raw),
	}, nil
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if text := strings.TrimPrefix(resp.Status, prefix); text != resp.Status && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
