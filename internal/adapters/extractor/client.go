package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kamal-hamza/docup/internal/core/domain"
	"github.com/kamal-hamza/docup/internal/core/ports"
)

const (
	// DefaultEndpointPath is the extraction route of the remote service
	DefaultEndpointPath = "/v1/text-extract"
	// APIKeyHeader carries the opaque API key on every request
	APIKeyHeader = "x-api-key"
	// FormField is the multipart field holding the file contents
	FormField = "file"

	fetchPathPrefix = "/v1/json/"
	maxDetailBytes  = 4096
)

// Client talks to the remote text-extraction service
type Client struct {
	baseURL      string
	endpointPath string
	apiKey       string
	httpClient   *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithEndpointPath overrides the extraction route
func WithEndpointPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.endpointPath = path
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		endpointPath: DefaultEndpointPath,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Extractor = (*Client)(nil)

// Extract streams one file to the service as multipart/form-data.
// onProgress receives the number of file bytes handed to the transport.
func (c *Client) Extract(ctx context.Context, file domain.SelectedFile, onProgress ports.ProgressFunc) (*domain.ExtractionResult, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, &domain.UploadError{File: file.Name, Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer f.Close()

	total := file.Size
	if total <= 0 {
		if info, statErr := f.Stat(); statErr == nil {
			total = info.Size()
		} else {
			total = -1
		}
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(writeFilePart(writer, file, &countingReader{r: f, total: total, report: onProgress}))
	}()
	// No progress report may arrive after Extract returns.
	defer func() {
		pr.Close()
		<-done
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpointPath, pr)
	if err != nil {
		return nil, &domain.UploadError{File: file.Name, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UploadError{File: file.Name, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UploadError{
			File:       file.Name,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	var result domain.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && !errors.Is(err, io.EOF) {
		// The body is opaque to callers; a 2xx still counts as accepted.
		return &domain.ExtractionResult{}, nil
	}
	return &result, nil
}

// Fetch retrieves the stored JSON document for a previously extracted file
func (c *Client) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	fileID = strings.TrimSpace(fileID)
	if fileID == "" {
		return nil, domain.ErrEmptyFileID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+fetchPathPrefix+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UploadError{
			File:       fileID,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// quoteEscaper escapes a Content-Disposition parameter the way mime/multipart does
var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeFilePart(writer *multipart.Writer, file domain.SelectedFile, content io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FormField, quoteEscaper.Replace(file.Name)))
	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return err
	}
	return writer.Close()
}

// readDetail extracts a short error description from a failed response.
// The service answers {"detail": "..."} on errors; anything else is returned as text.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxDetailBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}
	return strings.TrimSpace(string(raw))
}

type countingReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report ports.ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		if c.report != nil {
			c.report(c.sent, c.total)
		}
	}
	return n, err
}
