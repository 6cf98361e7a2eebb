// Package roblox implements the remote.Gateway against the Roblox Open
// Cloud monetization APIs using multipart form requests.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/remote"
)

// APIKeyEnv is the environment variable holding the Open Cloud API key.
const APIKeyEnv = "ROBLOX_PRODUCTS_API_KEY"

const defaultBaseURL = "https://apis.roblox.com"

// Client talks to the Roblox Open Cloud monetization endpoints.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

var _ remote.Gateway = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, used by tests against httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a client using the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv creates a client using the ROBLOX_PRODUCTS_API_KEY
// environment variable. Missing credentials are fatal before any
// reconciliation begins.
func NewFromEnv(opts ...Option) (*Client, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", APIKeyEnv)
	}
	return New(apiKey, opts...), nil
}

// form accumulates multipart fields and an optional icon file.
type form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	err    error
}

func newForm() *form {
	f := &form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) text(name, value string) {
	if f.err != nil {
		return
	}
	f.err = f.writer.WriteField(name, value)
}

func (f *form) file(field, path string) {
	if f.err != nil {
		return
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from the user's own manifest
	if err != nil {
		f.err = fmt.Errorf("read image %s: %w", path, err)
		return
	}
	part, err := f.writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		f.err = err
		return
	}
	_, f.err = part.Write(data)
}

func (f *form) close() error {
	if f.err != nil {
		return f.err
	}
	return f.writer.Close()
}

// do sends a multipart request and decodes the response into out when
// out is non-nil. HTTP 429 maps to remote.ErrRateLimited; any other
// non-2xx status maps to *remote.RejectedError.
func (c *Client) do(ctx context.Context, op, method, url string, f *form, out any) error {
	if err := f.close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &f.buf)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", f.writer.FormDataContentType())

	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = logging.Default()
	}
	logger.Debug("sending request",
		logging.Operation(op),
		logging.Path(url),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w", op, remote.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &remote.RejectedError{
			Operation: op,
			Status:    resp.StatusCode,
			Body:      string(bytes.TrimSpace(body)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// IsRateLimited reports whether err is a rate-limit signal.
func IsRateLimited(err error) bool {
	return errors.Is(err, remote.ErrRateLimited)
}

// createForm builds the shared multipart body for create requests.
func createForm(req remote.CreateRequest, gamepass bool) *form {
	f := newForm()
	f.text("name", req.Name)
	f.text("price", strconv.FormatInt(req.Price, 10))
	if req.Description != "" {
		f.text("description", req.Description)
	}
	if gamepass {
		f.text("isForSale", strconv.FormatBool(!req.Offsale))
	}
	if req.ImagePath != "" {
		f.file("imageFile", req.ImagePath)
	}
	return f
}

// updateForm builds the shared multipart body for partial updates.
func updateForm(req remote.UpdateRequest, gamepass bool) *form {
	f := newForm()
	if req.Name != nil {
		f.text("name", *req.Name)
	}
	if req.Price != nil {
		f.text("price", strconv.FormatInt(*req.Price, 10))
	}
	if req.Description != nil {
		f.text("description", *req.Description)
	}
	if gamepass && req.Offsale != nil {
		f.text("isForSale", strconv.FormatBool(!*req.Offsale))
	}
	if req.ImagePath != "" {
		f.file("imageFile", req.ImagePath)
	}
	return f
}
