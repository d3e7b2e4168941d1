package kling

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
)

// Static errors for Kling client operations.
var (
	// ErrCookieRequired is returned when the session cookie is not provided.
	ErrCookieRequired = errors.New("kling: cookie is required")
	// ErrTaskIDRequired is returned when the task ID is not provided.
	ErrTaskIDRequired = errors.New("kling: task ID is required")
	// ErrWorkIDRequired is returned when the work ID is not provided.
	ErrWorkIDRequired = errors.New("kling: work ID is required")
	// ErrNoTaskIDReturned is returned when the submit response contains no task ID.
	ErrNoTaskIDReturned = errors.New("kling: submit failed: no task ID returned")
	// ErrAPIError is returned when the API envelope reports a non-success status.
	ErrAPIError = errors.New("kling: api error")
	// ErrRequestFailed is returned when a request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("kling: request failed")
)

// Client defines the interface for interacting with the Kling API.
type Client interface {
	// CreateTask submits a generation task and returns the task ID.
	CreateTask(ctx context.Context, input TaskInput) (taskID string, err error)

	// FetchMetadata returns the current provider-reported state of a task.
	FetchMetadata(ctx context.Context, taskID string) (Metadata, error)

	// FetchWorkResource resolves one work to its playable media URL.
	// An empty URL means the provider has no resource for the work.
	FetchWorkResource(ctx context.Context, workID string) (string, error)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient is the HTTP implementation of the Kling Client interface.
// Authentication uses the session cookie captured from a logged-in browser;
// every call makes a single attempt with no client-side retry.
type HTTPClient struct {
	cookie     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the Kling API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// NewClient creates a new Kling HTTP client authenticated with the given
// session cookie.
func NewClient(cookie string, opts ...ClientOption) (*HTTPClient, error) {
	if cookie == "" {
		return nil, ErrCookieRequired
	}

	c := &HTTPClient{
		cookie:     cookie,
		baseURL:    "https://klingai.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// CreateTask submits a generation task and returns the task ID.
// When input.ImagePath is set, the image is uploaded first and the task is
// submitted as image-to-video; otherwise as text-to-video.
func (c *HTTPClient) CreateTask(ctx context.Context, input TaskInput) (string, error) {
	quality := "standard"
	if input.HighQuality {
		quality = "high"
	}

	reqBody := submitRequest{
		Type: taskTypeText2Video,
		Arguments: []argument{
			{Name: "prompt", Value: input.Prompt},
			{Name: "biz", Value: "klingai"},
			{Name: "kling_version", Value: input.ModelName},
			{Name: "video_quality", Value: quality},
			{Name: "auto_extend", Value: strconv.FormatBool(input.AutoExtend)},
		},
		Inputs: []taskInputRef{},
	}

	if input.ImagePath != "" {
		imageURL, err := c.uploadImage(ctx, input.ImagePath)
		if err != nil {
			return "", err
		}
		reqBody.Type = taskTypeImage2Video
		reqBody.Inputs = append(reqBody.Inputs, taskInputRef{
			Name:      "input_image",
			InputType: "URL",
			URL:       imageURL,
		})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("kling: marshal request: %w", err)
	}

	var resp submitResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/task/submit", bodyBytes, &resp); err != nil {
		return "", err
	}

	taskID := resp.Data.Task.ID.String()
	if taskID == "" {
		return "", ErrNoTaskIDReturned
	}

	return taskID, nil
}

// FetchMetadata returns the current provider-reported state of a task.
func (c *HTTPClient) FetchMetadata(ctx context.Context, taskID string) (Metadata, error) {
	if taskID == "" {
		return Metadata{}, ErrTaskIDRequired
	}

	var resp taskResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/task/"+taskID, nil, &resp); err != nil {
		return Metadata{}, err
	}

	meta := Metadata{
		Status: TaskStatus(resp.Data.Status),
		Works:  make([]Work, 0, len(resp.Data.Works)),
	}
	for _, w := range resp.Data.Works {
		meta.Works = append(meta.Works, Work{WorkID: w.WorkID.String()})
	}

	return meta, nil
}

// FetchWorkResource resolves one work to its playable media URL.
func (c *HTTPClient) FetchWorkResource(ctx context.Context, workID string) (string, error) {
	if workID == "" {
		return "", ErrWorkIDRequired
	}

	var resp resourceResponse
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/works/"+workID+"/resource", nil, &resp); err != nil {
		return "", err
	}

	return resp.Data.Resource, nil
}

// uploadImage uploads a local image file and returns the provider-hosted URL
// referenced by subsequent task submissions.
func (c *HTTPClient) uploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("kling: open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("kling: create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("kling: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("kling: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("kling: create request: %w", err)
	}
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	return resp.Data.URL, nil
}

// doJSON performs a single JSON request against the API.
func (c *HTTPClient) doJSON(ctx context.Context, method, url string, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("kling: create request: %w", err)
	}

	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes the request, checks the HTTP status and the API envelope, and
// decodes the body into result.
func (c *HTTPClient) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kling: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("kling: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("kling: unmarshal response: %w", err)
	}
	// The API reports application-level failures inside a 200 response.
	if env.Status != 0 && env.Status != 200 {
		return fmt.Errorf("%w: status %d: %s", ErrAPIError, env.Status, env.Message)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("kling: unmarshal response: %w", err)
		}
	}

	return nil
}
