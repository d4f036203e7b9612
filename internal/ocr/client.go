package ocr

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	apiVersion      = "2024-11-30"
	defaultModel    = "prebuilt-layout"
	pollInterval    = 2 * time.Second
	defaultTimeout  = 5 * time.Minute
	operationHeader = "Operation-Location"
)

// analysisFeatures are the add-on capabilities requested on every analyze
// call, mirroring the recognition profile the line tables are tuned for.
var analysisFeatures = []string{"ocrHighResolution", "keyValuePairs", "barcodes", "formulas", "languages"}

// Client submits documents to the Document Intelligence analyze endpoint and
// polls the resulting operation until the recognition result is available.
type Client struct {
	endpoint  string
	key       string
	model     string
	pollEvery time.Duration
	http      *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel overrides the analysis model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a client for the given service endpoint and key.
func NewClient(endpoint, key string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("document intelligence endpoint must be configured")
	}
	if key == "" {
		return nil, fmt.Errorf("document intelligence key must be configured")
	}
	c := &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		key:       key,
		model:     defaultModel,
		pollEvery: pollInterval,
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// operationStatus is the poll response envelope around the analyze result.
type operationStatus struct {
	Status        string         `json:"status"`
	AnalyzeResult *AnalyzeResult `json:"analyzeResult"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeFile reads the document at path, runs recognition on it, and stamps
// the result with a content-hash document id.
func (c *Client) AnalyzeFile(ctx context.Context, path string) (*AnalyzeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return c.Analyze(ctx, data)
}

// Analyze runs recognition on raw document bytes. The returned result's
// DocumentID is the hex MD5 of the bytes, so re-analyzing identical content
// yields the same id.
func (c *Client) Analyze(ctx context.Context, data []byte) (*AnalyzeResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	opURL, err := c.submit(ctx, data)
	if err != nil {
		return nil, err
	}
	result, err := c.poll(ctx, opURL)
	if err != nil {
		return nil, err
	}
	result.DocumentID = DocumentID(data)
	return result, nil
}

// DocumentID derives the content-hash identifier used to key a document's
// recognition results and regions.
func DocumentID(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

func (c *Client) submit(ctx context.Context, data []byte) (string, error) {
	q := url.Values{}
	q.Set("api-version", apiVersion)
	q.Set("outputContentFormat", "text")
	q.Set("features", strings.Join(analysisFeatures, ","))
	analyzeURL := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?%s", c.endpoint, c.model, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("analyze request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("analyze request rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	opURL := resp.Header.Get(operationHeader)
	if opURL == "" {
		return "", fmt.Errorf("analyze response missing %s header", operationHeader)
	}
	return opURL, nil
}

func (c *Client) poll(ctx context.Context, opURL string) (*AnalyzeResult, error) {
	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for {
		status, err := c.fetchStatus(ctx, opURL)
		if err != nil {
			return nil, err
		}
		switch status.Status {
		case "succeeded":
			if status.AnalyzeResult == nil {
				return nil, fmt.Errorf("analysis succeeded but returned no result")
			}
			return status.AnalyzeResult, nil
		case "failed":
			if status.Error != nil {
				return nil, fmt.Errorf("analysis failed: %s: %s", status.Error.Code, status.Error.Message)
			}
			return nil, fmt.Errorf("analysis failed")
		case "running", "notStarted":
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
			case <-ticker.C:
			}
		default:
			return nil, fmt.Errorf("unexpected analysis status %q", status.Status)
		}
	}
}

func (c *Client) fetchStatus(ctx context.Context, opURL string) (*operationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("status request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var status operationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}
