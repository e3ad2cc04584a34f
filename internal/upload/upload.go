// Package upload sends encoded screenshots to the hosting API.
//
// The request body is JSON with the image inlined as base64:
//
//	{"contentType": "image/png", "imageDataAsBase64String": "...", "key": "..."}
//
// and the hosted URL is read from the response at a configurable gjson path.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// DefaultResultPath is where the hosted URL sits in the response.
const DefaultResultPath = "UploadFileToS3BucketResult"

const (
	maxErrorBody = 512
	// MaxResponseBody caps how much of the API response is read.
	MaxResponseBody = 1 << 20
)

var (
	ErrNoEndpoint = errors.New("upload endpoint not configured")
	ErrStatus     = errors.New("unexpected upload response status")
	ErrNoURL      = errors.New("upload response has no URL")
	ErrTooLarge   = errors.New("upload response too large")
)

// Request is the JSON body posted to the hosting API.
type Request struct {
	ContentType string `json:"contentType"`
	Data        string `json:"imageDataAsBase64String"`
	Key         string `json:"key"`
}

// Options configures a Client.
type Options struct {
	Endpoint string
	// Token is sent as a bearer token when non-empty.
	Token string
	// Cookie is sent verbatim in the Cookie header when non-empty.
	Cookie     string
	ResultPath string
	// KeepNames uses the file's base name as key instead of a unique one.
	KeepNames bool
	Timeout   time.Duration
	Logger    logrus.FieldLogger
}

// Client uploads files to the hosting API.
type Client struct {
	httpClient *http.Client
	opts       Options
	log        logrus.FieldLogger
}

// NewClient builds a client. Credentials travel through an oauth2 static
// token source so they are attached per request and never logged.
func NewClient(opts Options) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if opts.ResultPath == "" {
		opts.ResultPath = DefaultResultPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	base := &http.Client{Timeout: opts.Timeout}
	hc := base
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}))
		hc.Timeout = opts.Timeout
	}

	return &Client{httpClient: hc, opts: opts, log: log}, nil
}

// Upload posts the file at path and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return c.UploadBytes(ctx, c.key(path), data)
}

// UploadBytes posts data under key and returns the hosted URL.
func (c *Client) UploadBytes(ctx context.Context, key string, data []byte) (string, error) {
	body, err := json.Marshal(Request{
		ContentType: mimetype.Detect(data).String(),
		Data:        base64.StdEncoding.EncodeToString(data),
		Key:         key,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.opts.Cookie != "" {
		req.Header.Set("Cookie", c.opts.Cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBody+1))
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}
	if len(respBody) > MaxResponseBody {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxResponseBody)
	}
	c.log.WithFields(logrus.Fields{
		"key":      key,
		"bytes":    len(data),
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("upload finished")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, excerpt(respBody))
	}
	return ParseURL(respBody, c.opts.ResultPath)
}

// ParseURL extracts the hosted URL from a response body.
func ParseURL(body []byte, path string) (string, error) {
	if path == "" {
		path = DefaultResultPath
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: response is not JSON: %s", ErrNoURL, excerpt(body))
	}
	res := gjson.GetBytes(body, path)
	if !res.Exists() || res.String() == "" {
		return "", fmt.Errorf("%w: field %q missing", ErrNoURL, path)
	}
	return res.String(), nil
}

func (c *Client) key(path string) string {
	name := filepath.Base(path)
	if c.opts.KeepNames {
		return name
	}
	return uuid.NewString() + "_" + name
}

func excerpt(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
