// Package client is a typed Go client for the reminder API, plus a list cache
// that is invalidated after every successful mutation.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

// APIError is returned for any non-2xx response. Message is the server's message.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []models.FieldError
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return fmt.Sprintf("%d: %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the API served at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, status models.StatusFilter) ([]models.Reminder, error) {
	path := "/api/reminders"
	if status != "" && status != models.FilterAll {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var out []models.Reminder
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id int) (models.Reminder, error) {
	var out models.Reminder
	err := c.do(ctx, http.MethodGet, reminderPath(id), nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, payload models.InsertReminder) (models.Reminder, error) {
	var out models.Reminder
	err := c.do(ctx, http.MethodPost, "/api/reminders", payload, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id int, payload models.UpdateReminder) (models.Reminder, error) {
	var out models.Reminder
	err := c.do(ctx, http.MethodPut, reminderPath(id), payload, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, reminderPath(id), nil, nil)
}

func (c *Client) Toggle(ctx context.Context, id int) (models.Reminder, error) {
	var out models.Reminder
	err := c.do(ctx, http.MethodPatch, reminderPath(id)+"/toggle", nil, &out)
	return out, err
}

func (c *Client) Stats(ctx context.Context) (models.Summary, error) {
	var out models.Summary
	err := c.do(ctx, http.MethodGet, "/api/reminders/stats", nil, &out)
	return out, err
}

func reminderPath(id int) string {
	return "/api/reminders/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
