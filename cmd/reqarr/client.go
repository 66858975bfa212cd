package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/vmunix/reqarr/internal/api/v1"
	"github.com/vmunix/reqarr/internal/request"
)

// Client wraps HTTP calls to the reqarr server.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

// NewClient creates a new reqarr API client acting as userID.
func NewClient(serverURL, userID string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		userID:  userID,
		httpClient: &http.Client{
			// acquisitions wait on the PVR
			Timeout: 5 * time.Minute,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (c *Client) do(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set(v1.HeaderUserID, c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Code = body.Code
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

func (c *Client) patch(path string, body, result any) error {
	return c.do(http.MethodPatch, path, body, result)
}

func (c *Client) delete(path string) error {
	return c.do(http.MethodDelete, path, nil, nil)
}

// ListRequestsResponse mirrors the server's request listing.
type ListRequestsResponse struct {
	Items []*request.Request `json:"items"`
	Total int                `json:"total"`
}

// ListEventsResponse mirrors the server's event listing.
type ListEventsResponse struct {
	Items []v1.EventResponse `json:"items"`
	Total int                `json:"total"`
}

// CreateRequestBody is the body of POST /requests.
type CreateRequestBody struct {
	UserID  string `json:"user_id,omitempty"`
	MediaID int64  `json:"media_id"`
	Kind    string `json:"kind"`
	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Status  string `json:"status,omitempty"`
}

func (c *Client) Status() (*v1.StatusResponse, error) {
	var resp v1.StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Requests lists requests. status and forUser are optional filters.
func (c *Client) Requests(status, forUser string) (*ListRequestsResponse, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if forUser != "" {
		q.Set("user_id", forUser)
	}
	path := "/api/v1/requests"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ListRequestsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Request(id int64) (*request.Request, error) {
	var resp request.Request
	if err := c.get(fmt.Sprintf("/api/v1/requests/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateRequest(body CreateRequestBody) (*request.Request, error) {
	var resp request.Request
	if err := c.post("/api/v1/requests", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateRequest(id int64, status request.Status) (*request.Request, error) {
	var resp request.Request
	body := map[string]string{"status": string(status)}
	if err := c.patch(fmt.Sprintf("/api/v1/requests/%d", id), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteRequest(id int64) error {
	return c.delete(fmt.Sprintf("/api/v1/requests/%d", id))
}

// CountRequests counts a user's requests in the last days days; days <= 0 uses the
// server's window.
func (c *Client) CountRequests(forUser string, days int) (*v1.CountResponse, error) {
	path := "/api/v1/requests/count/" + url.PathEscape(forUser)
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var resp v1.CountResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MediaRequests(mediaID int64) (*ListRequestsResponse, error) {
	var resp ListRequestsResponse
	if err := c.get(fmt.Sprintf("/api/v1/requests/media/%d", mediaID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Quota(kind string) (*v1.QuotaResponse, error) {
	var resp v1.QuotaResponse
	if err := c.get("/api/v1/quota?kind="+url.QueryEscape(kind), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Acquire(body v1.AcquireBody) (*v1.AcquireResponse, error) {
	var resp v1.AcquireResponse
	if err := c.post("/api/v1/acquire", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Progress(kind string, mediaID int64, season *int) (*v1.ProgressResponse, error) {
	q := url.Values{}
	q.Set("kind", kind)
	q.Set("media_id", strconv.FormatInt(mediaID, 10))
	if season != nil {
		q.Set("season", strconv.Itoa(*season))
	}
	var resp v1.ProgressResponse
	if err := c.get("/api/v1/progress?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(since time.Time, limit int) (*ListEventsResponse, error) {
	q := url.Values{}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EntityEvents returns the history of one request or title.
func (c *Client) EntityEvents(entityType string, id int64) (*ListEventsResponse, error) {
	var resp ListEventsResponse
	path := fmt.Sprintf("/api/v1/events/%s/%d", url.PathEscape(entityType), id)
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
