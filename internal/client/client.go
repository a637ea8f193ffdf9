package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/foxxcyber/turismo/internal/models"
)

const defaultTimeout = 10 * time.Second

// ErrMissingLocation is returned by Create when the response names no record
var ErrMissingLocation = errors.New("create response has no Location header")

// APIError is a non-2xx response from the service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the service
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the turismo HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the service rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Page selects one page of the collection
type Page struct {
	Page int
	Size int
}

// List returns every record, or one page when page is non-nil
func (c *Client) List(ctx context.Context, page *Page) ([]models.Turismo, error) {
	path := "/api/turismo"
	if page != nil {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page.Page))
		q.Set("size", strconv.Itoa(page.Size))
		path += "?" + q.Encode()
	}

	var records []models.Turismo
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Get returns one record by id
func (c *Client) Get(ctx context.Context, id string) (*models.Turismo, error) {
	var rec models.Turismo
	if err := c.doJSON(ctx, http.MethodGet, "/api/turismo/"+url.PathEscape(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create adds a record and returns the id the service assigned
func (c *Client) Create(ctx context.Context, rec *models.Turismo) (string, error) {
	resp, _, err := c.do(ctx, http.MethodPost, "/api/turismo", rec)
	if err != nil {
		return "", err
	}
	loc := resp.Header.Get("Location")
	id := loc[strings.LastIndex(loc, "/")+1:]
	if id == "" {
		return "", ErrMissingLocation
	}
	return id, nil
}

// Update overwrites the fields of the record with the given id
func (c *Client) Update(ctx context.Context, id string, req *models.UpdateTurismoRequest) (string, error) {
	_, body, err := c.do(ctx, http.MethodPut, "/api/turismo/"+url.PathEscape(id), req)
	return string(body), err
}

// Delete removes the record with the given id
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	_, body, err := c.do(ctx, http.MethodDelete, "/api/turismo/"+url.PathEscape(id), nil)
	return string(body), err
}

// ByCommunity returns the grouped records of a community
func (c *Client) ByCommunity(ctx context.Context, community string) ([]models.Turismo, error) {
	var records []models.Turismo
	path := "/api/turismo/community/" + url.QueryEscape(community)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Communities returns the community names known to the grouped index
func (c *Client) Communities(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/turismo/communities", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	_, body, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) (*http.Response, []byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, body, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return resp, body, nil
}

// FilterByStartDate keeps records whose time range starts on date (YYYY-MM-DD).
// An empty date keeps everything.
func FilterByStartDate(records []models.Turismo, date string) []models.Turismo {
	if date == "" {
		return records
	}
	out := []models.Turismo{}
	for _, r := range records {
		if r.TimeRange != nil && r.TimeRange.FechaInicio == date {
			out = append(out, r)
		}
	}
	return out
}

// DestinationCommunities returns the distinct destination communities, sorted
func DestinationCommunities(records []models.Turismo) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, r := range records {
		if r.To == nil || seen[r.To.Comunidad] {
			continue
		}
		seen[r.To.Comunidad] = true
		names = append(names, r.To.Comunidad)
	}
	sort.Strings(names)
	return names
}
