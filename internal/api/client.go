package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout = 30 * time.Second

	// SpreadsheetContentType is the content type of a successful bulk export.
	SpreadsheetContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxErrorBody = 1 << 20
)

// Middleware transforms an outgoing request before it is sent. Middleware is
// composed explicitly at client construction; the client holds no process-wide
// mutable state.
type Middleware func(*http.Request)

// BearerToken returns a middleware attaching a bearer credential resolved
// through lookup at request time.
func BearerToken(lookup func() string) Middleware {
	return func(req *http.Request) {
		if tok := lookup(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
}

// Client talks to the backend query and export APIs. All calls share a fixed
// timeout and are never retried; a failed call surfaces to the caller.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	middleware []Middleware
	logger     *zap.Logger
}

type Option func(*Client)

func WithMiddleware(m ...Middleware) Option {
	return func(c *Client) { c.middleware = append(c.middleware, m...) }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q missing scheme or host", baseURL)
	}

	c := &Client{
		base:       u,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchProjects queries the project collection. Scope partitioning follows
// the same rules as the other collections even though the backend currently
// returns the full set for the unscoped query.
func (c *Client) FetchProjects(ctx context.Context, scope []string, query url.Values) ([]Project, error) {
	return fetchPartitioned[Project](ctx, c, CollectionProjects, scope, query)
}

// FetchInvoices issues one query per scoped project, or a single unscoped
// query when scope is empty, and concatenates the results in scope order.
func (c *Client) FetchInvoices(ctx context.Context, scope []string, query url.Values) ([]Invoice, error) {
	return fetchPartitioned[Invoice](ctx, c, CollectionInvoices, scope, query)
}

// FetchElements behaves like FetchInvoices for the element collection.
func (c *Client) FetchElements(ctx context.Context, scope []string, query url.Values) ([]Element, error) {
	return fetchPartitioned[Element](ctx, c, CollectionElements, scope, query)
}

// Subelements fetches the measurement rows beneath one element.
func (c *Client) Subelements(ctx context.Context, elementID int64) ([]Subelement, error) {
	var out []Subelement
	err := c.get(ctx, []string{"api", "subelements", fmt.Sprintf("%d", elementID)}, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// fetchPartitioned fans one request out per scope partition concurrently and
// concatenates the successful payloads preserving partition order. Any
// partition failing fails the whole batch; partial data is never returned.
func fetchPartitioned[T any](ctx context.Context, c *Client, col Collection, scope []string, query url.Values) ([]T, error) {
	parts := scope
	if len(parts) == 0 {
		parts = []string{""}
	}

	results := make([][]T, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		segments := []string{"api", string(col)}
		if part != "" {
			segments = append(segments, part)
		}
		g.Go(func() error {
			var out []T
			if err := c.get(gctx, segments, query, &out); err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []T
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// DownloadSelected requests a bulk spreadsheet artifact for the given record
// identifiers. The backend's error contract overloads the download channel:
// an error can arrive with a success status and a JSON content type, so the
// payload is sniffed before it is accepted as an artifact.
func (c *Client) DownloadSelected(ctx context.Context, col Collection, ids []string) (*Artifact, error) {
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	body, err := json.Marshal(map[string][]string{"selectedIds": ids})
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}

	u := c.base.JoinPath("api", "download_selected", string(col))
	op := "POST " + u.Path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", SpreadsheetContentType)
	for _, m := range c.middleware {
		m(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("download failed", zap.String("op", op), zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	ct := resp.Header.Get("Content-Type")
	c.logger.Debug("download",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", ct),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if msg := sniffErrorPayload(data, ct); msg != "" {
		return nil, &AppError{Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Op: op, Status: resp.StatusCode}
	}
	if strings.HasPrefix(ct, "application/json") {
		// A 200 with a JSON body is an application failure, not an artifact.
		return nil, &AppError{Message: "backend returned JSON instead of a spreadsheet"}
	}
	return &Artifact{Data: data, ContentType: ct}, nil
}

func (c *Client) get(ctx context.Context, segments []string, query url.Values, out any) error {
	u := c.base.JoinPath(segments...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	op := "GET " + u.Path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for _, m := range c.middleware {
		m(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("op", op),
		zap.String("query", u.RawQuery),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if msg := sniffErrorPayload(data, resp.Header.Get("Content-Type")); msg != "" {
			return &AppError{Message: msg}
		}
		return &TransportError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// sniffErrorPayload extracts the message from a backend `{"error": ...}`
// payload. It accepts both a JSON content type and an unlabeled JSON body,
// since error payloads sometimes travel under the spreadsheet content type's
// Accept negotiation.
func sniffErrorPayload(data []byte, contentType string) string {
	trimmed := bytes.TrimSpace(data)
	isJSONType := strings.HasPrefix(contentType, "application/json")
	looksJSON := len(trimmed) > 0 && trimmed[0] == '{'
	if !isJSONType && !looksJSON {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return ""
	}
	return payload.Error
}
