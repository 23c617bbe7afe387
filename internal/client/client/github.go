package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/logging"
	"github.com/dmitrijs2005/ghbrowse/internal/metrics"
	"github.com/jpillora/backoff"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "ghbrowse"

	apiVersion    = "2022-11-28"
	maxRetries    = 3
	maxRetryAfter = 30 * time.Second
	maxBodyBytes  = 10 << 20
)

// Options configures a GitHubClient. Zero values select the defaults.
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	// HTTP is the base client; its Transport is kept, the timeout is set
	// from Timeout.
	HTTP   *http.Client
	Logger logging.Logger
}

// GitHubClient implements Client over the GitHub REST API.
type GitHubClient struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	log       logging.Logger

	// test seams
	newBackoff func() *backoff.Backoff
	sleep      func(ctx context.Context, d time.Duration) error
}

var _ Client = (*GitHubClient)(nil)

// NewGitHubClient validates opts and builds a client. With a token the
// requests are authenticated through an oauth2 static token source.
func NewGitHubClient(opts Options) (*GitHubClient, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := &http.Client{}
	if opts.HTTP != nil {
		copied := *opts.HTTP
		hc = &copied
	}
	if opts.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}
	hc.Timeout = timeout

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &GitHubClient{
		baseURL:    base,
		http:       hc,
		userAgent:  ua,
		log:        log,
		newBackoff: defaultBackoff,
		sleep:      sleepWithContext,
	}, nil
}

func defaultBackoff() *backoff.Backoff {
	return &backoff.Backoff{Min: 200 * time.Millisecond, Max: 5 * time.Second, Factor: 2, Jitter: true}
}

func (c *GitHubClient) FetchUsersPage(ctx context.Context, since, perPage int) ([]UserDTO, error) {
	q := url.Values{}
	q.Set("since", strconv.Itoa(since))
	q.Set("per_page", strconv.Itoa(perPage))

	var out []UserDTO
	if err := c.getJSON(ctx, "users", c.endpoint(q, "users"), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []UserDTO{}
	}
	return out, nil
}

func (c *GitHubClient) FetchUserDetail(ctx context.Context, username string) (*UserDetailDTO, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("fetch user detail: empty username")
	}

	var out UserDetailDTO
	if err := c.getJSON(ctx, "user", c.endpoint(nil, "users", username), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// endpoint appends the path segments to the base URL, escaping each one.
func (c *GitHubClient) endpoint(q url.Values, segments ...string) string {
	u := *c.baseURL
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.Join(segments, "/")
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *GitHubClient) getJSON(ctx context.Context, name, reqURL string, out any) (err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if ne := (*NetworkError)(nil); errors.As(err, &ne) {
			status = ne.Kind.String()
		}
		metrics.FetchesTotal.WithLabelValues(name, status).Inc()
		metrics.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.doRequest(ctx, name, reqURL)
	if err != nil {
		return transportError(err)
	}
	defer drainAndClose(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ne := &NetworkError{
			Kind:       KindHTTPStatus,
			StatusCode: resp.StatusCode,
			Body:       body,
			Message:    extractAPIErrorMessage(body),
		}
		if resp.StatusCode == http.StatusUnauthorized {
			ne.Kind = KindUnauthorized
		}
		c.log.Debug(ctx, "github request failed", "url", reqURL, "status", resp.StatusCode, "message", ne.Message)
		return ne
	}
	if !isJSONResponse(resp) {
		return &NetworkError{
			Kind:       KindInvalidResponse,
			StatusCode: resp.StatusCode,
			Body:       body,
			Err:        fmt.Errorf("content type %q", resp.Header.Get("Content-Type")),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &NetworkError{Kind: KindDecodingFailed, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *GitHubClient) doRequest(ctx context.Context, name, reqURL string) (*http.Response, error) {
	b := c.newBackoff()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("Content-Type", "application/json;charset=utf-8")
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt < maxRetries && shouldRetryError(ctx, err) {
				metrics.FetchRetriesTotal.WithLabelValues(name).Inc()
				c.log.Debug(ctx, "retrying github request", "url", reqURL, "attempt", attempt+1, "error", err)
				if err := c.sleep(ctx, b.Duration()); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}
		if attempt < maxRetries && shouldRetryStatus(resp) {
			drainAndClose(resp.Body)
			metrics.FetchRetriesTotal.WithLabelValues(name).Inc()
			c.log.Debug(ctx, "retrying github request", "url", reqURL, "attempt", attempt+1, "status", resp.StatusCode)
			d := retryAfter(resp)
			if d <= 0 {
				d = b.Duration()
			}
			if err := c.sleep(ctx, d); err != nil {
				return nil, err
			}
			continue
		}
		return resp, nil
	}
	return nil, errors.New("github request failed after retries")
}

func isJSONResponse(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func extractAPIErrorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	msg := strings.TrimSpace(string(body))
	if strings.HasPrefix(msg, "<!DOCTYPE html") || strings.HasPrefix(msg, "<html") {
		return ""
	}
	msg = strings.Join(strings.Fields(msg), " ")
	const maxLen = 300
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}
	return msg
}

func shouldRetryStatus(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func shouldRetryError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		d = time.Until(at)
	}
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainAndClose(r io.ReadCloser) {
	if r == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 1<<20))
	_ = r.Close()
}
