// Package client implements the HTTP access to the authentication endpoint and to the
// portfolio API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/navdash"
	"go.uber.org/zap"
)

// DefaultTokenPath locates the token in the login response.
const DefaultTokenPath = "$.token"

// ErrNoToken is returned when a successful login response carries no token.
var ErrNoToken = errors.New("no token in login response")

// Client talks to the authentication service and the portfolio API.
type Client struct {
	http      *http.Client
	authURL   string
	apiURL    string
	tokenPath string
	timeout   time.Duration
	token     func() string
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped to tag and
// log requests.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout bounds every request, 0 means no timeout.
func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

// WithLogger sets the logger used to trace requests.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithTokenPath sets the json path of the token in the login response.
func WithTokenPath(path string) Option { return func(c *Client) { c.tokenPath = path } }

// WithToken sets the session token source. API requests carry the token as a bearer
// credential when it is not empty.
func WithToken(token func() string) Option { return func(c *Client) { c.token = token } }

// New returns a client for the authentication service at authURL and the portfolio API
// at apiURL.
func New(authURL, apiURL string, opts ...Option) (*Client, error) {
	c := &Client{
		http:      &http.Client{},
		authURL:   strings.TrimSuffix(authURL, "/"),
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		tokenPath: DefaultTokenPath,
		token:     func() string { return "" },
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, base := range []string{c.authURL, c.apiURL} {
		if _, err := url.Parse(base); err != nil {
			return nil, fmt.Errorf("invalid base url %q: %w", base, err)
		}
	}
	if _, err := jsonpath.New(c.tokenPath); err != nil {
		return nil, fmt.Errorf("invalid token path %q: %w", c.tokenPath, err)
	}

	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.http // do not alter the caller's client
	hc.Transport = &tracing{base: base, logger: c.logger}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c, nil
}

// Login posts the credentials to the authentication endpoint and returns the session
// token.
//
// Errors are a *navdash.RejectedError for a non-2xx answer, a *navdash.TransportError
// when the endpoint cannot be reached or its answer decoded, or ErrNoToken.
func (c *Client) Login(ctx context.Context, creds navdash.Credentials) (string, error) {
	const op = "login"
	payload, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("cannot encode credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("cannot create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &navdash.TransportError{Op: op, Err: err}
	}
	body, err := readAll(resp)
	if err != nil {
		return "", &navdash.TransportError{Op: op, Err: err}
	}

	// Both answers are JSON: an undecodable body fails like an unreachable server.
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return "", &navdash.TransportError{Op: op, Err: fmt.Errorf("cannot decode response: %w", err)}
	}
	if !isOK(resp.StatusCode) {
		return "", &navdash.RejectedError{Op: op, Status: resp.StatusCode, Message: serverMessage(body)}
	}

	token, err := c.extractToken(jobj)
	if err != nil {
		return "", err
	}
	c.logger.Debug("logged in", zap.String("username", creds.Username))
	return token, nil
}

// extractToken finds the token in the decoded login response.
func (c *Client) extractToken(jobj any) (string, error) {
	jval, err := jsonpath.Get(c.tokenPath, jobj)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrNoToken, c.tokenPath, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	token, ok := jval.(string)
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Portfolios lists all the portfolios of the current user.
func (c *Client) Portfolios(ctx context.Context) ([]navdash.Portfolio, error) {
	var portfolios []navdash.Portfolio
	if err := c.getJSON(ctx, "list portfolios", c.apiURL+"/portfolio", &portfolios); err != nil {
		return nil, err
	}
	return portfolios, nil
}

// PortfolioNAV fetches the NAV history of the portfolio id.
func (c *Client) PortfolioNAV(ctx context.Context, id int64) (*navdash.PortfolioDetail, error) {
	var detail navdash.PortfolioDetail
	addr := c.apiURL + "/portfolio/" + url.PathEscape(strconv.FormatInt(id, 10)) + "/nav"
	if err := c.getJSON(ctx, "fetch portfolio nav", addr, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
