// Package backend talks to the CV parsing and job ranking HTTP service.
package backend

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIURL  = "http://localhost:8000"
	defaultTimeout = 30 * time.Second
	userAgent      = "spigell/cvmatch"

	uploadPath    = "/candidates/upload"
	candidatePath = "/api/candidates"
	searchPath    = "/search/jobs"
)

type Client struct {
	logger  *zap.Logger
	http    *resty.Client
	limiter *rate.Limiter
	APIURL  string
}

// New creates a client for apiURL. An empty apiURL yields a client that is
// not ready; callers check Ready before issuing requests.
func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")

	rc := resty.New().
		SetBaseURL(apiURL).
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", userAgent)

	if token != "" {
		rc.SetAuthToken(token)
	}

	return &Client{
		logger: logger,
		http:   rc,
		APIURL: apiURL,
	}
}

// Ready reports whether the API base is resolved.
func (c *Client) Ready() bool {
	return c != nil && c.APIURL != ""
}

func (c *Client) SetUserAgent(ua string) {
	if ua = strings.TrimSpace(ua); ua != "" {
		c.http.SetHeader("User-Agent", ua)
	}
}

func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.http.SetTimeout(d)
	}
}

// SetRateLimit limits outgoing requests. Zero or negative disables the limit.
func (c *Client) SetRateLimit(maxRequestsPerSecond float64) {
	if maxRequestsPerSecond <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}
