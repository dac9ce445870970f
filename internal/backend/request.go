package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/metrics"
	"github.com/spigell/cvmatch/internal/utils"
)

const (
	contentTypeJSON = "application/json"
	maxLogLength    = 200
)

// request executes a prepared request and maps transport failures.
func (c *Client) request(ctx context.Context, endpoint, method, path string, prepare func(*resty.Request)) (*resty.Response, error) {
	if !c.Ready() {
		return nil, ErrNotReady
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: err}
		}
	}

	req := c.http.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}

	c.logger.Debug("make request", zap.String("method", method), zap.String("url", c.APIURL+path))

	start := time.Now()
	resp, err := req.Execute(method, path)
	metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug("got response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.String("content_type", resp.Header().Get("Content-Type")),
		zap.String("body_preview", utils.TruncateForLog(resp.String(), maxLogLength)),
	)

	return resp, nil
}

func isJSON(resp *resty.Response) bool {
	return strings.Contains(resp.Header().Get("Content-Type"), contentTypeJSON)
}

func statusText(resp *resty.Response) string {
	return http.StatusText(resp.StatusCode())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
