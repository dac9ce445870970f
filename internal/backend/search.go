package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const DefaultTopK = 10

// SearchRequest is the body of a job search. Nil fields are sent as null.
type SearchRequest struct {
	CandID  *string `json:"cand_id"`
	Keyword *string `json:"keyword"`
	TopK    int     `json:"top_k"`
}

// SearchJobs returns the raw job objects ranked for the request.
// The elements are left untouched for the normalizer.
func (c *Client) SearchJobs(ctx context.Context, search SearchRequest) ([]any, error) {
	if search.TopK <= 0 {
		search.TopK = DefaultTopK
	}

	resp, err := c.request(ctx, "search", http.MethodPost, searchPath, func(r *resty.Request) {
		r.SetHeader("Content-Type", contentTypeJSON).SetBody(search)
	})
	if err != nil {
		return nil, err
	}

	body := resp.Body()
	failed := fmt.Sprintf("Search failed: %s", statusText(resp))

	if !isJSON(resp) {
		return nil, &ProtocolError{
			StatusCode: resp.StatusCode(),
			Message:    firstNonEmpty(string(body), failed),
		}
	}

	if !resp.IsSuccess() {
		return nil, &ApplicationError{
			StatusCode: resp.StatusCode(),
			Message:    firstNonEmpty(gjson.GetBytes(body, "detail").String(), failed),
		}
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, unexpected(resp.StatusCode(), "Search failed: malformed JSON response")
	}

	switch items := raw.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return items, nil
	default:
		return nil, unexpected(resp.StatusCode(), "Search failed: expected a list of jobs, got %T", raw)
	}
}
