package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/cvmatch/internal/candidate"
)

const (
	uploadFailedMessage      = "Upload failed"
	candidateNotFoundMessage = "Candidate not found"
	uploadField              = "file"
)

// UploadCV sends a CV file as multipart field "file" and returns the parsed candidate.
func (c *Client) UploadCV(ctx context.Context, filename, contentType string, file io.Reader) (*candidate.Candidate, error) {
	resp, err := c.request(ctx, "upload", http.MethodPost, uploadPath, func(r *resty.Request) {
		r.SetMultipartField(uploadField, filename, contentType, file)
	})
	if err != nil {
		return nil, err
	}

	body := resp.Body()

	// Proxies and misconfigured servers answer with HTML or plain text.
	if !isJSON(resp) {
		return nil, &ProtocolError{
			StatusCode: resp.StatusCode(),
			Message:    firstNonEmpty(string(body), uploadFailedMessage),
		}
	}

	if !gjson.ValidBytes(body) {
		return nil, unexpected(resp.StatusCode(), "%s: malformed JSON response", uploadFailedMessage)
	}

	parsed := gjson.ParseBytes(body)
	payload := parsed.Get("candidate")

	if resp.IsSuccess() && parsed.Get("success").Bool() && payload.IsObject() {
		cand, err := decodeCandidate(payload.Raw)
		if err != nil {
			return nil, unexpected(resp.StatusCode(), "%s: %s", uploadFailedMessage, err)
		}

		c.logger.Info("cv uploaded",
			zap.String("candidate_id", cand.ID),
			zap.String("message", parsed.Get("message").String()),
		)

		return cand, nil
	}

	return nil, &ApplicationError{
		StatusCode: resp.StatusCode(),
		Message: firstNonEmpty(
			parsed.Get("error").String(),
			parsed.Get("detail").String(),
			statusText(resp),
			uploadFailedMessage,
		),
	}
}

// GetCandidate fetches a stored candidate record.
func (c *Client) GetCandidate(ctx context.Context, id string) (*candidate.Candidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("candidate id is required")
	}

	path := fmt.Sprintf("%s/%s", candidatePath, url.PathEscape(id))

	resp, err := c.request(ctx, "candidate", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	body := resp.Body()

	if !resp.IsSuccess() {
		detail := ""
		if isJSON(resp) {
			detail = gjson.GetBytes(body, "detail").String()
		}
		return nil, &ApplicationError{
			StatusCode: resp.StatusCode(),
			Message:    firstNonEmpty(detail, candidateNotFoundMessage),
		}
	}

	if !isJSON(resp) || !gjson.ValidBytes(body) {
		return nil, unexpected(resp.StatusCode(), "candidate %s: unexpected response", id)
	}

	cand, err := decodeCandidate(string(body))
	if err != nil {
		return nil, unexpected(resp.StatusCode(), "candidate %s: %s", id, err)
	}

	return cand, nil
}

func decodeCandidate(raw string) (*candidate.Candidate, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return candidate.Decode(data)
}
