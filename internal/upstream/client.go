// Package upstream implements the HTTP client for the analytics API.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
)

// authHeader carries the API credential on every request.
const authHeader = "X-Analytics-Key"

// StatusError is returned for any non-2xx upstream response. The status
// code and body text are kept for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

// Client issues authenticated GET requests against the analytics API.
// No retries and no client-side timeout; the caller's context is the only
// bound on a request.
type Client struct {
	http *resty.Client
}

// New creates a client for the given base URL and credential. The
// credential must be non-empty; enforcing that is the caller's startup
// concern.
func New(baseURL, apiKey string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader(authHeader, apiKey).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Fetch issues a GET to path with params serialized as query parameters
// and returns the raw JSON body. Non-2xx statuses become *StatusError.
func (c *Client) Fetch(ctx context.Context, path string, params map[string]any) (json.RawMessage, error) {
	req := c.http.R().SetContext(ctx)
	req.SetQueryParamsFromValues(encodeQuery(params))

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return json.RawMessage(resp.Body()), nil
}

// encodeQuery serializes params into query values. List values use the
// repeated key[] convention; nil values are omitted entirely.
func encodeQuery(params map[string]any) url.Values {
	values := url.Values{}
	for key, val := range params {
		switch v := val.(type) {
		case nil:
			continue
		case []string:
			for _, item := range v {
				values.Add(key+"[]", item)
			}
		case []any:
			for _, item := range v {
				values.Add(key+"[]", stringify(item))
			}
		default:
			values.Add(key, stringify(v))
		}
	}
	return values
}

// stringify is the fixed textual representation for scalar parameters.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		// JSON numbers decode as float64; keep integers undecorated.
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
