package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the parts of an HTTP response the harvester consumes.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client issues HTTP requests on behalf of source adapters. Implementations
// must honor the request context for timeouts and cancellation.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, method, url string, headers, params map[string]string) (Response, error)
}

type restyClient struct {
	c *resty.Client
}

type restyResponse struct {
	r *resty.Response
}

func (r restyResponse) StatusCode() int { return r.r.StatusCode() }
func (r restyResponse) Body() []byte    { return r.r.Body() }

// NewRestyClient returns a Client backed by resty with the given per-request
// timeout.
func NewRestyClient(timeout time.Duration) Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", "redian-harvester/1.0")
	return &restyClient{c: c}
}

// Get issues a GET request with the given headers.
func (rc *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	return rc.Do(ctx, "GET", url, headers, nil)
}

// Do issues a request with the given method, headers and query parameters.
func (rc *restyClient) Do(ctx context.Context, method, url string, headers, params map[string]string) (Response, error) {
	req := rc.c.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, err
	}
	return restyResponse{r: resp}, nil
}
