// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datahub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/stockparfait/datahub/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the service. It may be overwritten in tests
// before creating a new client.
var URL = "https://eetc-data-hub-service-nb7ewdzv6q-ue.a.run.app/api"

// APIKeyHeader is the request header carrying the API key.
const APIKeyHeader = "EETC-API-Key"

// Client for querying EETC Data Hub.
type Client struct {
	baseURL    string // the base URL of the server
	apiKey     string // your very own secret key
	httpClient *http.Client
}

// Option configures a Client at construction.
type Option func(c *Client)

// WithURL overrides the base URL of the service.
func WithURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient sets the HTTP client for the requests. Without it, the client
// is taken from the request context (see fetch.UseClient), and falls back to
// http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new client. No request is made at this point: an empty
// key is an error, but whether a non-empty key is valid is only known to the
// service, and an invalid key fails the first query with *HTTPError.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.Reason("API key is required")
	}
	c := &Client{
		baseURL: URL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL of the service used by the client.
func (c *Client) BaseURL() string { return c.baseURL }

// UseClient injects the client into the context.
func UseClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, clientContextKey, c)
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// HTTPError is returned for any response with a status other than 200 OK.
type HTTPError struct {
	StatusCode int    // e.g. 404
	Status     string // e.g. "404 Not Found"
	URL        string // request URL
	Body       string // response body
}

var _ error = &HTTPError{}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s for url: %s: %s", e.Status, e.URL, e.Body)
}

// client for sending requests: the explicit one, or the one from the context,
// or http.DefaultClient.
func (c *Client) client(ctx context.Context) *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	// Tests will supply an httptest client in ctx.
	if hc := fetch.GetClient(ctx); hc != nil {
		return hc
	}
	return http.DefaultClient
}

// SendRequest issues a single GET request to the endpoint path relative to the
// base URL, with the query parameters and the API key header. On 200 OK the
// response is returned as is, and the caller must close its body. Any other
// status results in *HTTPError with the response body; transport errors are
// returned as they come from net/http.
func (c *Client) SendRequest(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	uri := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Annotate(err, "failed to create request for %s", uri)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	logging.Debugf(ctx, "EETC Data Hub: GET %s", req.URL)

	resp, err := c.client(ctx).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        req.URL.String(),
			Body:       string(body),
		}
	}
	return resp, nil
}

// get executes the query and decodes the response body. It also returns the
// flattened field names in the order of their first appearance.
func (c *Client) get(ctx context.Context, q Query) (Records, []string, error) {
	resp, err := c.SendRequest(ctx, q.Path(), q.Values())
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to read response from %s", q.Path())
	}
	records, fields, err := DecodeRecords(data)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to decode response from %s", q.Path())
	}
	logging.Infof(ctx, "EETC Data Hub: fetched %d records from %s",
		len(records), q.Path())
	return records, fields, nil
}

// Records executes the query and returns the decoded JSON records.
func (c *Client) Records(ctx context.Context, q Query) (Records, error) {
	records, _, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Table executes the query and returns its records as a table with the columns
// in the order the fields first appear. When the query has a sort column, the
// rows are sorted by it in ascending order.
func (c *Client) Table(ctx context.Context, q Query) (*table.Table, error) {
	records, fields, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	tbl := records.Table(fields)
	if col := q.SortColumn(); col != "" && tbl.Len() > 0 {
		if err := tbl.SortBy(col); err != nil {
			return nil, errors.Annotate(err, "failed to sort %s", q.Path())
		}
	}
	return tbl, nil
}
