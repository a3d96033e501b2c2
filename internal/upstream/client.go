// Package upstream fetches the product catalog from the remote product API.
//
// It is the boundary between the remote JSON shape and [catalog.Product]:
// the decoder is lenient about field types the API is known to vary on
// (numeric or string ids, string or null prices) and strict about the
// overall document being a JSON array.
package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/JonMunkholm/catalogview/internal/catalog"
)

// errorBodyLimit bounds how much of a non-2xx body is drained before closing.
const errorBodyLimit = 64 << 10

var _ catalog.Source = (*Client)(nil)

// Client retrieves the product list with one unauthenticated GET.
type Client struct {
	httpClient *http.Client
	url        string
	maxBody    int64
}

// NewClient returns a Client for the given product listing URL.
// Outbound requests are traced with otelhttp.
func NewClient(apiURL string, maxBody int64) *Client {
	return newClient(
		&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		apiURL,
		maxBody,
	)
}

// newClient lets tests inject the http.Client.
func newClient(httpClient *http.Client, apiURL string, maxBody int64) *Client {
	return &Client{
		httpClient: httpClient,
		url:        apiURL,
		maxBody:    maxBody,
	}
}

// FetchProducts implements catalog.Source.
func (c *Client) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request products")
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			slog.Warn("failed to close upstream response body", "error", closeErr)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, errorBodyLimit))
		return nil, &catalog.StatusError{StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody+1))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if int64(len(body)) > c.maxBody {
		return nil, errors.Wrapf(catalog.ErrMalformedBody, "body exceeds %d bytes", c.maxBody)
	}

	products, err := DecodeProducts(body)
	if err != nil {
		return nil, err
	}
	return products, nil
}
