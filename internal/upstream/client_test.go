package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalogview/internal/catalog"
)

const sampleBody = `[
  {
    "id": 4,
    "title": "Handmade Fresh Table",
    "slug": "handmade-fresh-table",
    "price": 687,
    "description": "Andy shoes are designed to keeping in...",
    "category": {"id": 5, "name": "Others", "image": "https://placehold.co/600x400", "slug": "others"},
    "images": ["https://placehold.co/600x400", "https://placehold.co/600x401"],
    "creationAt": "2023-01-03T15:58:58.000Z"
  },
  {
    "id": "abc-5",
    "title": "Classic Tee",
    "price": "19.5",
    "category": null,
    "images": []
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return newClient(srv.Client(), srv.URL+"/api/v1/products", 1<<20)
}

func TestClient_FetchProducts(t *testing.T) {
	t.Parallel()

	var gotMethod, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	})

	products, err := c.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, gotMethod)
	require.Empty(t, gotQuery)
	require.Len(t, products, 2)

	first := products[0]
	require.Equal(t, "4", first.ID)
	require.Equal(t, "Handmade Fresh Table", first.Title)
	require.Equal(t, "handmade-fresh-table", first.Slug)
	require.InDelta(t, 687.0, first.Price, 0.0001)
	require.Equal(t, &catalog.Category{Name: "Others", Image: "https://placehold.co/600x400"}, first.Category)
	require.Equal(t, []string{"https://placehold.co/600x400", "https://placehold.co/600x401"}, first.Images)

	second := products[1]
	require.Equal(t, "abc-5", second.ID)
	require.InDelta(t, 19.5, second.Price, 0.0001)
	require.Nil(t, second.Category)
	require.Empty(t, second.Images)
	require.Empty(t, second.Slug)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := c.FetchProducts(context.Background())
	var statusErr *catalog.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Equal(t, "FETCH002", catalog.MapError(err).Code)
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "object instead of array", body: `{"products": []}`},
		{name: "truncated", body: `[{"id": 1, "title": "x"`},
		{name: "trailing garbage", body: `[] extra`},
		{name: "element not an object", body: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchProducts(context.Background())
			require.ErrorIs(t, err, catalog.ErrMalformedBody)
			require.Equal(t, "FETCH003", catalog.MapError(err).Code)
		})
	}
}

func TestClient_BodyTooLarge(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + strings.Repeat(`{"id":1},`, 100) + `{"id":1}]`))
	}))
	t.Cleanup(srv.Close)

	c := newClient(srv.Client(), srv.URL, 64)
	_, err := c.FetchProducts(context.Background())
	require.ErrorIs(t, err, catalog.ErrMalformedBody)
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(http.DefaultClient, url, 1<<20)
	_, err := c.FetchProducts(context.Background())
	require.Error(t, err)
	require.Equal(t, "FETCH001", catalog.MapError(err).Code)
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchProducts(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	c := NewClient("https://api.example.com/products", 10)
	require.Equal(t, "https://api.example.com/products", c.url)
	require.EqualValues(t, 10, c.maxBody)
	require.NotNil(t, c.httpClient.Transport)
}
