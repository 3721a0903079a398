package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"pet-shop-platform/internal/platform/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_DecodesAndSendsQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "1,2", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"IdUser":1},{"IdUser":2}]`))
	}))
	defer ts.Close()

	c, err := httpclient.NewWithBaseURL(ts.URL+"/api", time.Second)
	require.NoError(t, err)

	var out []struct {
		IdUser int64 `json:"IdUser"`
	}
	err = c.DoJSON(context.Background(), http.MethodGet, "users", url.Values{"ids": {"1,2"}}, nil, &out)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.EqualValues(t, 2, out[1].IdUser)
}

func TestDoJSON_Non2xxReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	c := httpclient.New(time.Second)
	err := c.DoJSON(context.Background(), http.MethodGet, ts.URL+"/x", nil, nil, nil)
	require.Error(t, err)

	var he *httpclient.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, "nope", he.Body)
	assert.True(t, httpclient.IsStatus(err, http.StatusNotFound))
}

func TestDoJSON_RelativePathWithoutBaseURL(t *testing.T) {
	c := httpclient.New(0)
	err := c.DoJSON(context.Background(), http.MethodGet, "/users", nil, nil, nil)
	assert.EqualError(t, err, "httpclient: relative path requires BaseURL")
}

func TestNewWithBaseURL_Invalid(t *testing.T) {
	_, err := httpclient.NewWithBaseURL("::not a url", time.Second)
	assert.Error(t, err)
}
