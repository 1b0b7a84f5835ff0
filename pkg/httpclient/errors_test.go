package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("  no such route \n")),
	}

	err := ParseResponseError(resp, "catalog")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "catalog", se.Upstream)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "no such route", se.Body)
	assert.Equal(t, "catalog returned status 404: no such route", err.Error())
}

func TestStatusError_EmptyBody(t *testing.T) {
	err := &StatusError{Upstream: "catalog", StatusCode: 500}
	assert.Equal(t, "catalog returned status 500", err.Error())
}

func TestStatusCode(t *testing.T) {
	wrapped := fmt.Errorf("fetch: %w", &StatusError{StatusCode: 418})
	assert.Equal(t, 418, StatusCode(wrapped))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

type payload struct {
	Result []map[string]any `json:"result"`
}

func TestGetJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"result":[{"id":1}]}`))
	}))
	defer server.Close()

	var dst payload
	err := GetJSON(context.Background(), New(singleShotConfig()), "catalog", server.URL, 1<<20, &dst)
	require.NoError(t, err)
	require.Len(t, dst.Result, 1)
}

func TestGetJSON_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	var dst payload
	err := GetJSON(context.Background(), New(singleShotConfig()), "catalog", server.URL, 1<<20, &dst)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
}

func TestGetJSON_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	var dst payload
	err := GetJSON(context.Background(), New(singleShotConfig()), "catalog", server.URL, 1<<20, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog response")
}

func TestGetJSON_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"id":1},{"id":2},{"id":3}]}`))
	}))
	defer server.Close()

	var dst payload
	err := GetJSON(context.Background(), New(singleShotConfig()), "catalog", server.URL, 10, &dst)
	require.Error(t, err)
}
