package http

import (
	"context"
	"encoding/json"
	"errors"
	gohttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSONWithToken(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		assert.Equal(t, gohttp.MethodPatch, r.Method)
		assert.Equal(t, "/api/admin/products/p1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["featured"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":200,"message":"OK","data":{"id":"p1","featured":true}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL + "/")
	c.SetToken("tok")
	resp, err := c.Patch("/api/admin/products/p1").Body(map[string]any{"featured": true}).Send(context.Background())
	require.NoError(t, err)
	require.NoError(t, resp.Throw())

	var got struct {
		ID       string `json:"id"`
		Featured bool   `json:"featured"`
	}
	require.NoError(t, resp.Data(&got))
	assert.Equal(t, "p1", got.ID)
	assert.True(t, got.Featured)
}

func TestThrowCarriesEnvelopeMessage(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.WriteHeader(gohttp.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Get("/api/auth/me").Send(context.Background())
	require.NoError(t, err)

	var se *StatusError
	require.True(t, errors.As(resp.Throw(), &se))
	assert.Equal(t, 401, se.Code)
	assert.Equal(t, "Unauthorized", se.Message)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(gohttp.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetry(3, time.Millisecond))
	resp, err := c.Get("/healthz").Send(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.EqualValues(t, 3, calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		calls.Add(1)
		w.WriteHeader(gohttp.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, WithRetry(3, time.Millisecond)).Post("/x").Body("raw").Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gohttp.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 1, calls.Load())
}
