package testkit_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/testkit"
)

// sessionHandler issues a cookie on /login and only answers /me when it
// comes back.
var sessionHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/health":
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	case "/login":
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		_, _ = w.Write([]byte(`{"status":200,"data":{"token":"t-1","user":{"id":"u1"}}}`))
	case "/logout":
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	case "/me":
		if c, err := r.Cookie("sid"); err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":401,"message":"Unauthenticated"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":200,"data":{"id":"u1","roles":["admin"]}}`))
	case "/echo":
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"message":"Route not found"}`))
	}
})

func writeJSON(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "health.json", map[string]interface{}{
		"name": "health", "requestUrl": "/health", "expectedCode": 200,
		"expectedFields": map[string]interface{}{"status": "ok"},
	})
	writeJSON(t, dir, "unknown.json", map[string]interface{}{
		"name": "unknown route", "requestUrl": "/nope", "expectedCode": 404,
		"expectedFields": map[string]interface{}{"message": "Route not found"},
	})

	testkit.RunDir(t, sessionHandler, dir)
}

func TestFlowCarriesCookiesAndCaptures(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "flow.json", []map[string]interface{}{
		{"name": "anonymous", "requestUrl": "/me", "expectedCode": 401},
		{
			"name": "login", "requestMethod": "post", "requestUrl": "/login",
			"capture": map[string]string{"token": "data.token", "userId": "data.user.id"},
		},
		{
			"name": "me", "requestUrl": "/me",
			"expectedFields": map[string]interface{}{"data.id": "u1", "data.roles.#": 1.0, "data.roles.0": "admin"},
		},
		{"name": "logout", "requestMethod": "POST", "requestUrl": "/logout", "expectedCode": 204},
		{"name": "anonymous again", "requestUrl": "/me", "expectedCode": 401},
	})

	flow := testkit.NewFlow(sessionHandler)
	flow.RunFile(t, path)

	assert.Equal(t, "t-1", flow.Var("token"))
	assert.Equal(t, "u1", flow.Var("userId"))
	assert.Nil(t, flow.Cookie("sid"))
}

func TestFlowExpandsPlaceholders(t *testing.T) {
	flow := testkit.NewFlow(sessionHandler)
	flow.Set("id", "p-42")

	rec := flow.Run(t, &testkit.Scenario{
		Name:           "echo",
		RequestMethod:  http.MethodPost,
		RequestURL:     "/echo",
		RequestBody:    json.RawMessage(`{"id":"{{id}}","featured":true}`),
		ExpectedCode:   http.StatusOK,
		ExpectedFields: map[string]interface{}{"id": "p-42", "featured": true},
	})
	assert.JSONEq(t, `{"id":"p-42","featured":true}`, rec.Body.String())
}

func TestLookup(t *testing.T) {
	var doc interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"data":{"items":[{"slug":"a"},{"slug":"b"}],"meta":null}}`), &doc))

	v, ok := testkit.Lookup(doc, "data.items.1.slug")
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = testkit.Lookup(doc, "data.items.#")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	v, ok = testkit.Lookup(doc, "data.meta")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = testkit.Lookup(doc, "data.items.5.slug")
	assert.False(t, ok)
	_, ok = testkit.Lookup(doc, "data.items.x")
	assert.False(t, ok)
}

func TestMockTransportURLMatching(t *testing.T) {
	body := base64.StdEncoding.EncodeToString([]byte(`{"status":200,"data":{"token":"x"}}`))
	mt := testkit.NewMockTransport(&testkit.Scenario{
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{{
			Method:     "httprequest",
			IsMock:     true,
			MatchURL:   "https://shop.example.com/api/auth",
			ReturnData: testkit.MockReturnData{StatusCode: 200, Body: body},
		}},
	})
	client := &http.Client{Transport: mt}

	resp, err := client.Post("https://shop.example.com/api/auth/login", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	got, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"status":200,"data":{"token":"x"}}`, string(got))

	assert.Empty(t, mt.AssertAllCalled())
}

func TestMockTransportUnmatchedCallFails(t *testing.T) {
	mt := testkit.NewMockTransport(&testkit.Scenario{
		IsMockRequired: true,
		NetUtilMockStep: []testkit.MockStep{{
			Method: "httprequest", IsMock: true, MatchURL: "https://s3.example.com/",
		}},
	})
	client := &http.Client{Transport: mt}

	_, err := client.Get("https://elsewhere.example.com/")
	assert.Error(t, err)
	assert.Len(t, mt.AssertAllCalled(), 1)
}

func TestLoadScenarioRejectsUnknownMock(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "bad.json", map[string]interface{}{
		"name": "bad", "requestUrl": "/x", "expectedCode": 200,
		"netUtilMockStep": []map[string]interface{}{{"method": "sendmail"}},
	})
	_, err := testkit.LoadScenario(path)
	assert.Error(t, err)

	path = writeJSON(t, dir, "nourl.json", map[string]interface{}{"name": "no url", "expectedCode": 200})
	_, err = testkit.LoadScenario(path)
	assert.Error(t, err)
}

func TestAssertJSONBody(t *testing.T) {
	s := &testkit.Scenario{Name: "json"}
	testkit.AssertJSONBody(t, s,
		[]byte(`{"b":[1,2],"a":"x"}`),
		[]byte(`{ "a": "x", "b": [1, 2] }`))

	diffs := testkit.DiffJSON("", map[string]interface{}{"a": "x"}, map[string]interface{}{"a": "y"})
	require.Len(t, diffs, 1)
	assert.Contains(t, diffs[0], "root.a")
}
