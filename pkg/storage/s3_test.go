package storage

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircon-store/storefront/pkg/testkit"
)

func newMockS3(t *testing.T, mt *testkit.MockTransport) *S3Disk {
	t.Helper()
	d, err := NewS3(context.Background(), S3Config{
		Bucket:     "media",
		Region:     "ap-southeast-1",
		Key:        "test-key",
		Secret:     "test-secret",
		Endpoint:   "https://s3.test.local",
		URL:        "https://cdn.test.local/",
		HTTPClient: &http.Client{Transport: mt},
	})
	require.NoError(t, err)
	return d
}

func TestS3PutUploadsThroughManager(t *testing.T) {
	mt := testkit.NewMockTransport(&testkit.Scenario{IsMockRequired: true}).
		On(http.MethodPut, "https://s3.test.local/media/1700000000000-a.png", http.StatusOK, "", map[string]string{"ETag": `"abc"`})
	d := newMockS3(t, mt)

	content := []byte("\x89PNG\r\n\x1a\n-fake-image-bytes")
	require.NoError(t, d.Put(context.Background(), "1700000000000-a.png", bytes.NewReader(content), "image/png"))

	calls := mt.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "image/png", calls[0].Header.Get("Content-Type"))
	assert.True(t, bytes.Contains(calls[0].Body, content))
	assert.Empty(t, mt.AssertAllCalled())

	assert.Equal(t, "https://cdn.test.local/1700000000000-a.png", d.URL("1700000000000-a.png"))
	assert.Equal(t, "s3", d.Name())
}

func TestS3DeleteChecksExistence(t *testing.T) {
	mt := testkit.NewMockTransport(&testkit.Scenario{IsMockRequired: true}).
		On(http.MethodHead, "https://s3.test.local/media/old.png", http.StatusOK, "", nil).
		On(http.MethodDelete, "https://s3.test.local/media/old.png", http.StatusNoContent, "", nil)
	d := newMockS3(t, mt)

	require.NoError(t, d.Delete(context.Background(), "old.png"))

	var methods []string
	for _, c := range mt.Calls() {
		methods = append(methods, c.Method)
	}
	assert.Equal(t, []string{http.MethodHead, http.MethodDelete}, methods)
}

func TestS3RejectsBadPathsWithoutCalling(t *testing.T) {
	mt := testkit.NewMockTransport(&testkit.Scenario{IsMockRequired: true})
	d := newMockS3(t, mt)

	err := d.Put(context.Background(), "../escape.png", strings.NewReader("x"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.Empty(t, mt.Calls())
}

func TestS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{Region: "ap-southeast-1"})
	assert.Error(t, err)
}
