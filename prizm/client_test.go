package prizm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/pcode/", 2*time.Second)
}

func TestGetSegmentRequestShape(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("postal_code")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"format":"unique","data":15}`))
	})

	r, err := c.GetSegment(context.Background(), "M5V 2T6")
	require.NoError(t, err)
	assert.Equal(t, Unique, r.Kind)
	assert.Equal(t, 15, r.SegmentCode)

	assert.Equal(t, "/api/pcode/get_segment", gotPath)
	assert.Equal(t, "M5V 2T6", gotQuery)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetSegmentNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.GetSegment(context.Background(), "00000")
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, http.StatusNotFound, lerr.Status)
	assert.Equal(t, "00000", lerr.PostalCode)
}

func TestGetSegmentMalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := c.GetSegment(context.Background(), "10001")
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, http.StatusOK, lerr.Status)
}

func TestGetSegmentUnrecognizedFormat(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"format":"po_box","data":1}`))
	})

	r, err := c.GetSegment(context.Background(), "10001")
	var lerr *LookupError
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, Unrecognized, r.Kind)
	assert.Contains(t, lerr.Error(), "po_box")
}

func TestGetSegmentCanceled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"format":"unique","data":1}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetSegment(ctx, "10001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
