package govinfo_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markasoftware/cfr-court-opinions/govinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testClient(t *testing.T, host string, opts ...govinfo.Option) *govinfo.Client {
	t.Helper()
	opts = append([]govinfo.Option{
		govinfo.WithHost(host),
		govinfo.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
		govinfo.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}),
	}, opts...)
	return govinfo.NewClient("secret key", opts...)
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	t.Run("follows pagination cursors in arrival order", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The API key must ride along on every request, including
			// cursor-derived page URLs.
			require.Equal(t, "secret key", r.URL.Query().Get("api_key"))

			switch r.URL.Query().Get("offsetMark") {
			case "*":
				// Origin query parameters must survive into page one.
				assert.Equal(t, "USCOURTS", r.URL.Query().Get("collection"))
				assert.Equal(t, "1000", r.URL.Query().Get("pageSize"))
				assert.Equal(t, "/published/2025-01-01/2025-01-31", r.URL.Path)
				fmt.Fprintf(w, `{"nextPage": %q, "packages": [{"packageId": "USCOURTS-a", "title": "A v. B", "dateIssued": "2025-01-02"}]}`,
					server.URL+"/published/2025-01-01/2025-01-31?collection=USCOURTS&pageSize=1000&offsetMark=page2")
			case "page2":
				fmt.Fprintf(w, `{"nextPage": %q, "packages": [{"packageId": "USCOURTS-b"}]}`,
					server.URL+"/published/2025-01-01/2025-01-31?collection=USCOURTS&pageSize=1000&offsetMark=page3")
			case "page3":
				fmt.Fprint(w, `{"nextPage": null, "packages": [{"packageId": "USCOURTS-c"}]}`)
			default:
				t.Errorf("unexpected offsetMark %q", r.URL.Query().Get("offsetMark"))
			}
		}))
		defer server.Close()

		client := testClient(t, server.URL)

		pkgs, err := client.Search(context.Background(), 2025, 1)
		require.NoError(t, err)

		require.Len(t, pkgs, 3)
		assert.Equal(t, "USCOURTS-a", pkgs[0].PackageID)
		assert.Equal(t, "A v. B", pkgs[0].Title)
		assert.Equal(t, "2025-01-02", pkgs[0].DateIssued)
		assert.Equal(t, "USCOURTS-b", pkgs[1].PackageID)
		assert.Equal(t, "USCOURTS-c", pkgs[2].PackageID)
	})

	t.Run("December range ends on December 31", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/published/2024-12-01/2024-12-31", r.URL.Path)
			fmt.Fprint(w, `{"nextPage": null, "packages": []}`)
		}))
		defer server.Close()

		_, err := testClient(t, server.URL).Search(context.Background(), 2024, 12)
		require.NoError(t, err)
	})

	t.Run("fails fast on non-success status", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := testClient(t, server.URL).Search(context.Background(), 2025, 1)
		require.Error(t, err)
		assert.EqualValues(t, 1, calls.Load(), "JSON endpoints are not retried")
	})
}

func TestClient_DownloadZip(t *testing.T) {
	t.Parallel()

	t.Run("streams body to writer", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/packages/USCOURTS-a/zip", r.URL.Path)
			assert.Equal(t, "secret key", r.URL.Query().Get("api_key"))
			_, _ = w.Write([]byte("zip bytes"))
		}))
		defer server.Close()

		var buf bytes.Buffer
		err := testClient(t, server.URL).DownloadZip(context.Background(), "USCOURTS-a", &buf)
		require.NoError(t, err)
		assert.Equal(t, "zip bytes", buf.String())
	})

	t.Run("retries transient failures with bounded attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		var buf bytes.Buffer
		err := testClient(t, server.URL).DownloadZip(context.Background(), "USCOURTS-a", &buf)
		require.NoError(t, err)
		assert.EqualValues(t, 3, calls.Load())
		assert.Equal(t, "ok", buf.String())
	})

	t.Run("exhausted retries return the last error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		var buf bytes.Buffer
		err := testClient(t, server.URL).DownloadZip(context.Background(), "USCOURTS-a", &buf)
		require.Error(t, err)
		assert.EqualValues(t, 3, calls.Load(), "two configured delays mean three attempts")
	})
}
