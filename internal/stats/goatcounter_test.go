package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHits(t *testing.T) {
	t.Run("Successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/stats/hits", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			assert.Equal(t, "2026-08-30", r.URL.Query().Get("start"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			w.Write([]byte(`{
				"total_count": 120,
				"total_unique": 80,
				"paths": [
					{"path": "/", "count": 100, "count_unique": 70},
					{"path": "/about", "count": 20, "count_unique": 10}
				]
			}`))
		}))
		defer server.Close()

		client := NewWithBaseURL(server.URL, "test-key")
		day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		hits, err := client.Hits(context.Background(), day, day, 5)

		require.NoError(t, err)
		assert.Equal(t, 120, hits.TotalCount)
		assert.Equal(t, 80, hits.TotalUnique)
		require.Len(t, hits.Paths, 2)
		assert.Equal(t, "/", hits.Paths[0].Path)
	})

	t.Run("Retries when rate limit is exhausted", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.Header().Set("X-Rate-Limit-Remaining", "0")
				w.Header().Set("X-Rate-Limit-Reset", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Header().Set("X-Rate-Limit-Remaining", "3")
			w.Write([]byte(`{"total_count": 1, "total_unique": 1}`))
		}))
		defer server.Close()

		client := NewWithBaseURL(server.URL, "test-key")
		day := time.Now()
		hits, err := client.Hits(context.Background(), day, day, 5)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 1, hits.TotalCount)
	})

	t.Run("API error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": "unknown site"}`))
		}))
		defer server.Close()

		client := NewWithBaseURL(server.URL, "test-key")
		client.maxAttempts = 1
		day := time.Now()
		_, err := client.Hits(context.Background(), day, day, 5)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown site")
	})

	t.Run("Gives up after max attempts", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewWithBaseURL(server.URL, "test-key")
		client.maxAttempts = 2
		day := time.Now()
		_, err := client.Hits(context.Background(), day, day, 5)

		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("Cancelled context stops retrying", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Rate-Limit-Remaining", "0")
			w.Header().Set("X-Rate-Limit-Reset", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		client := NewWithBaseURL(server.URL, "test-key")
		day := time.Now()
		_, err := client.Hits(ctx, day, day, 5)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
