package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/BloggingApp/blog-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsCleanlyOnShutdown(t *testing.T) {
	srv := New(config.ServerConfig{
		Port:        "0",
		Handler:     http.NotFoundHandler(),
		ReadTimeout: time.Second,
	})

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
