package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-udaykiran/noteapp/internal/config"
)

// syncBuffer is written by the server goroutine and read by the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setStoreEnv(t *testing.T, conn string) {
	t.Helper()
	t.Setenv(config.PathEnv, "")
	t.Setenv("MONGODB_CONNECTION_STRING", conn)
	t.Setenv("MONGODB_DATABASE_NAME", "NoteAppDb")
	t.Setenv("MONGODB_COLLECTION_NAME", "Notes")
	t.Setenv("LOG_LEVEL", "warn")
}

func TestRun_MissingConnectionString(t *testing.T) {
	setStoreEnv(t, "")
	var stdout, stderr syncBuffer

	err := run(context.Background(), &stdout, &stderr)

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
	assert.Contains(t, cfgErr.Missing, "MongoDB.ConnectionString")
	assert.Empty(t, stdout.String())
}

func TestRun_ServesUntilCanceled(t *testing.T) {
	setStoreEnv(t, "memory://")
	t.Setenv("HTTP_ADDR", "127.0.0.1:0")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "2")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var stdout, stderr syncBuffer
	done := make(chan error, 1)
	go func() { done <- run(ctx, &stdout, &stderr) }()

	const prefix = "✅ NoteApp running on http://"
	require.Eventually(t, func() bool {
		return strings.HasPrefix(stdout.String(), prefix)
	}, 5*time.Second, 10*time.Millisecond)
	addr := strings.TrimSpace(strings.TrimPrefix(stdout.String(), prefix))

	resp, err := http.Get("http://" + addr + "/notes")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[]}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
