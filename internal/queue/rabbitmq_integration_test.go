//go:build integration
// +build integration

package queue_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/iliyamo/eco-education/internal/queue"
	"github.com/iliyamo/eco-education/internal/service"
)

func TestPublishAndConsume(t *testing.T) {
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start rabbitmq container")
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)
	url := "amqp://guest:guest@" + host + ":" + port.Port() + "/"

	pub := service.NewAMQPPublisher(url)
	t.Cleanup(func() { _ = pub.Close() })
	require.NoError(t, pub.PublishPostLiked(ctx, queue.PostLikedEvent{PostID: 4, UserID: 1, LikeCount: 9, LikedAt: "2025-06-02T10:00:00Z"}))
	require.NoError(t, pub.PublishActivityLogged(ctx, queue.ActivityLoggedEvent{ActivityID: 2, UserID: 1, Type: "energy", CarbonSaved: 1, Date: "2025-06-02T11:00:00Z"}))

	dir := t.TempDir()
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- (&queue.Consumer{URL: url, LogDir: dir, Log: zap.NewNop()}).Run(runCtx)
	}()

	logFile := filepath.Join(dir, queue.EventLogFile)
	require.Eventually(t, func() bool {
		raw, err := os.ReadFile(logFile)
		return err == nil && strings.Count(string(raw), "\n") == 2
	}, 20*time.Second, 100*time.Millisecond)

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Post liked | post_id=4 | user_id=1 | like_count=9")
	assert.Contains(t, string(raw), "Activity logged | activity_id=2")

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(10 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
