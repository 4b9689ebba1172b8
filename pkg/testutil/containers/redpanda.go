//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer is a Kafka-compatible broker for webhook sink tests.
type RedpandaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

func newRedpandaContainer(t *testing.T) *RedpandaContainer {
	t.Helper()
	ctx := context.Background()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4",
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		t.Fatalf("start redpanda container: %v", err)
	}
	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redpanda seed broker: %v", err)
	}
	return &RedpandaContainer{Container: container, Brokers: []string{broker}}
}

// NewIsolatedRedpanda starts a broker outside the shared manager so a test can
// stop it without affecting other suites. It is terminated on cleanup.
func NewIsolatedRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	c := newRedpandaContainer(t)
	t.Cleanup(func() {
		_ = c.Container.Terminate(context.Background())
	})
	return c
}
