package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"socialnet-api/config"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitEnabled(t *testing.T) {
	// The exporter connects lazily, so no collector is needed here.
	shutdown, err := Init(context.Background(), config.TracingConfig{
		Enabled:     true,
		Endpoint:    "127.0.0.1:4318",
		ServiceName: "socialnet-test",
		Insecure:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
}
