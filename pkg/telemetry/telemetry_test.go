package telemetry

import (
	"context"
	"testing"

	"traveltix/internal/shared/config"
	"traveltix/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown := Setup("traveltix", config.TelemetryConfig{}, logger.Discard())
	assert.NoError(t, shutdown(context.Background()))
}
