package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lucas874/machine-go/observability"
)

// InitTracer's exporter dials lazily, so construction succeeds even with no
// collector listening; shutdown may still error trying to flush an empty
// batch over that connection; only construction is asserted here.
func TestInitTracerConstructsShutdownFunc(t *testing.T) {
	shutdown, err := observability.InitTracer("machine-go-test", "localhost:4317")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx)
}
