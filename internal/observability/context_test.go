package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDContext(t *testing.T) {
	t.Run("stores and retrieves correlation ID", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "corr-123")
		assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		assert.Equal(t, "", CorrelationIDFromContext(context.Background()))
	})
}
