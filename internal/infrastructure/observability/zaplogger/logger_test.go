package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core), observability.F("component", "test"))

	l.With(observability.F("order_id", "o1")).Warn("order_failed", observability.F("error", errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "order_failed", entries[0].Message)
	assert.Equal(t, "test", ctx["component"])
	assert.Equal(t, "o1", ctx["order_id"])
	assert.Equal(t, "boom", ctx["error"])
}
