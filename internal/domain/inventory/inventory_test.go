package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowStockPolicy(t *testing.T) {
	p := LowStockPolicy{Threshold: 3}
	assert.True(t, p.Breached(0))
	assert.True(t, p.Breached(3))
	assert.False(t, p.Breached(4))

	assert.True(t, LowStockPolicy{}.Breached(0))
	assert.False(t, LowStockPolicy{}.Breached(1))
}
