package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesRating(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		_, err := New("r", "c", "p", rating, "")
		assert.ErrorIs(t, err, ErrInvalidRating, rating)
	}
	_, err := New("r", "", "p", 3, "")
	assert.ErrorIs(t, err, ErrMissingRef)

	r, err := New("r", "c", "p", 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Rating)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{AverageRating: 4.5, Count: 2}, Summarize([]int{4, 5}))
}
