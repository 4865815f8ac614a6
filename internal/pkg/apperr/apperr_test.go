package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stockErr struct{}

func (stockErr) Error() string { return "short" }
func (stockErr) Kind() Kind    { return KindInsufficientStock }

func TestKindOf(t *testing.T) {
	sentinel := New(KindConflict, "account: username taken")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), KindInternal},
		{"sentinel", sentinel, KindConflict},
		{"wrapped sentinel", fmt.Errorf("register: %w", sentinel), KindConflict},
		{"validation helper", Validation("cart is empty"), KindValidation},
		{"classified type", fmt.Errorf("place: %w", stockErr{}), KindInsufficientStock},
		{"outermost wins", Wrap(KindNotFound, sentinel, "lookup"), KindNotFound},
		{"joined", errors.Join(errors.New("a"), NotFound("product %s", "p1")), KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "order: commit")

	assert.Equal(t, "order: commit: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, KindInternal))
	assert.Nil(t, Wrap(KindInternal, nil, "ignored"))
}
