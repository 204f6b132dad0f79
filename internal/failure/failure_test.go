package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	netErr := errors.New("connection refused")

	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{name: "service failure", err: Service("search", netErr), expected: ServiceFailure},
		{name: "validation failure", err: Validation("search", "city is required"), expected: ValidationFailure},
		{name: "wrapped failure", err: fmt.Errorf("handler: %w", Service("trends", netErr)), expected: ServiceFailure},
		{name: "plain error", err: netErr, expected: 0},
		{name: "nil", err: nil, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	netErr := errors.New("connection refused")
	err := Service("search", netErr)

	assert.True(t, errors.Is(err, netErr))
	assert.True(t, IsService(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "search: service_failure: connection refused", err.Error())
}
