package policy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "unauthorized maps to auth error",
			err:      &azcore.ResponseError{StatusCode: 401, ErrorCode: "InvalidAuthenticationToken"},
			sentinel: ErrAuth,
		},
		{
			name:     "forbidden maps to auth error",
			err:      &azcore.ResponseError{StatusCode: 403, ErrorCode: "AuthorizationFailed"},
			sentinel: ErrAuth,
		},
		{
			name:     "not found maps to scope error",
			err:      &azcore.ResponseError{StatusCode: 404, ErrorCode: "ResourceGroupNotFound"},
			sentinel: ErrScopeNotFound,
		},
		{
			name:     "unknown subscription maps to scope error",
			err:      &azcore.ResponseError{StatusCode: 400, ErrorCode: "SubscriptionNotFound"},
			sentinel: ErrScopeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.sentinel)
		})
	}

	t.Run("wrapped response errors are still classified", func(t *testing.T) {
		err := fmt.Errorf("failed to query policy states: %w",
			&azcore.ResponseError{StatusCode: 401})
		assert.ErrorIs(t, classify(err), ErrAuth)
	})

	t.Run("other API errors pass through verbatim", func(t *testing.T) {
		err := &azcore.ResponseError{StatusCode: 500, ErrorCode: "InternalServerError"}
		got := classify(err)
		assert.NotErrorIs(t, got, ErrAuth)
		assert.NotErrorIs(t, got, ErrScopeNotFound)
		assert.Equal(t, err, got)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, classify(nil))
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		err := errors.New("dial tcp: connection refused")
		assert.Equal(t, err, classify(err))
	})
}
